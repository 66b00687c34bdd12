package models

import "time"

// TransactionItem is a single line of a recorded sale.
type TransactionItem struct {
	ID            uint   `json:"-" gorm:"primaryKey"`
	TransactionID string `json:"-" gorm:"type:varchar(36);index"`
	ProductID     string `json:"productId" gorm:"type:varchar(36);index"`
	Nama          string `json:"nama"`  // Product name at the time of sale
	Qty           int    `json:"qty"`
	Harga         int64  `json:"harga"` // Price at the time of sale
}

// Transaction represents a recorded sale.
type Transaction struct {
	ID        string            `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Tanggal   time.Time         `json:"tanggal" gorm:"index"`
	Pelanggan string            `json:"pelanggan"`
	Total     int64             `json:"total"`
	Items     []TransactionItem `json:"items" gorm:"foreignKey:TransactionID"`
}

// TransactionInput is the request body for recording a sale.
type TransactionInput struct {
	Pelanggan string                 `json:"pelanggan" validate:"max=100"`
	Items     []TransactionItemInput `json:"items" validate:"required,min=1,dive"`
}

// TransactionItemInput references a product and the quantity sold.
type TransactionItemInput struct {
	ProductID string `json:"productId" validate:"required"`
	Qty       int    `json:"qty" validate:"required,gt=0"`
}
