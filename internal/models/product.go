package models

import "time"

// Product represents an inventory item sold in the store.
type Product struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Nama          string    `json:"nama" gorm:"type:varchar(100);not null"`
	Kode          string    `json:"kode" gorm:"type:varchar(50);index"`
	Merk          string    `json:"merk" gorm:"type:varchar(100)"`
	Stok          int       `json:"stok" gorm:"default:0"`
	Harga         int64     `json:"harga" gorm:"default:0"`     // Sell price
	HargaBeli     int64     `json:"hargaBeli" gorm:"default:0"` // Buy price
	JenisProdukID *uint     `json:"-"`
	JenisProduk   *Category `json:"jenisProduk,omitempty" gorm:"foreignKey:JenisProdukID"`
	Gambar        string    `json:"gambar,omitempty" gorm:"type:varchar(255)"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ProductInput is the writable part of a product, bound from multipart forms or JSON.
// Image files travel separately from the form fields.
type ProductInput struct {
	Nama        string `json:"nama" form:"nama" validate:"required,max=100"`
	Kode        string `json:"kode" form:"kode" validate:"required,max=50"`
	Merk        string `json:"merk" form:"merk" validate:"max=100"`
	Stok        int    `json:"stok" form:"stok" validate:"gte=0"`
	Harga       int64  `json:"harga" form:"harga" validate:"gte=0"`
	HargaBeli   int64  `json:"hargaBeli" form:"hargaBeli" validate:"gte=0"`
	JenisProduk string `json:"jenis_produk" form:"jenis_produk" validate:"omitempty,numeric"`
}
