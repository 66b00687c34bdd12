package models

// Category is a flat classification label (jenis produk) attached to products.
type Category struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
}

// CategoryInput carries the fields accepted when creating a category.
type CategoryInput struct {
	Name string `json:"name" form:"name" validate:"required,min=2,max=100"`
}
