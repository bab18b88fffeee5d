package models

import "time"

// Product represents a product offered by the store.
type Product struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"type:varchar(100);not null" validate:"required"`
	Price        float64   `json:"price" gorm:"not null;check:price > 0" validate:"gt=0"`
	Availability bool      `json:"availability" gorm:"not null"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TableName returns the table name for Product.
func (Product) TableName() string {
	return "products"
}

// NewProduct builds a product that is available by default.
func NewProduct(name string, price float64) *Product {
	return &Product{
		Name:         name,
		Price:        price,
		Availability: true,
	}
}
