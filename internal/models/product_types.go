package models

import (
	"time"
)

// Product is the model for the 'products' table.
// Price and stock are validated at the request boundary (gte=0); the
// column constraints are a second line of defense.
type Product struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Slug        string    `json:"slug" gorm:"index;size:255;not null"`
	Description string    `json:"description" gorm:"type:text"`
	Price       float64   `json:"price" gorm:"type:decimal(10,2);not null"`
	Stock       int       `json:"stock" gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Product) TableName() string { return "products" }

// InStock reports whether the product can currently be ordered.
func (p *Product) InStock() bool { return p.Stock > 0 }
