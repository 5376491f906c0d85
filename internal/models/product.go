package models

import "time"

// Product represents a product entity in the inventory system.
type Product struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	SKU         string    `json:"sku"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	MinStock    int       `json:"min_stock"`
	Category    string    `json:"category,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// LowStock reports whether the on-hand quantity is at or below the
// minimum stock threshold.
func (p Product) LowStock() bool {
	return p.Quantity <= p.MinStock
}

// TotalValue is the value of the on-hand stock for this product.
func (p Product) TotalValue() float64 {
	return p.Price * float64(p.Quantity)
}
