package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog
type Product struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Price          decimal.Decimal  `json:"price"`
	CostPrice      *decimal.Decimal `json:"cost_price,omitempty"`
	Category       string           `json:"category"`
	Condition      string           `json:"condition,omitempty"`
	Description    string           `json:"description"`
	Specs          string           `json:"specs,omitempty"`
	WarrantyPeriod string           `json:"warranty_period,omitempty"`
	Image          string           `json:"image"`
	Stock          int              `json:"stock"`
	CreatedAt      time.Time        `json:"created_at"`
}

// CartItem is a product snapshot together with the quantity the shopper wants.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// Subtotal returns price times quantity for the line.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// NewCartItem snapshots p into a cart line.
func NewCartItem(p Product, quantity int) CartItem {
	if p.CostPrice != nil {
		cost := *p.CostPrice
		p.CostPrice = &cost
	}
	return CartItem{Product: p, Quantity: quantity}
}
