package transport

import (
	"time"

	"storefront/internal/domain"
	"storefront/internal/service"

	"github.com/shopspring/decimal"
)

// PublicProduct is a product as shoppers see it: no cost price
type PublicProduct struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	Category       string          `json:"category"`
	Condition      string          `json:"condition,omitempty"`
	Description    string          `json:"description"`
	Specs          string          `json:"specs,omitempty"`
	WarrantyPeriod string          `json:"warranty_period,omitempty"`
	Image          string          `json:"image"`
	Stock          int             `json:"stock"`
	CreatedAt      time.Time       `json:"created_at"`
}

// PublicCartItem is a cart or order line without the cost price
type PublicCartItem struct {
	PublicProduct
	Quantity int `json:"quantity"`
}

// PublicOrder is an order as its buyer sees it
type PublicOrder struct {
	ID              string             `json:"id"`
	CustomerName    string             `json:"customer_name"`
	CustomerPhone   string             `json:"customer_phone"`
	ShippingAddress string             `json:"shipping_address"`
	Items           []PublicCartItem   `json:"items"`
	TotalAmount     decimal.Decimal    `json:"total_amount"`
	Status          domain.OrderStatus `json:"status"`
	CreatedAt       time.Time          `json:"created_at"`
}

// PublicReorderResult mirrors service.ReorderResult with public cart lines
type PublicReorderResult struct {
	Cart    []PublicCartItem `json:"cart"`
	Added   int              `json:"added"`
	Skipped int              `json:"skipped"`
}

func toPublicProduct(p domain.Product) PublicProduct {
	return PublicProduct{
		ID:             p.ID,
		Name:           p.Name,
		Price:          p.Price,
		Category:       p.Category,
		Condition:      p.Condition,
		Description:    p.Description,
		Specs:          p.Specs,
		WarrantyPeriod: p.WarrantyPeriod,
		Image:          p.Image,
		Stock:          p.Stock,
		CreatedAt:      p.CreatedAt,
	}
}

func toPublicProducts(products []*domain.Product) []PublicProduct {
	out := make([]PublicProduct, 0, len(products))
	for _, p := range products {
		out = append(out, toPublicProduct(*p))
	}
	return out
}

func toPublicItems(items []domain.CartItem) []PublicCartItem {
	out := make([]PublicCartItem, 0, len(items))
	for _, item := range items {
		out = append(out, PublicCartItem{PublicProduct: toPublicProduct(item.Product), Quantity: item.Quantity})
	}
	return out
}

func toPublicOrder(o *domain.Order) PublicOrder {
	return PublicOrder{
		ID:              o.ID,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		ShippingAddress: o.ShippingAddress,
		Items:           toPublicItems(o.Items),
		TotalAmount:     o.TotalAmount,
		Status:          o.Status,
		CreatedAt:       o.CreatedAt,
	}
}

func toPublicOrders(orders []*domain.Order) []PublicOrder {
	out := make([]PublicOrder, 0, len(orders))
	for _, o := range orders {
		out = append(out, toPublicOrder(o))
	}
	return out
}

func toPublicReorder(result *service.ReorderResult) PublicReorderResult {
	return PublicReorderResult{
		Cart:    toPublicItems(result.Cart),
		Added:   result.Added,
		Skipped: result.Skipped,
	}
}
