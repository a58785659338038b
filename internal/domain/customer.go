package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer aggregates completed orders for one phone number
type Customer struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Phone         string          `json:"phone"`
	Address       string          `json:"address"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	OrderCount    int             `json:"order_count"`
	LastOrderDate time.Time       `json:"last_order_date"`
	History       []*Order        `json:"history"`
}

// CustomerAccount is a shopper login. Password holds the output of the
// configured password hasher.
type CustomerAccount struct {
	Phone     string    `json:"phone"`
	Password  string    `json:"password"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// AdminCredential is the single back-office login
type AdminCredential struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
