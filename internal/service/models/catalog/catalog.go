package catalog

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a category, product, or payment method
// lookup misses.
var ErrNotFound = errors.New("catalog entry not found")

// Category groups products in the storefront.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	OrderIndex  int       `json:"orderIndex"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Product is a catalog item. Prices are stored in minor currency units.
type Product struct {
	ID            int64     `json:"id"`
	CategoryID    int64     `json:"categoryId"`
	CategoryName  string    `json:"categoryName,omitempty"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	PriceCents    int64     `json:"priceCents"`
	OldPriceCents int64     `json:"oldPriceCents,omitempty"`
	Image         string    `json:"image"`
	InStock       bool      `json:"inStock"`
	Active        bool      `json:"active"`
	OrderIndex    int       `json:"orderIndex"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// MethodType classifies how a payment method settles.
type MethodType string

const (
	MethodCash     MethodType = "cash"
	MethodOnline   MethodType = "online"
	MethodTransfer MethodType = "transfer"
)

// PaymentMethod is referenced by orders as a name snapshot, never by live
// foreign key, so historical orders keep the label even after a rename.
type PaymentMethod struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Type        MethodType `json:"type"`
	Description string     `json:"description"`
	Active      bool       `json:"active"`
	OrderIndex  int        `json:"orderIndex"`
}
