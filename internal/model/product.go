package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// PriceScale is the number of fraction digits a price is stored and rendered with.
	PriceScale = 2

	// MaxNameLength is the maximum number of characters in a product name.
	MaxNameLength = 255
)

// Product represents a persisted product record.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	StockQty    int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// InitMeta initializes the product timestamps. The ID is assigned by storage.
func (p *Product) InitMeta() {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.DeletedAt = nil
}

// Touch bumps the update timestamp.
func (p *Product) Touch() {
	p.UpdatedAt = time.Now().UTC()
}

// IsDeleted reports whether the product carries a soft-delete marker.
func (p *Product) IsDeleted() bool {
	return p.DeletedAt != nil
}

// Apply overwrites the mutable fields with the given input.
func (p *Product) Apply(in ProductInput) {
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price.Round(PriceScale)
	p.StockQty = in.StockQty
}

// FormattedPrice returns the price with exactly two fraction digits.
func (p *Product) FormattedPrice() string {
	return p.Price.StringFixed(PriceScale)
}

// ProductInput holds the mutable product fields accepted on create and update.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	StockQty    int64
}

// Violations checks the input against the product invariants and returns
// field messages keyed by wire field name. An empty map means the input is valid.
func (in ProductInput) Violations() map[string][]string {
	violations := map[string][]string{}
	if strings.TrimSpace(in.Name) == "" {
		violations["name"] = append(violations["name"], "The name field is required.")
	} else if len([]rune(in.Name)) > MaxNameLength {
		violations["name"] = append(violations["name"], "The name field must not be greater than 255 characters.")
	}
	if strings.TrimSpace(in.Description) == "" {
		violations["description"] = append(violations["description"], "The description field is required.")
	}
	if in.Price.IsNegative() {
		violations["price"] = append(violations["price"], "The price field must be at least 0.")
	}
	if in.StockQty < 0 {
		violations["quantity"] = append(violations["quantity"], "The quantity field must be at least 0.")
	}
	return violations
}
