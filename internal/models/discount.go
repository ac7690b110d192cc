package models

import "time"

// DiscountType is the closed set of supported discount kinds.
type DiscountType string

// Supported discount types.
const (
	DiscountTypePercent DiscountType = "PERCENT"
	DiscountTypeFixed   DiscountType = "FIXED"
)

// Discount is a catalog entry that can be applied to contract line items.
// Value is a percentage for PERCENT discounts and a currency amount for FIXED.
type Discount struct {
	ID        string       `db:"id" json:"id"`
	Name      string       `db:"name" json:"name"`
	Type      DiscountType `db:"type" json:"type"`
	Value     int64        `db:"value" json:"value"`
	Active    bool         `db:"active" json:"active"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
}

// AppliedDiscount is a discount instance bound to one line item. Amount is the
// currency amount computed from the item's original subtotal at application
// time and never recomputed afterwards.
type AppliedDiscount struct {
	DiscountID string       `db:"discount_id" json:"discount_id"`
	Name       string       `db:"name" json:"name"`
	Type       DiscountType `db:"type" json:"type"`
	Value      int64        `db:"value" json:"value"`
	Amount     int64        `db:"amount" json:"amount"`
}
