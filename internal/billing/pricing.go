package billing

import (
	"math"
	"strings"

	"github.com/noah-isme/tutor-adp-api/internal/models"
)

// CustomDiscountPrefix marks one-off discounts that are not tied to a catalog
// entry. At most one custom discount may exist per line item.
const CustomDiscountPrefix = "custom-"

// ItemPricing is the derived pricing of a line item for a given discount set.
type ItemPricing struct {
	Subtotal      int64                    `json:"subtotal"`
	TotalDiscount int64                    `json:"total_discount"`
	FinalPrice    int64                    `json:"final_price"`
	DiscountRatio float64                  `json:"discount_ratio"`
	Applied       []models.AppliedDiscount `json:"applied"`
}

// DiscountAmount computes the currency amount of a single discount against the
// item's original subtotal. Percent amounts round to the nearest whole unit;
// fixed amounts clamp to the subtotal so no discount can exceed the item price.
func DiscountAmount(subtotal int64, kind models.DiscountType, value int64) int64 {
	if subtotal <= 0 {
		return 0
	}
	switch kind {
	case models.DiscountTypePercent:
		return int64(math.Round(float64(subtotal) * float64(value) / 100))
	case models.DiscountTypeFixed:
		if value > subtotal {
			return subtotal
		}
		if value < 0 {
			return 0
		}
		return value
	default:
		return 0
	}
}

// ApplyDiscounts prices a line item against the full discount set. Discounts
// are parallel: every amount is computed from the original subtotal, never
// from an already-discounted value, so the result is independent of order.
func ApplyDiscounts(subtotal int64, discounts []models.Discount) ItemPricing {
	applied := make([]models.AppliedDiscount, 0, len(discounts))
	for _, d := range discounts {
		applied = append(applied, models.AppliedDiscount{
			DiscountID: d.ID,
			Name:       d.Name,
			Type:       d.Type,
			Value:      d.Value,
			Amount:     DiscountAmount(subtotal, d.Type, d.Value),
		})
	}
	return Reprice(subtotal, applied)
}

// Reprice recomputes item pricing from an existing applied-discount set,
// keeping the stored per-discount amounts.
func Reprice(subtotal int64, applied []models.AppliedDiscount) ItemPricing {
	var total int64
	for _, a := range applied {
		total += a.Amount
	}
	final := subtotal - total
	if final < 0 {
		final = 0
	}
	ratio := 0.0
	if subtotal > 0 {
		ratio = float64(total) / float64(subtotal)
		if ratio > 1 {
			ratio = 1
		}
	}
	return ItemPricing{
		Subtotal:      subtotal,
		TotalDiscount: total,
		FinalPrice:    final,
		DiscountRatio: ratio,
		Applied:       applied,
	}
}

// IsCustomDiscount reports whether the id names a one-off discount.
func IsCustomDiscount(id string) bool {
	return strings.HasPrefix(id, CustomDiscountPrefix)
}

// ToggleCatalogDiscount is an idempotent set operation: if the catalog entry
// is already applied it is removed, otherwise it is added with an amount
// computed from the original subtotal. The whole set is then repriced.
func ToggleCatalogDiscount(subtotal int64, applied []models.AppliedDiscount, discount models.Discount) ItemPricing {
	next := make([]models.AppliedDiscount, 0, len(applied)+1)
	removed := false
	for _, a := range applied {
		if a.DiscountID == discount.ID {
			removed = true
			continue
		}
		next = append(next, a)
	}
	if !removed {
		next = append(next, models.AppliedDiscount{
			DiscountID: discount.ID,
			Name:       discount.Name,
			Type:       discount.Type,
			Value:      discount.Value,
			Amount:     DiscountAmount(subtotal, discount.Type, discount.Value),
		})
	}
	return Reprice(subtotal, next)
}

// SetCustomDiscount replaces any existing custom entry before applying the new
// one. Catalog discounts on the item are untouched.
func SetCustomDiscount(subtotal int64, applied []models.AppliedDiscount, custom models.Discount) ItemPricing {
	next := make([]models.AppliedDiscount, 0, len(applied)+1)
	for _, a := range applied {
		if IsCustomDiscount(a.DiscountID) {
			continue
		}
		next = append(next, a)
	}
	next = append(next, models.AppliedDiscount{
		DiscountID: custom.ID,
		Name:       custom.Name,
		Type:       custom.Type,
		Value:      custom.Value,
		Amount:     DiscountAmount(subtotal, custom.Type, custom.Value),
	})
	return Reprice(subtotal, next)
}

// RemoveDiscount drops the discount with the given id and reprices from the
// remaining set. Removing an id that is not applied is a no-op.
func RemoveDiscount(subtotal int64, applied []models.AppliedDiscount, discountID string) ItemPricing {
	next := make([]models.AppliedDiscount, 0, len(applied))
	for _, a := range applied {
		if a.DiscountID == discountID {
			continue
		}
		next = append(next, a)
	}
	return Reprice(subtotal, next)
}
