package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutor-adp-api/internal/models"
)

func percentDiscount(id string, value int64) models.Discount {
	return models.Discount{ID: id, Name: id, Type: models.DiscountTypePercent, Value: value}
}

func fixedDiscount(id string, value int64) models.Discount {
	return models.Discount{ID: id, Name: id, Type: models.DiscountTypeFixed, Value: value}
}

func TestApplyDiscountsParallel(t *testing.T) {
	pricing := ApplyDiscounts(1_000_000, []models.Discount{
		percentDiscount("early-bird", 10),
		fixedDiscount("sibling", 50_000),
	})

	require.Len(t, pricing.Applied, 2)
	assert.Equal(t, int64(100_000), pricing.Applied[0].Amount)
	assert.Equal(t, int64(50_000), pricing.Applied[1].Amount)
	assert.Equal(t, int64(150_000), pricing.TotalDiscount)
	assert.Equal(t, int64(850_000), pricing.FinalPrice)
	assert.InDelta(t, 0.15, pricing.DiscountRatio, 1e-9)
}

func TestApplyDiscountsClampsAndRounds(t *testing.T) {
	tests := []struct {
		name      string
		subtotal  int64
		discounts []models.Discount
		wantFinal int64
		wantRatio float64
	}{
		{
			name:      "fixed exceeding subtotal clamps",
			subtotal:  300_000,
			discounts: []models.Discount{fixedDiscount("promo", 500_000)},
			wantFinal: 0,
			wantRatio: 1,
		},
		{
			name:      "combined set never goes negative",
			subtotal:  200_000,
			discounts: []models.Discount{percentDiscount("p", 80), fixedDiscount("f", 100_000)},
			wantFinal: 0,
			wantRatio: 1,
		},
		{
			name:      "zero subtotal yields zero ratio",
			subtotal:  0,
			discounts: []models.Discount{percentDiscount("p", 50)},
			wantFinal: 0,
			wantRatio: 0,
		},
		{
			name:      "percent rounds to nearest unit",
			subtotal:  999_999,
			discounts: []models.Discount{percentDiscount("p", 10)},
			wantFinal: 899_999,
			wantRatio: float64(100_000) / float64(999_999),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pricing := ApplyDiscounts(tt.subtotal, tt.discounts)
			assert.Equal(t, tt.wantFinal, pricing.FinalPrice)
			assert.InDelta(t, tt.wantRatio, pricing.DiscountRatio, 1e-9)
			assert.GreaterOrEqual(t, pricing.FinalPrice, int64(0))
		})
	}
}

func TestToggleCatalogDiscountIsIdempotentSetOperation(t *testing.T) {
	subtotal := int64(1_000_000)
	early := percentDiscount("early-bird", 10)

	on := ToggleCatalogDiscount(subtotal, nil, early)
	require.Len(t, on.Applied, 1)
	assert.Equal(t, int64(900_000), on.FinalPrice)

	off := ToggleCatalogDiscount(subtotal, on.Applied, early)
	assert.Empty(t, off.Applied)
	assert.Equal(t, subtotal, off.FinalPrice)
	assert.Zero(t, off.DiscountRatio)
}

func TestSetCustomDiscountReplacesPriorCustom(t *testing.T) {
	subtotal := int64(1_000_000)
	catalog := percentDiscount("early-bird", 10)

	pricing := ToggleCatalogDiscount(subtotal, nil, catalog)
	pricing = SetCustomDiscount(subtotal, pricing.Applied, fixedDiscount("custom-1", 100_000))
	pricing = SetCustomDiscount(subtotal, pricing.Applied, fixedDiscount("custom-2", 200_000))

	require.Len(t, pricing.Applied, 2)
	ids := []string{pricing.Applied[0].DiscountID, pricing.Applied[1].DiscountID}
	assert.Contains(t, ids, "early-bird")
	assert.Contains(t, ids, "custom-2")
	assert.NotContains(t, ids, "custom-1")
	assert.Equal(t, int64(700_000), pricing.FinalPrice)
}

func TestRemoveDiscountRecomputesFromRemainingSet(t *testing.T) {
	subtotal := int64(1_000_000)
	pricing := ApplyDiscounts(subtotal, []models.Discount{
		percentDiscount("early-bird", 10),
		fixedDiscount("sibling", 50_000),
	})

	pricing = RemoveDiscount(subtotal, pricing.Applied, "early-bird")
	require.Len(t, pricing.Applied, 1)
	assert.Equal(t, int64(950_000), pricing.FinalPrice)

	// unknown id is a no-op
	again := RemoveDiscount(subtotal, pricing.Applied, "missing")
	assert.Equal(t, pricing, again)
}

func TestDiscountAmountsNeverCompound(t *testing.T) {
	subtotal := int64(1_000_000)
	pricing := ApplyDiscounts(subtotal, []models.Discount{
		percentDiscount("a", 10),
		percentDiscount("b", 10),
	})

	// both computed from the original subtotal, not 10% of 900k
	for _, a := range pricing.Applied {
		assert.Equal(t, int64(100_000), a.Amount)
	}
	assert.Equal(t, int64(800_000), pricing.FinalPrice)
}
