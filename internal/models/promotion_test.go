package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeDiscount(t *testing.T) {
	maxDiscount := 50000.0

	t.Run("Percentage", func(t *testing.T) {
		promo := &Promotion{DiscountType: DiscountTypePercentage, DiscountValue: 10}
		assert.Equal(t, 20000.0, promo.ComputeDiscount(200000))
	})

	t.Run("Percentage Clamped To Maximum", func(t *testing.T) {
		promo := &Promotion{DiscountType: DiscountTypePercentage, DiscountValue: 20, MaxDiscountAmount: &maxDiscount}
		assert.Equal(t, 50000.0, promo.ComputeDiscount(1000000))
	})

	t.Run("Percentage Below Maximum Is Untouched", func(t *testing.T) {
		promo := &Promotion{DiscountType: DiscountTypePercentage, DiscountValue: 20, MaxDiscountAmount: &maxDiscount}
		assert.Equal(t, 20000.0, promo.ComputeDiscount(100000))
	})

	t.Run("Fixed Amount Ignores Maximum", func(t *testing.T) {
		promo := &Promotion{DiscountType: DiscountTypeFixed, DiscountValue: 75000, MaxDiscountAmount: &maxDiscount}
		assert.Equal(t, 75000.0, promo.ComputeDiscount(500000))
	})
}

func TestIsQuotaExhausted(t *testing.T) {
	limit := 100

	assert.False(t, (&Promotion{UsageCount: 100}).IsQuotaExhausted())
	assert.False(t, (&Promotion{UsageLimit: &limit, UsageCount: 99}).IsQuotaExhausted())
	assert.True(t, (&Promotion{UsageLimit: &limit, UsageCount: 100}).IsQuotaExhausted())
}

func TestAppliesToTrainType(t *testing.T) {
	restricted := &Promotion{ApplicableTo: FlexibleStringList{"Eksekutif", "Bisnis"}}
	unrestricted := &Promotion{}

	assert.True(t, unrestricted.AppliesToTrainType("Ekonomi"))
	assert.True(t, restricted.AppliesToTrainType(""))
	assert.True(t, restricted.AppliesToTrainType("eksekutif"))
	assert.False(t, restricted.AppliesToTrainType("Ekonomi"))
}
