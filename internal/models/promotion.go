package models

import (
	"errors"
	"strings"
	"time"
)

// DiscountType distinguishes percentage promos from fixed-amount promos
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

// Promotion represents a promo code with its business rules
type Promotion struct {
	ID                string             `json:"id" db:"id"`
	PromoCode         string             `json:"promo_code" db:"promo_code"`
	Description       *string            `json:"description,omitempty" db:"description"`
	DiscountType      DiscountType       `json:"discount_type" db:"discount_type"`
	DiscountValue     float64            `json:"discount_value" db:"discount_value"`
	MaxDiscountAmount *float64           `json:"max_discount_amount,omitempty" db:"max_discount_amount"`
	MinOrderAmount    float64            `json:"min_order_amount" db:"min_order_amount"`
	StartDate         time.Time          `json:"start_date" db:"start_date"`
	EndDate           time.Time          `json:"end_date" db:"end_date"`
	UsageLimit        *int               `json:"usage_limit,omitempty" db:"usage_limit"`
	UsageCount        int                `json:"usage_count" db:"usage_count"`
	ApplicableTo      FlexibleStringList `json:"applicable_to" db:"applicable_to"`
	IsActive          bool               `json:"is_active" db:"is_active"`
	CreatedAt         time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at" db:"updated_at"`
}

// IsQuotaExhausted reports whether the usage limit has been reached
func (p *Promotion) IsQuotaExhausted() bool {
	return p.UsageLimit != nil && p.UsageCount >= *p.UsageLimit
}

// AppliesToTrainType reports whether the promo is usable for the given
// train type. An empty restriction list means the promo applies to all
// types; an empty trainType never fails the check on a restricted promo
// only when the promo itself is unrestricted.
func (p *Promotion) AppliesToTrainType(trainType string) bool {
	if len(p.ApplicableTo) == 0 || trainType == "" {
		return true
	}
	return p.ApplicableTo.Contains(trainType)
}

// ComputeDiscount calculates the discount amount for the given order total.
// Percentage discounts are clamped to MaxDiscountAmount when set.
func (p *Promotion) ComputeDiscount(totalPrice float64) float64 {
	if p.DiscountType == DiscountTypePercentage {
		discount := totalPrice * p.DiscountValue / 100
		if p.MaxDiscountAmount != nil && discount > *p.MaxDiscountAmount {
			discount = *p.MaxDiscountAmount
		}
		return discount
	}
	return p.DiscountValue
}

// ValidatePromoRequest is the body of POST /api/promotions
type ValidatePromoRequest struct {
	PromoCode      string  `json:"promoCode" binding:"required"`
	TotalPrice     float64 `json:"totalPrice"`
	TrainType      string  `json:"trainType"`
	PassengerCount int     `json:"passengerCount"`
	DepartureDate  string  `json:"departureDate"`
}

// PromoValidationResult is the outcome of validating a promo code against
// an order context. Message is a user-facing localized string and is part
// of the contract for UI consumers.
type PromoValidationResult struct {
	IsValid        bool       `json:"isValid"`
	Promo          *Promotion `json:"promo,omitempty"`
	DiscountAmount float64    `json:"discountAmount,omitempty"`
	Message        string     `json:"message"`
}

// CreatePromotionRequest is the admin back-office payload for creating a promo
type CreatePromotionRequest struct {
	PromoCode         string   `json:"promo_code" binding:"required"`
	Description       *string  `json:"description"`
	DiscountType      string   `json:"discount_type" binding:"required"`
	DiscountValue     float64  `json:"discount_value" binding:"required"`
	MaxDiscountAmount *float64 `json:"max_discount_amount"`
	MinOrderAmount    float64  `json:"min_order_amount"`
	StartDate         string   `json:"start_date" binding:"required"`
	EndDate           string   `json:"end_date" binding:"required"`
	UsageLimit        *int     `json:"usage_limit"`
	ApplicableTo      []string `json:"applicable_to"`
	IsActive          *bool    `json:"is_active"`
}

// Validate validates the create promotion request
func (r *CreatePromotionRequest) Validate() error {
	switch DiscountType(r.DiscountType) {
	case DiscountTypePercentage, DiscountTypeFixed:
	default:
		return errors.New("discount_type must be 'percentage' or 'fixed'")
	}
	if r.DiscountValue <= 0 {
		return errors.New("discount_value must be positive")
	}
	if DiscountType(r.DiscountType) == DiscountTypePercentage && r.DiscountValue > 100 {
		return errors.New("percentage discount cannot exceed 100")
	}
	if strings.TrimSpace(r.PromoCode) == "" {
		return errors.New("promo_code is required")
	}
	return nil
}
