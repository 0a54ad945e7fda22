package services

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tripgo/booking-backend/internal/database"
	"github.com/tripgo/booking-backend/internal/models"
)

// FamilyPromoCode requires a minimum party size regardless of its other
// rules. The rule lives here rather than in data because the UI copy for
// the failure is promo-specific.
const FamilyPromoCode = "FAMILY30"

const familyPromoMinPassengers = 3

// Validation failure messages are user-facing Bahasa Indonesia strings
// and part of the API contract, not incidental logging.
const (
	msgPromoNotFound     = "Kode promo tidak ditemukan"
	msgPromoNotStarted   = "Promo belum berlaku"
	msgPromoExpired      = "Kode promo sudah kadaluarsa"
	msgPromoQuotaReached = "Kuota promo sudah habis"
	msgPromoWrongTrain   = "Promo tidak berlaku untuk jenis kereta ini"
	msgPromoFamilyRule   = "Promo keluarga berlaku untuk minimal 3 penumpang"
	msgPromoValid        = "Kode promo berhasil digunakan"
	msgPromoInternal     = "Terjadi kesalahan saat memvalidasi kode promo"
)

// PromotionService validates promo codes and lists eligible promotions
// for an order context.
type PromotionService struct {
	promoRepo *database.PromotionRepository
	logger    *logrus.Logger
}

// NewPromotionService creates a new PromotionService
func NewPromotionService(promoRepo *database.PromotionRepository, logger *logrus.Logger) *PromotionService {
	return &PromotionService{promoRepo: promoRepo, logger: logger}
}

// ListEligiblePromotions returns active promotions applicable to the
// given order context. The window and minimum-order filters run in SQL;
// quota, train-type and the family rule are applied in-process. Database
// errors degrade to an empty list.
func (s *PromotionService) ListEligiblePromotions(trainType string, totalPrice float64, passengerCount int) []*models.Promotion {
	promos, err := s.promoRepo.ListEligible(totalPrice)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list eligible promotions")
		return []*models.Promotion{}
	}

	eligible := make([]*models.Promotion, 0, len(promos))
	for i := range promos {
		p := &promos[i]
		if p.IsQuotaExhausted() {
			continue
		}
		if !p.AppliesToTrainType(trainType) {
			continue
		}
		if strings.EqualFold(p.PromoCode, FamilyPromoCode) && passengerCount > 0 && passengerCount < familyPromoMinPassengers {
			continue
		}
		eligible = append(eligible, p)
	}
	return eligible
}

// ValidatePromoCode checks a promo code against an order context and
// computes the discount. Failure reasons are evaluated in a fixed order
// and the first one wins. Never returns an error: database failures
// produce an invalid result with a generic message, and the caller
// signals the 500 separately.
func (s *PromotionService) ValidatePromoCode(req *models.ValidatePromoRequest) *models.PromoValidationResult {
	promo, err := s.promoRepo.GetActiveByCode(req.PromoCode)
	if err != nil {
		if err == sql.ErrNoRows {
			promoValidationsTotal.WithLabelValues("not_found").Inc()
			return &models.PromoValidationResult{IsValid: false, Message: msgPromoNotFound}
		}
		s.logger.WithError(err).WithField("promo_code", req.PromoCode).Error("Promo lookup failed")
		promoValidationsTotal.WithLabelValues("error").Inc()
		return &models.PromoValidationResult{IsValid: false, Message: msgPromoInternal}
	}

	now := time.Now()
	if reason := s.checkRules(promo, req, now); reason != "" {
		promoValidationsTotal.WithLabelValues("rejected").Inc()
		return &models.PromoValidationResult{IsValid: false, Message: reason}
	}

	discount := promo.ComputeDiscount(req.TotalPrice)
	promoValidationsTotal.WithLabelValues("valid").Inc()
	return &models.PromoValidationResult{
		IsValid:        true,
		Promo:          promo,
		DiscountAmount: discount,
		Message:        msgPromoValid,
	}
}

// checkRules returns the first failing rule's message, or "" when the
// promo is usable for the request.
func (s *PromotionService) checkRules(promo *models.Promotion, req *models.ValidatePromoRequest, now time.Time) string {
	if now.Before(promo.StartDate) {
		return msgPromoNotStarted
	}
	if now.After(promo.EndDate) {
		return msgPromoExpired
	}
	if promo.IsQuotaExhausted() {
		return msgPromoQuotaReached
	}
	if req.TotalPrice < promo.MinOrderAmount {
		return fmt.Sprintf("Minimal pembelian Rp %.0f untuk menggunakan promo ini", promo.MinOrderAmount)
	}
	if !promo.AppliesToTrainType(req.TrainType) {
		return msgPromoWrongTrain
	}
	if strings.EqualFold(promo.PromoCode, FamilyPromoCode) && req.PassengerCount < familyPromoMinPassengers {
		return msgPromoFamilyRule
	}
	return ""
}
