package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/tripgo/booking-backend/internal/database"
	"github.com/tripgo/booking-backend/internal/models"
)

// AdminPromotionHandler handles back-office promotion management
type AdminPromotionHandler struct {
	promoRepo *database.PromotionRepository
	logger    *logrus.Logger
}

// NewAdminPromotionHandler creates a new admin promotion handler
func NewAdminPromotionHandler(promoRepo *database.PromotionRepository, logger *logrus.Logger) *AdminPromotionHandler {
	return &AdminPromotionHandler{
		promoRepo: promoRepo,
		logger:    logger,
	}
}

// parsePromoDate accepts both date-only and RFC3339 timestamps
func parsePromoDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD or RFC3339", value)
}

// List handles promotion listing requests
// @Summary List all promotions
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/admin/promotions [get]
func (h *AdminPromotionHandler) List(c *gin.Context) {
	promos, err := h.promoRepo.ListAll()
	if err != nil {
		h.logger.WithError(err).Error("Failed to list promotions")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list promotions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    promos,
		"count":   len(promos),
	})
}

// Create handles promotion creation requests
// @Summary Create a promotion
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreatePromotionRequest true "Promotion"
// @Success 201 {object} models.Promotion
// @Failure 400 {object} map[string]interface{}
// @Router /api/admin/promotions [post]
func (h *AdminPromotionHandler) Create(c *gin.Context) {
	var req models.CreatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	promo, err := h.promotionFromRequest(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.promoRepo.Create(promo); err != nil {
		h.logger.WithError(err).WithField("promo_code", promo.PromoCode).Error("Failed to create promotion")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create promotion"})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"promo_code": promo.PromoCode,
		"promo_id":   promo.ID,
	}).Info("Promotion created")

	c.JSON(http.StatusCreated, promo)
}

// Update handles promotion update requests
// @Summary Update a promotion
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Promotion id"
// @Param request body models.CreatePromotionRequest true "Promotion"
// @Success 200 {object} models.Promotion
// @Failure 400 {object} map[string]interface{}
// @Router /api/admin/promotions/{id} [put]
func (h *AdminPromotionHandler) Update(c *gin.Context) {
	var req models.CreatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	promo, err := h.promotionFromRequest(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	promo.ID = c.Param("id")

	if err := h.promoRepo.Update(promo); err != nil {
		h.logger.WithError(err).WithField("promo_id", promo.ID).Error("Failed to update promotion")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update promotion"})
		return
	}

	c.JSON(http.StatusOK, promo)
}

// Deactivate handles promotion deactivation requests
// @Summary Deactivate a promotion
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Promotion id"
// @Success 200 {object} map[string]interface{}
// @Router /api/admin/promotions/{id} [delete]
func (h *AdminPromotionHandler) Deactivate(c *gin.Context) {
	promoID := c.Param("id")

	if err := h.promoRepo.SetActive(promoID, false); err != nil {
		h.logger.WithError(err).WithField("promo_id", promoID).Error("Failed to deactivate promotion")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to deactivate promotion"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Promotion deactivated"})
}

// promotionFromRequest maps the request payload onto a Promotion row
func (h *AdminPromotionHandler) promotionFromRequest(req *models.CreatePromotionRequest) (*models.Promotion, error) {
	startDate, err := parsePromoDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parsePromoDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("end_date must not be before start_date")
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	return &models.Promotion{
		PromoCode:         strings.ToUpper(strings.TrimSpace(req.PromoCode)),
		Description:       req.Description,
		DiscountType:      models.DiscountType(req.DiscountType),
		DiscountValue:     req.DiscountValue,
		MaxDiscountAmount: req.MaxDiscountAmount,
		MinOrderAmount:    req.MinOrderAmount,
		StartDate:         startDate,
		EndDate:           endDate,
		UsageLimit:        req.UsageLimit,
		ApplicableTo:      models.FlexibleStringList(req.ApplicableTo),
		IsActive:          isActive,
	}, nil
}
