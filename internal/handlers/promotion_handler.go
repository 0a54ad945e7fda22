package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/tripgo/booking-backend/internal/models"
	"github.com/tripgo/booking-backend/internal/services"
)

// PromotionHandler handles public promotion HTTP requests
type PromotionHandler struct {
	promoService *services.PromotionService
	logger       *logrus.Logger
}

// NewPromotionHandler creates a new promotion handler
func NewPromotionHandler(promoService *services.PromotionService, logger *logrus.Logger) *PromotionHandler {
	return &PromotionHandler{
		promoService: promoService,
		logger:       logger,
	}
}

// ListEligible handles promotion listing requests
// @Summary List eligible promotions
// @Description List active promotions applicable to an order context
// @Tags Promotions
// @Produce json
// @Param trainType query string false "Train type"
// @Param totalPrice query number false "Order total"
// @Param passengerCount query int false "Passenger count"
// @Success 200 {object} map[string]interface{}
// @Router /api/promotions [get]
func (h *PromotionHandler) ListEligible(c *gin.Context) {
	trainType := c.Query("trainType")
	totalPrice, _ := strconv.ParseFloat(c.Query("totalPrice"), 64)
	passengerCount, _ := strconv.Atoi(c.Query("passengerCount"))

	promos := h.promoService.ListEligiblePromotions(trainType, totalPrice, passengerCount)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    promos,
		"count":   len(promos),
	})
}

// Validate handles promo code validation requests
// @Summary Validate a promo code
// @Description Check a promo code against an order and compute the discount
// @Tags Promotions
// @Accept json
// @Produce json
// @Param request body models.ValidatePromoRequest true "Validation request"
// @Success 200 {object} models.PromoValidationResult
// @Failure 400 {object} map[string]interface{}
// @Router /api/promotions [post]
func (h *PromotionHandler) Validate(c *gin.Context) {
	var req models.ValidatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "promoCode is required",
			"details": err.Error(),
		})
		return
	}

	result := h.promoService.ValidatePromoCode(&req)

	payload := gin.H{
		"success": true,
		"isValid": result.IsValid,
		"message": result.Message,
	}
	if result.Promo != nil {
		payload["promo"] = result.Promo
	}
	if result.IsValid {
		payload["discountAmount"] = result.DiscountAmount
	}

	c.JSON(http.StatusOK, payload)
}
