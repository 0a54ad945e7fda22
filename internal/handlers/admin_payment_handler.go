package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/tripgo/booking-backend/internal/database"
)

// AdminPaymentHandler exposes the payment webhook audit trail for
// back-office dispute handling.
type AdminPaymentHandler struct {
	auditRepo *database.WebhookAuditRepository
	logger    *logrus.Logger
}

// NewAdminPaymentHandler creates a new admin payment handler
func NewAdminPaymentHandler(auditRepo *database.WebhookAuditRepository, logger *logrus.Logger) *AdminPaymentHandler {
	return &AdminPaymentHandler{
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// ListAudits returns every recorded gateway contact for an order
// @Summary List payment webhook audits for an order
// @Description Return the full webhook and status-check contact trail recorded for an order
// @Tags Admin
// @Produce json
// @Param orderId path string true "Order ID"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/admin/payments/{orderId}/audit [get]
func (h *AdminPaymentHandler) ListAudits(c *gin.Context) {
	orderID := c.Param("orderId")

	audits, err := h.auditRepo.GetByOrderID(c.Request.Context(), orderID)
	if err != nil {
		h.logger.WithError(err).WithField("order_id", orderID).Error("Failed to load webhook audit trail")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "failed to load audit trail",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"orderId": orderID,
		"audits":  audits,
		"count":   len(audits),
	})
}
