package handlers

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/tripgo/booking-backend/internal/database"
	"github.com/tripgo/booking-backend/internal/models"
	"github.com/tripgo/booking-backend/internal/services"
	"github.com/tripgo/booking-backend/internal/utils"
)

// PaymentStatusHandler handles payment status HTTP requests
type PaymentStatusHandler struct {
	settlementService *services.SettlementService
	verifier          *services.SignatureVerifier
	auditRepo         *database.WebhookAuditRepository
	logger            *logrus.Logger
}

// NewPaymentStatusHandler creates a new payment status handler
func NewPaymentStatusHandler(
	settlementService *services.SettlementService,
	verifier *services.SignatureVerifier,
	auditRepo *database.WebhookAuditRepository,
	logger *logrus.Logger,
) *PaymentStatusHandler {
	return &PaymentStatusHandler{
		settlementService: settlementService,
		verifier:          verifier,
		auditRepo:         auditRepo,
		logger:            logger,
	}
}

// isSentinelOrderID recognizes placeholder order ids from broken redirects
func isSentinelOrderID(orderID string) bool {
	return orderID == "" || orderID == "undefined" || orderID == "null"
}

// GetStatus handles payment status read requests
// @Summary Get payment status
// @Description Resolve a payment transaction by order id, with fuzzy fallback
// @Tags Payments
// @Produce json
// @Param orderId path string true "Order id"
// @Success 200 {object} models.PaymentStatusResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/payment/status/{orderId} [get]
func (h *PaymentStatusHandler) GetStatus(c *gin.Context) {
	// Gateway redirect URLs append order_id as a query param; it wins
	// over the route segment when both are present
	orderID := c.Query("order_id")
	if orderID == "" {
		orderID = c.Param("orderId")
	}

	if isSentinelOrderID(orderID) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "order id is required",
		})
		return
	}

	eventType := models.PaymentEventStatusCheck
	if c.Query("transaction_status") != "" {
		eventType = models.PaymentEventRedirect
	}
	h.audit(c, orderID, eventType, nil, nil)

	// A terminal status in the redirect query is applied before reading
	// back, so the caller sees the settled state immediately
	if redirectStatus := models.TransactionStatus(c.Query("transaction_status")); redirectStatus.IsTerminalSuccess() {
		req := &models.PaymentNotificationRequest{Status: redirectStatus}
		if _, _, err := h.settlementService.ApplyStatus(orderID, req); err != nil {
			h.logger.WithError(err).WithField("order_id", orderID).Warn("Redirect status apply failed, continuing with read")
		}
	}

	tx, source, err := h.settlementService.Lookup(orderID)
	if err != nil {
		if err == services.ErrTransactionNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"success":         false,
				"error":           "transaction not found",
				"searchedOrderId": orderID,
			})
			return
		}
		h.logger.WithError(err).WithField("order_id", orderID).Error("Payment status lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "failed to look up payment status",
		})
		return
	}

	now := time.Now()
	c.JSON(http.StatusOK, models.PaymentStatusResponse{
		Success:       true,
		OrderID:       tx.OrderID,
		Status:        tx.EffectiveStatus(now),
		Amount:        tx.GrossAmount,
		PaymentMethod: tx.PaymentMethod,
		BookingID:     tx.BookingID,
		CustomerName:  tx.CustomerName,
		CustomerEmail: tx.CustomerEmail,
		Timestamp:     now,
		CreatedAt:     tx.CreatedAt,
		PaymentURL:    tx.PaymentURL,
		Metadata:      tx.Metadata,
		Source:        source,
	})
}

// UpdateStatus handles payment notification requests
// @Summary Update payment status
// @Description Upsert the transaction for an order from a gateway notification
// @Tags Payments
// @Accept json
// @Produce json
// @Param orderId path string true "Order id"
// @Param request body models.PaymentNotificationRequest true "Notification"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/payment/status/{orderId} [post]
func (h *PaymentStatusHandler) UpdateStatus(c *gin.Context) {
	orderID := c.Param("orderId")
	if isSentinelOrderID(orderID) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "order id is required",
		})
		return
	}

	rawBody, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(rawBody))

	var req models.PaymentNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}

	if req.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "status is required",
		})
		return
	}

	status := string(req.Status)
	h.audit(c, orderID, models.PaymentEventNotification, &status, rawBody)

	if !h.verifier.Verify(orderID, req.StatusCode, req.GrossAmount, req.SignatureKey) {
		h.logger.WithField("order_id", orderID).Warn("Payment notification signature mismatch")
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "invalid signature",
		})
		return
	}

	tx, bookingCreated, err := h.settlementService.ApplyStatus(orderID, &req)
	if err != nil {
		h.logger.WithError(err).WithField("order_id", orderID).Error("Payment status update failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "failed to update payment status",
			"orderId": orderID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        "Payment status updated",
		"orderId":        tx.OrderID,
		"status":         tx.Status,
		"bookingCreated": bookingCreated,
	})
}

// audit records a gateway contact; failures are logged inside the
// repository and never affect the response
func (h *PaymentStatusHandler) audit(c *gin.Context, orderID string, eventType models.PaymentEventType, status *string, rawBody []byte) {
	info := utils.ParseUserAgent(c.Request.UserAgent())

	ip := c.ClientIP()
	audit := &models.PaymentWebhookAudit{
		OrderID:     orderID,
		EventType:   eventType,
		Status:      status,
		RawBody:     rawBody,
		HTTPMethod:  c.Request.Method,
		EndpointURL: c.Request.URL.Path,
		IPAddress:   &ip,
	}
	if info.Raw != "" {
		audit.UserAgent = &info.Raw
		audit.ClientOS = &info.OS
		audit.ClientName = &info.Browser
	}

	_ = h.auditRepo.Log(c.Request.Context(), audit)
}
