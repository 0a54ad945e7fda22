package handlers

import (
	"database/sql"
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	qrcode "github.com/skip2/go-qrcode"
	"github.com/tripgo/booking-backend/internal/database"
)

// TicketHandler serves booking tickets with an embedded QR code. Unlike
// the status endpoints this surface is strict: a missing booking is a 404.
type TicketHandler struct {
	bookingRepo *database.BookingRepository
	logger      *logrus.Logger
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(bookingRepo *database.BookingRepository, logger *logrus.Logger) *TicketHandler {
	return &TicketHandler{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// GetTicket handles ticket retrieval requests
// @Summary Get a booking ticket
// @Description Return booking details with a base64 QR code of the booking code
// @Tags Bookings
// @Produce json
// @Param code path string true "Booking code"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/bookings/{code}/ticket [get]
func (h *TicketHandler) GetTicket(c *gin.Context) {
	code := c.Param("code")

	booking, err := h.bookingRepo.GetByCode(code)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "booking not found",
			})
			return
		}
		h.logger.WithError(err).WithField("booking_code", code).Error("Ticket lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "failed to load ticket",
		})
		return
	}

	png, err := qrcode.Encode(booking.BookingCode, qrcode.Medium, 256)
	if err != nil {
		h.logger.WithError(err).WithField("booking_code", code).Error("QR generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "failed to generate ticket QR",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"booking": booking,
		"qrCode":  "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	})
}
