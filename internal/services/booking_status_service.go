package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tripgo/booking-backend/internal/database"
	"github.com/tripgo/booking-backend/internal/models"
)

// BookingStatusResult is the outcome of a status-update call. Outcome is
// never Failed: the update flow degrades instead of failing so client
// checkout flows are not blocked by backend inconsistency.
type BookingStatusResult struct {
	Outcome    Outcome
	Message    string
	Booking    *models.Booking
	SeatUpdate *SeatAdjustment
	Warning    string
}

// BookingStatusView is the combined read returned by the companion
// status-check operation. The booking's fields serialize inline with the
// transaction nested, so the view is one `data` object on the wire;
// Source travels beside it, not inside it.
type BookingStatusView struct {
	*models.Booking
	Transaction *models.PaymentTransaction `json:"transaction,omitempty"`
	Source      string                     `json:"-"` // database or dummy
}

// BookingStatusService orchestrates booking lookups, seat accounting and
// status persistence.
type BookingStatusService struct {
	bookingRepo *database.BookingRepository
	txRepo      *database.PaymentTransactionRepository
	seatService *SeatService
	logger      *logrus.Logger
}

// NewBookingStatusService creates a new BookingStatusService
func NewBookingStatusService(
	bookingRepo *database.BookingRepository,
	txRepo *database.PaymentTransactionRepository,
	seatService *SeatService,
	logger *logrus.Logger,
) *BookingStatusService {
	return &BookingStatusService{
		bookingRepo: bookingRepo,
		txRepo:      txRepo,
		seatService: seatService,
		logger:      logger,
	}
}

// UpdateBookingStatus transitions a booking's status/payment_status.
// With no identifier at all it short-circuits to a placeholder booking;
// with identifiers that match no row it synthesizes a dummy payload.
// Either way the caller gets a coherent booking-shaped response.
func (s *BookingStatusService) UpdateBookingStatus(req *models.UpdateBookingStatusRequest) BookingStatusResult {
	now := time.Now()

	if req.BookingCode == "" && req.OrderID == "" {
		booking := models.NewDummyBooking("", "", req.Status, req.PaymentStatus, now)
		s.logger.WithField("booking_code", booking.BookingCode).Info("No identifier supplied, returning placeholder booking")
		return BookingStatusResult{
			Outcome: OutcomeOK,
			Message: "Booking status recorded locally (no identifier supplied)",
			Booking: booking,
		}
	}

	var warning string

	booking, err := s.bookingRepo.Find(req.BookingCode, req.OrderID, "")
	if err != nil && err != sql.ErrNoRows {
		warning = fmt.Sprintf("booking lookup failed: %v", err)
		s.logger.WithError(err).WithFields(logrus.Fields{
			"booking_code": req.BookingCode,
			"order_id":     req.OrderID,
		}).Warn("Booking lookup failed, continuing with dummy path")
		booking = nil
	}

	// Seat accounting runs regardless of whether the booking was found
	var seatUpdate *SeatAdjustment
	if req.ScheduleID != "" {
		adjustment := s.seatService.AdjustSeats(req.ScheduleID, req.PassengerCount, req.Action)
		seatUpdate = &adjustment
	}

	if booking == nil {
		dummy := models.NewDummyBooking(req.BookingCode, req.OrderID, req.Status, req.PaymentStatus, now)
		if req.PassengerCount > 0 {
			dummy.PassengerCount = req.PassengerCount
		}
		if len(req.SelectedSeats) > 0 {
			dummy.SelectedSeats = req.SelectedSeats
		}
		return BookingStatusResult{
			Outcome:    OutcomeOK,
			Message:    "Booking not found in database, status recorded locally",
			Booking:    dummy,
			SeatUpdate: seatUpdate,
			Warning:    warning,
		}
	}

	update := s.buildUpdate(req)
	if update.IsEmpty() {
		return BookingStatusResult{
			Outcome:    OutcomeOK,
			Message:    "Booking located, nothing to update",
			Booking:    booking,
			SeatUpdate: seatUpdate,
			Warning:    warning,
		}
	}

	// Match by both identifiers to defend against code/order drift
	code := req.BookingCode
	if code == "" {
		code = booking.BookingCode
	}
	orderID := req.OrderID
	if orderID == "" && booking.OrderID != nil {
		orderID = *booking.OrderID
	}

	updated, err := s.bookingRepo.ApplyUpdate(code, orderID, update)
	if err != nil {
		warning = fmt.Sprintf("booking update failed: %v", err)
		s.logger.WithError(err).WithField("booking_code", code).Warn("Booking status persistence failed")

		// Reflect the requested changes in-memory so the response stays coherent
		s.applyInMemory(booking, update, now)
		return BookingStatusResult{
			Outcome:    OutcomeDegraded,
			Message:    fmt.Sprintf("Booking status accepted with warning: %s", warning),
			Booking:    booking,
			SeatUpdate: seatUpdate,
			Warning:    warning,
		}
	}

	s.logger.WithFields(logrus.Fields{
		"booking_code":   updated.BookingCode,
		"status":         updated.Status,
		"payment_status": updated.PaymentStatus,
		"source":         req.Source,
	}).Info("Booking status updated")

	return BookingStatusResult{
		Outcome:    OutcomeOK,
		Message:    "Booking status updated successfully",
		Booking:    updated,
		SeatUpdate: seatUpdate,
		Warning:    warning,
	}
}

// GetBookingStatus performs the companion read: booking plus the most
// recent payment transaction (best-effort). A miss yields a dummy view
// rather than an error; only the ticket/detail endpoints 404.
func (s *BookingStatusService) GetBookingStatus(bookingCode, orderID string) (*BookingStatusView, error) {
	if bookingCode == "" && orderID == "" {
		return nil, fmt.Errorf("bookingCode or orderId is required")
	}

	booking, err := s.bookingRepo.Find(bookingCode, orderID, "")
	if err != nil {
		if err != sql.ErrNoRows {
			s.logger.WithError(err).Warn("Booking status lookup failed, returning dummy view")
		}
		return &BookingStatusView{
			Booking: models.NewDummyBooking(bookingCode, orderID, "", "", time.Now()),
			Source:  "dummy",
		}, nil
	}

	view := &BookingStatusView{Booking: booking, Source: "database"}

	txOrderID := orderID
	if txOrderID == "" && booking.OrderID != nil {
		txOrderID = *booking.OrderID
	}
	if txOrderID != "" {
		tx, err := s.txRepo.GetLatestForOrder(txOrderID)
		if err != nil {
			if err != sql.ErrNoRows {
				s.logger.WithError(err).WithField("order_id", txOrderID).Debug("Transaction lookup failed for booking status")
			}
		} else {
			view.Transaction = tx
		}
	}

	return view, nil
}

// buildUpdate limits the persisted payload to the fields the caller
// actually provided, applying the auto-status rule for payment results.
func (s *BookingStatusService) buildUpdate(req *models.UpdateBookingStatusRequest) *models.BookingUpdate {
	update := &models.BookingUpdate{}

	status := req.Status
	if status == "" {
		// Payment outcome implies a booking status when none was given
		switch req.PaymentStatus {
		case models.PaymentStatusPaid:
			status = models.BookingStatusConfirmed
		case models.PaymentStatusFailed:
			status = models.BookingStatusPending
		}
	}
	if status != "" {
		update.Status = &status
	}
	if req.PaymentStatus != "" {
		paymentStatus := req.PaymentStatus
		update.PaymentStatus = &paymentStatus
	}
	if req.Notes != "" {
		notes := req.Notes
		update.Notes = &notes
	}
	if len(req.SelectedSeats) > 0 {
		update.SelectedSeats = req.SelectedSeats
	}

	return update
}

// applyInMemory mirrors an update onto a booking when persistence failed
func (s *BookingStatusService) applyInMemory(booking *models.Booking, update *models.BookingUpdate, now time.Time) {
	if update.Status != nil {
		booking.Status = *update.Status
	}
	if update.PaymentStatus != nil {
		booking.PaymentStatus = *update.PaymentStatus
	}
	if update.Notes != nil {
		booking.Notes = update.Notes
	}
	if update.SelectedSeats != nil {
		booking.SelectedSeats = update.SelectedSeats
	}
	booking.UpdatedAt = now
}
