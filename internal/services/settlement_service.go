package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tripgo/booking-backend/internal/database"
	"github.com/tripgo/booking-backend/internal/models"
)

// ErrTransactionNotFound is returned when neither exact nor fuzzy lookup
// resolves an order id. It is the one hard not-found in this cluster.
var ErrTransactionNotFound = errors.New("payment transaction not found")

// SettlementService reconciles gateway payment notifications with the
// stored transaction, booking and invoice state.
type SettlementService struct {
	txRepo      *database.PaymentTransactionRepository
	bookingRepo *database.BookingRepository
	invoiceRepo *database.InvoiceRepository
	userRepo    *database.UserRepository
	mailer      *MailerService
	logger      *logrus.Logger
}

// NewSettlementService creates a new SettlementService
func NewSettlementService(
	txRepo *database.PaymentTransactionRepository,
	bookingRepo *database.BookingRepository,
	invoiceRepo *database.InvoiceRepository,
	userRepo *database.UserRepository,
	mailer *MailerService,
	logger *logrus.Logger,
) *SettlementService {
	return &SettlementService{
		txRepo:      txRepo,
		bookingRepo: bookingRepo,
		invoiceRepo: invoiceRepo,
		userRepo:    userRepo,
		mailer:      mailer,
		logger:      logger,
	}
}

// Lookup resolves a transaction by exact order id, falling back to a
// fuzzy partial match for mangled gateway redirect ids. Returns the
// transaction and which path found it.
func (s *SettlementService) Lookup(orderID string) (*models.PaymentTransaction, string, error) {
	tx, err := s.txRepo.GetByOrderID(orderID)
	if err == nil {
		return tx, "database", nil
	}
	if err != sql.ErrNoRows {
		return nil, "", fmt.Errorf("transaction lookup failed: %w", err)
	}

	tx, err = s.txRepo.FindFuzzy(orderID)
	if err == nil {
		s.logger.WithFields(logrus.Fields{
			"searched_order_id": orderID,
			"matched_order_id":  tx.OrderID,
		}).Info("Transaction resolved via fuzzy match")
		return tx, "fuzzy", nil
	}
	if err != sql.ErrNoRows {
		return nil, "", fmt.Errorf("fuzzy transaction lookup failed: %w", err)
	}

	return nil, "", ErrTransactionNotFound
}

// ApplyStatus upserts the transaction row for an order and, on a terminal
// success state, ensures exactly one booking and invoice exist for it.
// Returns the stored transaction and whether a booking was created.
func (s *SettlementService) ApplyStatus(orderID string, req *models.PaymentNotificationRequest) (*models.PaymentTransaction, bool, error) {
	tx, err := s.txRepo.UpdateStatus(orderID, req.Status, req.TransactionData, req.Metadata)
	if err == sql.ErrNoRows {
		// First contact for this order: the notification itself creates
		// the transaction record
		tx = s.transactionFromNotification(orderID, req)
		if insertErr := s.txRepo.Insert(tx); insertErr != nil {
			paymentNotificationsTotal.WithLabelValues("error").Inc()
			return nil, false, fmt.Errorf("failed to record payment transaction: %w", insertErr)
		}
		s.logger.WithFields(logrus.Fields{
			"order_id": orderID,
			"status":   req.Status,
		}).Info("Payment transaction created from notification")
	} else if err != nil {
		paymentNotificationsTotal.WithLabelValues("error").Inc()
		return nil, false, fmt.Errorf("failed to update payment transaction: %w", err)
	}

	paymentNotificationsTotal.WithLabelValues(string(req.Status)).Inc()

	bookingCreated := false
	if req.Status.IsTerminalSuccess() {
		bookingCreated = s.ensureBookingForSettlement(tx)
	}

	return tx, bookingCreated, nil
}

// ensureBookingForSettlement makes sure a settled order has its booking,
// invoice and transaction back-link. Every step is best-effort: a gap in
// account linking or invoice creation must not fail the settlement
// response the gateway is waiting on.
func (s *SettlementService) ensureBookingForSettlement(tx *models.PaymentTransaction) bool {
	log := s.logger.WithField("order_id", tx.OrderID)

	if tx.CustomerEmail == nil || *tx.CustomerEmail == "" {
		log.Warn("Settled transaction has no customer email, skipping booking auto-creation")
		return false
	}

	user, err := s.userRepo.GetByEmail(*tx.CustomerEmail)
	if err != nil {
		if err == sql.ErrNoRows {
			log.WithField("email", *tx.CustomerEmail).Info("No account for customer email, skipping booking auto-creation")
		} else {
			log.WithError(err).Warn("User lookup failed, skipping booking auto-creation")
		}
		return false
	}

	now := time.Now()
	orderID := tx.OrderID
	source := "settlement"
	booking := &models.Booking{
		BookingCode:    orderID,
		OrderID:        &orderID,
		UserID:         &user.ID,
		Status:         models.BookingStatusConfirmed,
		PaymentStatus:  models.PaymentStatusPaid,
		TotalAmount:    tx.GrossAmount,
		PassengerCount: 1,
		Source:         &source,
	}

	// UNIQUE(booking_code) makes this safe against concurrent duplicate
	// webhook deliveries: the second writer sees created=false
	booking, created, err := s.bookingRepo.CreateIdempotent(booking)
	if err != nil {
		log.WithError(err).Error("Booking auto-creation failed")
		return false
	}

	if created {
		bookingsAutoCreatedTotal.Inc()
		log.WithField("booking_id", booking.ID).Info("Booking auto-created for settled payment")
	} else {
		log.WithField("booking_id", booking.ID).Debug("Booking already exists for settled payment")
	}

	if tx.BookingID == nil || *tx.BookingID != booking.ID {
		if err := s.txRepo.LinkBooking(tx.OrderID, booking.ID); err != nil {
			log.WithError(err).Warn("Failed to back-link transaction to booking")
		} else {
			tx.BookingID = &booking.ID
		}
	}

	s.ensureInvoice(booking, tx, now)

	return created
}

// ensureInvoice creates the booking's invoice when absent. Failures are
// logged, never fatal.
func (s *SettlementService) ensureInvoice(booking *models.Booking, tx *models.PaymentTransaction, now time.Time) {
	log := s.logger.WithFields(logrus.Fields{
		"order_id":   tx.OrderID,
		"booking_id": booking.ID,
	})

	exists, err := s.invoiceRepo.ExistsForBooking(booking.ID)
	if err != nil {
		log.WithError(err).Warn("Invoice existence check failed, skipping invoice creation")
		return
	}
	if exists {
		return
	}

	invoice := &models.Invoice{
		BookingID:     booking.ID,
		InvoiceNumber: models.GenerateInvoiceNumber(now),
		Amount:        booking.TotalAmount,
		PaymentStatus: models.PaymentStatusPaid,
		PaymentMethod: tx.PaymentMethod,
		PaidAt:        &now,
	}
	if err := s.invoiceRepo.Create(invoice); err != nil {
		log.WithError(err).Warn("Invoice creation failed")
		return
	}
	log.WithField("invoice_number", invoice.InvoiceNumber).Info("Invoice created for settled booking")

	if s.mailer != nil && s.mailer.Enabled() && tx.CustomerEmail != nil {
		if err := s.mailer.SendInvoice(*tx.CustomerEmail, booking, invoice); err != nil {
			log.WithError(err).Warn("Invoice email delivery failed")
		}
	}
}

// transactionFromNotification builds a transaction row from the first
// notification seen for an order
func (s *SettlementService) transactionFromNotification(orderID string, req *models.PaymentNotificationRequest) *models.PaymentTransaction {
	tx := &models.PaymentTransaction{
		OrderID:         orderID,
		Status:          req.Status,
		GrossAmount:     req.GrossAmount,
		TransactionData: req.TransactionData,
		Metadata:        req.Metadata,
	}
	if req.CustomerName != "" {
		tx.CustomerName = &req.CustomerName
	}
	if req.CustomerEmail != "" {
		tx.CustomerEmail = &req.CustomerEmail
	}
	if req.CustomerPhone != "" {
		tx.CustomerPhone = &req.CustomerPhone
	}
	if req.PaymentMethod != "" {
		tx.PaymentMethod = &req.PaymentMethod
	}
	return tx
}
