package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/tripgo/booking-backend/internal/models"
)

// InvoiceRepository handles database operations for the invoices table
type InvoiceRepository struct {
	db DB
}

// NewInvoiceRepository creates a new InvoiceRepository
func NewInvoiceRepository(db DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Create inserts an invoice for a settled booking
func (r *InvoiceRepository) Create(invoice *models.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}

	query := `
		INSERT INTO invoices (
			id, booking_id, invoice_number, amount,
			payment_status, payment_method, paid_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
		RETURNING created_at
	`

	err := r.db.QueryRow(
		query,
		invoice.ID, invoice.BookingID, invoice.InvoiceNumber, invoice.Amount,
		invoice.PaymentStatus, invoice.PaymentMethod, invoice.PaidAt,
	).Scan(&invoice.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return nil
}

// ExistsForBooking reports whether a booking already has an invoice
func (r *InvoiceRepository) ExistsForBooking(bookingID string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM invoices WHERE booking_id = $1`

	if err := r.db.QueryRow(query, bookingID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check invoice existence: %w", err)
	}
	return count > 0, nil
}
