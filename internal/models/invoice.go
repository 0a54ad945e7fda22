package models

import (
	"fmt"
	"time"
)

// Invoice is created once per settled booking. Creation is best-effort:
// failures are logged, never fatal to the settlement flow.
type Invoice struct {
	ID            string        `json:"id" db:"id"`
	BookingID     string        `json:"booking_id" db:"booking_id"`
	InvoiceNumber string        `json:"invoice_number" db:"invoice_number"`
	Amount        float64       `json:"amount" db:"amount"`
	PaymentStatus PaymentStatus `json:"payment_status" db:"payment_status"`
	PaymentMethod *string       `json:"payment_method,omitempty" db:"payment_method"`
	PaidAt        *time.Time    `json:"paid_at,omitempty" db:"paid_at"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
}

// GenerateInvoiceNumber builds a time-based invoice number
func GenerateInvoiceNumber(now time.Time) string {
	return fmt.Sprintf("INV-%d", now.UnixMilli())
}
