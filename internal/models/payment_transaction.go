package models

import (
	"encoding/json"
	"time"
)

// TransactionStatus uses the payment gateway's vocabulary
type TransactionStatus string

const (
	TransactionStatusPending    TransactionStatus = "pending"
	TransactionStatusSettlement TransactionStatus = "settlement"
	TransactionStatusCapture    TransactionStatus = "capture"
	TransactionStatusExpire     TransactionStatus = "expire"
	TransactionStatusDeny       TransactionStatus = "deny"
	TransactionStatusCancel     TransactionStatus = "cancel"

	// TransactionStatusExpired is the read-time projection applied to
	// pending transactions older than the expiry window. The sweep job
	// persists the gateway's "expire" value instead.
	TransactionStatusExpired TransactionStatus = "expired"
)

// IsTerminalSuccess reports whether the status is a gateway-reported
// terminal success state (settlement or capture)
func (s TransactionStatus) IsTerminalSuccess() bool {
	return s == TransactionStatusSettlement || s == TransactionStatusCapture
}

// PendingExpiryWindow is how long a pending transaction is honored before
// being reported as expired.
const PendingExpiryWindow = 24 * time.Hour

// PaymentTransaction represents one attempt to pay for an order
type PaymentTransaction struct {
	ID              string            `json:"id" db:"id"`
	OrderID         string            `json:"order_id" db:"order_id"`
	Status          TransactionStatus `json:"status" db:"status"`
	GrossAmount     float64           `json:"gross_amount" db:"gross_amount"`
	CustomerName    *string           `json:"customer_name,omitempty" db:"customer_name"`
	CustomerEmail   *string           `json:"customer_email,omitempty" db:"customer_email"`
	CustomerPhone   *string           `json:"customer_phone,omitempty" db:"customer_phone"`
	PaymentMethod   *string           `json:"payment_method,omitempty" db:"payment_method"`
	PaymentURL      *string           `json:"payment_url,omitempty" db:"payment_url"`
	BookingID       *string           `json:"booking_id,omitempty" db:"booking_id"`
	TransactionData json.RawMessage   `json:"transaction_data,omitempty" db:"transaction_data"`
	Metadata        json.RawMessage   `json:"metadata,omitempty" db:"metadata"`
	CreatedAt       time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at" db:"updated_at"`
}

// EffectiveStatus applies the read-time pending-expiry projection
func (t *PaymentTransaction) EffectiveStatus(now time.Time) TransactionStatus {
	if t.Status == TransactionStatusPending && now.Sub(t.CreatedAt) > PendingExpiryWindow {
		return TransactionStatusExpired
	}
	return t.Status
}

// PaymentNotificationRequest is the body of POST /api/payment/status/:orderId,
// delivered by the gateway webhook or the client after local completion.
type PaymentNotificationRequest struct {
	Status          TransactionStatus `json:"status"`
	TransactionData json.RawMessage   `json:"transactionData,omitempty"`
	Metadata        json.RawMessage   `json:"metadata,omitempty"`

	// Fields the gateway includes in raw notifications; used to build the
	// transaction row when the first contact for an order is the webhook
	// itself, and for signature verification.
	GrossAmount   float64 `json:"grossAmount,omitempty"`
	StatusCode    string  `json:"statusCode,omitempty"`
	SignatureKey  string  `json:"signatureKey,omitempty"`
	CustomerName  string  `json:"customerName,omitempty"`
	CustomerEmail string  `json:"customerEmail,omitempty"`
	CustomerPhone string  `json:"customerPhone,omitempty"`
	PaymentMethod string  `json:"paymentMethod,omitempty"`
}

// PaymentStatusResponse is the shape returned by GET /api/payment/status/:orderId
type PaymentStatusResponse struct {
	Success       bool              `json:"success"`
	OrderID       string            `json:"orderId"`
	Status        TransactionStatus `json:"status"`
	Amount        float64           `json:"amount"`
	PaymentMethod *string           `json:"paymentMethod"`
	BookingID     *string           `json:"bookingId"`
	CustomerName  *string           `json:"customerName"`
	CustomerEmail *string           `json:"customerEmail"`
	Timestamp     time.Time         `json:"timestamp"`
	CreatedAt     time.Time         `json:"createdAt"`
	PaymentURL    *string           `json:"paymentUrl"`
	Metadata      json.RawMessage   `json:"metadata,omitempty"`
	Source        string            `json:"source"`
}
