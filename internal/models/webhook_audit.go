package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PaymentEventType classifies gateway contacts for the audit trail
type PaymentEventType string

const (
	PaymentEventNotification PaymentEventType = "notification"
	PaymentEventStatusCheck  PaymentEventType = "status_check"
	PaymentEventRedirect     PaymentEventType = "redirect"
)

// PaymentWebhookAudit records one gateway webhook or poll contact.
// Logging an audit row is best-effort and never blocks the payment flow,
// but every contact should leave a trace for reconciliation disputes.
type PaymentWebhookAudit struct {
	ID          uuid.UUID        `json:"id" db:"id"`
	OrderID     string           `json:"order_id" db:"order_id"`
	EventType   PaymentEventType `json:"event_type" db:"event_type"`
	Status      *string          `json:"status,omitempty" db:"status"`
	RawBody     json.RawMessage  `json:"raw_body,omitempty" db:"raw_body"`
	HTTPMethod  string           `json:"http_method" db:"http_method"`
	EndpointURL string           `json:"endpoint_url" db:"endpoint_url"`
	IPAddress   *string          `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent   *string          `json:"user_agent,omitempty" db:"user_agent"`
	ClientOS    *string          `json:"client_os,omitempty" db:"client_os"`
	ClientName  *string          `json:"client_name,omitempty" db:"client_name"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
}
