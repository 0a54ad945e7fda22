package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tripgo/booking-backend/internal/models"
)

// WebhookAuditRepository records gateway webhook and poll contacts.
// Audit writes are best-effort from the caller's point of view, but a
// write failure is logged loudly since the trail backs dispute handling.
type WebhookAuditRepository struct {
	db     DB
	logger *logrus.Logger
}

// NewWebhookAuditRepository creates a new WebhookAuditRepository
func NewWebhookAuditRepository(db DB, logger *logrus.Logger) *WebhookAuditRepository {
	return &WebhookAuditRepository{db: db, logger: logger}
}

// Log creates a new audit entry
func (r *WebhookAuditRepository) Log(ctx context.Context, audit *models.PaymentWebhookAudit) error {
	if audit == nil {
		return fmt.Errorf("audit entry cannot be nil")
	}

	if audit.ID == uuid.Nil {
		audit.ID = uuid.New()
	}
	if audit.CreatedAt.IsZero() {
		audit.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO payment_webhook_audits (
			id, order_id, event_type, status, raw_body,
			http_method, endpoint_url, ip_address,
			user_agent, client_os, client_name, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)`

	_, err := r.db.ExecContext(ctx, query,
		audit.ID, audit.OrderID, audit.EventType, audit.Status, nullableJSON(audit.RawBody),
		audit.HTTPMethod, audit.EndpointURL, audit.IPAddress,
		audit.UserAgent, audit.ClientOS, audit.ClientName, audit.CreatedAt,
	)

	if err != nil {
		r.logger.WithError(err).WithFields(logrus.Fields{
			"event_type": audit.EventType,
			"order_id":   audit.OrderID,
		}).Error("Failed to log payment webhook audit")
		return fmt.Errorf("failed to log webhook audit: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"audit_id":   audit.ID,
		"event_type": audit.EventType,
		"order_id":   audit.OrderID,
	}).Debug("Payment webhook audit logged")

	return nil
}

// GetByOrderID retrieves all audit entries for an order, oldest first
func (r *WebhookAuditRepository) GetByOrderID(ctx context.Context, orderID string) ([]models.PaymentWebhookAudit, error) {
	query := `
		SELECT id, order_id, event_type, status, raw_body,
			   http_method, endpoint_url, ip_address,
			   user_agent, client_os, client_name, created_at
		FROM payment_webhook_audits
		WHERE order_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get audits by order ID: %w", err)
	}
	defer rows.Close()

	audits := []models.PaymentWebhookAudit{}
	for rows.Next() {
		var audit models.PaymentWebhookAudit
		var rawBody []byte
		var status, ipAddress, userAgent, clientOS, clientName sql.NullString
		err := rows.Scan(
			&audit.ID, &audit.OrderID, &audit.EventType, &status, &rawBody,
			&audit.HTTPMethod, &audit.EndpointURL, &ipAddress,
			&userAgent, &clientOS, &clientName, &audit.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if len(rawBody) > 0 {
			audit.RawBody = rawBody
		}
		if status.Valid {
			audit.Status = &status.String
		}
		if ipAddress.Valid {
			audit.IPAddress = &ipAddress.String
		}
		if userAgent.Valid {
			audit.UserAgent = &userAgent.String
		}
		if clientOS.Valid {
			audit.ClientOS = &clientOS.String
		}
		if clientName.Valid {
			audit.ClientName = &clientName.String
		}
		audits = append(audits, audit)
	}

	return audits, rows.Err()
}
