package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/tripgo/booking-backend/internal/models"
)

const transactionColumns = `id, order_id, status, gross_amount,
	   customer_name, customer_email, customer_phone,
	   payment_method, payment_url, booking_id,
	   transaction_data, metadata, created_at, updated_at`

// PaymentTransactionRepository handles database operations for the
// payment_transactions table
type PaymentTransactionRepository struct {
	db DB
}

// NewPaymentTransactionRepository creates a new PaymentTransactionRepository
func NewPaymentTransactionRepository(db DB) *PaymentTransactionRepository {
	return &PaymentTransactionRepository{db: db}
}

// GetByOrderID retrieves a transaction by exact order id
func (r *PaymentTransactionRepository) GetByOrderID(orderID string) (*models.PaymentTransaction, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM payment_transactions
		WHERE order_id = $1
	`, transactionColumns)

	return r.scanTransaction(r.db.QueryRow(query, orderID))
}

// FindFuzzy is the recovery path for gateway redirects that mangle the
// order id: a partial match against order_id, newest first.
func (r *PaymentTransactionRepository) FindFuzzy(orderIDFragment string) (*models.PaymentTransaction, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM payment_transactions
		WHERE order_id ILIKE '%%' || $1 || '%%'
		ORDER BY created_at DESC
		LIMIT 1
	`, transactionColumns)

	return r.scanTransaction(r.db.QueryRow(query, orderIDFragment))
}

// UpdateStatus overwrites the status (and optionally the raw gateway
// payload) of an existing transaction. Returns sql.ErrNoRows when no row
// matches, which the upsert path uses to fall through to Insert.
func (r *PaymentTransactionRepository) UpdateStatus(orderID string, status models.TransactionStatus, transactionData, metadata []byte) (*models.PaymentTransaction, error) {
	query := fmt.Sprintf(`
		UPDATE payment_transactions
		SET status = $2,
			transaction_data = COALESCE($3, transaction_data),
			metadata = COALESCE($4, metadata),
			updated_at = NOW()
		WHERE order_id = $1
		RETURNING %s
	`, transactionColumns)

	return r.scanTransaction(r.db.QueryRow(query, orderID, status, nullableJSON(transactionData), nullableJSON(metadata)))
}

// Insert creates a new transaction row. The first settlement notification
// for an order can itself create the record.
func (r *PaymentTransactionRepository) Insert(tx *models.PaymentTransaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}

	query := `
		INSERT INTO payment_transactions (
			id, order_id, status, gross_amount,
			customer_name, customer_email, customer_phone,
			payment_method, payment_url, booking_id,
			transaction_data, metadata
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		tx.ID, tx.OrderID, tx.Status, tx.GrossAmount,
		tx.CustomerName, tx.CustomerEmail, tx.CustomerPhone,
		tx.PaymentMethod, tx.PaymentURL, tx.BookingID,
		nullableJSON(tx.TransactionData), nullableJSON(tx.Metadata),
	).Scan(&tx.CreatedAt, &tx.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert payment transaction: %w", err)
	}
	return nil
}

// LinkBooking back-links a transaction to the booking created for it
func (r *PaymentTransactionRepository) LinkBooking(orderID, bookingID string) error {
	query := `
		UPDATE payment_transactions
		SET booking_id = $2, updated_at = NOW()
		WHERE order_id = $1
	`

	result, err := r.db.Exec(query, orderID, bookingID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("transaction not found")
	}
	return nil
}

// GetLatestForOrder retrieves the most recent transaction for an order id,
// used by the booking status read to attach payment context.
func (r *PaymentTransactionRepository) GetLatestForOrder(orderID string) (*models.PaymentTransaction, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM payment_transactions
		WHERE order_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, transactionColumns)

	return r.scanTransaction(r.db.QueryRow(query, orderID))
}

// ExpireStalePending flips pending transactions older than the expiry
// window to the gateway's terminal "expire" state. Run by the sweep job.
func (r *PaymentTransactionRepository) ExpireStalePending() (int, error) {
	query := `
		UPDATE payment_transactions
		SET status = 'expire', updated_at = NOW()
		WHERE status = 'pending'
		  AND created_at < NOW() - INTERVAL '24 hours'
	`

	result, err := r.db.Exec(query)
	if err != nil {
		return 0, fmt.Errorf("failed to expire stale transactions: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rows), nil
}

// scanTransaction scans a single transaction row
func (r *PaymentTransactionRepository) scanTransaction(row scanner) (*models.PaymentTransaction, error) {
	tx := &models.PaymentTransaction{}
	var customerName sql.NullString
	var customerEmail sql.NullString
	var customerPhone sql.NullString
	var paymentMethod sql.NullString
	var paymentURL sql.NullString
	var bookingID sql.NullString
	var transactionData []byte
	var metadata []byte

	err := row.Scan(
		&tx.ID, &tx.OrderID, &tx.Status, &tx.GrossAmount,
		&customerName, &customerEmail, &customerPhone,
		&paymentMethod, &paymentURL, &bookingID,
		&transactionData, &metadata, &tx.CreatedAt, &tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if customerName.Valid {
		tx.CustomerName = &customerName.String
	}
	if customerEmail.Valid {
		tx.CustomerEmail = &customerEmail.String
	}
	if customerPhone.Valid {
		tx.CustomerPhone = &customerPhone.String
	}
	if paymentMethod.Valid {
		tx.PaymentMethod = &paymentMethod.String
	}
	if paymentURL.Valid {
		tx.PaymentURL = &paymentURL.String
	}
	if bookingID.Valid {
		tx.BookingID = &bookingID.String
	}
	if len(transactionData) > 0 {
		tx.TransactionData = transactionData
	}
	if len(metadata) > 0 {
		tx.Metadata = metadata
	}

	return tx, nil
}

// nullableJSON maps empty payloads to NULL so COALESCE keeps prior data
func nullableJSON(data []byte) interface{} {
	if len(data) == 0 {
		return nil
	}
	return []byte(data)
}
