package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripgo/booking-backend/internal/config"
	"github.com/tripgo/booking-backend/internal/database"
	"github.com/tripgo/booking-backend/internal/models"
)

var transactionTestColumns = []string{
	"id", "order_id", "status", "gross_amount",
	"customer_name", "customer_email", "customer_phone",
	"payment_method", "payment_url", "booking_id",
	"transaction_data", "metadata", "created_at", "updated_at",
}

var userTestColumns = []string{
	"id", "email", "name", "phone", "role", "password_hash", "created_at", "updated_at",
}

func newSettlementService(db *sql.DB) *SettlementService {
	mockDB := &mockDatabase{db: db}
	return NewSettlementService(
		database.NewPaymentTransactionRepository(mockDB),
		database.NewBookingRepository(mockDB),
		database.NewInvoiceRepository(mockDB),
		database.NewUserRepository(mockDB),
		NewMailerService(config.SMTPConfig{}, testLogger()),
		testLogger(),
	)
}

func settledTxRow(orderID string, bookingID interface{}, now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(transactionTestColumns).AddRow(
		"tx-1", orderID, "settlement", 250000.0,
		"Budi Santoso", "budi@example.com", nil,
		"qris", nil, bookingID,
		nil, nil, now, now,
	)
}

func TestApplyStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := newSettlementService(db)
	now := time.Now()
	orderID := "ORDER-777"

	t.Run("First Settlement Creates Booking And Invoice", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE payment_transactions`).
			WillReturnRows(settledTxRow(orderID, nil, now))
		mock.ExpectQuery(`SELECT (.+) FROM users WHERE LOWER\(email\)`).
			WithArgs("budi@example.com").
			WillReturnRows(sqlmock.NewRows(userTestColumns).
				AddRow("user-1", "budi@example.com", "Budi Santoso", nil, "user", nil, now, now))
		mock.ExpectQuery(`INSERT INTO bookings`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
		mock.ExpectExec(`UPDATE payment_transactions`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM invoices`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`INSERT INTO invoices`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

		tx, bookingCreated, err := svc.ApplyStatus(orderID, &models.PaymentNotificationRequest{
			Status: models.TransactionStatusSettlement,
		})
		require.NoError(t, err)
		assert.True(t, bookingCreated)
		assert.Equal(t, models.TransactionStatusSettlement, tx.Status)
		require.NotNil(t, tx.BookingID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Second Settlement Reuses Existing Booking", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE payment_transactions`).
			WillReturnRows(settledTxRow(orderID, nil, now))
		mock.ExpectQuery(`SELECT (.+) FROM users WHERE LOWER\(email\)`).
			WithArgs("budi@example.com").
			WillReturnRows(sqlmock.NewRows(userTestColumns).
				AddRow("user-1", "budi@example.com", "Budi Santoso", nil, "user", nil, now, now))
		// ON CONFLICT DO NOTHING: no RETURNING row, so the existing
		// booking is loaded instead
		mock.ExpectQuery(`INSERT INTO bookings`).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE booking_code`).
			WithArgs(orderID).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "booking_code", "order_id", "user_id", "schedule_id",
				"status", "payment_status", "total_amount", "discount_amount",
				"passenger_count", "selected_seats", "notes", "source",
				"created_at", "updated_at",
			}).AddRow(
				"existing-booking", orderID, orderID, "user-1", nil,
				"confirmed", "paid", 250000.0, nil,
				1, nil, nil, "settlement",
				now, now,
			))
		mock.ExpectExec(`UPDATE payment_transactions`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM invoices`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		tx, bookingCreated, err := svc.ApplyStatus(orderID, &models.PaymentNotificationRequest{
			Status: models.TransactionStatusSettlement,
		})
		require.NoError(t, err)
		assert.False(t, bookingCreated)
		require.NotNil(t, tx.BookingID)
		assert.Equal(t, "existing-booking", *tx.BookingID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("First Notification Inserts Transaction", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE payment_transactions`).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`INSERT INTO payment_transactions`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		tx, bookingCreated, err := svc.ApplyStatus("ORDER-NEW", &models.PaymentNotificationRequest{
			Status:        models.TransactionStatusPending,
			GrossAmount:   100000,
			CustomerEmail: "budi@example.com",
		})
		require.NoError(t, err)
		assert.False(t, bookingCreated)
		assert.Equal(t, "ORDER-NEW", tx.OrderID)
		assert.Equal(t, models.TransactionStatusPending, tx.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Customer Email Skips Booking Creation", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE payment_transactions`).
			WillReturnRows(settledTxRow(orderID, nil, now))
		mock.ExpectQuery(`SELECT (.+) FROM users WHERE LOWER\(email\)`).
			WithArgs("budi@example.com").
			WillReturnError(sql.ErrNoRows)

		tx, bookingCreated, err := svc.ApplyStatus(orderID, &models.PaymentNotificationRequest{
			Status: models.TransactionStatusSettlement,
		})
		require.NoError(t, err)
		assert.False(t, bookingCreated)
		assert.Nil(t, tx.BookingID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLookup(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := newSettlementService(db)
	now := time.Now()

	t.Run("Exact Match", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM payment_transactions WHERE order_id = \$1`).
			WithArgs("ORDER-12345-XYZ").
			WillReturnRows(settledTxRow("ORDER-12345-XYZ", nil, now))

		tx, source, err := svc.Lookup("ORDER-12345-XYZ")
		require.NoError(t, err)
		assert.Equal(t, "database", source)
		assert.Equal(t, "ORDER-12345-XYZ", tx.OrderID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Fuzzy Fallback", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM payment_transactions WHERE order_id = \$1`).
			WithArgs("12345").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`SELECT (.+) FROM payment_transactions WHERE order_id ILIKE`).
			WithArgs("12345").
			WillReturnRows(settledTxRow("ORDER-12345-XYZ", nil, now))

		tx, source, err := svc.Lookup("12345")
		require.NoError(t, err)
		assert.Equal(t, "fuzzy", source)
		assert.Equal(t, "ORDER-12345-XYZ", tx.OrderID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Total Miss", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM payment_transactions WHERE order_id = \$1`).
			WithArgs("nothing").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`SELECT (.+) FROM payment_transactions WHERE order_id ILIKE`).
			WithArgs("nothing").
			WillReturnError(sql.ErrNoRows)

		tx, _, err := svc.Lookup("nothing")
		assert.Equal(t, ErrTransactionNotFound, err)
		assert.Nil(t, tx)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
