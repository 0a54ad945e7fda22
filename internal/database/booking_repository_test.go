package database

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripgo/booking-backend/internal/models"
)

var bookingTestColumns = []string{
	"id", "booking_code", "order_id", "user_id", "schedule_id",
	"status", "payment_status", "total_amount", "discount_amount",
	"passenger_count", "selected_seats", "notes", "source",
	"created_at", "updated_at",
}

func bookingRow(id, code, orderID string, now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(bookingTestColumns).AddRow(
		id, code, orderID, nil, nil,
		"pending", "pending", 150000.0, nil,
		2, []byte(`{A1,A2}`), nil, nil,
		now, now,
	)
}

func TestBookingFind(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewBookingRepository(&mockDatabase{db: db})
	now := time.Now()

	t.Run("By Booking Code", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE booking_code`).
			WithArgs("TRIP-001").
			WillReturnRows(bookingRow("b-1", "TRIP-001", "ORDER-001", now))

		booking, err := repo.Find("TRIP-001", "", "")
		require.NoError(t, err)
		assert.Equal(t, "TRIP-001", booking.BookingCode)
		require.NotNil(t, booking.OrderID)
		assert.Equal(t, "ORDER-001", *booking.OrderID)
		assert.Equal(t, []string{"A1", "A2"}, []string(booking.SelectedSeats))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("By Order ID When Code Empty", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE order_id`).
			WithArgs("ORDER-001").
			WillReturnRows(bookingRow("b-1", "TRIP-001", "ORDER-001", now))

		booking, err := repo.Find("", "ORDER-001", "")
		require.NoError(t, err)
		assert.Equal(t, "TRIP-001", booking.BookingCode)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE booking_code`).
			WithArgs("MISSING").
			WillReturnError(sql.ErrNoRows)

		booking, err := repo.Find("MISSING", "", "")
		assert.Equal(t, sql.ErrNoRows, err)
		assert.Nil(t, booking)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No Identifier", func(t *testing.T) {
		booking, err := repo.Find("", "", "")
		assert.Error(t, err)
		assert.Nil(t, booking)
	})
}

func TestCreateIdempotent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewBookingRepository(&mockDatabase{db: db})
	now := time.Now()

	orderID := "ORDER-777"
	newBooking := func() *models.Booking {
		return &models.Booking{
			BookingCode:    orderID,
			OrderID:        &orderID,
			Status:         models.BookingStatusConfirmed,
			PaymentStatus:  models.PaymentStatusPaid,
			TotalAmount:    250000,
			PassengerCount: 1,
		}
	}

	t.Run("Creates New Booking", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO bookings`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		booking, created, err := repo.CreateIdempotent(newBooking())
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotEmpty(t, booking.ID)
		assert.Equal(t, orderID, booking.BookingCode)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Conflict Returns Existing Booking", func(t *testing.T) {
		// ON CONFLICT DO NOTHING yields no RETURNING row
		mock.ExpectQuery(`INSERT INTO bookings`).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE booking_code`).
			WithArgs(orderID).
			WillReturnRows(bookingRow("existing-id", orderID, orderID, now))

		booking, created, err := repo.CreateIdempotent(newBooking())
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, "existing-id", booking.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Insert Error", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO bookings`).
			WillReturnError(fmt.Errorf("database error"))

		booking, created, err := repo.CreateIdempotent(newBooking())
		assert.Error(t, err)
		assert.False(t, created)
		assert.Nil(t, booking)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestApplyUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewBookingRepository(&mockDatabase{db: db})
	now := time.Now()

	t.Run("Partial Update", func(t *testing.T) {
		status := models.BookingStatusConfirmed
		paymentStatus := models.PaymentStatusPaid
		update := &models.BookingUpdate{Status: &status, PaymentStatus: &paymentStatus}

		rows := sqlmock.NewRows(bookingTestColumns).AddRow(
			"b-1", "TRIP-001", "ORDER-001", nil, nil,
			"confirmed", "paid", 150000.0, nil,
			2, []byte(`{A1,A2}`), nil, nil,
			now, now,
		)
		mock.ExpectQuery(`UPDATE bookings`).
			WithArgs("confirmed", "paid", "TRIP-001", "ORDER-001").
			WillReturnRows(rows)

		booking, err := repo.ApplyUpdate("TRIP-001", "ORDER-001", update)
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
		assert.Equal(t, models.PaymentStatusPaid, booking.PaymentStatus)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No Identifier", func(t *testing.T) {
		status := models.BookingStatusConfirmed
		booking, err := repo.ApplyUpdate("", "", &models.BookingUpdate{Status: &status})
		assert.Error(t, err)
		assert.Nil(t, booking)
	})
}

// mockDatabase wraps a sqlmock *sql.DB to satisfy the DB interface
type mockDatabase struct {
	db *sql.DB
}

func (m *mockDatabase) Get(dest interface{}, query string, args ...interface{}) error {
	return fmt.Errorf("Get not implemented in mock")
}

func (m *mockDatabase) Select(dest interface{}, query string, args ...interface{}) error {
	return fmt.Errorf("Select not implemented in mock")
}

func (m *mockDatabase) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return m.db.Query(query, args...)
}

func (m *mockDatabase) QueryRow(query string, args ...interface{}) *sql.Row {
	return m.db.QueryRow(query, args...)
}

func (m *mockDatabase) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return m.db.QueryContext(ctx, query, args...)
}

func (m *mockDatabase) Exec(query string, args ...interface{}) (sql.Result, error) {
	return m.db.Exec(query, args...)
}

func (m *mockDatabase) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return m.db.ExecContext(ctx, query, args...)
}

func (m *mockDatabase) Close() error {
	return m.db.Close()
}

func (m *mockDatabase) Ping() error {
	return m.db.Ping()
}
