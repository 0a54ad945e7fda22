package services

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripgo/booking-backend/internal/database"
	"github.com/tripgo/booking-backend/internal/models"
)

var bookingTestColumns = []string{
	"id", "booking_code", "order_id", "user_id", "schedule_id",
	"status", "payment_status", "total_amount", "discount_amount",
	"passenger_count", "selected_seats", "notes", "source",
	"created_at", "updated_at",
}

func newBookingStatusService(db *sql.DB) *BookingStatusService {
	mockDB := &mockDatabase{db: db}
	return NewBookingStatusService(
		database.NewBookingRepository(mockDB),
		database.NewPaymentTransactionRepository(mockDB),
		NewSeatService(database.NewScheduleRepository(mockDB), testLogger()),
		testLogger(),
	)
}

func TestUpdateBookingStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := newBookingStatusService(db)
	now := time.Now()

	t.Run("No Identifiers Yields Placeholder Success", func(t *testing.T) {
		result := svc.UpdateBookingStatus(&models.UpdateBookingStatusRequest{})

		assert.Equal(t, OutcomeOK, result.Outcome)
		assert.True(t, result.Outcome.Accepted())
		require.NotNil(t, result.Booking)
		assert.True(t, result.Booking.Dummy)
		assert.True(t, strings.HasPrefix(result.Booking.BookingCode, "BOOK-"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Booking Yields Dummy Success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE booking_code`).
			WithArgs("TRIP-404").
			WillReturnError(sql.ErrNoRows)

		result := svc.UpdateBookingStatus(&models.UpdateBookingStatusRequest{
			BookingCode:   "TRIP-404",
			Status:        models.BookingStatusConfirmed,
			PaymentStatus: models.PaymentStatusPaid,
		})

		assert.Equal(t, OutcomeOK, result.Outcome)
		require.NotNil(t, result.Booking)
		assert.True(t, result.Booking.Dummy)
		assert.Equal(t, "TRIP-404", result.Booking.BookingCode)
		assert.Equal(t, models.BookingStatusConfirmed, result.Booking.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Paid Implies Confirmed When Status Omitted", func(t *testing.T) {
		found := sqlmock.NewRows(bookingTestColumns).AddRow(
			"b-1", "TRIP-001", "ORDER-001", nil, nil,
			"pending", "pending", 150000.0, nil,
			2, []byte(`{A1,A2}`), nil, nil,
			now, now,
		)
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE booking_code`).
			WithArgs("TRIP-001").
			WillReturnRows(found)

		updated := sqlmock.NewRows(bookingTestColumns).AddRow(
			"b-1", "TRIP-001", "ORDER-001", nil, nil,
			"confirmed", "paid", 150000.0, nil,
			2, []byte(`{A1,A2}`), nil, nil,
			now, now,
		)
		mock.ExpectQuery(`UPDATE bookings`).
			WithArgs("confirmed", "paid", "TRIP-001", "ORDER-001").
			WillReturnRows(updated)

		result := svc.UpdateBookingStatus(&models.UpdateBookingStatusRequest{
			BookingCode:   "TRIP-001",
			PaymentStatus: models.PaymentStatusPaid,
		})

		assert.Equal(t, OutcomeOK, result.Outcome)
		assert.Equal(t, models.BookingStatusConfirmed, result.Booking.Status)
		assert.Equal(t, models.PaymentStatusPaid, result.Booking.PaymentStatus)
		assert.False(t, result.Booking.Dummy)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Persistence Failure Degrades With Warning", func(t *testing.T) {
		found := sqlmock.NewRows(bookingTestColumns).AddRow(
			"b-1", "TRIP-001", "ORDER-001", nil, nil,
			"pending", "pending", 150000.0, nil,
			2, []byte(`{A1,A2}`), nil, nil,
			now, now,
		)
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE booking_code`).
			WithArgs("TRIP-001").
			WillReturnRows(found)
		mock.ExpectQuery(`UPDATE bookings`).
			WillReturnError(sql.ErrConnDone)

		result := svc.UpdateBookingStatus(&models.UpdateBookingStatusRequest{
			BookingCode: "TRIP-001",
			Status:      models.BookingStatusCancelled,
		})

		assert.Equal(t, OutcomeDegraded, result.Outcome)
		assert.True(t, result.Outcome.Accepted())
		assert.NotEmpty(t, result.Warning)
		// The response still reflects the requested change
		assert.Equal(t, models.BookingStatusCancelled, result.Booking.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Seat Adjustment Included When Schedule Given", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE booking_code`).
			WithArgs("TRIP-404").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`UPDATE schedules`).
			WithArgs("sched-1", -2, models.DefaultTotalSeats).
			WillReturnRows(sqlmock.NewRows([]string{"id", "train_name", "train_type", "available_seats", "total_seats"}).
				AddRow("sched-1", nil, nil, 8, 100))

		result := svc.UpdateBookingStatus(&models.UpdateBookingStatusRequest{
			BookingCode:    "TRIP-404",
			ScheduleID:     "sched-1",
			PassengerCount: 2,
			Action:         SeatActionReserve,
		})

		require.NotNil(t, result.SeatUpdate)
		assert.Equal(t, 8, result.SeatUpdate.AvailableSeats)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetBookingStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := newBookingStatusService(db)
	now := time.Now()

	t.Run("Both Identifiers Missing Is An Error", func(t *testing.T) {
		view, err := svc.GetBookingStatus("", "")
		assert.Error(t, err)
		assert.Nil(t, view)
	})

	t.Run("Miss Returns Dummy View", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE booking_code`).
			WithArgs("TRIP-404").
			WillReturnError(sql.ErrNoRows)

		view, err := svc.GetBookingStatus("TRIP-404", "")
		require.NoError(t, err)
		assert.Equal(t, "dummy", view.Source)
		assert.True(t, view.Booking.Dummy)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Found With Transaction", func(t *testing.T) {
		found := sqlmock.NewRows(bookingTestColumns).AddRow(
			"b-1", "TRIP-001", "ORDER-001", nil, nil,
			"confirmed", "paid", 150000.0, nil,
			2, []byte(`{A1,A2}`), nil, nil,
			now, now,
		)
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE booking_code`).
			WithArgs("TRIP-001").
			WillReturnRows(found)

		txRows := sqlmock.NewRows([]string{
			"id", "order_id", "status", "gross_amount",
			"customer_name", "customer_email", "customer_phone",
			"payment_method", "payment_url", "booking_id",
			"transaction_data", "metadata", "created_at", "updated_at",
		}).AddRow(
			"tx-1", "ORDER-001", "settlement", 150000.0,
			nil, nil, nil, nil, nil, "b-1", nil, nil, now, now,
		)
		mock.ExpectQuery(`SELECT (.+) FROM payment_transactions WHERE order_id`).
			WithArgs("ORDER-001").
			WillReturnRows(txRows)

		view, err := svc.GetBookingStatus("TRIP-001", "")
		require.NoError(t, err)
		assert.Equal(t, "database", view.Source)
		require.NotNil(t, view.Transaction)
		assert.Equal(t, models.TransactionStatusSettlement, view.Transaction.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
