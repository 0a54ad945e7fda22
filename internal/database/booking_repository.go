package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tripgo/booking-backend/internal/models"
)

// bookingColumns is the canonical column list for bookings queries
const bookingColumns = `id, booking_code, order_id, user_id, schedule_id,
	   status, payment_status, total_amount, discount_amount,
	   passenger_count, selected_seats, notes, source,
	   created_at, updated_at`

// BookingRepository handles database operations for the bookings table
type BookingRepository struct {
	db DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Find resolves a booking by the first non-empty identifier, in order:
// booking_code, order_id, id. A miss returns sql.ErrNoRows, which callers
// treat as an expected, non-exceptional outcome.
func (r *BookingRepository) Find(bookingCode, orderID, bookingID string) (*models.Booking, error) {
	var field, value string
	switch {
	case bookingCode != "":
		field, value = "booking_code", bookingCode
	case orderID != "":
		field, value = "order_id", orderID
	case bookingID != "":
		field, value = "id", bookingID
	default:
		return nil, fmt.Errorf("at least one identifier is required")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM bookings
		WHERE %s = $1
	`, bookingColumns, field)

	return r.scanBooking(r.db.QueryRow(query, value))
}

// GetByCode retrieves a booking by booking code
func (r *BookingRepository) GetByCode(bookingCode string) (*models.Booking, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM bookings
		WHERE booking_code = $1
	`, bookingColumns)

	return r.scanBooking(r.db.QueryRow(query, bookingCode))
}

// CreateIdempotent inserts a booking, relying on the UNIQUE constraint on
// booking_code to absorb concurrent duplicate settlement notifications.
// When the row already exists the existing booking is returned and created
// is false; the second writer's insert becomes a no-op.
func (r *BookingRepository) CreateIdempotent(booking *models.Booking) (*models.Booking, bool, error) {
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}

	query := `
		INSERT INTO bookings (
			id, booking_code, order_id, user_id, schedule_id,
			status, payment_status, total_amount, discount_amount,
			passenger_count, selected_seats, notes, source
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
		ON CONFLICT (booking_code) DO NOTHING
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		booking.ID, booking.BookingCode, booking.OrderID, booking.UserID, booking.ScheduleID,
		booking.Status, booking.PaymentStatus, booking.TotalAmount, booking.DiscountAmount,
		booking.PassengerCount, booking.SelectedSeats, booking.Notes, booking.Source,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)

	if err == sql.ErrNoRows {
		// Conflict: a booking with this code already exists
		existing, getErr := r.GetByCode(booking.BookingCode)
		if getErr != nil {
			return nil, false, fmt.Errorf("booking exists but could not be loaded: %w", getErr)
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to create booking: %w", err)
	}

	return booking, true, nil
}

// ApplyUpdate persists a partial status update, matching by booking_code OR
// order_id to defend against code/order drift between the two identifiers.
// Only the fields present in the update are written.
func (r *BookingRepository) ApplyUpdate(bookingCode, orderID string, update *models.BookingUpdate) (*models.Booking, error) {
	if bookingCode == "" && orderID == "" {
		return nil, fmt.Errorf("at least one identifier is required")
	}

	setClauses := []string{}
	args := []interface{}{}
	arg := 1

	if update.Status != nil {
		setClauses = append(setClauses, fmt.Sprintf("status = $%d", arg))
		args = append(args, *update.Status)
		arg++
	}
	if update.PaymentStatus != nil {
		setClauses = append(setClauses, fmt.Sprintf("payment_status = $%d", arg))
		args = append(args, *update.PaymentStatus)
		arg++
	}
	if update.Notes != nil {
		setClauses = append(setClauses, fmt.Sprintf("notes = $%d", arg))
		args = append(args, *update.Notes)
		arg++
	}
	if update.SelectedSeats != nil {
		setClauses = append(setClauses, fmt.Sprintf("selected_seats = $%d", arg))
		args = append(args, update.SelectedSeats)
		arg++
	}
	setClauses = append(setClauses, "updated_at = NOW()")

	query := fmt.Sprintf(`
		UPDATE bookings
		SET %s
		WHERE booking_code = $%d OR order_id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), arg, arg+1, bookingColumns)
	args = append(args, bookingCode, orderID)

	return r.scanBooking(r.db.QueryRow(query, args...))
}

// LinkUser attaches a user to a booking created before the account existed
func (r *BookingRepository) LinkUser(bookingID, userID string) error {
	query := `
		UPDATE bookings
		SET user_id = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, bookingID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("booking not found")
	}
	return nil
}

// scanBooking scans a single booking row
func (r *BookingRepository) scanBooking(row scanner) (*models.Booking, error) {
	booking := &models.Booking{}
	var orderID sql.NullString
	var userID sql.NullString
	var scheduleID sql.NullString
	var discountAmount sql.NullFloat64
	var notes sql.NullString
	var source sql.NullString

	err := row.Scan(
		&booking.ID, &booking.BookingCode, &orderID, &userID, &scheduleID,
		&booking.Status, &booking.PaymentStatus, &booking.TotalAmount, &discountAmount,
		&booking.PassengerCount, &booking.SelectedSeats, &notes, &source,
		&booking.CreatedAt, &booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if orderID.Valid {
		booking.OrderID = &orderID.String
	}
	if userID.Valid {
		booking.UserID = &userID.String
	}
	if scheduleID.Valid {
		booking.ScheduleID = &scheduleID.String
	}
	if discountAmount.Valid {
		booking.DiscountAmount = discountAmount.Float64
	}
	if notes.Valid {
		booking.Notes = &notes.String
	}
	if source.Valid {
		booking.Source = &source.String
	}

	return booking, nil
}
