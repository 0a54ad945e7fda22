package database

import (
	"database/sql"

	"github.com/tripgo/booking-backend/internal/models"
)

// ScheduleRepository handles seat-counter operations on the schedules table
type ScheduleRepository struct {
	db DB
}

// NewScheduleRepository creates a new ScheduleRepository
func NewScheduleRepository(db DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// AdjustAvailableSeats applies a signed delta to a schedule's counter in a
// single statement, clamped to [0, total_seats], so concurrent adjustments
// cannot lose each other's writes. Unset counters take defaultTotal inside
// the statement. Returns the updated counters; sql.ErrNoRows when the
// schedule does not exist.
func (r *ScheduleRepository) AdjustAvailableSeats(scheduleID string, delta, defaultTotal int) (*models.Schedule, error) {
	query := `
		UPDATE schedules
		SET available_seats = GREATEST(0, LEAST(
				COALESCE(total_seats, $3),
				COALESCE(available_seats, total_seats, $3) + $2
			)),
			updated_at = NOW()
		WHERE id = $1
		RETURNING id, train_name, train_type, available_seats, total_seats
	`

	return r.scanSchedule(r.db.QueryRow(query, scheduleID, delta, defaultTotal))
}

// scanSchedule scans the seat-counter columns of a schedule row
func (r *ScheduleRepository) scanSchedule(row scanner) (*models.Schedule, error) {
	schedule := &models.Schedule{}
	var trainName sql.NullString
	var trainType sql.NullString
	var availableSeats sql.NullInt64
	var totalSeats sql.NullInt64

	err := row.Scan(
		&schedule.ID, &trainName, &trainType, &availableSeats, &totalSeats,
	)
	if err != nil {
		return nil, err
	}

	if trainName.Valid {
		schedule.TrainName = &trainName.String
	}
	if trainType.Valid {
		schedule.TrainType = &trainType.String
	}
	if availableSeats.Valid {
		v := int(availableSeats.Int64)
		schedule.AvailableSeats = &v
	}
	if totalSeats.Valid {
		v := int(totalSeats.Int64)
		schedule.TotalSeats = &v
	}

	return schedule, nil
}
