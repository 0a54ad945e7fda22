package services

import (
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/tripgo/booking-backend/internal/database"
	"github.com/tripgo/booking-backend/internal/models"
)

// Seat adjustment actions
const (
	SeatActionReserve = "reserve"
	SeatActionConfirm = "confirm"
	SeatActionRelease = "release"
)

// SeatAdjustment is the result of a seat-availability adjustment.
// Outcome is Failed only when a located counter could not be persisted;
// every other fault degrades instead, because seat accounting must never
// abort the booking flow that depends on it.
type SeatAdjustment struct {
	Outcome        Outcome `json:"-"`
	Success        bool    `json:"success"`
	Message        string  `json:"message"`
	AvailableSeats int     `json:"availableSeats"`
}

// SeatService adjusts available-seat counters on schedules
type SeatService struct {
	scheduleRepo *database.ScheduleRepository
	logger       *logrus.Logger
}

// NewSeatService creates a new SeatService
func NewSeatService(scheduleRepo *database.ScheduleRepository, logger *logrus.Logger) *SeatService {
	return &SeatService{scheduleRepo: scheduleRepo, logger: logger}
}

// isSentinelScheduleID recognizes placeholder ids sent by demo/dev flows
func isSentinelScheduleID(scheduleID string) bool {
	switch scheduleID {
	case "", "undefined", "null", "demo":
		return true
	}
	return false
}

// AdjustSeats applies a reserve/confirm/release adjustment for the given
// passenger count, clamping the counter to [0, total_seats].
func (s *SeatService) AdjustSeats(scheduleID string, passengerCount int, action string) SeatAdjustment {
	if action == "" {
		action = SeatActionConfirm
	}
	if passengerCount <= 0 {
		passengerCount = 1
	}

	// Intentional no-op for demo/dev flows that carry no real schedule
	if isSentinelScheduleID(scheduleID) {
		seatAdjustmentsTotal.WithLabelValues(action, string(OutcomeOK)).Inc()
		return SeatAdjustment{
			Outcome:        OutcomeOK,
			Success:        true,
			Message:        "No schedule specified, seat adjustment skipped",
			AvailableSeats: models.DefaultTotalSeats,
		}
	}

	// Release returns seats; reserve and confirm both hold them. The
	// clamp to [0, total_seats] happens inside the update statement, so
	// concurrent adjustments cannot lose each other's writes.
	delta := -passengerCount
	if action == SeatActionRelease {
		delta = passengerCount
	}

	schedule, err := s.scheduleRepo.AdjustAvailableSeats(scheduleID, delta, models.DefaultTotalSeats)
	if err != nil {
		if err == sql.ErrNoRows {
			s.logger.WithField("schedule_id", scheduleID).Warn("Schedule not found for seat adjustment")
			seatAdjustmentsTotal.WithLabelValues(action, string(OutcomeDegraded)).Inc()
			return SeatAdjustment{
				Outcome:        OutcomeDegraded,
				Success:        true,
				Message:        fmt.Sprintf("Schedule %s not found, seat adjustment skipped", scheduleID),
				AvailableSeats: models.DefaultTotalSeats,
			}
		}

		s.logger.WithError(err).WithFields(logrus.Fields{
			"schedule_id": scheduleID,
			"action":      action,
		}).Error("Seat update failed")
		seatAdjustmentsTotal.WithLabelValues(action, string(OutcomeFailed)).Inc()
		return SeatAdjustment{
			Outcome:        OutcomeFailed,
			Success:        false,
			Message:        fmt.Sprintf("Failed to update seats: %v", err),
			AvailableSeats: 0,
		}
	}

	updated, _ := schedule.SeatCounts()

	s.logger.WithFields(logrus.Fields{
		"schedule_id":     scheduleID,
		"action":          action,
		"passenger_count": passengerCount,
		"available_seats": updated,
	}).Info("Seat availability adjusted")

	seatAdjustmentsTotal.WithLabelValues(action, string(OutcomeOK)).Inc()
	return SeatAdjustment{
		Outcome:        OutcomeOK,
		Success:        true,
		Message:        fmt.Sprintf("Seat availability updated (%s)", action),
		AvailableSeats: updated,
	}
}
