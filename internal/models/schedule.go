package models

import "time"

// DefaultTotalSeats is assumed when a schedule row has no total_seats value
const DefaultTotalSeats = 100

// Schedule carries the seat counters for one departure. Only the seat
// fields are mutated by this service; the rest is read-only display data.
type Schedule struct {
	ID                string     `json:"id" db:"id"`
	TrainName         *string    `json:"train_name,omitempty" db:"train_name"`
	TrainType         *string    `json:"train_type,omitempty" db:"train_type"`
	OriginStation     *string    `json:"origin_station,omitempty" db:"origin_station"`
	DepartureStation  *string    `json:"departure_station,omitempty" db:"departure_station"`
	ArrivalStation    *string    `json:"arrival_station,omitempty" db:"arrival_station"`
	DepartureDatetime *time.Time `json:"departure_datetime,omitempty" db:"departure_datetime"`
	ArrivalDatetime   *time.Time `json:"arrival_datetime,omitempty" db:"arrival_datetime"`
	AvailableSeats    *int       `json:"available_seats" db:"available_seats"`
	TotalSeats        *int       `json:"total_seats" db:"total_seats"`
	Price             *float64   `json:"price,omitempty" db:"price"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// SeatCounts resolves the current available/total values, applying the
// defaults for unset columns. available defaults to total when NULL.
func (s *Schedule) SeatCounts() (available, total int) {
	total = DefaultTotalSeats
	if s.TotalSeats != nil {
		total = *s.TotalSeats
	}
	available = total
	if s.AvailableSeats != nil {
		available = *s.AvailableSeats
	}
	return available, total
}
