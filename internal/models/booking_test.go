package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDummyBooking(t *testing.T) {
	now := time.Now()

	t.Run("Defaults To Confirmed And Paid", func(t *testing.T) {
		booking := NewDummyBooking("TRIP-001", "ORDER-001", "", "", now)
		assert.Equal(t, "TRIP-001", booking.BookingCode)
		require.NotNil(t, booking.OrderID)
		assert.Equal(t, "ORDER-001", *booking.OrderID)
		assert.Equal(t, BookingStatusConfirmed, booking.Status)
		assert.Equal(t, PaymentStatusPaid, booking.PaymentStatus)
		assert.True(t, booking.Dummy)
	})

	t.Run("Requested Status Wins", func(t *testing.T) {
		booking := NewDummyBooking("TRIP-001", "", BookingStatusCancelled, PaymentStatusFailed, now)
		assert.Equal(t, BookingStatusCancelled, booking.Status)
		assert.Equal(t, PaymentStatusFailed, booking.PaymentStatus)
		assert.Nil(t, booking.OrderID)
	})

	t.Run("Missing Code Gets A Placeholder", func(t *testing.T) {
		booking := NewDummyBooking("", "", "", "", now)
		assert.True(t, strings.HasPrefix(booking.BookingCode, "BOOK-"))
		assert.Equal(t, booking.BookingCode, booking.ID)
	})
}

func TestBookingUpdateIsEmpty(t *testing.T) {
	status := BookingStatusConfirmed

	assert.True(t, (&BookingUpdate{}).IsEmpty())
	assert.False(t, (&BookingUpdate{Status: &status}).IsEmpty())
	assert.False(t, (&BookingUpdate{SelectedSeats: StringArray{"A1"}}).IsEmpty())
}

func TestSeatCounts(t *testing.T) {
	total := 80
	available := 12

	t.Run("Both Set", func(t *testing.T) {
		s := &Schedule{TotalSeats: &total, AvailableSeats: &available}
		a, tot := s.SeatCounts()
		assert.Equal(t, 12, a)
		assert.Equal(t, 80, tot)
	})

	t.Run("Available Defaults To Total", func(t *testing.T) {
		s := &Schedule{TotalSeats: &total}
		a, tot := s.SeatCounts()
		assert.Equal(t, 80, a)
		assert.Equal(t, 80, tot)
	})

	t.Run("Unset Columns Use Defaults", func(t *testing.T) {
		s := &Schedule{}
		a, tot := s.SeatCounts()
		assert.Equal(t, DefaultTotalSeats, a)
		assert.Equal(t, DefaultTotalSeats, tot)
	})
}
