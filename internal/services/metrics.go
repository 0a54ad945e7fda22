package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	paymentNotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tripgo_payment_notifications_total",
		Help: "Payment gateway notifications processed, by resulting status",
	}, []string{"status"})

	bookingsAutoCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tripgo_bookings_auto_created_total",
		Help: "Bookings created automatically from settled payments",
	})

	seatAdjustmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tripgo_seat_adjustments_total",
		Help: "Seat availability adjustments, by action and outcome",
	}, []string{"action", "outcome"})

	promoValidationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tripgo_promo_validations_total",
		Help: "Promo code validations, by result",
	}, []string{"result"})
)
