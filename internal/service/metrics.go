package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cartOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "patat_cart_operations_total",
			Help: "Cart mutations by operation.",
		},
		[]string{"operation"},
	)

	cartPersistFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "patat_cart_persist_failures_total",
			Help: "Cart storage reads and writes that failed.",
		},
		[]string{"op"},
	)

	ordersConfirmedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "patat_orders_confirmed_total",
			Help: "Checkouts confirmed, by payment method.",
		},
		[]string{"payment_method"},
	)

	contactSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "patat_contact_submissions_total",
			Help: "Contact form submissions by result.",
		},
		[]string{"result"},
	)
)
