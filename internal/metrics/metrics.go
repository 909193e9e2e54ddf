// Package metrics содержит счетчики Prometheus для операций с заказами.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OrdersCreated количество созданных заказов по методам оплаты.
	OrdersCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Number of orders created, by payment method.",
	}, []string{"payment"})

	// OrdersCompleted количество заказов, переведенных в completed.
	OrdersCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_completed_total",
		Help: "Number of orders transitioned to completed.",
	})

	// OrdersRefunded количество заказов, переведенных в refunded.
	OrdersRefunded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_refunded_total",
		Help: "Number of orders transitioned to refunded.",
	})
)
