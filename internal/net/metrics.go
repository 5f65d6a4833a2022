package net

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fenrir",
		Subsystem: "net",
		Name:      "orders_processed_total",
		Help:      "Orders accepted off a client connection, by message type.",
	}, []string{"type"})

	ordersFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fenrir",
		Subsystem: "net",
		Name:      "orders_failed_total",
		Help:      "Orders that failed validation or matching, by message type.",
	}, []string{"type"})

	activeConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "fenrir",
		Subsystem: "net",
		Name:      "active_connections",
		Help:      "Currently open client TCP connections.",
	})
)
