package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Pipeline metrics
	MessagesEnqueued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_messages_enqueued_total",
			Help: "Messages pushed onto the persistence queue",
		},
	)

	MessagesPersisted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_messages_persisted_total",
			Help: "Messages written to durable storage",
		},
	)

	PersistFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_persist_failures_total",
			Help: "Messages dropped after a failed store write",
		},
	)

	// Delivery metrics
	MessagesDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_delivered_total",
			Help: "Frames pushed to locally connected clients",
		},
		[]string{"event"}, // "direct_message" or "room_message"
	)

	MessagesRelayed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_messages_relayed_total",
			Help: "Broadcast envelopes handled from other instances",
		},
	)

	ConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_connections_active",
			Help: "Currently registered WebSocket connections",
		},
	)
)
