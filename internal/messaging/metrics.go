package messaging

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "realtime_active_connections",
			Help: "Websocket connections currently registered in the hub",
		},
	)

	activeChannels = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "realtime_active_channels",
			Help: "Channels with at least one connection",
		},
	)

	broadcastsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "realtime_broadcasts_total",
			Help: "Total number of hub broadcasts",
		},
	)

	failedDeliveriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "realtime_failed_deliveries_total",
			Help: "Deliveries that failed and dropped the connection",
		},
	)

	framesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realtime_inbound_frames_total",
			Help: "Inbound websocket frames by outcome",
		},
		[]string{"outcome"},
	)

	relayedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realtime_relay_messages_total",
			Help: "Messages passed through the Redis relay",
		},
		[]string{"direction"},
	)
)
