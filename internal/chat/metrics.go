package chat

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	messagesSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_sent_total",
			Help: "Messages sent, by transport",
		},
		[]string{"transport"},
	)

	wsConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_websocket_connections",
			Help: "Currently connected websocket clients",
		},
	)
)

func RecordMessageSent(transport string) {
	messagesSentTotal.WithLabelValues(transport).Inc()
}
