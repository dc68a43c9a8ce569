package apilock

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var lockAcquisitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "apilock_acquisitions_total",
		Help: "Lock acquisition attempts by outcome",
	},
	[]string{"outcome"},
)

func RecordAcquire(outcome string) {
	lockAcquisitionsTotal.WithLabelValues(outcome).Inc()
}
