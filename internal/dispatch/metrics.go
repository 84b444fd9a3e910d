package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var dispatchedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "notifications_dispatched_total",
		Help: "Total dispatched notifications by event name and terminal status.",
	},
	[]string{"event", "status"},
)

func observeDispatch(eventName, status string) {
	dispatchedTotal.WithLabelValues(eventName, status).Inc()
}
