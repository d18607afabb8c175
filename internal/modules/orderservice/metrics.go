package orderservice

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var attachTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "carwash",
	Subsystem: "order_service",
	Name:      "attach_total",
	Help:      "Service attachment outcomes by result.",
}, []string{"result"})

func observe(results []AttachResult) {
	for _, r := range results {
		if r.OK() {
			attachTotal.WithLabelValues("success").Inc()
			continue
		}
		attachTotal.WithLabelValues(string(r.Rejection.Reason)).Inc()
	}
}
