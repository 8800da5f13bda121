package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jeffcaradona/data-contract-library/pkg/contract"
	"github.com/jeffcaradona/data-contract-library/pkg/respond"
)

var (
	dispatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contractd_dispatch_total",
		Help: "Dispatched contracts by kind and terminal state.",
	}, []string{"kind", "outcome"})

	streamedBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "contractd_streamed_bytes_total",
		Help: "Bytes copied from streamed contracts to clients.",
	})

	throttledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "contractd_throttled_requests_total",
		Help: "Requests rejected by the per-client rate limiter.",
	})
)

// promObserver feeds dispatcher outcomes into the default Prometheus
// registry, the same registerer the /metrics endpoint serves.
type promObserver struct{}

func (promObserver) Dispatched(kind contract.Kind, outcome respond.Outcome) {
	dispatchTotal.WithLabelValues(kind.String(), string(outcome)).Inc()
}

func (promObserver) StreamedBytes(n int64) {
	streamedBytesTotal.Add(float64(n))
}
