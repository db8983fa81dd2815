package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SearchRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_requests_total",
			Help: "Search requests received, by route",
		},
		[]string{"route"},
	)

	UpstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Upstream provider calls, by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)
)

func Register() {
	prometheus.MustRegister(SearchRequests, UpstreamRequests)
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveUpstream records one provider call outcome.
func ObserveUpstream(provider string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	UpstreamRequests.WithLabelValues(provider, outcome).Inc()
}
