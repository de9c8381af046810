// Package metrics holds the prometheus collectors for the engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Resolutions counts navigation resolver calls by outcome:
	// "jump", "terminate", "redirect", "sequential".
	Resolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "formroute_resolutions_total",
		Help: "Navigation resolutions by outcome.",
	}, []string{"outcome"})

	// GraphSaves counts save transactions by status: "ok", "error".
	GraphSaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "formroute_graph_saves_total",
		Help: "Graph save transactions by status.",
	}, []string{"status"})

	// SecureRequests counts secure gateway lookups by result:
	// "rendered", "completed", "refused", "not_found".
	SecureRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "formroute_secure_requests_total",
		Help: "Secure single-question requests by result.",
	}, []string{"result"})
)
