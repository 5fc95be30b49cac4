package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	routeCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "route_cache_hits_total",
		Help: "The total number of connection lookups served from the cache",
	})
	routeCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "route_cache_misses_total",
		Help: "The total number of connection lookups that hit the route source",
	})
	bookingsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookings_created_total",
		Help: "The total number of booking attempts, by outcome",
	}, []string{"status"})
)
