package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mural_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// CacheHits counts cache-aside hits by key class.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mural_cache_hits_total",
		Help: "Total number of cache hits by key class",
	}, []string{"key"})

	// CacheMisses counts cache-aside misses by key class.
	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mural_cache_misses_total",
		Help: "Total number of cache misses by key class",
	}, []string{"key"})

	// EngagementToggles counts like/favorite toggles by kind and direction.
	EngagementToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mural_engagement_toggles_total",
		Help: "Total number of engagement toggles by kind and direction",
	}, []string{"kind", "direction"})

	// ModerationDecisions counts moderation outcomes.
	ModerationDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mural_moderation_decisions_total",
		Help: "Total number of moderation decisions by outcome",
	}, []string{"outcome"})
)

var (
	promOnce       sync.Once
	promMiddleware *fiberprometheus.FiberPrometheus
)

// InitMetrics creates the Prometheus HTTP middleware for the given service
// name. The middleware registers collectors against the default registry, so
// it is created at most once per process.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promMiddleware = fiberprometheus.New(serviceName)
	})
	return promMiddleware
}
