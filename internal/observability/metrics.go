package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pawprints_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pawprints_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// PostLikesTotal counts successful like increments.
	PostLikesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pawprints_post_likes_total",
		Help: "Total number of post like increments",
	})

	// PostsCreatedTotal counts posts created, labeled by pet category.
	PostsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pawprints_posts_created_total",
		Help: "Total number of posts created by pet category",
	}, []string{"pet"})

	// RegistrationsTotal counts completed account registrations.
	RegistrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pawprints_registrations_total",
		Help: "Total number of completed account registrations",
	})

	// AvatarRendersTotal counts avatar images rendered, labeled by cache outcome.
	AvatarRendersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pawprints_avatar_renders_total",
		Help: "Total number of avatar images rendered",
	}, []string{"outcome"})

	// UpstreamRequestsTotal counts outbound requests to upstream services by result.
	UpstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pawprints_upstream_requests_total",
		Help: "Total number of upstream service requests by service and result",
	}, []string{"service", "result"})

	// UsernameRenamesTotal counts successful username changes.
	UsernameRenamesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pawprints_username_renames_total",
		Help: "Total number of successful username changes",
	})
)

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}
