// Package monitoring provides Prometheus metrics and OpenTelemetry tracing
package monitoring

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/snacktrack/assessor/internal/domain/assessment"
	"github.com/snacktrack/assessor/internal/domain/shared"
	"github.com/snacktrack/assessor/internal/domain/user"
	"github.com/snacktrack/assessor/internal/ports/outbound"
)

const namespace = "snacktrack"

// Metrics collects assessment and cache metrics. It records request
// outcomes directly and derives business counters from domain events.
type Metrics struct {
	logger *zap.Logger

	assessRequests *prometheus.CounterVec
	assessDuration *prometheus.HistogramVec
	cacheRequests  *prometheus.CounterVec

	assessmentsCreated *prometheus.CounterVec
	scores             prometheus.Histogram
	allergyOverrides   prometheus.Counter
	superseded         prometheus.Counter
	deleted            prometheus.Counter
	feedback           *prometheus.CounterVec
	usersRegistered    prometheus.Counter
	profileUpdates     prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer, logger *zap.Logger) *Metrics {
	m := &Metrics{
		logger: logger.Named("metrics"),

		assessRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assess_requests_total",
			Help:      "Assess calls by outcome",
		}, []string{"outcome"}),
		assessDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "assess_duration_seconds",
			Help:      "Assess latency by outcome",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"outcome"}),
		cacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Cache lookups by cache and result",
		}, []string{"cache", "result"}),

		assessmentsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessments_created_total",
			Help:      "Stored assessments by recommendation tier",
		}, []string{"recommendation"}),
		scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "assessment_score",
			Help:      "Distribution of personalized scores",
			Buckets:   prometheus.LinearBuckets(10, 10, 10),
		}),
		allergyOverrides: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "allergy_overrides_total",
			Help:      "Assessments forced to avoid by an allergen match",
		}),
		superseded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessments_superseded_total",
			Help:      "Assessments retired by a forced reassessment",
		}),
		deleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessments_deleted_total",
			Help:      "Assessments deleted by their owner",
		}),
		feedback: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feedback_total",
			Help:      "Feedback attached, by rating (none when only notes were given)",
		}, []string{"rating"}),
		usersRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_registered_total",
			Help:      "Registered users",
		}),
		profileUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "health_profile_updates_total",
			Help:      "Health profile updates",
		}),
	}

	reg.MustRegister(
		m.assessRequests,
		m.assessDuration,
		m.cacheRequests,
		m.assessmentsCreated,
		m.scores,
		m.allergyOverrides,
		m.superseded,
		m.deleted,
		m.feedback,
		m.usersRegistered,
		m.profileUpdates,
	)
	return m
}

var _ outbound.MetricsRecorder = (*Metrics)(nil)

// ObserveAssess records one Assess call
func (m *Metrics) ObserveAssess(outcome string, duration time.Duration) {
	m.assessRequests.WithLabelValues(outcome).Inc()
	m.assessDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// ObserveCache records one cache lookup
func (m *Metrics) ObserveCache(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheRequests.WithLabelValues(cache, result).Inc()
}

// HandleEvent updates the business counters; it never fails
func (m *Metrics) HandleEvent(event shared.DomainEvent) error {
	switch e := event.(type) {
	case assessment.AssessmentCreatedEvent:
		m.assessmentsCreated.WithLabelValues(string(e.Recommendation)).Inc()
		m.scores.Observe(float64(e.Score))
		if e.AllergyForced {
			m.allergyOverrides.Inc()
		}
	case assessment.AssessmentSupersededEvent:
		m.superseded.Inc()
	case assessment.AssessmentDeletedEvent:
		m.deleted.Inc()
	case assessment.FeedbackAttachedEvent:
		rating := "none"
		if e.Rating != nil {
			rating = strconv.Itoa(*e.Rating)
		}
		m.feedback.WithLabelValues(rating).Inc()
	case user.UserRegisteredEvent:
		m.usersRegistered.Inc()
	case user.HealthProfileUpdatedEvent:
		m.profileUpdates.Inc()
	default:
		m.logger.Debug("Event not tracked", zap.String("event", event.EventName()))
	}
	return nil
}

// RegisterDBStats exports connection pool statistics for db
func RegisterDBStats(reg prometheus.Registerer, db *sql.DB, name string) error {
	return reg.Register(collectors.NewDBStatsCollector(db, name))
}
