// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/snacktrack/assessor/internal/domain/assessment"
	"github.com/snacktrack/assessor/internal/domain/product"
	"github.com/snacktrack/assessor/internal/domain/shared"
	"github.com/snacktrack/assessor/internal/domain/user"
)

var (
	// ErrNotFound is returned by repositories when no row matches.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("record already exists")

	// ErrDuplicateAssessment means another request stored the active
	// assessment for the pair first. Callers re-fetch instead of failing.
	ErrDuplicateAssessment = fmt.Errorf("active assessment already exists for user and product: %w", ErrDuplicate)

	// ErrCacheMiss is returned by caches for absent or expired keys.
	ErrCacheMiss = errors.New("cache miss")
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	Create(ctx context.Context, user *user.User) error
	Update(ctx context.Context, user *user.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	Create(ctx context.Context, product *product.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*product.Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*product.Product, error)
}

// AssessmentRepository defines the interface for assessment persistence.
// Implementations must guarantee at most one active assessment per
// (user, product) pair.
type AssessmentRepository interface {
	// Create stores a new active assessment, returning ErrDuplicateAssessment
	// when the pair already has one.
	Create(ctx context.Context, a *assessment.Assessment) error

	// Update persists feedback fields.
	Update(ctx context.Context, a *assessment.Assessment) error

	// Replace marks previous as superseded and stores next, atomically.
	Replace(ctx context.Context, previous, next *assessment.Assessment) error

	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*assessment.Assessment, error)
	FindActive(ctx context.Context, userID, productID uuid.UUID) (*assessment.Assessment, error)
	FindByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*assessment.Assessment, int, error)

	// CountByRecommendation counts the user's active assessments per tier.
	CountByRecommendation(ctx context.Context, userID uuid.UUID) (map[assessment.Recommendation]int, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// EventPublisher delivers domain events raised by aggregates.
type EventPublisher interface {
	Publish(ctx context.Context, events ...shared.DomainEvent) error
}

// Assess outcomes reported to MetricsRecorder.
const (
	OutcomeCreated          = "created"
	OutcomeReused           = "reused"
	OutcomeReassessed       = "reassessed"
	OutcomeRaceLost         = "race_lost"
	OutcomeMissingNutrition = "missing_nutrition"
	OutcomeFailed           = "failed"
)

// MetricsRecorder records request-level measurements that events do not carry.
type MetricsRecorder interface {
	ObserveAssess(outcome string, duration time.Duration)
	ObserveCache(cache string, hit bool)
}
