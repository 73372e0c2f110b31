// Package testutils provides mock implementations for testing
package testutils

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/snacktrack/assessor/internal/domain/assessment"
	"github.com/snacktrack/assessor/internal/domain/product"
	"github.com/snacktrack/assessor/internal/domain/shared"
	"github.com/snacktrack/assessor/internal/domain/user"
)

// MockUserRepository provides a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, u *user.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

// MockProductRepository provides a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, p *product.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) FindByBarcode(ctx context.Context, barcode string) (*product.Product, error) {
	args := m.Called(ctx, barcode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

// MockAssessmentRepository provides a mock implementation of AssessmentRepository
type MockAssessmentRepository struct {
	mock.Mock
}

func (m *MockAssessmentRepository) Create(ctx context.Context, a *assessment.Assessment) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAssessmentRepository) Update(ctx context.Context, a *assessment.Assessment) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAssessmentRepository) Replace(ctx context.Context, previous, next *assessment.Assessment) error {
	return m.Called(ctx, previous, next).Error(0)
}

func (m *MockAssessmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAssessmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*assessment.Assessment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assessment.Assessment), args.Error(1)
}

func (m *MockAssessmentRepository) FindActive(ctx context.Context, userID, productID uuid.UUID) (*assessment.Assessment, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assessment.Assessment), args.Error(1)
}

func (m *MockAssessmentRepository) FindByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*assessment.Assessment, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	return args.Get(0).([]*assessment.Assessment), args.Int(1), args.Error(2)
}

func (m *MockAssessmentRepository) CountByRecommendation(ctx context.Context, userID uuid.UUID) (map[assessment.Recommendation]int, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[assessment.Recommendation]int), args.Error(1)
}

// MockCacheRepository provides a mock implementation of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// RecordingPublisher is an EventPublisher that keeps every published event
type RecordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
	Err    error
}

// Publish records the events and returns Err
func (p *RecordingPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return p.Err
}

// Names returns the names of the recorded events in publish order
func (p *RecordingPublisher) Names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, len(p.events))
	for i, e := range p.events {
		names[i] = e.EventName()
	}
	return names
}

// RecordingMetrics is a MetricsRecorder that counts observations
type RecordingMetrics struct {
	mu        sync.Mutex
	Outcomes  map[string]int
	CacheHits map[bool]int
}

// NewRecordingMetrics creates an empty recorder
func NewRecordingMetrics() *RecordingMetrics {
	return &RecordingMetrics{
		Outcomes:  make(map[string]int),
		CacheHits: make(map[bool]int),
	}
}

func (r *RecordingMetrics) ObserveAssess(outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Outcomes[outcome]++
}

func (r *RecordingMetrics) ObserveCache(_ string, hit bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.CacheHits[hit]++
}

// Outcome returns how often an outcome was observed
func (r *RecordingMetrics) Outcome(outcome string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Outcomes[outcome]
}
