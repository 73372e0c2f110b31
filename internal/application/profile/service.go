// Package profile provides the application layer for users and their health profiles
package profile

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/snacktrack/assessor/internal/domain/physiology"
	"github.com/snacktrack/assessor/internal/domain/shared"
	"github.com/snacktrack/assessor/internal/domain/user"
	"github.com/snacktrack/assessor/internal/ports/inbound"
	"github.com/snacktrack/assessor/internal/ports/outbound"
	"github.com/snacktrack/assessor/pkg/errors"
	"github.com/snacktrack/assessor/pkg/validation"
)

const cacheName = "profile_metrics"

// Config tunes the profile service
type Config struct {
	MetricsTTL time.Duration
}

// Service implements the profile use cases
type Service struct {
	users     outbound.UserRepository
	cache     outbound.CacheRepository
	events    outbound.EventPublisher
	metrics   outbound.MetricsRecorder
	calc      *physiology.Calculator
	validator *validation.Validator
	config    Config
	logger    *zap.Logger
	tracer    trace.Tracer
}

// NewService creates a new profile service
func NewService(
	users outbound.UserRepository,
	cache outbound.CacheRepository,
	events outbound.EventPublisher,
	metrics outbound.MetricsRecorder,
	calc *physiology.Calculator,
	validator *validation.Validator,
	config Config,
	logger *zap.Logger,
) inbound.ProfileService {
	return &Service{
		users:     users,
		cache:     cache,
		events:    events,
		metrics:   metrics,
		calc:      calc,
		validator: validator,
		config:    config,
		logger:    logger.Named("profile-service"),
		tracer:    otel.Tracer("profile-service"),
	}
}

// RegisterUser creates a user with an initial health profile
func (s *Service) RegisterUser(ctx context.Context, cmd inbound.RegisterUserCommand) (*inbound.UserDTO, error) {
	ctx, span := s.tracer.Start(ctx, "profile.register_user")
	defer span.End()

	if err := s.validator.Struct(cmd); err != nil {
		return nil, err
	}

	_, err := s.users.FindByEmail(ctx, cmd.Email)
	switch {
	case err == nil:
		return nil, errors.NewEmailAlreadyExistsError(cmd.Email)
	case !stderrors.Is(err, outbound.ErrNotFound):
		return nil, errors.NewDatabaseError("find user by email", err)
	}

	u, err := user.NewUser(cmd.Email, cmd.Name, cmd.Profile.ToDomain())
	if err != nil {
		return nil, userError(err)
	}

	if err := s.users.Create(ctx, u); err != nil {
		if stderrors.Is(err, outbound.ErrDuplicate) {
			return nil, errors.NewEmailAlreadyExistsError(cmd.Email)
		}
		return nil, errors.NewDatabaseError("create user", err)
	}

	s.publish(ctx, u.Events()...)

	s.logger.Info("User registered",
		zap.String("user_id", u.ID().String()),
		zap.String("dietary_preference", string(u.Profile().DietaryPreference)),
	)
	return inbound.NewUserDTO(u), nil
}

// UpdateHealthProfile replaces the user's profile. Stored assessments keep
// the profile they were computed with.
func (s *Service) UpdateHealthProfile(ctx context.Context, cmd inbound.UpdateProfileCommand) (*inbound.UserDTO, error) {
	ctx, span := s.tracer.Start(ctx, "profile.update_health_profile")
	defer span.End()

	if err := s.validator.Struct(cmd); err != nil {
		return nil, err
	}

	u, err := s.loadUser(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	previousVersion := u.ProfileVersion()

	if err := u.UpdateProfile(cmd.Profile.ToDomain()); err != nil {
		return nil, userError(err)
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, errors.NewDatabaseError("update user", err)
	}

	if err := s.cache.Delete(ctx, metricsKey(u.ID(), previousVersion)); err != nil {
		s.logger.Warn("Metrics cache invalidation failed",
			zap.String("user_id", u.ID().String()),
			zap.Error(err),
		)
	}
	s.publish(ctx, u.Events()...)

	s.logger.Info("Health profile updated",
		zap.String("user_id", u.ID().String()),
		zap.Int("profile_version", u.ProfileVersion()),
	)
	return inbound.NewUserDTO(u), nil
}

// GetUser returns a user
func (s *Service) GetUser(ctx context.Context, userID uuid.UUID) (*inbound.UserDTO, error) {
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return inbound.NewUserDTO(u), nil
}

// GetHealthMetrics derives BMI, BMR, TDEE and targets from the profile.
// Metrics that the profile cannot support are left out.
func (s *Service) GetHealthMetrics(ctx context.Context, userID uuid.UUID) (*inbound.HealthMetricsDTO, error) {
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	key := metricsKey(u.ID(), u.ProfileVersion())
	if cached := s.cachedMetrics(ctx, key); cached != nil {
		return cached, nil
	}

	dto := &inbound.HealthMetricsDTO{
		UserID:         u.ID(),
		ProfileVersion: u.ProfileVersion(),
		Metrics:        u.Profile().Metrics(s.calc),
	}

	if s.config.MetricsTTL > 0 {
		if data, err := json.Marshal(dto); err == nil {
			if err := s.cache.Set(ctx, key, data, s.config.MetricsTTL); err != nil {
				s.logger.Warn("Metrics cache write failed", zap.Error(err))
			}
		}
	}
	return dto, nil
}

// GetDailyTargets returns the calorie target and macro split
func (s *Service) GetDailyTargets(ctx context.Context, userID uuid.UUID) (*physiology.DailyTargets, error) {
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	targets, err := s.calc.DailyTargets(u.Profile().Measurements())
	if err != nil {
		return nil, errors.NewInvalidProfileDataError("age, height and weight are required for daily targets", err)
	}
	return &targets, nil
}

func (s *Service) cachedMetrics(ctx context.Context, key string) *inbound.HealthMetricsDTO {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !stderrors.Is(err, outbound.ErrCacheMiss) {
			s.logger.Warn("Metrics cache read failed", zap.Error(err))
		}
		s.metrics.ObserveCache(cacheName, false)
		return nil
	}

	var dto inbound.HealthMetricsDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		s.metrics.ObserveCache(cacheName, false)
		return nil
	}
	s.metrics.ObserveCache(cacheName, true)
	return &dto
}

func (s *Service) loadUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if stderrors.Is(err, outbound.ErrNotFound) {
		return nil, errors.NewUserNotFoundError(id.String())
	}
	if err != nil {
		return nil, errors.NewDatabaseError("find user", err)
	}
	return u, nil
}

func (s *Service) publish(ctx context.Context, events ...shared.DomainEvent) {
	if len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish events", zap.Error(err))
	}
}

func metricsKey(userID uuid.UUID, version int) string {
	return fmt.Sprintf("profile:metrics:%s:v%d", userID, version)
}

// userError maps user domain errors to application errors
func userError(err error) error {
	switch {
	case stderrors.Is(err, user.ErrEmailRequired),
		stderrors.Is(err, user.ErrInvalidEmail),
		stderrors.Is(err, user.ErrNameTooShort),
		stderrors.Is(err, user.ErrNameTooLong):
		return errors.NewValidationError(err.Error()).WithCause(err)
	default:
		return errors.NewInvalidProfileDataError(err.Error(), err)
	}
}
