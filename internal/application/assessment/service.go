// Package assessment provides the application layer for product assessments
// This implements the use cases defined in the inbound ports
package assessment

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/snacktrack/assessor/internal/domain/assessment"
	"github.com/snacktrack/assessor/internal/domain/product"
	"github.com/snacktrack/assessor/internal/domain/shared"
	"github.com/snacktrack/assessor/internal/domain/user"
	"github.com/snacktrack/assessor/internal/ports/inbound"
	"github.com/snacktrack/assessor/internal/ports/outbound"
	"github.com/snacktrack/assessor/pkg/errors"
	"github.com/snacktrack/assessor/pkg/validation"
)

const (
	defaultPageSize = 20
	cacheName       = "assessment"
)

// Config tunes the assessment service
type Config struct {
	CacheTTL time.Duration
}

// Service implements the assessment use cases
type Service struct {
	users       outbound.UserRepository
	products    outbound.ProductRepository
	assessments outbound.AssessmentRepository
	cache       outbound.CacheRepository
	events      outbound.EventPublisher
	metrics     outbound.MetricsRecorder
	engine      *assessment.Engine
	validator   *validation.Validator
	config      Config
	logger      *zap.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewService creates a new assessment service
func NewService(
	users outbound.UserRepository,
	products outbound.ProductRepository,
	assessments outbound.AssessmentRepository,
	cache outbound.CacheRepository,
	events outbound.EventPublisher,
	metrics outbound.MetricsRecorder,
	engine *assessment.Engine,
	validator *validation.Validator,
	config Config,
	logger *zap.Logger,
) inbound.AssessmentService {
	return &Service{
		users:       users,
		products:    products,
		assessments: assessments,
		cache:       cache,
		events:      events,
		metrics:     metrics,
		engine:      engine,
		validator:   validator,
		config:      config,
		logger:      logger.Named("assessment-service"),
		tracer:      otel.Tracer("assessment-service"),
		now:         time.Now,
	}
}

// Assess returns the active assessment for the pair, creating one if needed.
func (s *Service) Assess(ctx context.Context, cmd inbound.AssessCommand) (*inbound.AssessmentDTO, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "assessment.assess", trace.WithAttributes(
		attribute.String("user.id", cmd.UserID.String()),
		attribute.String("product.id", cmd.ProductID.String()),
		attribute.Bool("assessment.force", cmd.ForceReassess),
	))
	defer span.End()

	dto, outcome, err := s.assess(ctx, cmd)
	s.metrics.ObserveAssess(outcome, time.Since(start))
	span.SetAttributes(attribute.String("assessment.outcome", outcome))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return dto, nil
}

func (s *Service) assess(ctx context.Context, cmd inbound.AssessCommand) (*inbound.AssessmentDTO, string, error) {
	if err := s.validator.Struct(cmd); err != nil {
		return nil, outbound.OutcomeFailed, err
	}

	if !cmd.ForceReassess {
		if dto := s.cachedActive(ctx, cmd.UserID, cmd.ProductID); dto != nil {
			return dto, outbound.OutcomeReused, nil
		}

		existing, err := s.assessments.FindActive(ctx, cmd.UserID, cmd.ProductID)
		switch {
		case err == nil:
			dto := inbound.NewAssessmentDTO(existing)
			s.cacheActive(ctx, dto)
			return dto, outbound.OutcomeReused, nil
		case !stderrors.Is(err, outbound.ErrNotFound):
			return nil, outbound.OutcomeFailed, errors.NewDatabaseError("find active assessment", err)
		}
	}

	u, err := s.loadUser(ctx, cmd.UserID)
	if err != nil {
		return nil, outbound.OutcomeFailed, err
	}
	p, err := s.loadProduct(ctx, cmd.ProductID)
	if err != nil {
		return nil, outbound.OutcomeFailed, err
	}

	eval, err := s.engine.Evaluate(assessment.Input{
		Profile:        u.Profile(),
		Nutrition:      p.Nutrition(),
		IngredientText: p.IngredientText(),
		Ingredients:    p.Ingredients(),
	})
	if err != nil {
		if stderrors.Is(err, assessment.ErrMissingNutritionData) {
			s.logger.Info("Product has no usable nutrition data",
				zap.String("product_id", p.ID().String()),
			)
			return nil, outbound.OutcomeMissingNutrition, errors.NewMissingNutritionDataError(p.ID().String(), err)
		}
		return nil, outbound.OutcomeFailed, errors.Wrap(err, "failed to evaluate product")
	}

	next := assessment.NewAssessment(u.ID(), p.ID(), eval)
	if cmd.ForceReassess {
		return s.reassess(ctx, next)
	}
	return s.create(ctx, next)
}

// create stores next. A concurrent request that stored first wins and its
// record is returned instead.
func (s *Service) create(ctx context.Context, next *assessment.Assessment) (*inbound.AssessmentDTO, string, error) {
	err := s.assessments.Create(ctx, next)
	if stderrors.Is(err, outbound.ErrDuplicateAssessment) {
		return s.concurrentWinner(ctx, next)
	}
	if err != nil {
		return nil, outbound.OutcomeFailed, errors.NewDatabaseError("create assessment", err)
	}

	s.publish(ctx, next.Events()...)

	dto := inbound.NewAssessmentDTO(next)
	s.cacheActive(ctx, dto)

	s.logger.Info("Assessment created",
		zap.String("assessment_id", dto.ID.String()),
		zap.String("user_id", dto.UserID.String()),
		zap.String("product_id", dto.ProductID.String()),
		zap.Int("score", dto.PersonalizedScore),
		zap.String("recommendation", string(dto.Recommendation)),
	)
	return dto, outbound.OutcomeCreated, nil
}

func (s *Service) reassess(ctx context.Context, next *assessment.Assessment) (*inbound.AssessmentDTO, string, error) {
	previous, err := s.assessments.FindActive(ctx, next.UserID(), next.ProductID())
	if stderrors.Is(err, outbound.ErrNotFound) {
		return s.create(ctx, next)
	}
	if err != nil {
		return nil, outbound.OutcomeFailed, errors.NewDatabaseError("find active assessment", err)
	}

	if err := previous.Supersede(s.now()); err != nil {
		return nil, outbound.OutcomeFailed, errors.Wrap(err, "failed to supersede assessment")
	}

	err = s.assessments.Replace(ctx, previous, next)
	if stderrors.Is(err, outbound.ErrDuplicateAssessment) {
		return s.concurrentWinner(ctx, next)
	}
	if err != nil {
		return nil, outbound.OutcomeFailed, errors.NewDatabaseError("replace assessment", err)
	}

	s.invalidate(ctx, next.UserID(), next.ProductID())
	s.publish(ctx, append(previous.Events(), next.Events()...)...)

	dto := inbound.NewAssessmentDTO(next)
	s.cacheActive(ctx, dto)

	s.logger.Info("Assessment replaced",
		zap.String("previous_id", previous.ID().String()),
		zap.String("assessment_id", dto.ID.String()),
		zap.Int("score", dto.PersonalizedScore),
	)
	return dto, outbound.OutcomeReassessed, nil
}

func (s *Service) concurrentWinner(ctx context.Context, lost *assessment.Assessment) (*inbound.AssessmentDTO, string, error) {
	winner, err := s.assessments.FindActive(ctx, lost.UserID(), lost.ProductID())
	if err != nil {
		return nil, outbound.OutcomeFailed, errors.NewDatabaseError("find concurrent assessment", err)
	}

	s.logger.Debug("Concurrent assess stored first, returning its record",
		zap.String("assessment_id", winner.ID().String()),
		zap.String("discarded_id", lost.ID().String()),
	)

	dto := inbound.NewAssessmentDTO(winner)
	s.cacheActive(ctx, dto)
	return dto, outbound.OutcomeRaceLost, nil
}

// AttachFeedback records the user's rating and notes
func (s *Service) AttachFeedback(ctx context.Context, cmd inbound.FeedbackCommand) (*inbound.AssessmentDTO, error) {
	ctx, span := s.tracer.Start(ctx, "assessment.attach_feedback")
	defer span.End()

	if err := s.validator.Struct(cmd); err != nil {
		return nil, err
	}

	a, err := s.loadAssessment(ctx, cmd.AssessmentID)
	if err != nil {
		return nil, err
	}
	if !a.IsOwnedBy(cmd.UserID) {
		return nil, errors.NewInsufficientPermissionsError("attach feedback to this assessment")
	}

	notes := cmd.Notes
	if notes != nil {
		cleaned := validation.Sanitize(*notes, 0)
		notes = &cleaned
	}

	if err := a.AttachFeedback(cmd.Rating, notes); err != nil {
		return nil, errors.NewInvalidFeedbackError(err.Error(), err)
	}

	if err := s.assessments.Update(ctx, a); err != nil {
		return nil, errors.NewDatabaseError("update assessment", err)
	}

	if a.IsActive() {
		s.invalidate(ctx, a.UserID(), a.ProductID())
	}
	s.publish(ctx, a.Events()...)

	s.logger.Info("Feedback attached",
		zap.String("assessment_id", a.ID().String()),
		zap.Bool("rated", a.UserRating() != nil),
	)
	return inbound.NewAssessmentDTO(a), nil
}

// DeleteAssessment removes an assessment owned by the user
func (s *Service) DeleteAssessment(ctx context.Context, assessmentID, userID uuid.UUID) error {
	s.logger.Info("Deleting assessment",
		zap.String("assessment_id", assessmentID.String()),
		zap.String("user_id", userID.String()),
	)

	a, err := s.loadAssessment(ctx, assessmentID)
	if err != nil {
		return err
	}

	if err := a.MarkDeleted(userID); err != nil {
		if stderrors.Is(err, assessment.ErrNotAssessmentOwner) {
			return errors.NewInsufficientPermissionsError("delete this assessment").WithCause(err)
		}
		return errors.Wrap(err, "failed to delete assessment")
	}

	if err := s.assessments.Delete(ctx, assessmentID); err != nil {
		if stderrors.Is(err, outbound.ErrNotFound) {
			return errors.NewAssessmentNotFoundError(assessmentID.String())
		}
		return errors.NewDatabaseError("delete assessment", err)
	}

	if a.IsActive() {
		s.invalidate(ctx, a.UserID(), a.ProductID())
	}
	s.publish(ctx, a.Events()...)
	return nil
}

// GetAssessment returns one of the user's assessments. Other users'
// assessments are reported as not found.
func (s *Service) GetAssessment(ctx context.Context, assessmentID, userID uuid.UUID) (*inbound.AssessmentDTO, error) {
	a, err := s.loadAssessment(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	if !a.IsOwnedBy(userID) {
		return nil, errors.NewAssessmentNotFoundError(assessmentID.String())
	}
	return inbound.NewAssessmentDTO(a), nil
}

// ListAssessments pages through the user's assessments, newest first
func (s *Service) ListAssessments(ctx context.Context, userID uuid.UUID, params inbound.PaginationParams) (*inbound.AssessmentList, error) {
	if err := s.validator.Struct(params); err != nil {
		return nil, err
	}
	if params.Limit == 0 {
		params.Limit = defaultPageSize
	}

	items, total, err := s.assessments.FindByUser(ctx, userID, params.Offset, params.Limit)
	if err != nil {
		return nil, errors.NewDatabaseError("list assessments", err)
	}

	dtos := make([]*inbound.AssessmentDTO, len(items))
	for i, a := range items {
		dtos[i] = inbound.NewAssessmentDTO(a)
	}

	return &inbound.AssessmentList{
		Assessments: dtos,
		Total:       total,
		Offset:      params.Offset,
		Limit:       params.Limit,
	}, nil
}

// Stats summarizes the user's active assessments
func (s *Service) Stats(ctx context.Context, userID uuid.UUID) (*inbound.AssessmentStats, error) {
	if _, err := s.loadUser(ctx, userID); err != nil {
		return nil, err
	}

	counts, err := s.assessments.CountByRecommendation(ctx, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("count assessments", err)
	}

	stats := assessment.NewStats(counts)
	return &inbound.AssessmentStats{
		Counts:             stats.Counts,
		Total:              stats.Total(),
		OverallHealthScore: assessment.OverallHealthScore(stats),
	}, nil
}

// ScanIngredients gives a verdict per ingredient for the user's profile
func (s *Service) ScanIngredients(ctx context.Context, cmd inbound.ScanCommand) (*inbound.ScanResult, error) {
	ctx, span := s.tracer.Start(ctx, "assessment.scan_ingredients",
		trace.WithAttributes(attribute.Int("ingredients.count", len(cmd.Ingredients))),
	)
	defer span.End()

	if err := s.validator.Struct(cmd); err != nil {
		return nil, err
	}

	u, err := s.loadUser(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	return &inbound.ScanResult{
		UserID:   u.ID(),
		Verdicts: s.engine.AnalyzeIngredients(u.Profile(), cmd.Ingredients),
	}, nil
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

func (s *Service) loadProduct(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if stderrors.Is(err, outbound.ErrNotFound) {
		return nil, errors.NewProductNotFoundError(id.String())
	}
	if err != nil {
		return nil, errors.NewDatabaseError("find product", err)
	}
	return p, nil
}

func (s *Service) loadAssessment(ctx context.Context, id uuid.UUID) (*assessment.Assessment, error) {
	a, err := s.assessments.FindByID(ctx, id)
	if stderrors.Is(err, outbound.ErrNotFound) {
		return nil, errors.NewAssessmentNotFoundError(id.String())
	}
	if err != nil {
		return nil, errors.NewDatabaseError("find assessment", err)
	}
	return a, nil
}

// publish delivers events; delivery failures are logged, never returned.
func (s *Service) publish(ctx context.Context, events ...shared.DomainEvent) {
	if len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish events",
			zap.Int("count", len(events)),
			zap.Error(err),
		)
	}
}

func activeKey(userID, productID uuid.UUID) string {
	return fmt.Sprintf("assessment:active:%s:%s", userID, productID)
}

func (s *Service) cachedActive(ctx context.Context, userID, productID uuid.UUID) *inbound.AssessmentDTO {
	data, err := s.cache.Get(ctx, activeKey(userID, productID))
	if err != nil {
		if !stderrors.Is(err, outbound.ErrCacheMiss) {
			s.logger.Warn("Assessment cache read failed", zap.Error(err))
		}
		s.metrics.ObserveCache(cacheName, false)
		return nil
	}

	var dto inbound.AssessmentDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		s.logger.Warn("Discarding unreadable cached assessment", zap.Error(err))
		s.metrics.ObserveCache(cacheName, false)
		return nil
	}
	s.metrics.ObserveCache(cacheName, true)
	return &dto
}

func (s *Service) cacheActive(ctx context.Context, dto *inbound.AssessmentDTO) {
	if s.config.CacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(dto)
	if err != nil {
		s.logger.Warn("Failed to encode assessment for cache", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, activeKey(dto.UserID, dto.ProductID), data, s.config.CacheTTL); err != nil {
		s.logger.Warn("Assessment cache write failed", zap.Error(err))
	}
}

func (s *Service) invalidate(ctx context.Context, userID, productID uuid.UUID) {
	if err := s.cache.Delete(ctx, activeKey(userID, productID)); err != nil {
		s.logger.Warn("Assessment cache invalidation failed",
			zap.String("key", activeKey(userID, productID)),
			zap.Error(err),
		)
	}
}
