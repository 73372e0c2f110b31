package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/snacktrack/assessor/internal/domain/assessment"
	"github.com/snacktrack/assessor/internal/ports/outbound"
)

// AssessmentRepository implements the assessment repository interface using GORM.
// The unique index on active_pair enforces one active row per user and product.
type AssessmentRepository struct {
	db *gorm.DB
}

// NewAssessmentRepository creates a new assessment repository
func NewAssessmentRepository(db *gorm.DB) outbound.AssessmentRepository {
	return &AssessmentRepository{db: db}
}

// Create stores a new active assessment
func (r *AssessmentRepository) Create(ctx context.Context, a *assessment.Assessment) error {
	return r.insert(r.db.WithContext(ctx), a)
}

func (r *AssessmentRepository) insert(tx *gorm.DB, a *assessment.Assessment) error {
	err := translate(tx.Create(AssessmentToModel(a)).Error)
	if errors.Is(err, outbound.ErrDuplicate) {
		return outbound.ErrDuplicateAssessment
	}
	return err
}

// Update persists the feedback fields
func (r *AssessmentRepository) Update(ctx context.Context, a *assessment.Assessment) error {
	result := r.db.WithContext(ctx).
		Model(&AssessmentModel{}).
		Where("id = ?", a.ID()).
		Updates(map[string]interface{}{
			"user_rating": a.UserRating(),
			"user_notes":  a.UserNotes(),
			"updated_at":  a.UpdatedAt(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return outbound.ErrNotFound
	}
	return nil
}

// Replace supersedes previous and stores next in one transaction. When
// previous is no longer active another writer got there first and
// ErrDuplicateAssessment is returned.
func (r *AssessmentRepository) Replace(ctx context.Context, previous, next *assessment.Assessment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&AssessmentModel{}).
			Where("id = ? AND active_pair IS NOT NULL", previous.ID()).
			Updates(map[string]interface{}{
				"active_pair":   nil,
				"superseded_at": previous.SupersededAt(),
				"updated_at":    previous.UpdatedAt(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return outbound.ErrDuplicateAssessment
		}
		return r.insert(tx, next)
	})
}

// Delete removes an assessment by ID
func (r *AssessmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&AssessmentModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return outbound.ErrNotFound
	}
	return nil
}

// FindByID finds an assessment by ID
func (r *AssessmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*assessment.Assessment, error) {
	var model AssessmentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return ModelToAssessment(&model), nil
}

// FindActive returns the active assessment for the pair
func (r *AssessmentRepository) FindActive(ctx context.Context, userID, productID uuid.UUID) (*assessment.Assessment, error) {
	var model AssessmentModel
	err := r.db.WithContext(ctx).
		First(&model, "active_pair = ?", ActivePairKey(userID, productID)).Error
	if err != nil {
		return nil, translate(err)
	}
	return ModelToAssessment(&model), nil
}

// FindByUser lists a user's assessments, superseded ones included, newest first
func (r *AssessmentRepository) FindByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*assessment.Assessment, int, error) {
	var total int64
	query := r.db.WithContext(ctx).Model(&AssessmentModel{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []AssessmentModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	items := make([]*assessment.Assessment, len(models))
	for i := range models {
		items[i] = ModelToAssessment(&models[i])
	}
	return items, int(total), nil
}

// CountByRecommendation counts the user's active assessments per tier
func (r *AssessmentRepository) CountByRecommendation(ctx context.Context, userID uuid.UUID) (map[assessment.Recommendation]int, error) {
	var rows []struct {
		Recommendation string
		Count          int
	}
	err := r.db.WithContext(ctx).
		Model(&AssessmentModel{}).
		Select("recommendation, COUNT(*) AS count").
		Where("user_id = ? AND active_pair IS NOT NULL", userID).
		Group("recommendation").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[assessment.Recommendation]int, len(rows))
	for _, row := range rows {
		counts[assessment.Recommendation(row.Recommendation)] = row.Count
	}
	return counts, nil
}
