// Package gorm provides GORM model definitions for the application
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/snacktrack/assessor/internal/domain/assessment"
	"github.com/snacktrack/assessor/internal/domain/compatibility"
	"github.com/snacktrack/assessor/internal/domain/nutrition"
	"github.com/snacktrack/assessor/internal/domain/physiology"
)

// UserModel represents the GORM model for users
type UserModel struct {
	ID             uuid.UUID          `gorm:"type:char(36);primaryKey"`
	Email          string             `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name           string             `gorm:"type:varchar(100);not null"`
	ProfileVersion int                `gorm:"not null;default:1"`
	Profile        HealthProfileModel `gorm:"embedded;embeddedPrefix:profile_"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName overrides the table name
func (UserModel) TableName() string { return "users" }

// HealthProfileModel represents the embedded health profile. Zero numeric
// values mean "not provided".
type HealthProfileModel struct {
	Age               int         `gorm:"default:0"`
	Sex               string      `gorm:"type:varchar(10);default:'other'"`
	HeightCm          float64     `gorm:"default:0"`
	WeightKg          float64     `gorm:"default:0"`
	BodyFatPercent    float64     `gorm:"default:0"`
	ActivityLevel     string      `gorm:"type:varchar(20)"`
	Goal              string      `gorm:"type:varchar(20)"`
	DietaryPreference string      `gorm:"type:varchar(20);default:'none'"`
	Allergies         StringSlice `gorm:"type:json"`
	Conditions        StringSlice `gorm:"type:json"`
}

// ProductModel represents the GORM model for products
type ProductModel struct {
	ID             uuid.UUID      `gorm:"type:char(36);primaryKey"`
	Barcode        *string        `gorm:"type:varchar(14);uniqueIndex"`
	Name           string         `gorm:"type:varchar(200);not null;index"`
	Brand          string         `gorm:"type:varchar(100)"`
	Ingredients    StringSlice    `gorm:"type:json"`
	IngredientText string         `gorm:"type:text"`
	Nutrition      NutritionModel `gorm:"embedded;embeddedPrefix:nutrition_"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName overrides the table name
func (ProductModel) TableName() string { return "products" }

// NutritionModel holds per-serving nutrition; NULL columns are unknown values
type NutritionModel struct {
	ServingSizeG  *float64
	Calories      *float64
	ProteinG      *float64
	CarbsG        *float64
	FatG          *float64
	SaturatedFatG *float64
	TransFatG     *float64
	FiberG        *float64
	SugarG        *float64
	AddedSugarG   *float64
	SodiumMg      *float64
	CholesterolMg *float64
}

// AssessmentModel represents the GORM model for assessments.
// ActivePair holds "user:product" while the row is active and NULL once
// superseded, so the unique index admits one active row per pair.
type AssessmentModel struct {
	ID                uuid.UUID                                `gorm:"type:char(36);primaryKey"`
	UserID            uuid.UUID                                `gorm:"type:char(36);not null;index:idx_assessments_user_created,priority:1"`
	ProductID         uuid.UUID                                `gorm:"type:char(36);not null;index"`
	ActivePair        *string                                  `gorm:"type:varchar(80);uniqueIndex"`
	Score             int                                      `gorm:"not null;check:score >= 0 AND score <= 100"`
	Recommendation    string                                   `gorm:"type:varchar(20);not null;index"`
	AllergyWarnings   JSON[[]compatibility.AllergyWarning]     `gorm:"type:json"`
	DietaryCompatible bool                                     `gorm:"not null"`
	Breakdown         JSON[[]nutrition.Result]                 `gorm:"type:json"`
	Adjustments       JSON[[]assessment.Adjustment]            `gorm:"type:json"`
	Summary           string                                   `gorm:"type:text"`
	Recommendations   StringSlice                              `gorm:"type:json"`
	Confidence        float64                                  `gorm:"not null"`
	Metrics           JSON[physiology.Metrics]                 `gorm:"type:json"`
	UserRating        *int                                     `gorm:"check:user_rating IS NULL OR (user_rating >= 1 AND user_rating <= 5)"`
	UserNotes         *string                                  `gorm:"type:text"`
	CreatedAt         time.Time                                `gorm:"index:idx_assessments_user_created,priority:2"`
	UpdatedAt         time.Time
	SupersededAt      *time.Time
}

// TableName overrides the table name
func (AssessmentModel) TableName() string { return "assessments" }

// AllModels lists the models managed by AutoMigrate
func AllModels() []interface{} {
	return []interface{}{&UserModel{}, &ProductModel{}, &AssessmentModel{}}
}

// StringSlice custom type for handling string slices in JSON
type StringSlice []string

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
}

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// JSON stores any JSON-serializable value in a json column
type JSON[T any] struct {
	Data T
}

// NewJSON wraps a value for storage
func NewJSON[T any](v T) JSON[T] {
	return JSON[T]{Data: v}
}

// Scan implements the sql.Scanner interface
func (j *JSON[T]) Scan(value interface{}) error {
	var zero T
	j.Data = zero
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, &j.Data)
	case string:
		return json.Unmarshal([]byte(v), &j.Data)
	default:
		return fmt.Errorf("cannot scan %T into JSON", value)
	}
}

// Value implements the driver.Valuer interface
func (j JSON[T]) Value() (driver.Value, error) {
	b, err := json.Marshal(j.Data)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// BeforeCreate hook for UserModel
func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for ProductModel
func (p *ProductModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for AssessmentModel
func (a *AssessmentModel) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
