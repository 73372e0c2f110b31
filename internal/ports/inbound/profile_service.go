package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/snacktrack/assessor/internal/domain/health"
	"github.com/snacktrack/assessor/internal/domain/physiology"
	"github.com/snacktrack/assessor/internal/domain/user"
)

// ProfileService manages users and their health profiles
type ProfileService interface {
	RegisterUser(ctx context.Context, cmd RegisterUserCommand) (*UserDTO, error)
	UpdateHealthProfile(ctx context.Context, cmd UpdateProfileCommand) (*UserDTO, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	GetHealthMetrics(ctx context.Context, userID uuid.UUID) (*HealthMetricsDTO, error)
	GetDailyTargets(ctx context.Context, userID uuid.UUID) (*physiology.DailyTargets, error)
}

// HealthProfileInput is the user-supplied profile. Zero values mean "not provided".
type HealthProfileInput struct {
	Age               int      `json:"age" validate:"omitempty,gte=13,lte=120"`
	Sex               string   `json:"sex" validate:"omitempty,sex"`
	HeightCm          float64  `json:"height_cm" validate:"omitempty,gte=50,lte=250"`
	WeightKg          float64  `json:"weight_kg" validate:"omitempty,gte=10,lte=400"`
	BodyFatPercent    float64  `json:"body_fat_percent" validate:"omitempty,gt=0,lte=70"`
	ActivityLevel     string   `json:"activity_level" validate:"omitempty,activity_level"`
	Goal              string   `json:"health_goal" validate:"omitempty,health_goal"`
	DietaryPreference string   `json:"dietary_preference" validate:"omitempty,dietary_preference"`
	Allergies         []string `json:"allergies" validate:"omitempty,max=50,dive,required,max=64"`
	Conditions        []string `json:"health_conditions" validate:"omitempty,max=20,dive,required,max=64"`
}

// ToDomain converts the input to a domain profile (not yet normalized).
func (in HealthProfileInput) ToDomain() user.HealthProfile {
	conditions := make([]health.Condition, len(in.Conditions))
	for i, c := range in.Conditions {
		conditions[i] = health.Condition(c)
	}
	return user.HealthProfile{
		Age:               in.Age,
		Sex:               health.ParseSex(in.Sex),
		HeightCm:          in.HeightCm,
		WeightKg:          in.WeightKg,
		BodyFatPercent:    in.BodyFatPercent,
		ActivityLevel:     health.ParseActivityLevel(in.ActivityLevel),
		Goal:              health.ParseGoal(in.Goal),
		DietaryPreference: health.ParseDietaryPreference(in.DietaryPreference),
		Allergies:         in.Allergies,
		Conditions:        conditions,
	}
}

// RegisterUserCommand creates a user with an initial profile
type RegisterUserCommand struct {
	Email   string             `json:"email" validate:"required,email"`
	Name    string             `json:"name" validate:"required,min=2,max=100"`
	Profile HealthProfileInput `json:"profile"`
}

// UpdateProfileCommand replaces a user's health profile
type UpdateProfileCommand struct {
	UserID  uuid.UUID          `json:"user_id" validate:"required"`
	Profile HealthProfileInput `json:"profile"`
}

// UserDTO is the read model of a user
type UserDTO struct {
	ID             uuid.UUID          `json:"id"`
	Email          string             `json:"email"`
	Name           string             `json:"name"`
	Profile        user.HealthProfile `json:"profile"`
	ProfileVersion int                `json:"profile_version"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// HealthMetricsDTO carries the derived physiological metrics
type HealthMetricsDTO struct {
	UserID         uuid.UUID          `json:"user_id"`
	ProfileVersion int                `json:"profile_version"`
	Metrics        physiology.Metrics `json:"metrics"`
}

// NewUserDTO builds the read model from the aggregate.
func NewUserDTO(u *user.User) *UserDTO {
	return &UserDTO{
		ID:             u.ID(),
		Email:          u.Email(),
		Name:           u.Name(),
		Profile:        u.Profile(),
		ProfileVersion: u.ProfileVersion(),
		CreatedAt:      u.CreatedAt(),
		UpdatedAt:      u.UpdatedAt(),
	}
}
