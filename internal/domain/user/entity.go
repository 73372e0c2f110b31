// Package user defines the user aggregate and the health profile assessments
// are personalized against.
package user

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/snacktrack/assessor/internal/domain/health"
	"github.com/snacktrack/assessor/internal/domain/physiology"
	"github.com/snacktrack/assessor/internal/domain/shared"
)

// User represents a user in the system
type User struct {
	shared.AggregateRoot

	id             uuid.UUID
	email          string
	name           string
	profile        HealthProfile
	profileVersion int
	createdAt      time.Time
	updatedAt      time.Time
}

// HealthProfile is the personal data assessments are computed against.
// Zero numeric fields mean "not provided". BMI, BMR and TDEE are derived on
// demand and never stored.
type HealthProfile struct {
	Age               int
	Sex               health.Sex
	HeightCm          float64
	WeightKg          float64
	BodyFatPercent    float64
	ActivityLevel     health.ActivityLevel
	Goal              health.Goal
	DietaryPreference health.DietaryPreference
	Allergies         []string
	Conditions        []health.Condition
}

// NewHealthProfile validates the numeric bounds and normalizes the free-text
// sets (lowercase, trimmed, de-duplicated).
func NewHealthProfile(p HealthProfile) (HealthProfile, error) {
	if p.Age != 0 && (p.Age < 13 || p.Age > 120) {
		return HealthProfile{}, ErrAgeOutOfRange
	}
	if p.HeightCm < 0 || (p.HeightCm != 0 && (p.HeightCm < 50 || p.HeightCm > 250)) {
		return HealthProfile{}, ErrHeightOutOfRange
	}
	if p.WeightKg < 0 || (p.WeightKg != 0 && (p.WeightKg < 10 || p.WeightKg > 400)) {
		return HealthProfile{}, ErrWeightOutOfRange
	}
	if p.BodyFatPercent < 0 || p.BodyFatPercent > 70 {
		return HealthProfile{}, ErrBodyFatOutOfRange
	}

	if p.Sex == "" {
		p.Sex = health.SexOther
	}
	if p.DietaryPreference == "" {
		p.DietaryPreference = health.DietNone
	}
	p.Allergies = health.NormalizeTerms(p.Allergies)

	conditions := make([]string, len(p.Conditions))
	for i, c := range p.Conditions {
		conditions[i] = string(c)
	}
	p.Conditions = health.NormalizeConditions(conditions)

	return p, nil
}

// Measurements converts the profile to calculator input.
func (p HealthProfile) Measurements() physiology.Measurements {
	return physiology.Measurements{
		Age:            p.Age,
		Sex:            p.Sex,
		HeightCm:       p.HeightCm,
		WeightKg:       p.WeightKg,
		BodyFatPercent: p.BodyFatPercent,
		Activity:       p.ActivityLevel,
		Goal:           p.Goal,
	}
}

// BMI is the single source of the profile's BMI.
func (p HealthProfile) BMI() (float64, bool) {
	return physiology.CalculateBMI(p.WeightKg, p.HeightCm)
}

// Metrics derives all physiological metrics with the given calculator.
func (p HealthProfile) Metrics(calc *physiology.Calculator) physiology.Metrics {
	return calc.Metrics(p.Measurements())
}

// HasCondition reports whether the condition is in the profile.
func (p HealthProfile) HasCondition(c health.Condition) bool {
	for _, existing := range p.Conditions {
		if existing == c {
			return true
		}
	}
	return false
}

// HasAllergies reports whether any allergy is declared.
func (p HealthProfile) HasAllergies() bool {
	return len(p.Allergies) > 0
}

// NewUser creates a new user with validation
func NewUser(email, name string, profile HealthProfile) (*User, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	normalized, err := NewHealthProfile(profile)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u := &User{
		id:             uuid.New(),
		email:          strings.ToLower(strings.TrimSpace(email)),
		name:           strings.TrimSpace(name),
		profile:        normalized,
		profileVersion: 1,
		createdAt:      now,
		updatedAt:      now,
	}
	u.AddEvent(UserRegisteredEvent{BaseEvent: shared.NewBaseEvent(), UserID: u.id})
	return u, nil
}

// Reconstitute rebuilds a user from persisted state without raising events.
func Reconstitute(id uuid.UUID, email, name string, profile HealthProfile, profileVersion int, createdAt, updatedAt time.Time) *User {
	return &User{
		id:             id,
		email:          email,
		name:           name,
		profile:        profile,
		profileVersion: profileVersion,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// ID returns the user's ID
func (u *User) ID() uuid.UUID {
	return u.id
}

// Email returns the user's email
func (u *User) Email() string {
	return u.email
}

// Name returns the user's name
func (u *User) Name() string {
	return u.name
}

// Profile returns a copy of the health profile.
func (u *User) Profile() HealthProfile {
	p := u.profile
	p.Allergies = append([]string(nil), u.profile.Allergies...)
	p.Conditions = append([]health.Condition(nil), u.profile.Conditions...)
	return p
}

// ProfileVersion increments on every profile change. Caches of derived
// metrics are keyed by it.
func (u *User) ProfileVersion() int {
	return u.profileVersion
}

// CreatedAt returns when the user was created
func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

// UpdatedAt returns when the user was last updated
func (u *User) UpdatedAt() time.Time {
	return u.updatedAt
}

// UpdateProfile replaces the health profile. Existing assessments are not
// touched; they keep the profile snapshot they were computed with.
func (u *User) UpdateProfile(profile HealthProfile) error {
	normalized, err := NewHealthProfile(profile)
	if err != nil {
		return err
	}

	u.profile = normalized
	u.profileVersion++
	u.updatedAt = time.Now().UTC()

	u.AddEvent(HealthProfileUpdatedEvent{
		BaseEvent: shared.NewBaseEvent(),
		UserID:    u.id,
		Version:   u.profileVersion,
	})
	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmailRequired
	}
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 || !strings.Contains(email[at:], ".") {
		return ErrInvalidEmail
	}
	return nil
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return ErrNameTooShort
	}
	if len(name) > 100 {
		return ErrNameTooLong
	}
	return nil
}
