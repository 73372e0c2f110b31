// Package validation validates inbound commands and sanitizes free text
package validation

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/snacktrack/assessor/internal/domain/health"
	"github.com/snacktrack/assessor/pkg/errors"
)

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// Validator wraps go-playground/validator with the health vocabulary tags
type Validator struct {
	logger   *zap.Logger
	validate *validator.Validate
}

// New creates a validator with the custom tags registered
func New(logger *zap.Logger) *Validator {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Registration only fails for empty tags or nil functions.
	_ = validate.RegisterValidation("activity_level", validateActivityLevel)
	_ = validate.RegisterValidation("health_goal", validateHealthGoal)
	_ = validate.RegisterValidation("dietary_preference", validateDietaryPreference)
	_ = validate.RegisterValidation("sex", validateSex)

	return &Validator{
		logger:   logger.Named("validator"),
		validate: validate,
	}
}

// Struct validates s and converts failures into a VALIDATION_FAILED AppError.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.NewValidationError(err.Error())
	}

	out := make([]errors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, errors.ValidationError{
			Field:   fe.Field(),
			Value:   fe.Value(),
			Tag:     fe.Tag(),
			Message: message(fe),
		})
	}

	v.logger.Debug("Validation failed",
		zap.String("type", reflect.TypeOf(s).String()),
		zap.Int("violations", len(out)),
	)
	return errors.NewValidationErrors(out)
}

// Sanitize strips markup, collapses whitespace and truncates to maxLen runes.
func Sanitize(input string, maxLen int) string {
	cleaned := htmlTagPattern.ReplaceAllString(input, "")
	cleaned = strings.Join(strings.FieldsFunc(cleaned, unicode.IsSpace), " ")

	if maxLen > 0 {
		runes := []rune(cleaned)
		if len(runes) > maxLen {
			cleaned = string(runes[:maxLen])
		}
	}
	return cleaned
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "numeric":
		return fmt.Sprintf("%s must contain digits only", field)
	case "activity_level":
		return "activity_level must be one of sedentary, light, moderate, active, very_active"
	case "health_goal":
		return "health_goal must be one of lose_weight, gain_muscle, maintain, improve_health"
	case "dietary_preference":
		return "dietary_preference must be one of none, vegetarian, vegan, keto, paleo, gluten_free, dairy_free"
	case "sex":
		return "sex must be one of male, female, other"
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func validateActivityLevel(fl validator.FieldLevel) bool {
	return health.ParseActivityLevel(fl.Field().String()).IsKnown()
}

func validateHealthGoal(fl validator.FieldLevel) bool {
	return health.ParseGoal(fl.Field().String()).IsKnown()
}

func validateDietaryPreference(fl validator.FieldLevel) bool {
	return health.ParseDietaryPreference(fl.Field().String()).IsKnown()
}

func validateSex(fl validator.FieldLevel) bool {
	switch health.Sex(strings.ToLower(strings.TrimSpace(fl.Field().String()))) {
	case health.SexMale, health.SexFemale, health.SexOther:
		return true
	}
	return false
}
