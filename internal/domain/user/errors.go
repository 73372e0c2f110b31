package user

import "errors"

// Domain errors for user operations

var (
	ErrEmailRequired = errors.New("email is required")
	ErrInvalidEmail  = errors.New("invalid email format")
	ErrNameTooShort  = errors.New("name must be at least 2 characters")
	ErrNameTooLong   = errors.New("name must not exceed 100 characters")

	// Profile bounds
	ErrAgeOutOfRange     = errors.New("age must be between 13 and 120")
	ErrHeightOutOfRange  = errors.New("height must be between 50 and 250 cm")
	ErrWeightOutOfRange  = errors.New("weight must be between 10 and 400 kg")
	ErrBodyFatOutOfRange = errors.New("body fat must be between 0 and 70 percent")
)
