// Package errors provides structured error handling for the application
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// ErrorCode represents an error code
type ErrorCode string

// Common error codes following RESTful API conventions
const (
	// Client errors (4xx)
	CodeBadRequest       ErrorCode = "BAD_REQUEST"
	CodeForbidden        ErrorCode = "FORBIDDEN"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// Server errors (5xx)
	CodeInternal           ErrorCode = "INTERNAL_ERROR"
	CodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	CodeDatabaseError      ErrorCode = "DATABASE_ERROR"
	CodeCacheError         ErrorCode = "CACHE_ERROR"

	// Business logic errors
	CodeMissingNutritionData    ErrorCode = "MISSING_NUTRITION_DATA"
	CodeInvalidProfileData      ErrorCode = "INVALID_PROFILE_DATA"
	CodeInvalidFeedback         ErrorCode = "INVALID_FEEDBACK"
	CodeAssessmentNotFound      ErrorCode = "ASSESSMENT_NOT_FOUND"
	CodeProductNotFound         ErrorCode = "PRODUCT_NOT_FOUND"
	CodeUserNotFound            ErrorCode = "USER_NOT_FOUND"
	CodeBarcodeAlreadyExists    ErrorCode = "BARCODE_ALREADY_EXISTS"
	CodeEmailAlreadyExists      ErrorCode = "EMAIL_ALREADY_EXISTS"
	CodeInsufficientPermissions ErrorCode = "INSUFFICIENT_PERMISSIONS"
)

// AppError represents an application error with structured information
type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Cause      error                  `json:"-"`
	StackTrace string                 `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the appropriate HTTP status code
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidationFailed, CodeInvalidFeedback, CodeInvalidProfileData:
		return http.StatusBadRequest
	case CodeForbidden, CodeInsufficientPermissions:
		return http.StatusForbidden
	case CodeNotFound, CodeAssessmentNotFound, CodeProductNotFound, CodeUserNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeBarcodeAlreadyExists, CodeEmailAlreadyExists:
		return http.StatusConflict
	case CodeMissingNutritionData:
		return http.StatusUnprocessableEntity
	case CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WithMetadata adds metadata to the error
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause adds a cause error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message, details string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		Details:    details,
		StackTrace: getStackTrace(),
	}
}

// NewValidationError creates a validation error
func NewValidationError(details string) *AppError {
	return NewAppError(CodeValidationFailed, "Validation failed", details)
}

// NewDatabaseError creates a database error
func NewDatabaseError(operation string, cause error) *AppError {
	return NewAppError(
		CodeDatabaseError,
		"Database operation failed",
		fmt.Sprintf("Failed to %s", operation),
	).WithCause(cause)
}

// NewCacheError creates a cache error
func NewCacheError(operation string, cause error) *AppError {
	return NewAppError(
		CodeCacheError,
		"Cache operation failed",
		fmt.Sprintf("Failed to %s", operation),
	).WithCause(cause)
}

// Business domain specific errors

// NewMissingNutritionDataError is returned when a product has no nutrition facts to score.
func NewMissingNutritionDataError(productID string, cause error) *AppError {
	return NewAppError(
		CodeMissingNutritionData,
		"Missing nutrition data",
		fmt.Sprintf("Product %s has no nutrition facts to assess", productID),
	).WithMetadata("product_id", productID).WithCause(cause)
}

// NewInvalidProfileDataError is returned when a derived metric required by an
// operation cannot be computed from the stored profile.
func NewInvalidProfileDataError(details string, cause error) *AppError {
	return NewAppError(CodeInvalidProfileData, "Invalid profile data", details).WithCause(cause)
}

// NewInvalidFeedbackError creates an invalid feedback error
func NewInvalidFeedbackError(details string, cause error) *AppError {
	return NewAppError(CodeInvalidFeedback, "Invalid feedback", details).WithCause(cause)
}

// NewAssessmentNotFoundError creates an assessment not found error
func NewAssessmentNotFoundError(assessmentID string) *AppError {
	return NewAppError(
		CodeAssessmentNotFound,
		"Assessment not found",
		fmt.Sprintf("Assessment with ID %s does not exist", assessmentID),
	).WithMetadata("assessment_id", assessmentID)
}

// NewProductNotFoundError creates a product not found error
func NewProductNotFoundError(productID string) *AppError {
	return NewAppError(
		CodeProductNotFound,
		"Product not found",
		fmt.Sprintf("Product %s does not exist", productID),
	).WithMetadata("product_id", productID)
}

// NewUserNotFoundError creates a user not found error
func NewUserNotFoundError(userID string) *AppError {
	return NewAppError(
		CodeUserNotFound,
		"User not found",
		fmt.Sprintf("User with ID %s does not exist", userID),
	).WithMetadata("user_id", userID)
}

// NewBarcodeAlreadyExistsError creates a barcode already exists error
func NewBarcodeAlreadyExistsError(barcode string) *AppError {
	return NewAppError(
		CodeBarcodeAlreadyExists,
		"Barcode already exists",
		"A product with this barcode is already registered",
	).WithMetadata("barcode", barcode)
}

// NewEmailAlreadyExistsError creates an email already exists error
func NewEmailAlreadyExistsError(email string) *AppError {
	return NewAppError(
		CodeEmailAlreadyExists,
		"Email already exists",
		"An account with this email address already exists",
	).WithMetadata("email", email)
}

// NewInsufficientPermissionsError creates an insufficient permissions error
func NewInsufficientPermissionsError(action string) *AppError {
	return NewAppError(
		CodeInsufficientPermissions,
		"Insufficient permissions",
		fmt.Sprintf("You don't have permission to %s", action),
	).WithMetadata("action", action)
}

// Utility functions

// Wrap wraps an error as an internal error if it's not already an AppError
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	return NewAppError(CodeInternal, message, "").WithCause(err)
}

// Is checks if an error is of a specific error code
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// getStackTrace captures the current stack trace
func getStackTrace() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var builder strings.Builder
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "pkg/errors") {
			builder.WriteString(fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function))
		}
		if !more {
			break
		}
	}

	return builder.String()
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Value   interface{} `json:"value"`
	Tag     string      `json:"tag"`
	Message string      `json:"message"`
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}

	if len(v) == 1 {
		return v[0].Message
	}

	var messages []string
	for _, err := range v {
		messages = append(messages, err.Message)
	}

	return strings.Join(messages, "; ")
}

// NewValidationErrors creates validation errors from validator errors
func NewValidationErrors(errors []ValidationError) *AppError {
	validationErrs := ValidationErrors(errors)

	return NewAppError(
		CodeValidationFailed,
		"Validation failed",
		validationErrs.Error(),
	).WithMetadata("validation_errors", validationErrs)
}
