package gorm

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/snacktrack/assessor/internal/ports/outbound"
)

// isUniqueViolation recognizes unique constraint failures from sqlite and postgres
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key")
}

// translate maps driver errors onto the outbound sentinels
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return outbound.ErrNotFound
	case isUniqueViolation(err):
		return outbound.ErrDuplicate
	default:
		return err
	}
}
