// Package repository provides the data access layer for the auth service.
//
// Storage errors are translated into the application error taxonomy here, so
// services and handlers never inspect driver error codes. The database must be
// opened with gorm's TranslateError option for duplicate-key detection.
package repository

import (
	"errors"
	"fmt"

	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/apperrors"
	"gorm.io/gorm"
)

// translate maps gorm errors to the application taxonomy. A unique-constraint
// violation that slips past a service-level pre-check (two concurrent
// registrations) surfaces as the same ConflictError shape as the pre-check.
func translate(err error, notFoundMessage, context string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.NotFound(notFoundMessage)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.Conflict("a record with this value already exists")
	default:
		return fmt.Errorf("%s: %w", context, err)
	}
}
