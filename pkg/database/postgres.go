// Package database provides the PostgreSQL connector for the auth service.
package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens a gorm handle against PostgreSQL. TranslateError is enabled so
// the repository layer can match gorm.ErrDuplicatedKey on unique-constraint
// violations instead of inspecting driver error codes.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}
