package storage

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/just-nibble/repo-quality/internal/adapters/db"
	"github.com/just-nibble/repo-quality/pkg/config"
)

// InitDB connects to PostgreSQL and migrates the analysis history schema.
func InitDB(cfg config.Database) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Automatically migrate the schema
	if err := conn.AutoMigrate(&db.Analysis{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return conn, nil
}
