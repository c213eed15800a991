package database

import (
	"fmt"

	"makani-studio/internal/domain/analytics"
	"makani-studio/internal/domain/categories"
	"makani-studio/internal/domain/inquiries"
	"makani-studio/internal/domain/projects"
	"makani-studio/internal/domain/settings"
	"makani-studio/internal/domain/users"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every table owned by the application.
func Models() []interface{} {
	return []interface{}{
		// admin
		&users.User{},

		// catalogue
		&categories.Category{},
		&projects.Project{},

		// site
		&settings.AppSettings{},
		&inquiries.Inquiry{},

		// analytics
		&analytics.VisitSession{},
		&analytics.VisitEvent{},
		&analytics.ProjectView{},
		&analytics.ProjectViewStat{},
	}
}

// Open connects to PostgreSQL and migrates the schema.
func Open(dsn string, log *zap.Logger) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database url not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	// uuid primary keys
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		return nil, fmt.Errorf("enable pgcrypto: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info("database connected and migrated")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
