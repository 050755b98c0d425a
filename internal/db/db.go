package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"laundry-queue-backend/config"
	"laundry-queue-backend/internal/model"
)

// Init opens the database, applies pool settings and runs migrations.
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(Dialector(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info().Str("dialect", db.Dialector.Name()).Msg("database initialization complete")
	return db, nil
}

// Dialector picks the driver from the DSN.
func Dialector(dsn string) gorm.Dialector {
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(dsn, "sqlite://"))
	case strings.HasPrefix(dsn, "file:"):
		return sqlite.Open(dsn)
	default:
		return postgres.Open(dsn)
	}
}

// Migrate creates the tables and the partial unique indexes that back the
// reservation invariants.
func Migrate(db *gorm.DB) error {
	log.Info().Msg("running database migrations")
	if err := db.AutoMigrate(
		&model.Machine{},
		&model.UsageSession{},
		&model.QueueEntry{},
		&model.PushSubscription{},
	); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}
	return applyIndexDDL(db)
}

// Both postgres and sqlite support partial indexes with the same syntax.
func applyIndexDDL(db *gorm.DB) error {
	ddls := []string{
		// at most one waiting/notified entry per (machine, user)
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_queue_entries_active_member " +
			"ON queue_entries (machine_id, user_id) WHERE status IN ('waiting', 'notified');",

		// at most one notified entry per machine
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_queue_entries_notified " +
			"ON queue_entries (machine_id) WHERE status = 'notified';",

		// at most one active session per user, and per machine
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_usage_sessions_active_user " +
			"ON usage_sessions (user_id) WHERE status = 'active';",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_usage_sessions_active_machine " +
			"ON usage_sessions (machine_id) WHERE status = 'active';",
	}

	for _, ddl := range ddls {
		if err := db.Exec(ddl).Error; err != nil {
			return fmt.Errorf("DDL failed on %q: %w", ddl, err)
		}
	}
	return nil
}

func logLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
