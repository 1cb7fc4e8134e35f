package database

import (
	"fmt"
	"time"

	"paisawise/internal/config"
	"paisawise/internal/model"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every table owned by the service, in migration order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Organization{},
		&model.Membership{},
		&model.DepartmentBudget{},
		&model.CashFlowEntry{},
		&model.BalanceSheetEntry{},
		&model.BudgetRequest{},
		&model.QuarterlyStatement{},
		&model.AuditLog{},
	}
}

func gormConfig(debug bool) *gorm.Config {
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	return &gorm.Config{
		Logger: logger.Default.LogMode(level),
		// ledger ranges are compared in UTC
		NowFunc: func() time.Time { return time.Now().UTC() },
	}
}

// NewConnection initializes a new PostgreSQL connection pool using GORM
func NewConnection(dsn string, debug bool) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), gormConfig(debug))
}

// NewSQLiteConnection opens a pure-Go sqlite database at path.
func NewSQLiteConnection(path string, debug bool) (*gorm.DB, error) {
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig(debug))
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// Open connects to the configured driver.
func Open(cfg config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	switch cfg.Driver {
	case "sqlite":
		return NewSQLiteConnection(cfg.SQLitePath, debug)
	case "postgres":
		return NewConnection(cfg.PostgresDSN(), debug)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// AutoMigrate creates or updates every table.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to auto-migrate models: %w", err)
	}
	return nil
}
