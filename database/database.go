package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xhfmvls/c-buy/config"
	"github.com/xhfmvls/c-buy/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Tables lists every model in creation order. Reset drops them in reverse.
func Tables() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Store{},
		&models.Product{},
		&models.Cart{},
		&models.TransactionHeader{},
		&models.TransactionDetail{},
	}
}

// Open sets up the GORM connection pool.
func Open(cfg *config.Config, log *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         NewGormLogger(log),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB from gorm: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// NewGormLogger routes gorm's slow-query and error output through slog.
func NewGormLogger(log *slog.Logger) gormlogger.Interface {
	return gormlogger.New(
		slog.NewLogLogger(log.Handler(), slog.LevelWarn),
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)
}

// Migrate creates missing tables and columns. It never drops data.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Tables()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Reset drops every table and recreates the schema. All rows are lost.
func Reset(db *gorm.DB) error {
	tables := Tables()
	for i := len(tables) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(tables[i]); err != nil {
			return fmt.Errorf("drop %T: %w", tables[i], err)
		}
	}
	return Migrate(db)
}
