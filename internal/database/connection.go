package database

import (
	"fmt"

	"garage_manager/internal/models"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Options struct {
	MaxOpenConns int
	MaxIdleConns int
	Debug        bool
}

func Initialize(databaseURL string, opts Options, log zerolog.Logger) (*gorm.DB, error) {
	// Configure GORM
	level := logger.Warn
	if opts.Debug {
		level = logger.Info
	}
	config := &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(databaseURL), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}

	// Auto migrate all models
	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Info().Msg("database connected and migrated")
	return db, nil
}

// Models lists every table owned by the service, parents first.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.CarModel{},
		&models.Service{},
		&models.Part{},
		&models.Vehicle{},
		&models.Appointment{},
		&models.Ticket{},
		&models.ServiceItem{},
		&models.PartItem{},
		&models.StatusEvent{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	// Part names are unique regardless of case.
	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_parts_name_lower ON parts (LOWER(name))`).Error
}
