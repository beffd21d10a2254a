package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"seguimiento/internal/config"
	"seguimiento/internal/dashboard"
	"seguimiento/internal/models"
)

// Database wraps the gorm connection pool.
type Database struct {
	DB     *gorm.DB
	Driver string
}

// Open connects with the driver named in the config. It does not migrate;
// callers decide whether a failed migration is fatal.
func Open(cfg *config.Config) (*Database, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DSN())
	case config.DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dialector = sqlite.Open(cfg.DBPath + "?_foreign_keys=on")
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel(cfg.DBLogLevel)),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	return &Database{DB: db, Driver: cfg.DBDriver}, nil
}

// NewDatabase opens the connection and migrates the schema.
func NewDatabase(cfg *config.Config) (*Database, error) {
	database, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return database, nil
}

func logLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	}
	return logger.Warn
}

// Migrate creates or updates the cursos, grupos and historial_grupos tables.
func (d *Database) Migrate() error {
	return d.DB.AutoMigrate(
		&models.Curso{},
		&models.Grupo{},
		&models.HistorialEntry{},
	)
}

// Reset drops every table, recreates the schema and loads the sample data.
func (d *Database) Reset(ctx context.Context) error {
	m := d.DB.WithContext(ctx).Migrator()
	if err := m.DropTable(&models.HistorialEntry{}, &models.Grupo{}, &models.Curso{}); err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}
	if err := d.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return d.Seed(ctx)
}

// SeedIfEmpty loads the sample data only into an empty cursos table.
func (d *Database) SeedIfEmpty(ctx context.Context) (bool, error) {
	var count int64
	if err := d.DB.WithContext(ctx).Model(&models.Curso{}).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	return true, d.Seed(ctx)
}

// Seed inserts the sample courses and groups in one transaction.
func (d *Database) Seed(ctx context.Context) error {
	return d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cursos := dashboard.SampleCursos()
		if err := tx.Create(&cursos).Error; err != nil {
			return fmt.Errorf("failed to seed cursos: %w", err)
		}
		for _, g := range dashboard.SampleGrupos() {
			historial := g.Historial
			if err := tx.Omit(clause.Associations).Create(&g).Error; err != nil {
				return fmt.Errorf("failed to seed grupo %s: %w", g.ID, err)
			}
			if err := tx.Create(&historial).Error; err != nil {
				return fmt.Errorf("failed to seed historial of %s: %w", g.ID, err)
			}
		}
		log.Printf("Seeded %d cursos with sample groups", len(cursos))
		return nil
	})
}

// Ping checks that a pooled connection can be acquired.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the pool.
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
