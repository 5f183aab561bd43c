package db

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"
)

//go:embed migrations/mysql/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// MigrationSource returns the migration files for driver.
func MigrationSource(driver string) (fs.FS, error) {
	switch driver {
	case DriverMySQL, DriverPostgres:
		return fs.Sub(migrationsFS, "migrations/"+driver)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// NewMigrator builds a migrate instance over the embedded migrations for driver.
func NewMigrator(gormDB *gorm.DB, driver string) (*migrate.Migrate, error) {
	if gormDB == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("get underlying sql.DB: %w", err)
	}

	source, err := MigrationSource(driver)
	if err != nil {
		return nil, err
	}
	sourceDriver, err := iofs.New(source, ".")
	if err != nil {
		return nil, fmt.Errorf("create migration source driver: %w", err)
	}

	var m *migrate.Migrate
	switch driver {
	case DriverMySQL:
		dbDriver, err := migratemysql.WithInstance(sqlDB, &migratemysql.Config{})
		if err != nil {
			return nil, fmt.Errorf("create mysql migration driver: %w", err)
		}
		m, err = migrate.NewWithInstance("iofs", sourceDriver, "mysql", dbDriver)
		if err != nil {
			return nil, fmt.Errorf("create migrate instance: %w", err)
		}
	case DriverPostgres:
		dbDriver, err := migratepostgres.WithInstance(sqlDB, &migratepostgres.Config{})
		if err != nil {
			return nil, fmt.Errorf("create postgres migration driver: %w", err)
		}
		m, err = migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
		if err != nil {
			return nil, fmt.Errorf("create migrate instance: %w", err)
		}
	}
	return m, nil
}

// RunMigrations applies all pending migrations.
func RunMigrations(gormDB *gorm.DB, driver string, log *slog.Logger) error {
	m, err := NewMigrator(gormDB, driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("database migrations: already up to date")
			return nil
		}
		return fmt.Errorf("run migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	log.Info("database migrations applied", "version", version, "dirty", dirty)
	return nil
}
