package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	authdomain "github.com/Henok-Haile/crm-dashboard/internal/auth/domain"
	customerdomain "github.com/Henok-Haile/crm-dashboard/internal/customer/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"
)

const migrationsDir = "sql"

//go:embed sql/*.sql
var embeddedMigrations embed.FS

// RunMigrations applies the embedded postgres migrations.
func RunMigrations(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// migrator.Close would close the shared *sql.DB.

	return nil
}

// Models lists the tables created by AutoMigrate on non-postgres databases.
func Models() []any {
	return []any{
		&authdomain.User{},
		&authdomain.Session{},
		&customerdomain.Customer{},
	}
}

// Apply migrates conn with golang-migrate on postgres and AutoMigrate elsewhere.
func Apply(conn *gorm.DB) error {
	if conn.Dialector.Name() != "postgres" {
		return conn.AutoMigrate(Models()...)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return RunMigrations(sqlDB)
}
