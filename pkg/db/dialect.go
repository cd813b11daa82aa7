package db

import (
	"fmt"
	"strings"

	"github.com/Henok-Haile/crm-dashboard/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const defaultSQLiteFile = "crm.db"

// Dialect picks the gorm driver for DATABASE_TYPE. Every DSN pins the
// session time zone to UTC so created_at comparisons match the summary clock.
func Dialect(cfg config.Config) (gorm.Dialector, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.DBType)) {
	case "postgres":
		return postgres.Open(PostgresDSN(cfg)), nil
	case "mysql":
		return mysql.Open(MySQLDSN(cfg)), nil
	case "sqlite":
		return sqlite.Open(SQLiteFile(cfg)), nil
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.DBType)
	}
}

func PostgresDSN(cfg config.Config) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode)
}

func MySQLDSN(cfg config.Config) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
}

// SQLiteFile treats DATABASE_NAME as a file path; the bare default name
// "crm" maps to crm.db in the working directory.
func SQLiteFile(cfg config.Config) string {
	name := strings.TrimSpace(cfg.DBName)
	if name == "" || name == "crm" {
		return defaultSQLiteFile
	}
	return name
}
