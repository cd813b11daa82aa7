package db

import (
	"time"

	"github.com/Henok-Haile/crm-dashboard/internal/config"
)

// PoolConfig holds connection pool limits for the shared *sql.DB.
type PoolConfig struct {
	MaxIdleConn     int
	MaxOpenConn     int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

func poolConfig(cfg config.Config) PoolConfig {
	return PoolConfig{
		MaxIdleConn:     cfg.DBMaxIdleConn,
		MaxOpenConn:     cfg.DBMaxOpenConn,
		ConnMaxLifetime: time.Duration(cfg.DBConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.DBConnMaxIdleTime) * time.Second,
	}
}
