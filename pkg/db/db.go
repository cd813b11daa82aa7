package db

import (
	"context"
	"fmt"
	"time"

	"github.com/Henok-Haile/crm-dashboard/internal/config"
	"github.com/Henok-Haile/crm-dashboard/internal/observability/logger"
	glebarez "github.com/glebarez/sqlite"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/plugin/prometheus"
)

var Module = fx.Module("db",
	fx.Provide(New),
)

// New opens the configured database, attaches metrics and tracing plugins and
// closes the pool on shutdown.
func New(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := Dialect(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.NewGormLogger(log, logger.DefaultGormLoggerConfig()),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DBType, err)
	}

	if err := conn.Use(prometheus.New(prometheus.Config{
		DBName:          cfg.DBName,
		RefreshInterval: 15,
	})); err != nil {
		return nil, fmt.Errorf("register db metrics: %w", err)
	}
	if err := conn.Use(otelgorm.NewPlugin(otelgorm.WithoutQueryVariables())); err != nil {
		return nil, fmt.Errorf("register db tracing: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	pool := poolConfig(cfg)
	sqlDB.SetMaxIdleConns(pool.MaxIdleConn)
	sqlDB.SetMaxOpenConns(pool.MaxOpenConn)
	sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(pool.ConnMaxIdleTime)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				return sqlDB.PingContext(ctx)
			},
			OnStop: func(context.Context) error {
				return sqlDB.Close()
			},
		})
	}

	log.Info("database connected", zap.String("type", cfg.DBType), zap.String("name", cfg.DBName))
	return conn, nil
}

// NewTest opens a private in-memory sqlite database.
func NewTest() (*gorm.DB, error) {
	conn, err := gorm.Open(glebarez.Open("file::memory:"), &gorm.Config{
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	// a second connection would see a different empty database
	sqlDB.SetMaxOpenConns(1)
	return conn, nil
}
