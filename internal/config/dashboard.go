package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	FilterScopePage   = "page"
	FilterScopeServer = "server"

	MaxPageSize = 100
)

// DashboardConfig holds the listing and summary tunables read from dashboard.yml.
type DashboardConfig struct {
	PageSize         int
	RecentWindowDays int
	FilterScope      string
}

func DefaultDashboardConfig() DashboardConfig {
	return DashboardConfig{
		PageSize:         5,
		RecentWindowDays: 7,
		FilterScope:      FilterScopePage,
	}
}

// ServerSideFilters reports whether search and date bounds go to the backend query.
func (c DashboardConfig) ServerSideFilters() bool {
	return strings.EqualFold(strings.TrimSpace(c.FilterScope), FilterScopeServer)
}

type DashboardConfigHolder struct {
	current atomic.Value // holds DashboardConfig
}

// NewStaticDashboardConfigHolder returns a holder that never reloads.
func NewStaticDashboardConfigHolder(cfg DashboardConfig) *DashboardConfigHolder {
	holder := &DashboardConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func NewDashboardConfigHolder(log *zap.Logger) (*DashboardConfigHolder, error) {
	log = log.Named("config.dashboard")
	v := viper.New()

	v.SetConfigName("dashboard")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/crm")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CRM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultDashboardConfig()
	v.SetDefault("dashboard.page_size", defaults.PageSize)
	v.SetDefault("dashboard.recent_window_days", defaults.RecentWindowDays)
	v.SetDefault("dashboard.filter_scope", defaults.FilterScope)

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		fileFound = false
	}

	cfg := readDashboardConfig(v)
	if err := validateDashboardConfig(cfg); err != nil {
		return nil, err
	}

	holder := NewStaticDashboardConfigHolder(cfg)
	if !fileFound {
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated := readDashboardConfig(v)
		if err := validateDashboardConfig(updated); err != nil {
			log.Warn("invalid config ignored", zap.String("file", e.Name), zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

func (h *DashboardConfigHolder) Get() DashboardConfig {
	return h.current.Load().(DashboardConfig)
}

func readDashboardConfig(v *viper.Viper) DashboardConfig {
	return DashboardConfig{
		PageSize:         v.GetInt("dashboard.page_size"),
		RecentWindowDays: v.GetInt("dashboard.recent_window_days"),
		FilterScope:      strings.ToLower(strings.TrimSpace(v.GetString("dashboard.filter_scope"))),
	}
}

func validateDashboardConfig(cfg DashboardConfig) error {
	if cfg.PageSize < 1 || cfg.PageSize > MaxPageSize {
		return errors.New("dashboard.page_size must be between 1 and 100")
	}
	if cfg.RecentWindowDays < 1 {
		return errors.New("dashboard.recent_window_days must be positive")
	}
	switch strings.ToLower(strings.TrimSpace(cfg.FilterScope)) {
	case FilterScopePage, FilterScopeServer:
		return nil
	default:
		return errors.New("dashboard.filter_scope must be page or server")
	}
}
