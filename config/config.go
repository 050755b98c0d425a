package config

import (
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Reservation ReservationConfig `yaml:"reservation"`
	Reconcile   ReconcileConfig   `yaml:"reconcile"`
	Push        PushConfig        `yaml:"push"`
	WorkerPool  WorkerPoolConfig  `yaml:"worker_pool"`
	Log         LogConfig         `yaml:"log"`
}

// WorkerPoolConfig holds the configuration for the status broadcast worker pool.
type WorkerPoolConfig struct {
	Size      int `yaml:"size"`
	QueueSize int `yaml:"queue_size"`
}

// PushConfig holds the VAPID keys for web push notifications.
// Push is disabled when either key is empty.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// Enabled reports whether both VAPID keys are configured.
func (p PushConfig) Enabled() bool {
	return p.PublicKey != "" && p.PrivateKey != ""
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int      `yaml:"port"`
	RateLimitPerSec float64  `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int      `yaml:"rate_limit_burst"`
	CacheTTLSeconds int      `yaml:"cache_ttl_seconds"`
	AllowedOrigins  []string `yaml:"allowed_origins"`

	CacheTTL time.Duration `yaml:"-"`
}

// DatabaseConfig holds the database connection configuration.
// DSNs starting with "sqlite://" or "file:" select the sqlite driver,
// everything else is handed to postgres.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	LogLevel               string `yaml:"log_level"`
}

// ReservationConfig holds the queue protocol timings.
type ReservationConfig struct {
	NotificationWindowSeconds int `yaml:"notification_window_seconds"`
	AutoReleaseGraceSeconds   int `yaml:"auto_release_grace_seconds"`

	NotificationWindow time.Duration `yaml:"-"`
	AutoReleaseGrace   time.Duration `yaml:"-"`
}

// ReconcileConfig controls the background sweeps.
type ReconcileConfig struct {
	Enabled                    *bool `yaml:"enabled"`
	ExpirationIntervalSeconds  int   `yaml:"expiration_interval_seconds"`
	AutoReleaseIntervalSeconds int   `yaml:"auto_release_interval_seconds"`

	ExpirationInterval  time.Duration `yaml:"-"`
	AutoReleaseInterval time.Duration `yaml:"-"`
}

// IsEnabled defaults to true when the key is absent.
func (r ReconcileConfig) IsEnabled() bool {
	return r.Enabled == nil || *r.Enabled
}

// LogConfig selects the zerolog level and output format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills unset values and derives the duration fields.
func (cfg *Config) ApplyDefaults() {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 5
	}
	cfg.Server.CacheTTL = time.Duration(cfg.Server.CacheTTLSeconds) * time.Second

	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "file:laundry.db"
	}
	if cfg.Database.LogLevel == "" {
		cfg.Database.LogLevel = "warn"
	}

	if cfg.Reservation.NotificationWindowSeconds <= 0 {
		cfg.Reservation.NotificationWindowSeconds = 120
	}
	cfg.Reservation.NotificationWindow = time.Duration(cfg.Reservation.NotificationWindowSeconds) * time.Second
	if cfg.Reservation.AutoReleaseGraceSeconds <= 0 {
		cfg.Reservation.AutoReleaseGraceSeconds = 300
	}
	cfg.Reservation.AutoReleaseGrace = time.Duration(cfg.Reservation.AutoReleaseGraceSeconds) * time.Second

	if cfg.Reconcile.ExpirationIntervalSeconds <= 0 {
		cfg.Reconcile.ExpirationIntervalSeconds = 30
	}
	cfg.Reconcile.ExpirationInterval = time.Duration(cfg.Reconcile.ExpirationIntervalSeconds) * time.Second
	if cfg.Reconcile.AutoReleaseIntervalSeconds <= 0 {
		cfg.Reconcile.AutoReleaseIntervalSeconds = 60
	}
	cfg.Reconcile.AutoReleaseInterval = time.Duration(cfg.Reconcile.AutoReleaseIntervalSeconds) * time.Second

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 120
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Warn().Msg("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}
	if cfg.WorkerPool.QueueSize <= 0 {
		cfg.WorkerPool.QueueSize = 64 * cfg.WorkerPool.Size
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}
