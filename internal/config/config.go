package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files, environment
// variables and command-line flags.
type Config struct {
	AppName          string        `mapstructure:"app_name"`
	Env              string        `mapstructure:"app_env"`
	LogLevel         string        `mapstructure:"log_level"`
	RequestTimeoutMs int64         `mapstructure:"request_timeout_ms"`
	RequestTimeout   time.Duration `mapstructure:"-"`

	SessionStoreType string `mapstructure:"session_store_type"`
	SessionBoltPath  string `mapstructure:"session_bbolt_path"`
	SessionKey       string `mapstructure:"session_key"`

	RoutesFile    string `mapstructure:"routes_file"`
	NotifiersFile string `mapstructure:"notifiers_file"`
}

const (
	DefaultRequestTimeoutMs = 15000
	DefaultSessionKey       = "user"
)

// Load reads configuration from environment variables, the optional
// configs/.env file and any flags already parsed into fs (fs may be nil).
func Load(fs *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "samvad-gateway")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("request_timeout_ms", DefaultRequestTimeoutMs)
	v.SetDefault("session_store_type", "bbolt")
	v.SetDefault("session_bbolt_path", "./data/session.db")
	v.SetDefault("session_key", DefaultSessionKey)
	v.SetDefault("routes_file", "")
	v.SetDefault("notifiers_file", "")

	v.AutomaticEnv()

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.RequestTimeoutMs <= 0 {
		return nil, fmt.Errorf("invalid request_timeout_ms (must be positive milliseconds)")
	}
	cfg.RequestTimeout = time.Duration(cfg.RequestTimeoutMs) * time.Millisecond

	cfg.SessionStoreType = strings.ToLower(strings.TrimSpace(cfg.SessionStoreType))
	cfg.SessionKey = strings.TrimSpace(cfg.SessionKey)
	if cfg.SessionKey == "" {
		return nil, fmt.Errorf("invalid session_key (must not be empty)")
	}
	if cfg.SessionStoreType == "bbolt" && strings.TrimSpace(cfg.SessionBoltPath) == "" {
		return nil, fmt.Errorf("session_bbolt_path is required for bbolt session store")
	}

	return &cfg, nil
}

// RegisterFlags declares the flags Load understands. Flag names match the
// config keys so viper can bind them directly.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("log_level", "info", "log level (debug, info, warn, error)")
	fs.Int64("request_timeout_ms", DefaultRequestTimeoutMs, "per-request deadline in milliseconds")
	fs.String("session_store_type", "bbolt", "session store backend (bbolt, memory)")
	fs.String("session_bbolt_path", "./data/session.db", "bbolt file holding the session record")
	fs.String("session_key", DefaultSessionKey, "store key of the session record")
	fs.String("routes_file", "", "YAML/JSON file listing auth-exempt routes")
	fs.String("notifiers_file", "", "YAML/JSON file listing session event notifiers")
}
