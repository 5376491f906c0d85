package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every runtime setting of the API. Values come from
// environment variables (INVENTORY_*) with an optional config.yaml
// overriding the defaults.
type Config struct {
	Environment string `mapstructure:"environment"`
	ServerAddr  string `mapstructure:"server_addr"`

	DatabaseURL   string `mapstructure:"database_url"`
	MigrationsDir string `mapstructure:"migrations_dir"`

	RedisAddr     string        `mapstructure:"redis_addr"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
	CacheDisabled bool          `mapstructure:"cache_disabled"`

	JWTSecret      string        `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`

	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`

	AlertFrom        string `mapstructure:"alert_from"`
	AlertTo          string `mapstructure:"alert_to"`
	SMTPServer       string `mapstructure:"smtp_server"`
	SMTPPort         string `mapstructure:"smtp_port"`
	SMTPUser         string `mapstructure:"smtp_user"`
	SMTPPassword     string `mapstructure:"smtp_password"`
	SMTPAuthDisabled bool   `mapstructure:"smtp_auth_disabled"`
}

func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("environment", "development")
	v.SetDefault("server_addr", ":8080")
	v.SetDefault("migrations_dir", "migrations")
	v.SetDefault("redis_addr", "")
	v.SetDefault("cache_ttl", time.Minute)
	v.SetDefault("cache_disabled", false)
	v.SetDefault("access_token_ttl", 8*24*time.Hour)
	v.SetDefault("rate_limit_rps", 1.0)
	v.SetDefault("rate_limit_burst", 3)
	v.SetDefault("smtp_port", "587")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("inventory")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about, so
	// keys without a default must be bound explicitly or they are
	// invisible to Unmarshal.
	for _, key := range []string{
		"database_url", "jwt_secret",
		"alert_from", "alert_to",
		"smtp_server", "smtp_user", "smtp_password", "smtp_auth_disabled",
	} {
		if err := v.BindEnv(key); err != nil {
			return Config{}, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
