package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type RedisConfig struct {
	URL            string        `mapstructure:"url"`
	RosterKey      string        `mapstructure:"roster_key"`
	TimelineKey    string        `mapstructure:"timeline_key"`
	TimelineMaxLen int64         `mapstructure:"timeline_max_len"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryBackoff   time.Duration `mapstructure:"retry_backoff"`
	PoolSize       int           `mapstructure:"pool_size"`
	MinIdleConns   int           `mapstructure:"min_idle_conns"`
}

type SeedConfig struct {
	PatientsSource   string `mapstructure:"patients_source"`
	TreatmentsSource string `mapstructure:"treatments_source"`
}

type AgentConfig struct {
	EligibilityDelay time.Duration `mapstructure:"eligibility_delay"`
	PreAuthDelay     time.Duration `mapstructure:"preauth_delay"`
}

type ProviderConfig struct {
	NPI           string `mapstructure:"npi"`
	FacilityName  string `mapstructure:"facility_name"`
	PhysicianName string `mapstructure:"physician_name"`
}

type PaginationConfig struct {
	PageSize int `mapstructure:"page_size"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Seed       SeedConfig       `mapstructure:"seed"`
	Agent      AgentConfig      `mapstructure:"agent"`
	Provider   ProviderConfig   `mapstructure:"provider"`
	Pagination PaginationConfig `mapstructure:"pagination"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
}

// envOverrides are environment settings that win over the config file,
// for container deployments.
type envOverrides struct {
	Port     int    `envconfig:"PORT"`
	RedisURL string `envconfig:"REDIS_URL"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// Defaults cover local development without a config file.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var env envOverrides
	if err := envconfig.Process("portal", &env); err != nil {
		return nil, fmt.Errorf("failed to read environment overrides: %w", err)
	}
	if env.Port != 0 {
		config.Server.Port = env.Port
	}
	if env.RedisURL != "" {
		config.Redis.URL = env.RedisURL
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "30s")

	viper.SetDefault("redis.url", "redis://localhost:6379/0")
	viper.SetDefault("redis.roster_key", "hospitalPortalPatients")
	viper.SetDefault("redis.timeline_key", "hospitalPortalTimeline")
	viper.SetDefault("redis.timeline_max_len", 100)
	viper.SetDefault("redis.max_retries", 3)
	viper.SetDefault("redis.retry_backoff", "100ms")
	viper.SetDefault("redis.pool_size", 10)
	viper.SetDefault("redis.min_idle_conns", 2)

	viper.SetDefault("seed.patients_source", "seed/patients.json")
	viper.SetDefault("seed.treatments_source", "seed/treatments.json")

	viper.SetDefault("agent.eligibility_delay", "1500ms")
	viper.SetDefault("agent.preauth_delay", "2s")

	viper.SetDefault("provider.npi", "1234567890")
	viper.SetDefault("provider.facility_name", "Sunrise Hospital")
	viper.SetDefault("provider.physician_name", "Dr. Smith")

	viper.SetDefault("pagination.page_size", 5)

	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests_per_second", 50.0)
	viper.SetDefault("rate_limit.burst", 100)
}
