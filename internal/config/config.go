// Package config loads the service configuration from the environment.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map them into the Config struct tree with koanf.
//   - Validate required values so the process fails fast on bad config.
//   - Inject defaults for optional blocks (observability, tweets, pool timeouts).
package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Loads `.env` into the process environment before anything reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read with the TWEETS_ prefix, lower-cased, and nested on ".":

	  TWEETS_SERVER.PORT            -> server.port     -> Config.Server.Port
	  TWEETS_DATABASE.QUERY_TIMEOUT -> database.query_timeout
*/

// EnvPrefix is the prefix every configuration variable carries.
const EnvPrefix = "TWEETS_"

// ListLimit is the hard cap on the number of tweets a listing returns.
const ListLimit = 50

// Config is the root configuration object.
//
// Observability is a pointer because it is optional; defaults are injected
// when it is absent.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Tweets        TweetsConfig         `koanf:"tweets"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds the runtime environment name ("local", "development", "production").
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups the HTTP server settings. Timeouts are in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
	RateLimit          float64  `koanf:"rate_limit" validate:"gte=0"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
//
// MaxOpenConns bounds the pool. AcquireTimeout bounds how long a store call
// waits for a free connection before failing with PoolExhausted, and
// QueryTimeout bounds every individual store call.
type DatabaseConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"required"`
	User            string        `koanf:"user" validate:"required"`
	Password        string        `koanf:"password" validate:"required"`
	Name            string        `koanf:"name" validate:"required"`
	SSLMode         string        `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"required,min=1"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int           `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int           `koanf:"conn_max_idle_time" validate:"required"`
	AcquireTimeout  time.Duration `koanf:"acquire_timeout" validate:"gte=0"`
	QueryTimeout    time.Duration `koanf:"query_timeout" validate:"gte=0"`
}

// DSN builds the postgres URL for this configuration. The password is
// URL-escaped so characters like ':' or '@' do not break the URL.
func (d DatabaseConfig) DSN() string {
	hostPort := net.JoinHostPort(d.Host, strconv.Itoa(d.Port))

	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		d.User,
		url.QueryEscape(d.Password),
		hostPort,
		d.Name,
		d.SSLMode,
	)
}

// RedisConfig holds the Redis address ("host:port") used by the job queue.
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// TweetsConfig tunes the aggregation service.
//
// EnrichConcurrency bounds how many per-tweet like lookups run at once when
// the like store has no batched lookup.
type TweetsConfig struct {
	ListLimit         int `koanf:"list_limit" validate:"gte=0,lte=50"`
	EnrichConcurrency int `koanf:"enrich_concurrency" validate:"gte=0"`
}

const (
	DefaultAcquireTimeout    = 2 * time.Second
	DefaultQueryTimeout      = 5 * time.Second
	DefaultEnrichConcurrency = 8
	DefaultRateLimit         = 20
)

// LoadConfig loads, validates and defaults the configuration from the
// environment.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load initial env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	mainConfig.applyDefaults()

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

// applyDefaults fills optional values left at their zero value.
func (c *Config) applyDefaults() {
	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}

	// The service name is fixed; the environment follows Primary.Env.
	c.Observability.ServiceName = "tweets"
	c.Observability.Environment = c.Primary.Env

	if c.Database.AcquireTimeout == 0 {
		c.Database.AcquireTimeout = DefaultAcquireTimeout
	}
	if c.Database.QueryTimeout == 0 {
		c.Database.QueryTimeout = DefaultQueryTimeout
	}
	if c.Tweets.ListLimit == 0 {
		c.Tweets.ListLimit = ListLimit
	}
	if c.Tweets.EnrichConcurrency == 0 {
		c.Tweets.EnrichConcurrency = DefaultEnrichConcurrency
	}
	if c.Server.RateLimit == 0 {
		c.Server.RateLimit = DefaultRateLimit
	}
}
