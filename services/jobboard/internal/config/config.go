package config

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	pkgconfig "github.com/utafrali/JobPortal/pkg/config"
	"github.com/utafrali/JobPortal/pkg/database"
)

const (
	defaultAccessSecret  = "change-this-access-token-secret"
	defaultRefreshSecret = "change-this-refresh-token-secret"
	minSecretLength      = 32
)

// Config holds all configuration for the jobboard service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"JOBBOARD_HTTP_PORT" envDefault:"5000"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"jobboard"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"jobboard_secret"`
	PostgresDB   string `env:"POSTGRES_DB" envDefault:"jobboard"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	DBMaxConns           int32         `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns           int32         `env:"DB_MIN_CONNS" envDefault:"2"`
	DBMaxConnLifetime    time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime    time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	SlowQueryThresholdMs int           `env:"SLOW_QUERY_THRESHOLD_MS" envDefault:"200"`

	// Tokens. Access and refresh tokens are signed with separate secrets.
	AccessTokenSecret  string `env:"ACCESS_TOKEN_SECRET" envDefault:"change-this-access-token-secret"`
	RefreshTokenSecret string `env:"REFRESH_TOKEN_SECRET" envDefault:"change-this-refresh-token-secret"`
	BcryptCost         int    `env:"BCRYPT_COST" envDefault:"10"`

	// Redis backs the login limiter.
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	LoginRateLimitEnabled bool          `env:"LOGIN_RATE_LIMIT_ENABLED" envDefault:"true"`
	LoginMaxAttempts      int           `env:"LOGIN_MAX_ATTEMPTS" envDefault:"10"`
	LoginWindow           time.Duration `env:"LOGIN_WINDOW" envDefault:"15m"`

	// Kafka
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`

	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.1/32,::1/128" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load jobboard config: %w", err)
	}
	return cfg, nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Validate implements pkgconfig.Validator.
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	}
	if c.AccessTokenSecret == "" || c.RefreshTokenSecret == "" {
		return errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must not be empty")
	}
	if c.AccessTokenSecret == c.RefreshTokenSecret {
		return errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
	}
	if c.LoginRateLimitEnabled && (c.LoginMaxAttempts < 1 || c.LoginWindow <= 0) {
		return fmt.Errorf("login limiter needs LOGIN_MAX_ATTEMPTS >= 1 and a positive LOGIN_WINDOW, got %d and %s",
			c.LoginMaxAttempts, c.LoginWindow)
	}

	if c.IsDevelopment() {
		return nil
	}
	for name, secret := range map[string]string{
		"ACCESS_TOKEN_SECRET":  c.AccessTokenSecret,
		"REFRESH_TOKEN_SECRET": c.RefreshTokenSecret,
	} {
		if secret == defaultAccessSecret || secret == defaultRefreshSecret {
			return fmt.Errorf("%s must be explicitly set via environment variable in %q mode", name, c.Environment)
		}
		if len(secret) < minSecretLength {
			return fmt.Errorf("%s must be at least %d characters long, got %d", name, minSecretLength, len(secret))
		}
	}
	return nil
}

// Postgres returns the connection settings for database.NewPostgresPool.
func (c *Config) Postgres() database.PostgresConfig {
	return database.PostgresConfig{
		Host:            c.PostgresHost,
		Port:            c.PostgresPort,
		User:            c.PostgresUser,
		Password:        c.PostgresPass,
		DBName:          c.PostgresDB,
		SSLMode:         c.PostgresSSL,
		MaxConns:        c.DBMaxConns,
		MinConns:        c.DBMinConns,
		MaxConnLifetime: c.DBMaxConnLifetime,
		MaxConnIdleTime: c.DBMaxConnIdleTime,
	}
}

// Redis returns the connection settings for database.NewRedisClient.
func (c *Config) Redis() database.RedisConfig {
	rc := database.DefaultRedisConfig()
	rc.Host = c.RedisHost
	rc.Port = c.RedisPort
	rc.Password = c.RedisPassword
	rc.DB = c.RedisDB
	return rc
}

// SlowQueryThreshold returns the slow query log threshold; zero disables it.
func (c *Config) SlowQueryThreshold() time.Duration {
	return time.Duration(c.SlowQueryThresholdMs) * time.Millisecond
}
