// Package config provides configuration loading and validation for the service.
// Configuration is loaded from YAML files with environment variable overrides
// using a layered system: defaults -> base.yaml -> {profile}.yaml -> env vars.
package config

import "time"

// Config holds all configuration for the service and the CLI harness.
type Config struct {
	Server       ServerConfig       `koanf:"server"`
	Log          LogConfig          `koanf:"log"`
	Store        StoreConfig        `koanf:"store"`
	Transactions TransactionsConfig `koanf:"transactions"`
	Seed         SeedConfig         `koanf:"seed"`
	Telemetry    TelemetryConfig    `koanf:"telemetry"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Store driver names.
const (
	DriverMemory   = "memory"
	DriverBolt     = "bolt"
	DriverPostgres = "postgres"
)

// StoreConfig selects and configures the document store. Only the section
// matching Driver is read.
type StoreConfig struct {
	Driver   string         `koanf:"driver"`
	Memory   MemoryConfig   `koanf:"memory"`
	Bolt     BoltConfig     `koanf:"bolt"`
	Postgres PostgresConfig `koanf:"postgres"`
}

// MemoryConfig holds settings for the in-memory store.
type MemoryConfig struct {
	// Replicas is the simulated replica count reported as the store topology.
	Replicas int `koanf:"replicas"`
}

// BoltConfig holds settings for the embedded bbolt store.
type BoltConfig struct {
	Path        string        `koanf:"path"`
	OpenTimeout time.Duration `koanf:"open_timeout"`
}

// PostgresConfig holds PostgreSQL connection pool settings.
type PostgresConfig struct {
	DSN             string        `koanf:"dsn"`
	MaxConns        int32         `koanf:"max_conns"`
	MinConns        int32         `koanf:"min_conns"`
	MaxConnLifetime time.Duration `koanf:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `koanf:"max_conn_idle_time"`
	Migrate         bool          `koanf:"migrate"`
}

// TransactionsConfig holds settings for the transaction runner.
type TransactionsConfig struct {
	// Durability is one of: none, majority, majority_and_persist_to_active,
	// persist_to_majority.
	Durability string `koanf:"durability"`

	// Timeout bounds a whole Run, retries included.
	Timeout        time.Duration        `koanf:"timeout"`
	Retry          RetryConfig          `koanf:"retry"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
}

// RetryConfig holds retry policy settings with exponential backoff.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"`
	InitialInterval time.Duration `koanf:"initial_interval"`
	MaxInterval     time.Duration `koanf:"max_interval"`
	Multiplier      float64       `koanf:"multiplier"`
}

// CircuitBreakerConfig holds circuit breaker settings.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"`
	Timeout       time.Duration `koanf:"timeout"`
	HalfOpenLimit int           `koanf:"half_open_limit"`
}

// SeedConfig names the entity bootstrapped when the service starts.
// An empty EntityKey disables startup bootstrap.
type SeedConfig struct {
	EntityKey string `koanf:"entity_key"`
	Name      string `koanf:"name"`
	Location  string `koanf:"location"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Exporter    string `koanf:"exporter"`
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
}
