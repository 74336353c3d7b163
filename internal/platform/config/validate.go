package config

import (
	"errors"
	"fmt"

	"github.com/jsamuelsen11/followup-tx/internal/domain/durability"
)

// Validate checks all configuration values and returns aggregated errors.
func (c *Config) Validate() error {
	return errors.Join(
		c.Server.validate(),
		c.Log.validate(),
		c.Store.validate(),
		c.Transactions.validate(),
		c.Seed.validate(),
		c.Telemetry.validate(),
		c.validateDeadlines(),
	)
}

// validateDeadlines keeps the HTTP request deadline longer than the unit
// expiry, so a follow-up that runs out of time is rolled back and reported
// by the transaction runner before the request deadline cuts the response
// off with an unknown outcome.
func (c *Config) validateDeadlines() error {
	if c.Server.WriteTimeout <= 0 || c.Transactions.Timeout <= 0 {
		return nil
	}
	if c.Server.WriteTimeout <= c.Transactions.Timeout {
		return fmt.Errorf("server.write_timeout (%s) must be longer than transactions.timeout (%s)",
			c.Server.WriteTimeout, c.Transactions.Timeout)
	}
	return nil
}

// DurabilityLevel parses the configured durability name.
func (t *TransactionsConfig) DurabilityLevel() (durability.Level, error) {
	return durability.Parse(t.Durability)
}

func (s *ServerConfig) validate() error {
	var errs []error

	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", s.Port))
	}
	if s.ReadTimeout <= 0 {
		errs = append(errs, errors.New("server.read_timeout must be positive"))
	}
	if s.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server.write_timeout must be positive"))
	}

	return errors.Join(errs...)
}

func (l *LogConfig) validate() error {
	var errs []error

	switch l.Level {
	case "debug", "info", "warn", "error":
		// Valid levels.
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", l.Level))
	}

	switch l.Format {
	case "json", "text":
		// Valid formats.
	default:
		errs = append(errs, fmt.Errorf("log.format must be one of: json, text; got %q", l.Format))
	}

	return errors.Join(errs...)
}

func (s *StoreConfig) validate() error {
	var errs []error

	switch s.Driver {
	case DriverMemory:
		if s.Memory.Replicas < 0 {
			errs = append(errs, fmt.Errorf("store.memory.replicas must be >= 0, got %d", s.Memory.Replicas))
		}
	case DriverBolt:
		if s.Bolt.Path == "" {
			errs = append(errs, errors.New("store.bolt.path must not be empty when driver is bolt"))
		}
		if s.Bolt.OpenTimeout <= 0 {
			errs = append(errs, errors.New("store.bolt.open_timeout must be positive"))
		}
	case DriverPostgres:
		if s.Postgres.DSN == "" {
			errs = append(errs, errors.New("store.postgres.dsn must not be empty when driver is postgres"))
		}
		if s.Postgres.MaxConns < 1 {
			errs = append(errs, fmt.Errorf("store.postgres.max_conns must be >= 1, got %d", s.Postgres.MaxConns))
		}
		if s.Postgres.MinConns < 0 || s.Postgres.MinConns > s.Postgres.MaxConns {
			errs = append(errs, fmt.Errorf("store.postgres.min_conns must be between 0 and max_conns, got %d",
				s.Postgres.MinConns))
		}
	default:
		errs = append(errs, fmt.Errorf("store.driver must be one of: memory, bolt, postgres; got %q", s.Driver))
	}

	return errors.Join(errs...)
}

func (t *TransactionsConfig) validate() error {
	var errs []error

	if _, err := t.DurabilityLevel(); err != nil {
		errs = append(errs, fmt.Errorf("transactions.durability: %w", err))
	}
	if t.Timeout <= 0 {
		errs = append(errs, errors.New("transactions.timeout must be positive"))
	}
	if t.Retry.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("transactions.retry.max_attempts must be >= 1, got %d", t.Retry.MaxAttempts))
	}
	if t.Retry.Multiplier <= 0 {
		errs = append(errs, fmt.Errorf("transactions.retry.multiplier must be positive, got %f", t.Retry.Multiplier))
	}
	if t.CircuitBreaker.MaxFailures < 1 {
		errs = append(errs, fmt.Errorf("transactions.circuit_breaker.max_failures must be >= 1, got %d",
			t.CircuitBreaker.MaxFailures))
	}

	return errors.Join(errs...)
}

func (s *SeedConfig) validate() error {
	if s.EntityKey != "" && s.Name == "" {
		return errors.New("seed.name must not be empty when seed.entity_key is set")
	}
	return nil
}

func (t *TelemetryConfig) validate() error {
	if !t.Enabled {
		return nil
	}

	var errs []error

	switch t.Exporter {
	case "stdout", "otlp":
		// Valid exporters.
	default:
		errs = append(errs, fmt.Errorf("telemetry.exporter must be one of: stdout, otlp; got %q", t.Exporter))
	}

	if t.Exporter == "otlp" && t.Endpoint == "" {
		errs = append(errs, errors.New("telemetry.endpoint must not be empty when exporter is otlp"))
	}

	return errors.Join(errs...)
}
