package config

const (
	defaultServerPort = 8080

	defaultRetryMaxAttempts = 5
	defaultRetryMultiplier  = 2.0

	defaultCircuitBreakerMaxFailures = 5
	defaultCircuitBreakerHalfOpen    = 1

	defaultPostgresMaxConns = 10
	defaultPostgresMinConns = 1
)

// defaults returns the default configuration values.
// These are loaded first and can be overridden by base.yaml, profile YAML, and env vars.
func defaults() map[string]any {
	return map[string]any{
		"server.host":          "0.0.0.0",
		"server.port":          defaultServerPort,
		"server.read_timeout":  "5s",
		"server.write_timeout": "20s",
		"server.idle_timeout":  "120s",

		"log.level":  "info",
		"log.format": "json",

		"store.driver":                      DriverMemory,
		"store.memory.replicas":             0,
		"store.bolt.path":                   "followups.db",
		"store.bolt.open_timeout":           "1s",
		"store.postgres.dsn":                "",
		"store.postgres.max_conns":          defaultPostgresMaxConns,
		"store.postgres.min_conns":          defaultPostgresMinConns,
		"store.postgres.max_conn_lifetime":  "1h",
		"store.postgres.max_conn_idle_time": "30m",
		"store.postgres.migrate":            true,

		"transactions.durability":                      "none",
		"transactions.timeout":                         "15s",
		"transactions.retry.max_attempts":              defaultRetryMaxAttempts,
		"transactions.retry.initial_interval":          "10ms",
		"transactions.retry.max_interval":              "500ms",
		"transactions.retry.multiplier":                defaultRetryMultiplier,
		"transactions.circuit_breaker.max_failures":    defaultCircuitBreakerMaxFailures,
		"transactions.circuit_breaker.timeout":         "30s",
		"transactions.circuit_breaker.half_open_limit": defaultCircuitBreakerHalfOpen,

		"seed.entity_key": "",
		"seed.name":       "",
		"seed.location":   "",

		"telemetry.enabled":      false,
		"telemetry.exporter":     "stdout",
		"telemetry.endpoint":     "",
		"telemetry.service_name": "followup-tx",
	}
}
