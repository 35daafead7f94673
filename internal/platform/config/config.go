package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures process-level configuration. FromEnv keeps main lean; every
// knob has a development default except the postgres URL, whose absence
// selects the in-memory stores.
type Config struct {
	Addr string

	// PostgresURL selects the postgres-backed stores when set; otherwise the
	// process runs on in-memory stores (development, tests).
	PostgresURL string

	// RedisURL selects the redis-backed token revocation list when set.
	RedisURL string

	JWTSigningKey string
	TokenTTL      time.Duration

	// SeedAccounts provisions the default reception/cso/admin accounts at
	// startup when true. Idempotent; safe to leave on.
	SeedAccounts bool

	// SeedPassword is the initial password for seeded accounts. Required when
	// SeedAccounts is set; there is deliberately no hardcoded default.
	SeedPassword string
}

func FromEnv() Config {
	cfg := Config{
		Addr:          getenv("GATEHOUSE_ADDR", ":8080"),
		PostgresURL:   os.Getenv("GATEHOUSE_POSTGRES_URL"),
		RedisURL:      os.Getenv("GATEHOUSE_REDIS_URL"),
		JWTSigningKey: getenv("GATEHOUSE_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		TokenTTL:      getduration("GATEHOUSE_TOKEN_TTL", 8*time.Hour),
		SeedAccounts:  getbool("GATEHOUSE_SEED_ACCOUNTS", true),
		SeedPassword:  os.Getenv("GATEHOUSE_SEED_PASSWORD"),
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getbool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getduration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}
