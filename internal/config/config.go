package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendStatic   = "static"
)

type Config struct {
	ServiceName string
	LogLevel    string
	HTTPPort    int

	Timezone     string
	DurationMode string

	ReservationResetDelay time.Duration
	InlineResetDelay      time.Duration
	TermsNoticeDelay      time.Duration

	SessionStore  string
	SessionTTL    time.Duration
	SweepSchedule string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	VehicleStore string
	CatalogFile  string
	DatabaseURL  string

	AdminStore    string
	AdminUsername string
	AdminPassword string
	JWTSecret     string
	JWTTTL        time.Duration

	CORSAllowedOrigins []string
}

func Load() Config {
	_ = godotenv.Load(".env")

	cfg := Config{}

	cfg.ServiceName = cast.ToString(getOrReturnDefault("SERVICE_NAME", "carrental"))
	cfg.LogLevel = cast.ToString(getOrReturnDefault("LOG_LEVEL", "info"))
	cfg.HTTPPort = cast.ToInt(getOrReturnDefault("HTTP_PORT", 8080))

	cfg.Timezone = cast.ToString(getOrReturnDefault("TIMEZONE", "Europe/Paris"))
	cfg.DurationMode = cast.ToString(getOrReturnDefault("DURATION_MODE", "absolute"))

	cfg.ReservationResetDelay = cast.ToDuration(getOrReturnDefault("RESERVATION_RESET_DELAY", "9s"))
	cfg.InlineResetDelay = cast.ToDuration(getOrReturnDefault("INLINE_RESET_DELAY", "3s"))
	cfg.TermsNoticeDelay = cast.ToDuration(getOrReturnDefault("TERMS_NOTICE_DELAY", "3s"))

	cfg.SessionStore = strings.ToLower(cast.ToString(getOrReturnDefault("SESSION_STORE", BackendMemory)))
	cfg.SessionTTL = cast.ToDuration(getOrReturnDefault("SESSION_TTL", "30m"))
	cfg.SweepSchedule = cast.ToString(getOrReturnDefault("SWEEP_SCHEDULE", "@every 1m"))

	cfg.RedisAddr = cast.ToString(getOrReturnDefault("REDIS_ADDR", "localhost:6379"))
	cfg.RedisPassword = cast.ToString(getOrReturnDefault("REDIS_PASSWORD", ""))
	cfg.RedisDB = cast.ToInt(getOrReturnDefault("REDIS_DB", 0))

	cfg.VehicleStore = strings.ToLower(cast.ToString(getOrReturnDefault("VEHICLE_STORE", BackendMemory)))
	cfg.CatalogFile = cast.ToString(getOrReturnDefault("CATALOG_FILE", ""))
	cfg.DatabaseURL = cast.ToString(getOrReturnDefault("DATABASE_URL", ""))

	cfg.AdminStore = strings.ToLower(cast.ToString(getOrReturnDefault("ADMIN_STORE", BackendStatic)))
	cfg.AdminUsername = cast.ToString(getOrReturnDefault("ADMIN_USERNAME", "admin"))
	cfg.AdminPassword = cast.ToString(getOrReturnDefault("ADMIN_PASSWORD", "admin123"))
	cfg.JWTSecret = cast.ToString(getOrReturnDefault("JWT_SECRET", ""))
	cfg.JWTTTL = cast.ToDuration(getOrReturnDefault("JWT_TTL", "1h"))

	cfg.CORSAllowedOrigins = splitList(cast.ToString(getOrReturnDefault("CORS_ALLOWED_ORIGINS", "*")))

	return cfg
}

// Validate checks the combinations that cannot work at runtime.
func (c Config) Validate() error {
	if c.HTTPPort <= 0 {
		return fmt.Errorf("HTTP_PORT must be positive, got %d", c.HTTPPort)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE %q: %w", c.Timezone, err)
	}
	switch c.SessionStore {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("SESSION_STORE must be %q or %q, got %q", BackendMemory, BackendRedis, c.SessionStore)
	}
	switch c.VehicleStore {
	case BackendMemory, BackendPostgres:
	default:
		return fmt.Errorf("VEHICLE_STORE must be %q or %q, got %q", BackendMemory, BackendPostgres, c.VehicleStore)
	}
	switch c.AdminStore {
	case BackendStatic, BackendPostgres:
	default:
		return fmt.Errorf("ADMIN_STORE must be %q or %q, got %q", BackendStatic, BackendPostgres, c.AdminStore)
	}
	if (c.VehicleStore == BackendPostgres || c.AdminStore == BackendPostgres) && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL not set")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET not set")
	}
	if c.SessionTTL <= 0 || c.JWTTTL <= 0 {
		return fmt.Errorf("SESSION_TTL and JWT_TTL must be positive")
	}
	if c.ReservationResetDelay <= 0 || c.InlineResetDelay <= 0 || c.TermsNoticeDelay <= 0 {
		return fmt.Errorf("RESERVATION_RESET_DELAY, INLINE_RESET_DELAY and TERMS_NOTICE_DELAY must be positive durations")
	}
	return nil
}

func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func getOrReturnDefault(key string, defaultValue interface{}) interface{} {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
