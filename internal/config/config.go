package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database  DatabaseConfig
	JWT       JWTConfig
	App       AppConfig
	CORS      CORSConfig
	Overtime  OvertimeConfig
	Employee  EmployeeConfig
	RateLimit RateLimitConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
	Timezone string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// OvertimeConfig drives the reconciliation engine and its nightly job.
type OvertimeConfig struct {
	Workers      int
	MaxRangeDays int
	CronEnabled  bool
	CronInterval time.Duration
	CronHour     int
	LookbackDays int
}

type EmployeeConfig struct {
	CacheTTL time.Duration
}

// RateLimitConfig is the per-client limit of the calculate endpoint.
type RateLimitConfig struct {
	CalculateRate  float64
	CalculateBurst int
	IdleTTL        time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded, using process environment", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hris_overtime"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Timezone: getEnv("APP_TIMEZONE", "UTC"),
	}

	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET_KEY", ""),
	}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	// Overtime engine configuration
	workers, err := strconv.Atoi(getEnv("OVERTIME_WORKERS", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid OVERTIME_WORKERS: %w", err)
	}
	maxRangeDays, err := strconv.Atoi(getEnv("OVERTIME_MAX_RANGE_DAYS", "93"))
	if err != nil {
		return nil, fmt.Errorf("invalid OVERTIME_MAX_RANGE_DAYS: %w", err)
	}
	cronEnabled, err := strconv.ParseBool(getEnv("OVERTIME_CRON_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid OVERTIME_CRON_ENABLED: %w", err)
	}
	cronInterval, err := time.ParseDuration(getEnv("OVERTIME_CRON_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid OVERTIME_CRON_INTERVAL: %w", err)
	}
	cronHour, err := strconv.Atoi(getEnv("OVERTIME_CRON_HOUR", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid OVERTIME_CRON_HOUR: %w", err)
	}
	lookbackDays, err := strconv.Atoi(getEnv("OVERTIME_LOOKBACK_DAYS", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid OVERTIME_LOOKBACK_DAYS: %w", err)
	}

	config.Overtime = OvertimeConfig{
		Workers:      workers,
		MaxRangeDays: maxRangeDays,
		CronEnabled:  cronEnabled,
		CronInterval: cronInterval,
		CronHour:     cronHour,
		LookbackDays: lookbackDays,
	}

	cacheTTL, err := time.ParseDuration(getEnv("EMPLOYEE_CACHE_TTL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid EMPLOYEE_CACHE_TTL: %w", err)
	}
	config.Employee = EmployeeConfig{CacheTTL: cacheTTL}

	calcRate, err := strconv.ParseFloat(getEnv("CALCULATE_RATE_LIMIT", "1"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid CALCULATE_RATE_LIMIT: %w", err)
	}
	calcBurst, err := strconv.Atoi(getEnv("CALCULATE_RATE_BURST", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid CALCULATE_RATE_BURST: %w", err)
	}
	limiterIdleTTL, err := time.ParseDuration(getEnv("CALCULATE_RATE_IDLE_TTL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid CALCULATE_RATE_IDLE_TTL: %w", err)
	}
	config.RateLimit = RateLimitConfig{
		CalculateRate:  calcRate,
		CalculateBurst: calcBurst,
		IdleTTL:        limiterIdleTTL,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return errors.New("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET_KEY is required")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.App.Timezone, err)
	}
	if c.Overtime.Workers <= 0 {
		return errors.New("OVERTIME_WORKERS must be greater than 0")
	}
	if c.Overtime.MaxRangeDays <= 0 {
		return errors.New("OVERTIME_MAX_RANGE_DAYS must be greater than 0")
	}
	if c.Overtime.CronHour < 0 || c.Overtime.CronHour > 23 {
		return errors.New("OVERTIME_CRON_HOUR must be between 0 and 23")
	}
	if c.Overtime.CronEnabled && c.Overtime.CronInterval <= 0 {
		return errors.New("OVERTIME_CRON_INTERVAL must be positive")
	}
	if c.Overtime.LookbackDays < 1 {
		return errors.New("OVERTIME_LOOKBACK_DAYS must be at least 1")
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return errors.New("DB_MIN_CONNS must not exceed DB_MAX_CONNS")
	}
	return nil
}

// Location returns the business location. Validate has already checked the name.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL to a slog level, info when unknown.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
