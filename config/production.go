// Package config provides configuration management and environment variable handling for the application
package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Review filter rules
const (
	FilterRulePendingOrStale = "pending_or_stale"
	FilterRuleThisMonth      = "this_month"
)

// Storage providers
const (
	StorageProviderDatabase = "database"
	StorageProviderGCS      = "gcs"
)

// ProductionConfig holds all configuration for production environment
type ProductionConfig struct {
	Database   DatabaseConfig   `json:"database"`
	Server     ServerConfig     `json:"server"`
	Security   SecurityConfig   `json:"security"`
	JWT        JWTConfig        `json:"jwt"`
	Email      EmailConfig      `json:"email"`
	Logging    LoggingConfig    `json:"logging"`
	Metrics    MetricsConfig    `json:"metrics"`
	Cache      CacheConfig      `json:"cache"`
	Storage    StorageConfig    `json:"storage"`
	Review     ReviewConfig     `json:"review"`
	Admin      AdminConfig      `json:"admin"`
	Deployment DeploymentConfig `json:"deployment"`
}

type DatabaseConfig struct {
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	Name            string        `json:"name"`
	User            string        `json:"user"`
	Password        string        `json:"password"`
	SSLMode         string        `json:"ssl_mode"`
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `json:"conn_max_idle_time"`
}

type ServerConfig struct {
	Host              string        `json:"host"`
	Port              int           `json:"port"`
	ReadTimeout       time.Duration `json:"read_timeout"`
	WriteTimeout      time.Duration `json:"write_timeout"`
	IdleTimeout       time.Duration `json:"idle_timeout"`
	ShutdownTimeout   time.Duration `json:"shutdown_timeout"`
	BodyLimit         int           `json:"body_limit"`
	EnableCompression bool          `json:"enable_compression"`
}

type SecurityConfig struct {
	// CORS
	AllowedOrigins   []string `json:"allowed_origins"`
	AllowedMethods   []string `json:"allowed_methods"`
	AllowedHeaders   []string `json:"allowed_headers"`
	AllowCredentials bool     `json:"allow_credentials"`

	// Rate Limiting
	GlobalRateLimit int           `json:"global_rate_limit"` // requests per window
	SubmitRateLimit int           `json:"submit_rate_limit"` // submissions per window
	RateLimitWindow time.Duration `json:"rate_limit_window"`

	// Content Security
	CSPPolicy      string `json:"csp_policy"`
	XFrameOptions  string `json:"x_frame_options"`
	ReferrerPolicy string `json:"referrer_policy"`
}

// JWTConfig configures signing of review page tokens
type JWTConfig struct {
	SecretKey    string        `json:"secret_key"`
	PageTokenTTL time.Duration `json:"page_token_ttl"`
	Issuer       string        `json:"issuer"`
	Audience     string        `json:"audience"`
}

type EmailConfig struct {
	Provider      string        `json:"provider"` // smtp, mock
	Host          string        `json:"host"`
	Port          int           `json:"port"`
	Username      string        `json:"username"`
	Password      string        `json:"password"`
	FromEmail     string        `json:"from_email"`
	FromName      string        `json:"from_name"`
	UseTLS        bool          `json:"use_tls"`
	RetryAttempts int           `json:"retry_attempts"`
	Timeout       time.Duration `json:"timeout"`
}

type LoggingConfig struct {
	Level      string `json:"level"`  // debug, info, warn, error
	Output     string `json:"output"` // stdout, file, both
	FilePath   string `json:"file_path"`
	MaxSize    int    `json:"max_size"` // MB
	MaxBackups int    `json:"max_backups"`
	MaxAge     int    `json:"max_age"` // days
	Compress   bool   `json:"compress"`

	EnableAccessLog bool `json:"enable_access_log"`
}

type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

type CacheConfig struct {
	Enabled         bool          `json:"enabled"`
	Provider        string        `json:"provider"` // redis, none
	RedisURL        string        `json:"redis_url"`
	RedisDB         int           `json:"redis_db"`
	RedisPrefix     string        `json:"redis_prefix"`
	DefaultTTL      time.Duration `json:"default_ttl"`
	CleanupInterval time.Duration `json:"cleanup_interval"`
}

// StorageConfig selects where export artifacts are kept
type StorageConfig struct {
	Provider           string `json:"provider"` // database, gcs
	Folder             string `json:"folder"`
	GCSBucket          string `json:"gcs_bucket"`
	GCSCredentialsJSON string `json:"-"`
}

// ReviewConfig tunes the open sales order review workflow
type ReviewConfig struct {
	PageSize           int           `json:"page_size"`
	FilterRule         string        `json:"filter_rule"` // pending_or_stale, this_month
	StaleAfterMonths   int           `json:"stale_after_months"`
	ValidateSelections bool          `json:"validate_selections"`
	LockEnabled        bool          `json:"lock_enabled"`
	LockTTL            time.Duration `json:"lock_ttl"`
	PublicBaseURL      string        `json:"public_base_url"`
}

// AdminConfig is the fallback recipient used when a rep has no reachable supervisor
type AdminConfig struct {
	EmployeeID uint   `json:"employee_id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
}

type DeploymentConfig struct {
	Environment string `json:"environment"`
	Version     string `json:"version"`
	CommitHash  string `json:"commit_hash"`
	BuildTime   string `json:"build_time"`
}

// LoadProductionConfig loads and validates configuration from environment variables
func LoadProductionConfig() (*ProductionConfig, error) {
	// Load environment variables from .env file
	if err := loadEnvFile(".env"); err != nil {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &ProductionConfig{
		Database: DatabaseConfig{
			Host:            getEnvString("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", 5432),
			Name:            getEnvString("DB_NAME", "open_so_review"),
			User:            getEnvString("DB_USER", "postgres"),
			Password:        getEnvString("DB_PASSWORD", ""),
			SSLMode:         getEnvString("DB_SSL_MODE", "require"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvDuration("DB_CONN_MAX_IDLE_TIME", 15*time.Minute),
		},
		Server: ServerConfig{
			Host:              getEnvString("SERVER_HOST", "0.0.0.0"),
			Port:              getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:       getEnvDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:      getEnvDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:       getEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout:   getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			BodyLimit:         getEnvInt("SERVER_BODY_LIMIT", 4*1024*1024), // 4MB
			EnableCompression: getEnvBool("SERVER_ENABLE_COMPRESSION", true),
		},
		Security: SecurityConfig{
			AllowedOrigins:   getEnvStringSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:8080"}),
			AllowedMethods:   getEnvStringSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "OPTIONS"}),
			AllowedHeaders:   getEnvStringSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept", "X-Request-ID"}),
			AllowCredentials: getEnvBool("CORS_ALLOW_CREDENTIALS", false),
			GlobalRateLimit:  getEnvInt("GLOBAL_RATE_LIMIT", 600),
			SubmitRateLimit:  getEnvInt("SUBMIT_RATE_LIMIT", 20),
			RateLimitWindow:  getEnvDuration("RATE_LIMIT_WINDOW", 1*time.Minute),
			CSPPolicy:        getEnvString("CSP_POLICY", "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'"),
			XFrameOptions:    getEnvString("X_FRAME_OPTIONS", "SAMEORIGIN"),
			ReferrerPolicy:   getEnvString("REFERRER_POLICY", "strict-origin-when-cross-origin"),
		},
		JWT: JWTConfig{
			SecretKey:    getEnvString("JWT_SECRET_KEY", ""),
			PageTokenTTL: getEnvDuration("JWT_PAGE_TOKEN_TTL", 2*time.Hour),
			Issuer:       getEnvString("JWT_ISSUER", "open-so-review"),
			Audience:     getEnvString("JWT_AUDIENCE", "open-so-review-form"),
		},
		Email: EmailConfig{
			Provider:      getEnvString("EMAIL_PROVIDER", "smtp"),
			Host:          getEnvString("EMAIL_HOST", "smtp.gmail.com"),
			Port:          getEnvInt("EMAIL_PORT", 587),
			Username:      getEnvString("EMAIL_USERNAME", ""),
			Password:      getEnvString("EMAIL_PASSWORD", ""),
			FromEmail:     getEnvString("EMAIL_FROM_EMAIL", "noreply@example.com"),
			FromName:      getEnvString("EMAIL_FROM_NAME", "Sales Operations"),
			UseTLS:        getEnvBool("EMAIL_USE_TLS", false),
			RetryAttempts: getEnvInt("EMAIL_RETRY_ATTEMPTS", 3),
			Timeout:       getEnvDuration("EMAIL_TIMEOUT", 30*time.Second),
		},
		Logging: LoggingConfig{
			Level:           getEnvString("LOG_LEVEL", "info"),
			Output:          getEnvString("LOG_OUTPUT", "stdout"),
			FilePath:        getEnvString("LOG_FILE_PATH", "/var/log/open-so-review/app.log"),
			MaxSize:         getEnvInt("LOG_MAX_SIZE", 100),
			MaxBackups:      getEnvInt("LOG_MAX_BACKUPS", 10),
			MaxAge:          getEnvInt("LOG_MAX_AGE", 30),
			Compress:        getEnvBool("LOG_COMPRESS", true),
			EnableAccessLog: getEnvBool("LOG_ENABLE_ACCESS", true),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
			Path:    getEnvString("METRICS_PATH", "/metrics"),
		},
		Cache: CacheConfig{
			Enabled:         getEnvBool("CACHE_ENABLED", true),
			Provider:        getEnvString("CACHE_PROVIDER", "redis"),
			RedisURL:        getEnvString("CACHE_REDIS_URL", "redis://localhost:6379"),
			RedisDB:         getEnvInt("CACHE_REDIS_DB", 0),
			RedisPrefix:     getEnvString("CACHE_REDIS_PREFIX", "open-so-review:"),
			DefaultTTL:      getEnvDuration("CACHE_DEFAULT_TTL", 1*time.Hour),
			CleanupInterval: getEnvDuration("CACHE_CLEANUP_INTERVAL", 1*time.Minute),
		},
		Storage: StorageConfig{
			Provider:           getEnvString("STORAGE_PROVIDER", StorageProviderDatabase),
			Folder:             getEnvString("STORAGE_FOLDER", "open-sales-orders"),
			GCSBucket:          getEnvString("GCS_BUCKET", ""),
			GCSCredentialsJSON: getEnvString("GCS_CREDENTIALS_JSON", ""),
		},
		Review: ReviewConfig{
			PageSize:           getEnvInt("REVIEW_PAGE_SIZE", 10),
			FilterRule:         getEnvString("REVIEW_FILTER_RULE", FilterRulePendingOrStale),
			StaleAfterMonths:   getEnvInt("REVIEW_STALE_AFTER_MONTHS", 1),
			ValidateSelections: getEnvBool("REVIEW_VALIDATE_SELECTIONS", true),
			LockEnabled:        getEnvBool("REVIEW_LOCK_ENABLED", false),
			LockTTL:            getEnvDuration("REVIEW_LOCK_TTL", 30*time.Second),
			PublicBaseURL:      getEnvString("REVIEW_PUBLIC_BASE_URL", ""),
		},
		Admin: AdminConfig{
			EmployeeID: uint(getEnvInt("ADMIN_EMPLOYEE_ID", 0)),
			Email:      getEnvString("ADMIN_EMAIL", ""),
			Name:       getEnvString("ADMIN_NAME", "NetSuite Administrator"),
		},
		Deployment: DeploymentConfig{
			Environment: getEnvString("APP_ENV", "production"),
			Version:     getEnvString("VERSION", "1.0.0"),
			CommitHash:  getEnvString("COMMIT_HASH", "unknown"),
			BuildTime:   getEnvString("BUILD_TIME", "unknown"),
		},
	}

	// Validate the loaded configuration
	if err := ValidateProductionConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadEnvFile loads environment variables from the given file if it exists.
// Variables already present in the environment win.
func loadEnvFile(envFile string) error {
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		return nil
	}

	file, err := os.Open(envFile)
	if err != nil {
		return fmt.Errorf("failed to open .env file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		// Remove quotes if present
		if len(value) >= 2 && ((strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`)) ||
			(strings.HasPrefix(value, `'`) && strings.HasSuffix(value, `'`))) {
			value = value[1 : len(value)-1]
		}

		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading .env file: %w", err)
	}

	return nil
}

// Helper functions for environment variable parsing
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var result []string
		for _, item := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}

// ValidateProductionConfig validates the production configuration
func ValidateProductionConfig(cfg *ProductionConfig) error {
	var errors []string

	// Validate database configuration
	if cfg.Database.Host == "" {
		errors = append(errors, "DB_HOST is required")
	}
	if cfg.Database.Port <= 0 || cfg.Database.Port > 65535 {
		errors = append(errors, "DB_PORT must be between 1 and 65535")
	}
	if cfg.Database.Name == "" {
		errors = append(errors, "DB_NAME is required")
	}
	if cfg.Database.User == "" {
		errors = append(errors, "DB_USER is required")
	}
	if cfg.Database.Password == "" {
		errors = append(errors, "DB_PASSWORD is required")
	}

	// Validate page token signing
	if len(cfg.JWT.SecretKey) < 32 {
		errors = append(errors, "JWT_SECRET_KEY must be at least 32 characters long")
	}
	if cfg.JWT.PageTokenTTL <= 0 {
		errors = append(errors, "JWT_PAGE_TOKEN_TTL must be positive")
	}

	// Validate server configuration
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		errors = append(errors, "SERVER_PORT must be between 1 and 65535")
	}
	if cfg.Server.ReadTimeout <= 0 {
		errors = append(errors, "SERVER_READ_TIMEOUT must be positive")
	}
	if cfg.Server.WriteTimeout <= 0 {
		errors = append(errors, "SERVER_WRITE_TIMEOUT must be positive")
	}

	// Validate email configuration
	switch cfg.Email.Provider {
	case "mock":
	case "smtp":
		if cfg.Email.Host == "" {
			errors = append(errors, "EMAIL_HOST is required for smtp provider")
		}
		if cfg.Email.FromEmail == "" {
			errors = append(errors, "EMAIL_FROM_EMAIL is required for smtp provider")
		}
	default:
		errors = append(errors, "EMAIL_PROVIDER must be one of: [smtp mock]")
	}

	// Validate logging configuration
	if cfg.Logging.Level != "" && !oneOf(cfg.Logging.Level, "debug", "info", "warn", "error") {
		errors = append(errors, "LOG_LEVEL must be one of: [debug info warn error]")
	}
	if !oneOf(cfg.Logging.Output, "stdout", "file", "both") {
		errors = append(errors, "LOG_OUTPUT must be one of: [stdout file both]")
	}
	if cfg.Logging.Output != "stdout" && cfg.Logging.FilePath == "" {
		errors = append(errors, "LOG_FILE_PATH is required when logging to a file")
	}

	// Validate cache configuration if enabled
	if cfg.Cache.Enabled && cfg.Cache.Provider == "redis" && cfg.Cache.RedisURL == "" {
		errors = append(errors, "CACHE_REDIS_URL is required when cache is enabled with redis provider")
	}

	// Validate storage configuration
	switch cfg.Storage.Provider {
	case StorageProviderDatabase:
	case StorageProviderGCS:
		if cfg.Storage.GCSBucket == "" {
			errors = append(errors, "GCS_BUCKET is required for gcs storage provider")
		}
	default:
		errors = append(errors, "STORAGE_PROVIDER must be one of: [database gcs]")
	}

	// Validate review workflow configuration
	if cfg.Review.PageSize <= 0 || cfg.Review.PageSize > 1000 {
		errors = append(errors, "REVIEW_PAGE_SIZE must be between 1 and 1000")
	}
	if !oneOf(cfg.Review.FilterRule, FilterRulePendingOrStale, FilterRuleThisMonth) {
		errors = append(errors, fmt.Sprintf("REVIEW_FILTER_RULE must be one of: [%s %s]", FilterRulePendingOrStale, FilterRuleThisMonth))
	}
	if cfg.Review.StaleAfterMonths < 0 {
		errors = append(errors, "REVIEW_STALE_AFTER_MONTHS must not be negative")
	}
	if cfg.Review.LockEnabled {
		if !cfg.Cache.Enabled || cfg.Cache.Provider != "redis" {
			errors = append(errors, "REVIEW_LOCK_ENABLED requires the redis cache")
		}
		if cfg.Review.LockTTL <= 0 {
			errors = append(errors, "REVIEW_LOCK_TTL must be positive")
		}
	}

	// Validate fallback recipient
	if cfg.Admin.Email == "" || !strings.Contains(cfg.Admin.Email, "@") {
		errors = append(errors, "ADMIN_EMAIL must be a valid email address")
	}

	// Return validation errors if any
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}

	return nil
}

func oneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}
