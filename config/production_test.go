package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *ProductionConfig {
	return &ProductionConfig{
		Database: DatabaseConfig{Host: "localhost", Port: 5432, Name: "so", User: "postgres", Password: "secret"},
		Server:   ServerConfig{Port: 8080, ReadTimeout: time.Second, WriteTimeout: time.Second},
		JWT:      JWTConfig{SecretKey: "0123456789abcdef0123456789abcdef", PageTokenTTL: time.Hour},
		Email:    EmailConfig{Provider: "mock"},
		Logging:  LoggingConfig{Level: "info", Output: "stdout"},
		Cache:    CacheConfig{Enabled: false},
		Storage:  StorageConfig{Provider: StorageProviderDatabase},
		Review:   ReviewConfig{PageSize: 10, FilterRule: FilterRulePendingOrStale, StaleAfterMonths: 1},
		Admin:    AdminConfig{EmployeeID: 5, Email: "admin@example.com"},
	}
}

func TestValidateProductionConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ProductionConfig)
		wantErr string
	}{
		{name: "valid configuration", mutate: func(*ProductionConfig) {}},
		{
			name:    "short jwt secret",
			mutate:  func(c *ProductionConfig) { c.JWT.SecretKey = "short" },
			wantErr: "JWT_SECRET_KEY must be at least 32 characters long",
		},
		{
			name:    "unknown filter rule",
			mutate:  func(c *ProductionConfig) { c.Review.FilterRule = "everything" },
			wantErr: "REVIEW_FILTER_RULE must be one of",
		},
		{
			name:    "page size out of range",
			mutate:  func(c *ProductionConfig) { c.Review.PageSize = 0 },
			wantErr: "REVIEW_PAGE_SIZE must be between 1 and 1000",
		},
		{
			name:    "gcs without bucket",
			mutate:  func(c *ProductionConfig) { c.Storage.Provider = StorageProviderGCS },
			wantErr: "GCS_BUCKET is required",
		},
		{
			name:    "lock without redis",
			mutate:  func(c *ProductionConfig) { c.Review.LockEnabled = true; c.Review.LockTTL = time.Second },
			wantErr: "REVIEW_LOCK_ENABLED requires the redis cache",
		},
		{
			name:    "missing fallback recipient",
			mutate:  func(c *ProductionConfig) { c.Admin.Email = "" },
			wantErr: "ADMIN_EMAIL must be a valid email address",
		},
		{
			name:    "file logging without path",
			mutate:  func(c *ProductionConfig) { c.Logging.Output = "file"; c.Logging.FilePath = "" },
			wantErr: "LOG_FILE_PATH is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := ValidateProductionConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), "configuration validation failed")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateProductionConfigCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Host = ""
	cfg.Email.Provider = "pigeon"

	err := ValidateProductionConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_HOST is required; EMAIL_PROVIDER must be one of")
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\nOSR_TEST_PLAIN=plain\nOSR_TEST_QUOTED=\"quoted value\"\nOSR_TEST_PRESET=from-file\nnot a pair\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("OSR_TEST_PLAIN", "")
	t.Setenv("OSR_TEST_QUOTED", "")
	t.Setenv("OSR_TEST_PRESET", "from-env")

	require.NoError(t, loadEnvFile(path))

	assert.Equal(t, "plain", os.Getenv("OSR_TEST_PLAIN"))
	assert.Equal(t, "quoted value", os.Getenv("OSR_TEST_QUOTED"))
	assert.Equal(t, "from-env", os.Getenv("OSR_TEST_PRESET"))
}

func TestLoadEnvFileMissing(t *testing.T) {
	assert.NoError(t, loadEnvFile(filepath.Join(t.TempDir(), "absent.env")))
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("OSR_TEST_INT", "25")
	t.Setenv("OSR_TEST_BAD_INT", "x")
	t.Setenv("OSR_TEST_DURATION", "90s")
	t.Setenv("OSR_TEST_SLICE", "a, b,,c")

	assert.Equal(t, 25, getEnvInt("OSR_TEST_INT", 10))
	assert.Equal(t, 10, getEnvInt("OSR_TEST_BAD_INT", 10))
	assert.Equal(t, 90*time.Second, getEnvDuration("OSR_TEST_DURATION", time.Second))
	assert.Equal(t, []string{"a", "b", "c"}, getEnvStringSlice("OSR_TEST_SLICE", nil))
	assert.Equal(t, "fallback", getEnvString("OSR_TEST_UNSET_KEY", "fallback"))
}
