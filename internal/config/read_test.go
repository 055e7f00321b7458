package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nDmitry/spacetraveling/internal/config"
	"github.com/nDmitry/spacetraveling/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead_Defaults(t *testing.T) {
	t.Setenv("PRISMIC_API_ENDPOINT", "https://spacetraveling.cdn.prismic.io/api/v2")

	cfg, err := config.Read("")
	require.NoError(t, err)

	assert.Equal(t, "posts", cfg.DocumentType)
	assert.Equal(t, 5, cfg.PageSize)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, entity.CacheTTLDefault, cfg.CacheTTL)
	assert.Equal(t, "UTC", cfg.Location.String())
	assert.Equal(t, "http://localhost:8080", cfg.SiteURL)
	assert.Empty(t, cfg.RedisHost)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestRead_FileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	contents := `{
		"prismicEndpoint": "https://from-file.cdn.prismic.io/api/v2",
		"pageSize": 10,
		"siteTitle": "From file",
		"redisHost": "redis"
	}`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	t.Setenv("PRISMIC_PAGE_SIZE", "3")
	t.Setenv("CACHE_TTL_MINUTES", "0")
	t.Setenv("DISPLAY_TIMEZONE", "America/Sao_Paulo")

	cfg, err := config.Read(path)
	require.NoError(t, err)

	assert.Equal(t, "https://from-file.cdn.prismic.io/api/v2", cfg.PrismicEndpoint)
	assert.Equal(t, 3, cfg.PageSize)
	assert.Equal(t, "From file", cfg.SiteTitle)
	assert.Equal(t, 0, cfg.CacheTTL)
	assert.Equal(t, "redis:6379", cfg.RedisAddr())
	assert.Equal(t, "America/Sao_Paulo", cfg.Location.String())
}

func TestRead_FileDisablesCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	contents := `{
		"prismicEndpoint": "https://from-file.cdn.prismic.io/api/v2",
		"cacheTtlMinutes": 0
	}`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	t.Setenv("CACHE_TTL_MINUTES", "")

	cfg, err := config.Read(path)
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.CacheTTL)
}

func TestRead_FileWithoutTTLUsesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	contents := `{"prismicEndpoint": "https://from-file.cdn.prismic.io/api/v2"}`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := config.Read(path)
	require.NoError(t, err)

	assert.Equal(t, entity.CacheTTLDefault, cfg.CacheTTL)
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		expectedErr string
	}{
		{
			name:        "Missing endpoint",
			env:         map[string]string{},
			expectedErr: "PRISMIC_API_ENDPOINT is required",
		},
		{
			name:        "Relative endpoint",
			env:         map[string]string{"PRISMIC_API_ENDPOINT": "/api/v2"},
			expectedErr: "PRISMIC_API_ENDPOINT must be an absolute URL",
		},
		{
			name: "Invalid page size",
			env: map[string]string{
				"PRISMIC_API_ENDPOINT": "https://x.cdn.prismic.io/api/v2",
				"PRISMIC_PAGE_SIZE":    "five",
			},
			expectedErr: "PRISMIC_PAGE_SIZE must be a valid integer",
		},
		{
			name: "Negative cache TTL",
			env: map[string]string{
				"PRISMIC_API_ENDPOINT": "https://x.cdn.prismic.io/api/v2",
				"CACHE_TTL_MINUTES":    "-1",
			},
			expectedErr: "CACHE_TTL_MINUTES must be non-negative",
		},
		{
			name: "Negative load-more burst",
			env: map[string]string{
				"PRISMIC_API_ENDPOINT": "https://x.cdn.prismic.io/api/v2",
				"LOAD_MORE_BURST":      "-1",
			},
			expectedErr: "LOAD_MORE_BURST must be at least 1",
		},
		{
			name: "Negative load-more rate",
			env: map[string]string{
				"PRISMIC_API_ENDPOINT": "https://x.cdn.prismic.io/api/v2",
				"LOAD_MORE_RATE":       "-0.5",
			},
			expectedErr: "LOAD_MORE_RATE must be non-negative",
		},
		{
			name: "Negative request timeout",
			env: map[string]string{
				"PRISMIC_API_ENDPOINT":    "https://x.cdn.prismic.io/api/v2",
				"PRISMIC_TIMEOUT_SECONDS": "-5",
			},
			expectedErr: "PRISMIC_TIMEOUT_SECONDS must be at least 1",
		},
		{
			name: "Negative content rate limit",
			env: map[string]string{
				"PRISMIC_API_ENDPOINT": "https://x.cdn.prismic.io/api/v2",
				"PRISMIC_RATE_LIMIT":   "-1",
			},
			expectedErr: "PRISMIC_RATE_LIMIT must be non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PRISMIC_API_ENDPOINT", "")

			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := config.Read("")
			assert.EqualError(t, err, tt.expectedErr)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	assert.NoError(t, config.LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SITE_TITLE=from dotenv\n"), 0o600))

	// Registers cleanup for the variable godotenv is about to set.
	t.Setenv("SITE_TITLE", "")
	require.NoError(t, os.Unsetenv("SITE_TITLE"))

	require.NoError(t, config.LoadEnvFile(path))
	assert.Equal(t, "from dotenv", os.Getenv("SITE_TITLE"))
}
