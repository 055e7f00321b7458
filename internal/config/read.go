package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/nDmitry/spacetraveling/internal/entity"
)

// LoadEnvFile loads variables from a dotenv file without overriding the ones
// already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}

		return fmt.Errorf("could not load env file %s: %w", path, err)
	}

	return nil
}

// Read builds the configuration from an optional JSON file, environment
// variables overriding the file, and defaults for whatever is left unset.
func Read(configPath string) (*entity.Config, error) {
	var config entity.Config
	var ttlSet bool

	if configPath != "" {
		contents, err := os.ReadFile(configPath)

		if err != nil {
			return nil, fmt.Errorf("could not read config file: %w", err)
		}

		if err = json.Unmarshal(contents, &config); err != nil {
			return nil, fmt.Errorf("could not parse config file: %w", err)
		}

		// A zero TTL in the file disables caching, it is not "unset"
		var explicit struct {
			CacheTTL *int `json:"cacheTtlMinutes"`
		}

		if err = json.Unmarshal(contents, &explicit); err != nil {
			return nil, fmt.Errorf("could not parse config file: %w", err)
		}

		ttlSet = explicit.CacheTTL != nil
	}

	ttlFromEnv, err := applyEnv(&config)

	if err != nil {
		return nil, err
	}

	applyDefaults(&config, ttlSet || ttlFromEnv)

	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// applyEnv overrides config fields with the environment. It reports whether
// CACHE_TTL_MINUTES was set, since 0 is a meaningful TTL.
// nolint: cyclop
func applyEnv(config *entity.Config) (bool, error) {
	setString(&config.PrismicEndpoint, "PRISMIC_API_ENDPOINT")
	setString(&config.PrismicAccessToken, "PRISMIC_ACCESS_TOKEN")
	setString(&config.DocumentType, "PRISMIC_DOCUMENT_TYPE")
	setString(&config.HTTPPort, "HTTP_SERVER_PORT")
	setString(&config.RedisHost, "REDIS_HOST")
	setString(&config.RedisPort, "REDIS_PORT")
	setString(&config.DisplayTimezone, "DISPLAY_TIMEZONE")
	setString(&config.SiteTitle, "SITE_TITLE")
	setString(&config.SiteURL, "SITE_URL")
	setString(&config.LogLevel, "LOG_LEVEL")

	if err := setInt(&config.PageSize, "PRISMIC_PAGE_SIZE"); err != nil {
		return false, err
	}

	if err := setInt(&config.PrismicTimeout, "PRISMIC_TIMEOUT_SECONDS"); err != nil {
		return false, err
	}

	if err := setInt(&config.LoadMoreBurst, "LOAD_MORE_BURST"); err != nil {
		return false, err
	}

	if err := setFloat(&config.PrismicRateLimit, "PRISMIC_RATE_LIMIT"); err != nil {
		return false, err
	}

	if err := setFloat(&config.LoadMoreRate, "LOAD_MORE_RATE"); err != nil {
		return false, err
	}

	if v, ok := os.LookupEnv("CACHE_TTL_MINUTES"); ok && v != "" {
		ttl, err := strconv.Atoi(v)

		if err != nil {
			return false, fmt.Errorf("CACHE_TTL_MINUTES must be a valid integer")
		}

		if ttl < 0 {
			return false, fmt.Errorf("CACHE_TTL_MINUTES must be non-negative")
		}

		config.CacheTTL = ttl

		return true, nil
	}

	return false, nil
}

// applyDefaults fills unset fields. ttlSet tells an explicit zero TTL apart
// from a missing one.
func applyDefaults(config *entity.Config, ttlSet bool) {
	if config.DocumentType == "" {
		config.DocumentType = "posts"
	}

	if config.PageSize == 0 {
		config.PageSize = 5
	}

	if config.PrismicRateLimit == 0 {
		config.PrismicRateLimit = 10
	}

	if config.PrismicTimeout == 0 {
		config.PrismicTimeout = 10
	}

	if config.HTTPPort == "" {
		config.HTTPPort = "8080"
	}

	if config.RedisPort == "" {
		config.RedisPort = "6379"
	}

	if config.CacheTTL == 0 && !ttlSet {
		config.CacheTTL = entity.CacheTTLDefault
	}

	if config.DisplayTimezone == "" {
		config.DisplayTimezone = "UTC"
	}

	if config.SiteTitle == "" {
		config.SiteTitle = "spacetraveling"
	}

	if config.SiteURL == "" {
		config.SiteURL = "http://localhost:" + config.HTTPPort
	}

	if config.LoadMoreRate == 0 {
		config.LoadMoreRate = 2
	}

	if config.LoadMoreBurst == 0 {
		config.LoadMoreBurst = 5
	}

	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
}

func validate(config *entity.Config) error {
	if config.PrismicEndpoint == "" {
		return fmt.Errorf("PRISMIC_API_ENDPOINT is required")
	}

	u, err := url.Parse(config.PrismicEndpoint)

	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("PRISMIC_API_ENDPOINT must be an absolute URL")
	}

	if config.PageSize < 1 || config.PageSize > 100 {
		return fmt.Errorf("page size must be between 1 and 100")
	}

	if config.CacheTTL < 0 {
		return fmt.Errorf("cache TTL must be non-negative")
	}

	if config.PrismicTimeout < 1 {
		return fmt.Errorf("PRISMIC_TIMEOUT_SECONDS must be at least 1")
	}

	if config.PrismicRateLimit < 0 {
		return fmt.Errorf("PRISMIC_RATE_LIMIT must be non-negative")
	}

	if config.LoadMoreRate < 0 {
		return fmt.Errorf("LOAD_MORE_RATE must be non-negative")
	}

	if config.LoadMoreBurst < 1 {
		return fmt.Errorf("LOAD_MORE_BURST must be at least 1")
	}

	loc, err := time.LoadLocation(config.DisplayTimezone)

	if err != nil {
		return fmt.Errorf("could not load display timezone %s: %w", config.DisplayTimezone, err)
	}

	config.Location = loc

	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)

	if v == "" {
		return nil
	}

	n, err := strconv.Atoi(v)

	if err != nil {
		return fmt.Errorf("%s must be a valid integer", key)
	}

	*dst = n

	return nil
}

func setFloat(dst *float64, key string) error {
	v := os.Getenv(key)

	if v == "" {
		return nil
	}

	f, err := strconv.ParseFloat(v, 64)

	if err != nil {
		return fmt.Errorf("%s must be a valid number", key)
	}

	*dst = f

	return nil
}
