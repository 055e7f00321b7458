package entity

import "time"

type Config struct {
	PrismicEndpoint    string  `json:"prismicEndpoint"`
	PrismicAccessToken string  `json:"prismicAccessToken"`
	DocumentType       string  `json:"documentType"`
	PageSize           int     `json:"pageSize"`
	PrismicRateLimit   float64 `json:"prismicRateLimit"`
	PrismicTimeout     int     `json:"prismicTimeoutSeconds"`

	HTTPPort string `json:"httpPort"`

	// Caching is disabled when RedisHost is empty.
	RedisHost string `json:"redisHost"`
	RedisPort string `json:"redisPort"`
	// In minutes, 0 disables caching.
	CacheTTL int `json:"cacheTtlMinutes"`

	DisplayTimezone string `json:"displayTimezone"`
	SiteTitle       string `json:"siteTitle"`
	SiteURL         string `json:"siteUrl"`

	LoadMoreRate  float64 `json:"loadMoreRate"`
	LoadMoreBurst int     `json:"loadMoreBurst"`

	LogLevel string `json:"logLevel"`

	// Resolved from DisplayTimezone.
	Location *time.Location `json:"-"`
}

// RedisAddr returns the host:port pair of the Redis server.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// PrismicRequestTimeout returns the timeout of a single content API request.
func (c *Config) PrismicRequestTimeout() time.Duration {
	return time.Duration(c.PrismicTimeout) * time.Second
}
