package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger      LoggerConfig      `mapstructure:"logger" yaml:"logger"`
	Search      SearchConfig      `mapstructure:"search" yaml:"search"`
	Fingerprint FingerprintConfig `mapstructure:"fingerprint" yaml:"fingerprint"`
	Session     SessionConfig     `mapstructure:"session" yaml:"session"`
}

// LoggerConfig controls the zap logger setup.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// SearchConfig holds the endpoint settings for the stock search.
type SearchConfig struct {
	// BaseURL is the search endpoint, scheme and path included.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	// RSCTag is the opaque streaming-protocol marker appended as the _rsc
	// query parameter. It is coupled to the deployed framework version and
	// must be treated as a version-fragile constant.
	RSCTag  string        `mapstructure:"rsc_tag" yaml:"rsc_tag"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
	// RateLimit caps requests per second when fetching multiple pages.
	RateLimit float64 `mapstructure:"rate_limit" yaml:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst" yaml:"rate_burst"`
}

// FingerprintConfig is the browser fingerprint replicated on every request.
// The endpoint's edge protection discriminates on these values, so they are
// kept together as one substitutable unit rather than scattered literals.
type FingerprintConfig struct {
	UserAgent       string `mapstructure:"user_agent" yaml:"user_agent"`
	AcceptLanguage  string `mapstructure:"accept_language" yaml:"accept_language"`
	SecChUA         string `mapstructure:"sec_ch_ua" yaml:"sec_ch_ua"`
	SecChUAPlatform string `mapstructure:"sec_ch_ua_platform" yaml:"sec_ch_ua_platform"`
	Referer         string `mapstructure:"referer" yaml:"referer"`
	NextURL         string `mapstructure:"next_url" yaml:"next_url"`
	// RouterStateTree is the url-encoded next-router-state-tree header value.
	// Opaque and coupled to the upstream framework version, like RSCTag.
	RouterStateTree string `mapstructure:"router_state_tree" yaml:"router_state_tree"`
}

// SessionConfig carries the externally managed session credential set.
// The cookies are consumed as opaque values; nothing here generates,
// refreshes, or validates them.
type SessionConfig struct {
	Cookies map[string]string `mapstructure:"cookies" yaml:"cookies"`
}

// Load applies defaults to v, reads whatever config file and environment
// variables viper has been pointed at, and unmarshals the result.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// NewDefaultConfig creates a configuration populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	cfg, err := Load(v)
	if err != nil {
		// Cannot happen with pure defaults.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return cfg
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "stocklens-cli")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)

	// Search endpoint defaults
	v.SetDefault("search.base_url", "https://trackadobestock.com/search")
	v.SetDefault("search.rsc_tag", "1gn38")
	v.SetDefault("search.timeout", "30s")
	v.SetDefault("search.rate_limit", 2.0)
	v.SetDefault("search.rate_burst", 2)

	// Browser fingerprint defaults, captured from a real Chrome session.
	// The edge protection rejects requests that deviate from these.
	v.SetDefault("fingerprint.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/144.0.0.0 Safari/537.36")
	v.SetDefault("fingerprint.accept_language", "en-GB,en;q=0.9,ur-PK;q=0.8,ur;q=0.7,en-US;q=0.6")
	v.SetDefault("fingerprint.sec_ch_ua", `"Not(A:Brand";v="8", "Chromium";v="144", "Google Chrome";v="144"`)
	v.SetDefault("fingerprint.sec_ch_ua_platform", `"Windows"`)
	v.SetDefault("fingerprint.referer", "https://trackadobestock.com/search")
	v.SetDefault("fingerprint.next_url", "/search")
	v.SetDefault("fingerprint.router_state_tree", "%5B%22%22%2C%7B%22children%22%3A%5B%22search%22%2C%7B%22children%22%3A%5B%22__PAGE__%22%2C%7B%7D%2Cnull%2Cnull%5D%7D%2Cnull%2Cnull%5D%7D%2Cnull%2Cnull%2Ctrue%5D")

	// Session cookies have no defaults. They are externally managed
	// credentials supplied via config file or STOCKLENS_* env vars.
	v.SetDefault("session.cookies", map[string]string{})
}
