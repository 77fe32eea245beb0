package ratelimit

import (
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// NewConfig builds a configuration where message calls, which reach the
// text-generation service, get perMinute requests with the given burst and
// everything else gets a lenient default.
func NewConfig(perMinute, burst int) *Config {
	return &Config{
		Enabled:         perMinute > 0,
		DefaultLimit:    600,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		Whitelist:       make(map[string]bool),
		Blacklist:       make(map[string]bool),
		EndpointConfigs: DefaultEndpointConfigs(perMinute, burst),
	}
}

// DefaultEndpointConfigs returns the endpoint-specific configurations.
func DefaultEndpointConfigs(perMinute, burst int) []EndpointConfig {
	return []EndpointConfig{
		// Expensive: each message may call the text-generation service several times
		{Path: "/messages", Method: "POST", Limit: perMinute, Window: time.Minute, Burst: burst},

		// Writes
		{Path: "/sessions", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/credential", Method: "PUT", Limit: 10, Window: time.Minute, Burst: 3},
		{Path: "/guides/lint", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},

		// Reads use the default limit; health is unlimited (see MatchEndpoint)
	}
}

// parseIPList parses a comma-separated list of IP addresses into a map.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}
	return result
}

// WithWhitelist adds comma-separated client IPs that bypass limits
func (c *Config) WithWhitelist(list string) *Config {
	for ip := range parseIPList(list) {
		c.Whitelist[ip] = true
	}
	return c
}

// WithBlacklist adds comma-separated client IPs that are always refused
func (c *Config) WithBlacklist(list string) *Config {
	for ip := range parseIPList(list) {
		c.Blacklist[ip] = true
	}
	return c
}
