package ratelimit

import "strings"

// unlimited is returned for paths that are never throttled
var unlimited = EndpointConfig{}

// MatchEndpoint picks the configuration for a request. An exact path wins; otherwise
// the longest configured prefix ending in "/" applies. A config with an empty Method
// matches any method. GET /health is always unlimited. Returns nil when nothing matches.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && method == "GET" {
		u := unlimited
		return &u
	}

	var best *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != "" && c.Method != method {
			continue
		}
		if c.Path == path {
			if c.Method == method {
				return c
			}
			best = c
			continue
		}
		if !strings.HasSuffix(c.Path, "/") || !strings.HasPrefix(path, c.Path) {
			continue
		}
		if best == nil || (best.Path != path && len(c.Path) > len(best.Path)) {
			best = c
		}
	}
	return best
}
