package ratelimit

import (
	"net/http"
	"strings"
)

// healthPath is never limited.
const healthPath = "/health"

// MatchEndpoint returns the configuration for a request, or nil when the
// default limit applies. Exact paths win over prefixes; a configured path
// ending in "/" matches everything below it (e.g. "/analyses/" matches
// "/analyses/{id}").
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if path == healthPath && method == http.MethodGet {
		return &EndpointConfig{Path: healthPath, Method: method}
	}

	var prefix *EndpointConfig
	for i := range configs {
		config := &configs[i]
		if config.Method != method {
			continue
		}
		if config.Path == path {
			return config
		}
		if prefix == nil && strings.HasSuffix(config.Path, "/") && strings.HasPrefix(path, config.Path) {
			prefix = config
		}
	}
	return prefix
}
