package config

import (
	"strings"
	"time"
)

// CacheConfig defines settings for the public listing response cache.
// When Enabled is false or no Redis client is configured, caching is off.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool
	TTL          time.Duration
	KeyStrategy  string
	Prefix       string
	MaxBodyBytes int
}

func parseMethods(in []string) map[string]bool {
	m := map[string]bool{}
	for _, p := range in {
		p = strings.TrimSpace(strings.ToUpper(p))
		if p != "" {
			m[p] = true
		}
	}
	return m
}
