// internal/recommend/config.go
package recommend

import "estate-client/internal/common/config"

const (
	DefaultMaxItems       = 8
	DefaultCandidateLimit = 50
)

type Config struct {
	MaxItems int
	// CandidateLimit is how many listings the caller fetches to score.
	CandidateLimit int
}

func LoadConfig(cfg config.RecommendConfig) *Config {
	c := &Config{MaxItems: cfg.MaxItems, CandidateLimit: cfg.CandidateLimit}
	if c.MaxItems <= 0 {
		c.MaxItems = DefaultMaxItems
	}
	if c.CandidateLimit <= 0 {
		c.CandidateLimit = DefaultCandidateLimit
	}
	return c
}
