package engine

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	// Backend API (job submission + polling).
	BackendURL    string
	SubmitTimeout time.Duration
	PollInterval  time.Duration
	PollAttempts  int
	NetTolerance  int

	// Identity provider (credential refresh).
	AuthURL    string
	AuthAPIKey string

	// Transcript extraction.
	PreferredLanguages []string
	FetchTimeout       time.Duration
	SupadataAPIKey     string
	SupadataURL        string

	// Caching.
	CacheMaxEntries      int
	CacheCleanupInterval time.Duration

	// Clients.
	HTTPClient    *http.Client
	BrowserClient *BrowserClient // nil = stealth watch-page fetch disabled
	CaptionRate   *rate.Limiter  // throttles caption payload fetches
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages (youtube, backend, content).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	if c.CaptionRate == nil {
		// The caption host throttles per-IP; two requests per second keeps
		// the exhaustive track×format search under its limits.
		c.CaptionRate = rate.NewLimiter(rate.Every(500*time.Millisecond), 2)
	}
	cfg = c
	Cfg = &cfg
}
