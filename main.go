// watchlater — video & article summarization MCP server.
//
// Extracts YouTube transcripts locally (watch page scrape + caption fetch,
// Supadata fallback), submits them to the summarization backend and polls
// jobs to completion. Runs as HTTP MCP server or stdio transport.
package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"watchlater/internal/engine"
	"watchlater/internal/engine/backend"
	"watchlater/internal/summarizer"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8893")
)

func main() {
	initEngine()

	slog.Info("starting watchlater",
		slog.String("port", mcpPort),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "watchlater",
		Version: version,
	}, nil)

	summarizer.RegisterTools(server)
	slog.Info("tools registered", slog.Int("count", 5))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "watchlater",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 600 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initEngine() {
	c := engine.Config{
		BackendURL:           env.Str("BACKEND_URL", "http://127.0.0.1:8000"),
		SubmitTimeout:        env.Duration("SUBMIT_TIMEOUT", 15*time.Second),
		PollInterval:         env.Duration("POLL_INTERVAL", 3*time.Second),
		PollAttempts:         env.Int("POLL_ATTEMPTS", 100),
		NetTolerance:         env.Int("NET_TOLERANCE", 15),
		AuthURL:              env.Str("AUTH_URL", ""),
		AuthAPIKey:           env.Str("AUTH_API_KEY", ""),
		PreferredLanguages:   env.List("PREFERRED_LANGUAGES", "en,ko"),
		FetchTimeout:         env.Duration("FETCH_TIMEOUT", 20*time.Second),
		SupadataAPIKey:       env.Str("SUPADATA_API_KEY", ""),
		SupadataURL:          env.Str("SUPADATA_URL", "https://api.supadata.ai/v1/youtube/transcript"),
		CacheMaxEntries:      env.Int("CACHE_MAX_ENTRIES", 500),
		CacheCleanupInterval: env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),
		HTTPClient: &http.Client{
			Timeout: 20 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}

	bc, err := stealth.NewClient(stealth.WithTimeout(20))
	if err != nil {
		slog.Warn("stealth client init failed, falling back to plain http", slog.Any("error", err))
	} else {
		c.BrowserClient = bc
		slog.Info("stealth browser client initialized")
	}

	engine.Init(c)

	creds := backend.NewCredentials(
		env.Str("ACCESS_TOKEN", ""),
		env.Str("REFRESH_TOKEN", ""),
	)
	summarizer.SetClient(backend.NewClient(creds))

	cacheTTL := env.Duration("CACHE_TTL", 24*time.Hour)
	engine.InitCache(env.Str("REDIS_URL", ""), cacheTTL, c.CacheMaxEntries, c.CacheCleanupInterval)
}
