// Package summarizer exposes the watchlater pipeline as MCP tools:
// summarize_video, ingest_content, job_status, history_list,
// account_profile.
package summarizer

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"watchlater/internal/engine/backend"
)

var client *backend.Client

// SetClient installs the backend client used by all tool handlers.
func SetClient(c *backend.Client) {
	client = c
}

// RegisterTools registers all watchlater tools on the given MCP server.
func RegisterTools(server *mcp.Server) {
	registerSummarizeVideo(server)
	registerIngestContent(server)
	registerJobStatus(server)
	registerHistoryList(server)
	registerAccountProfile(server)
}
