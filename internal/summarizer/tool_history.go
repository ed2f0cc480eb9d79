package summarizer

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"watchlater/internal/engine/history"
)

// HistoryListInput is the input for the history_list tool.
type HistoryListInput struct {
	Limit  int  `json:"limit,omitempty" jsonschema:"Max entries to return (default: 20, max: 200)"`
	Server bool `json:"server,omitempty" jsonschema:"Read the backend's summary listing instead of the local record"`
}

// HistoryListOutput is the structured output for history_list.
type HistoryListOutput struct {
	Entries []history.Entry `json:"entries"`
	Total   int             `json:"total"`
	Source  string          `json:"source"` // "local" or "server"
}

func registerHistoryList(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "history_list",
		Description: "List recently completed summaries, newest first. Reads the local record by default, or the backend's listing with server=true.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input HistoryListInput) (*mcp.CallToolResult, HistoryListOutput, error) {
		if input.Server {
			remote, err := client.History(ctx, input.Limit)
			if err != nil {
				return nil, HistoryListOutput{}, err
			}
			entries := make([]history.Entry, 0, len(remote))
			for _, s := range remote {
				entries = append(entries, history.Entry{
					URL:       s.URL,
					Title:     s.Title,
					NotionURL: s.NotionURL,
					CreatedAt: s.CreatedAt,
				})
			}
			return nil, HistoryListOutput{Entries: entries, Total: len(entries), Source: "server"}, nil
		}

		entries, err := history.List(ctx, input.Limit)
		if err != nil {
			return nil, HistoryListOutput{}, err
		}
		return nil, HistoryListOutput{Entries: entries, Total: len(entries), Source: "local"}, nil
	})
}
