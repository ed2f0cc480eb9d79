package summarizer

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"watchlater/internal/engine/backend"
)

// AccountProfileInput has no fields; the tool takes no arguments.
type AccountProfileInput struct{}

// AccountProfileOutput is the structured output for account_profile.
type AccountProfileOutput struct {
	Profile backend.Profile `json:"profile"`
}

func registerAccountProfile(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "account_profile",
		Description: "Show the authenticated account: email, Notion connection, subscription tier and remaining quota.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input AccountProfileInput) (*mcp.CallToolResult, AccountProfileOutput, error) {
		profile, err := client.Me(ctx)
		if err != nil {
			return nil, AccountProfileOutput{}, err
		}
		return nil, AccountProfileOutput{Profile: profile}, nil
	})
}
