package summarizer

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"watchlater/internal/engine/backend"
)

// JobStatusInput is the input for the job_status tool.
type JobStatusInput struct {
	JobID string `json:"job_id" jsonschema:"Job ID returned by a previous summarize_video or ingest_content submission"`
}

// JobStatusOutput is the structured output for job_status.
type JobStatusOutput struct {
	JobID      string                 `json:"job_id"`
	Status     string                 `json:"status"`
	Progress   int                    `json:"progress"`
	Stage      string                 `json:"stage"`
	LocalStage string                 `json:"local_stage"`
	Fraction   float64                `json:"stage_fraction"`
	Result     *backend.SummaryResult `json:"result,omitempty"`
	Error      string                 `json:"error,omitempty"`
}

func registerJobStatus(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "job_status",
		Description: "Fetch a single status snapshot of a summarization job without waiting for completion.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input JobStatusInput) (*mcp.CallToolResult, JobStatusOutput, error) {
		if input.JobID == "" {
			return nil, JobStatusOutput{}, errors.New("job_id is required")
		}

		status, err := client.Status(ctx, input.JobID)
		if err != nil {
			return nil, JobStatusOutput{}, err
		}

		mapped := backend.MapProgress(status.Progress, status.Stage)
		return nil, JobStatusOutput{
			JobID:      input.JobID,
			Status:     status.Status,
			Progress:   status.Progress,
			Stage:      status.Stage,
			LocalStage: mapped.Stage.String(),
			Fraction:   mapped.Fraction,
			Result:     status.Result,
			Error:      status.Error,
		}, nil
	})
}
