package summarizer

import (
	"context"
	"errors"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"watchlater/internal/engine/backend"
	"watchlater/internal/engine/content"
	"watchlater/internal/engine/history"
)

// IngestContentInput is the input for the ingest_content tool.
type IngestContentInput struct {
	URL        string `json:"url" jsonschema:"Article or PDF URL to summarize"`
	SourceType string `json:"source_type,omitempty" jsonschema:"Override source auto-detection: article or pdf"`
}

// IngestContentOutput is the structured output for ingest_content.
type IngestContentOutput struct {
	Success    bool   `json:"success"`
	Title      string `json:"title,omitempty"`
	NotionURL  string `json:"notionUrl,omitempty"`
	JobID      string `json:"job_id"`
	SourceType string `json:"source_type"`
	Error      string `json:"error,omitempty"`
}

func registerIngestContent(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "ingest_content",
		Description: "Summarize a non-video source (web article or PDF) into structured notes saved to Notion. Articles are extracted client-side; PDFs are downloaded and extracted by the server.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, input IngestContentInput) (*mcp.CallToolResult, IngestContentOutput, error) {
		sourceType := content.SourceType(input.SourceType)
		if sourceType == "" {
			sourceType = content.DetectSourceType(input.URL)
		}

		switch sourceType {
		case content.SourceYouTube:
			return nil, IngestContentOutput{}, errors.New("use summarize_video for YouTube videos")
		case content.SourcePodcast:
			return nil, IngestContentOutput{}, errors.New("podcast support is coming soon; paste the transcript text directly")
		}

		var extracted string
		if sourceType == content.SourceArticle {
			article, err := content.ExtractArticle(ctx, input.URL)
			if err != nil {
				// Same propagation policy as video extraction: let the
				// server try before giving up.
				slog.Warn("article extraction failed, deferring to server",
					slog.String("url", input.URL), slog.Any("error", err))
			} else {
				extracted = article.Markdown
			}
		}

		submitted, err := client.SubmitIngest(ctx, input.URL, string(sourceType), extracted)
		if err != nil {
			return nil, IngestContentOutput{}, err
		}

		result, err := client.PollWait(ctx, submitted.JobID, func(u backend.ProgressUpdate) {
			slog.Info("job progress",
				slog.String("job_id", submitted.JobID),
				slog.Int("progress", u.Progress),
				slog.String("stage", u.Stage))
		})
		if err != nil {
			return nil, IngestContentOutput{}, err
		}

		if result.Success {
			if _, err := history.Add(ctx, history.Entry{
				URL:        input.URL,
				Title:      result.Title,
				NotionURL:  result.NotionURL,
				SourceType: string(sourceType),
			}); err != nil {
				slog.Warn("history record failed", slog.Any("error", err))
			}
		}
		return nil, IngestContentOutput{
			Success:    result.Success,
			Title:      result.Title,
			NotionURL:  result.NotionURL,
			JobID:      submitted.JobID,
			SourceType: string(sourceType),
			Error:      result.Error,
		}, nil
	})
}
