package summarizer

import (
	"context"
	"errors"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"watchlater/internal/engine/backend"
	"watchlater/internal/engine/history"
	"watchlater/internal/engine/youtube"
)

// SummarizeVideoInput is the input for the summarize_video tool.
type SummarizeVideoInput struct {
	URL            string `json:"url" jsonschema:"YouTube video URL (watch, youtu.be, shorts, live, or embed form) or a bare 11-character video ID"`
	SkipExtraction bool   `json:"skip_extraction,omitempty" jsonschema:"Skip client-side transcript extraction and let the server extract (slower, lower success rate)"`
}

// SummarizeVideoOutput is the structured output for summarize_video.
type SummarizeVideoOutput struct {
	Success    bool   `json:"success"`
	Title      string `json:"title,omitempty"`
	NotionURL  string `json:"notionUrl,omitempty"`
	JobID      string `json:"job_id"`
	Transcript string `json:"transcript_source"` // "client" or "server"
	Remaining  int    `json:"remaining,omitempty"`
	Error      string `json:"error,omitempty"`
}

func registerSummarizeVideo(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "summarize_video",
		Description: "Summarize a YouTube video into structured notes saved to the user's Notion workspace. Extracts the transcript client-side, submits a summarization job, and waits for completion (may take several minutes for long videos).",
	}, func(ctx context.Context, req *mcp.CallToolRequest, input SummarizeVideoInput) (*mcp.CallToolResult, SummarizeVideoOutput, error) {
		videoID, ok := youtube.ResolveVideoID(input.URL)
		if !ok {
			return nil, SummarizeVideoOutput{}, errors.New("could not extract video ID: not a recognizable YouTube URL")
		}

		transcript := backend.ServerExtractSentinel
		source := "server"
		if !input.SkipExtraction {
			result, err := youtube.Extract(ctx, videoID)
			switch {
			case err != nil:
				// Extraction failure never aborts the job; the server gets
				// a chance with the sentinel.
				slog.Warn("client extraction failed, deferring to server",
					slog.String("id", videoID), slog.Any("error", err))
			case result.Unavailable:
				slog.Info("no transcript available client-side", slog.String("id", videoID))
			default:
				transcript = result.Text
				source = "client"
			}
		}

		submitted, err := client.Submit(ctx, "https://www.youtube.com/watch?v="+videoID, transcript)
		if err != nil {
			return nil, SummarizeVideoOutput{}, err
		}

		result, err := client.PollWait(ctx, submitted.JobID, func(u backend.ProgressUpdate) {
			mapped := backend.MapProgress(u.Progress, u.Stage)
			slog.Info("job progress",
				slog.String("job_id", submitted.JobID),
				slog.Int("progress", u.Progress),
				slog.String("stage", u.Stage),
				slog.String("local_stage", mapped.Stage.String()))
		})
		if err != nil {
			return nil, SummarizeVideoOutput{}, err
		}

		out := SummarizeVideoOutput{
			Success:    result.Success,
			Title:      result.Title,
			NotionURL:  result.NotionURL,
			JobID:      submitted.JobID,
			Transcript: source,
			Remaining:  submitted.Remaining,
			Error:      result.Error,
		}
		if result.Success {
			if _, err := history.Add(ctx, history.Entry{
				VideoID:   videoID,
				URL:       "https://www.youtube.com/watch?v=" + videoID,
				Title:     result.Title,
				NotionURL: result.NotionURL,
			}); err != nil {
				slog.Warn("history record failed", slog.Any("error", err))
			}
		}
		return nil, out, nil
	})
}
