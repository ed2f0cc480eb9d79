package backend

// Wire types for the summarization backend. Every endpoint decodes into an
// explicit struct; optional fields are pointers or omitempty so absence is
// visible to callers.

// ServerExtractSentinel is sent in place of a transcript when client-side
// extraction came up empty. The backend recognizes it and runs its own
// extraction as a second line of defense.
const ServerExtractSentinel = "__SERVER_EXTRACT__"

// Job statuses reported by /status/{job_id}. Terminal states are final.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusComplete   = "complete"
	StatusFailed     = "failed"
)

type submitRequest struct {
	URL        string `json:"url"`
	Transcript string `json:"transcript,omitempty"`
}

type ingestRequest struct {
	URL        string `json:"url"`
	SourceType string `json:"source_type,omitempty"`
	Content    string `json:"content,omitempty"`
}

// SubmitResponse is the 202 body from POST /summarize or POST /ingest.
type SubmitResponse struct {
	JobID     string `json:"job_id"`
	Status    string `json:"status,omitempty"`
	Remaining int    `json:"remaining,omitempty"`
}

// JobStatus is the body of GET /status/{job_id}.
type JobStatus struct {
	JobID    string         `json:"job_id"`
	Status   string         `json:"status"`
	Progress int            `json:"progress"`
	Stage    string         `json:"stage"`
	Result   *SummaryResult `json:"result,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// SummaryResult is produced exactly once, on job completion or failure.
type SummaryResult struct {
	Success   bool   `json:"success"`
	Title     string `json:"title,omitempty"`
	NotionURL string `json:"notionUrl,omitempty"`
	SummaryID string `json:"summaryId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Profile is the GET /me response.
type Profile struct {
	ID                 string `json:"id"`
	Email              string `json:"email"`
	NotionConnected    bool   `json:"notion_connected"`
	SubscriptionTier   string `json:"subscription_tier"`
	SummariesThisMonth int    `json:"summaries_this_month"`
	SummariesRemaining int    `json:"summaries_remaining"`
}

// RemoteSummary is one item of the GET /summaries listing.
type RemoteSummary struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Title     string `json:"title"`
	NotionURL string `json:"notionUrl,omitempty"`
	CreatedAt string `json:"created_at"`
}

// apiError is the error body shape the backend uses for non-2xx responses.
type apiError struct {
	Detail string `json:"detail,omitempty"`
	Error  string `json:"error,omitempty"`
}

func (e apiError) message() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Error
}

// ProgressUpdate is one observation of server-side job progress, emitted on
// the channel returned by Poll.
type ProgressUpdate struct {
	Progress int
	Stage    string
}

// PollEvent is one item on the Poll stream: either a progress observation
// or the single terminal outcome, after which the channel closes.
type PollEvent struct {
	Update   ProgressUpdate
	Terminal bool
	Result   *SummaryResult // set on Terminal when the job reached a terminal status
	Err      error          // set on Terminal when polling itself failed
}
