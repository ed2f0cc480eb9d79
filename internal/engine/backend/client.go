package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"watchlater/internal/engine"
)

// Client drives the summarization backend: job submission and the status
// polling loop. One Client is safe for concurrent use; a single poll loop
// never issues overlapping requests for the same job.
type Client struct {
	baseURL string
	http    *http.Client
	creds   *Credentials
}

// NewClient creates a backend client. Submission uses a short timeout: job
// creation only enqueues work and must be fast.
func NewClient(creds *Credentials) *Client {
	timeout := engine.Cfg.SubmitTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: engine.Cfg.BackendURL,
		http:    &http.Client{Timeout: timeout},
		creds:   creds,
	}
}

// Submit creates a summarization job for a video URL. transcript carries
// the client-extracted text, or ServerExtractSentinel when extraction was
// unavailable. Returns the job handle to poll.
func (c *Client) Submit(ctx context.Context, contentURL, transcript string) (SubmitResponse, error) {
	body := submitRequest{URL: contentURL, Transcript: transcript}
	return c.submit(ctx, "/summarize", body)
}

// SubmitIngest creates a summarization job for a non-video source
// (article, PDF). content carries pre-extracted text when available.
func (c *Client) SubmitIngest(ctx context.Context, contentURL, sourceType, content string) (SubmitResponse, error) {
	body := ingestRequest{URL: contentURL, SourceType: sourceType, Content: content}
	return c.submit(ctx, "/ingest", body)
}

func (c *Client) submit(ctx context.Context, path string, body any) (SubmitResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return SubmitResponse{}, err
	}

	resp, err := c.doAuthed(ctx, http.MethodPost, path, payload)
	if err != nil {
		return SubmitResponse{}, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusAccepted || resp.StatusCode == http.StatusOK:
		var out SubmitResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return SubmitResponse{}, fmt.Errorf("submit decode: %w", err)
		}
		engine.IncrJobSubmitted()
		slog.Info("job submitted", slog.String("job_id", out.JobID), slog.Int("remaining", out.Remaining))
		return out, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return SubmitResponse{}, ErrQuota
	default:
		return SubmitResponse{}, serverError(resp)
	}
}

// doAuthed sends one bearer-authenticated request. On 401 it performs
// exactly one refresh-and-retry; a second 401 surfaces ErrAuth. It never
// refreshes twice for one logical request.
func (c *Client) doAuthed(ctx context.Context, method, path string, payload []byte) (*http.Response, error) {
	send := func(token string) (*http.Response, error) {
		var body *bytes.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		} else {
			body = bytes.NewReader(nil)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		return c.http.Do(req)
	}

	resp, err := send(c.creds.AccessToken())
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	resp.Body.Close()

	slog.Info("access token expired, refreshing")
	token, err := c.creds.Refresh(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuth, err)
	}

	resp, err = send(token)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		return nil, ErrAuth
	}
	return resp, nil
}

// serverError extracts the server-provided message from a non-2xx response,
// falling back to a generic one.
func serverError(resp *http.Response) error {
	var body apiError
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.message() != "" {
		return fmt.Errorf("%s", friendlyError(body.message()))
	}
	return fmt.Errorf("server error (HTTP %d), please try again", resp.StatusCode)
}

// Polling policy. One canonical set of constants applies to every call
// site: 3s cadence × 100 attempts covers multi-minute chunked processing
// of long inputs. Transport failures are ridden out with capped
// exponential backoff until the tolerance-th consecutive failure, which
// aborts.
var pollBackoff = engine.RetryConfig{
	InitialWait: time.Second,
	MaxWait:     30 * time.Second,
	Multiplier:  2.0,
}

// Poll watches a job until it terminates. It returns a stream that yields a
// PollEvent per status observation and exactly one terminal event, then
// closes. The loop is cooperative: one request in flight at a time, and it
// stops at the next suspension point when ctx is cancelled.
func (c *Client) Poll(ctx context.Context, jobID string) <-chan PollEvent {
	events := make(chan PollEvent, 1)

	go func() {
		defer close(events)

		interval := engine.Cfg.PollInterval
		if interval <= 0 {
			interval = 3 * time.Second
		}
		maxAttempts := engine.Cfg.PollAttempts
		if maxAttempts <= 0 {
			maxAttempts = 100
		}
		tolerance := engine.Cfg.NetTolerance
		if tolerance <= 0 {
			tolerance = 15
		}

		netErrors := 0
		for attempt := 0; attempt < maxAttempts; {
			status, err := c.jobStatus(ctx, jobID)
			if err != nil {
				if ctx.Err() != nil {
					emit(ctx, events, PollEvent{Terminal: true, Err: ctx.Err()})
					return
				}
				if errors.Is(err, ErrAuth) {
					emit(ctx, events, PollEvent{Terminal: true, Err: ErrAuth})
					return
				}
				netErrors++
				if netErrors >= tolerance {
					slog.Warn("poll aborted after consecutive network failures",
						slog.String("job_id", jobID), slog.Int("failures", netErrors))
					emit(ctx, events, PollEvent{Terminal: true, Err: ErrNetwork})
					return
				}
				// Same iteration is retried after backing off.
				if !sleep(ctx, pollBackoff.Backoff(netErrors-1)) {
					emit(ctx, events, PollEvent{Terminal: true, Err: ctx.Err()})
					return
				}
				continue
			}

			netErrors = 0
			attempt++

			update := ProgressUpdate{Progress: status.Progress, Stage: status.Stage}
			switch status.Status {
			case StatusComplete:
				result := status.Result
				if result == nil {
					result = &SummaryResult{Success: true}
				}
				emit(ctx, events, PollEvent{Update: update, Terminal: true, Result: result})
				return
			case StatusFailed:
				emit(ctx, events, PollEvent{
					Update:   update,
					Terminal: true,
					Result:   &SummaryResult{Success: false, Error: friendlyError(status.Error)},
				})
				return
			default:
				if !emit(ctx, events, PollEvent{Update: update}) {
					return
				}
				if !sleep(ctx, interval) {
					emit(ctx, events, PollEvent{Terminal: true, Err: ctx.Err()})
					return
				}
			}
		}
		emit(ctx, events, PollEvent{Terminal: true, Err: ErrTimeout})
	}()

	return events
}

// PollWait consumes the Poll stream, forwarding progress to onProgress (may
// be nil), and returns the terminal outcome.
func (c *Client) PollWait(ctx context.Context, jobID string, onProgress func(ProgressUpdate)) (SummaryResult, error) {
	for ev := range c.Poll(ctx, jobID) {
		if !ev.Terminal {
			if onProgress != nil {
				onProgress(ev.Update)
			}
			continue
		}
		if ev.Err != nil {
			return SummaryResult{}, ev.Err
		}
		return *ev.Result, nil
	}
	return SummaryResult{}, ctx.Err()
}

// jobStatus fetches one status snapshot. A job not yet visible in the
// store (404) is reported as still pending, not as an error.
func (c *Client) jobStatus(ctx context.Context, jobID string) (JobStatus, error) {
	engine.IncrPoll()

	resp, err := c.doAuthed(ctx, http.MethodGet, "/status/"+jobID, nil)
	if err != nil {
		return JobStatus{}, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var status JobStatus
		if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
			return JobStatus{}, fmt.Errorf("status decode: %w", err)
		}
		return status, nil
	case resp.StatusCode == http.StatusNotFound:
		return JobStatus{JobID: jobID, Status: StatusPending, Stage: "queued"}, nil
	default:
		// An HTTP error counts against the same consecutive-failure
		// tolerance as a transport failure: either way no status was
		// observed, and the poll loop's backoff-and-bound handles both.
		return JobStatus{}, fmt.Errorf("status: HTTP %d", resp.StatusCode)
	}
}

// Status fetches a single status snapshot without entering a poll loop.
func (c *Client) Status(ctx context.Context, jobID string) (JobStatus, error) {
	return c.jobStatus(ctx, jobID)
}

// Me fetches the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (Profile, error) {
	resp, err := c.doAuthed(ctx, http.MethodGet, "/me", nil)
	if err != nil {
		return Profile{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Profile{}, serverError(resp)
	}
	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return Profile{}, fmt.Errorf("profile decode: %w", err)
	}
	return profile, nil
}

// History lists the most recent summaries stored by the backend, newest
// first.
func (c *Client) History(ctx context.Context, limit int) ([]RemoteSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	resp, err := c.doAuthed(ctx, http.MethodGet, fmt.Sprintf("/summaries?limit=%d", limit), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, serverError(resp)
	}
	var summaries []RemoteSummary
	if err := json.NewDecoder(resp.Body).Decode(&summaries); err != nil {
		return nil, fmt.Errorf("history decode: %w", err)
	}
	return summaries, nil
}

// emit sends one event unless the caller has gone away.
func emit(ctx context.Context, ch chan<- PollEvent, ev PollEvent) bool {
	select {
	case ch <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// sleep waits d or until cancellation; reports whether the wait completed.
func sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}
