package youtube

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"watchlater/internal/engine"
)

const maxPageBytes = 6 * 1024 * 1024

// Session carries the HTTP state for one extraction attempt. The host ties
// caption-serving behavior to cookies set during the watch-page load, so
// every request of an attempt goes through the same cookie jar. Sessions
// are not shared across concurrent extractions.
type Session struct {
	bc *engine.BrowserClient // preferred: Chrome TLS fingerprint + own jar
	hc *http.Client          // fallback with a fresh per-session jar
}

// NewSession creates a session, using the stealth browser client when the
// engine has one configured.
func NewSession() *Session {
	s := &Session{bc: engine.Cfg.BrowserClient}
	jar, err := cookiejar.New(nil)
	if err != nil {
		jar = nil
	}
	timeout := engine.Cfg.FetchTimeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	s.hc = &http.Client{Timeout: timeout, Jar: jar}
	return s
}

// WatchPage fetches the public video page with a realistic client identity.
func (s *Session) WatchPage(ctx context.Context, url string) ([]byte, error) {
	headers := engine.ChromeHeaders()
	headers["accept-language"] = "en-US,en;q=0.9"
	return s.get(ctx, url, headers, maxPageBytes)
}

// get issues one GET through the session, preferring the browser client.
func (s *Session) get(ctx context.Context, url string, headers map[string]string, limit int64) ([]byte, error) {
	if s.bc != nil {
		data, _, status, err := s.bc.Do("GET", url, headers, nil)
		if err != nil {
			return nil, err
		}
		if status >= 400 {
			return nil, &httpError{status: status}
		}
		return data, nil
	}

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		if _, ok := headers["user-agent"]; !ok {
			req.Header.Set("User-Agent", engine.RandomUserAgent())
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		return s.hc.Do(req)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, &httpError{status: resp.StatusCode}
	}
	return io.ReadAll(io.LimitReader(resp.Body, limit))
}

type httpError struct {
	status int
}

func (e *httpError) Error() string {
	return http.StatusText(e.status)
}
