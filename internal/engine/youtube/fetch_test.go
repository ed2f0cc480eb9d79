package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseEventStream(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{
			"basic events",
			`{"events":[{"segs":[{"utf8":"hello"},{"utf8":"world"}]},{"segs":[{"utf8":"again"}]}]}`,
			"hello world again",
		},
		{
			"blank and newline segments skipped",
			`{"events":[{"segs":[{"utf8":"\n"},{"utf8":"first"},{"utf8":"  "}]},{"segs":[{"utf8":"second"}]}]}`,
			"first second",
		},
		{
			"events without segs",
			`{"events":[{},{"segs":[{"utf8":"only"}]}]}`,
			"only",
		},
		{"empty events", `{"events":[]}`, ""},
		{"not json", `<timedtext></timedtext>`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseEventStream([]byte(tt.data)); got != tt.want {
				t.Errorf("parseEventStream() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseInlineMarkup(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{
			"well formed timedtext",
			`<?xml version="1.0"?><transcript><text start="0" dur="2">hello</text><text start="2" dur="2">world</text></transcript>`,
			"hello world",
		},
		{
			"entities decoded",
			`<transcript><text>Tom &amp; Jerry</text><text>&quot;quoted&quot; &#39;text&#39;</text></transcript>`,
			`Tom & Jerry "quoted" 'text'`,
		},
		{
			"inline tags stripped",
			`<transcript><text>one <i>two</i> three</text></transcript>`,
			"one two three",
		},
		{
			"malformed xml falls back to regex",
			`<transcript><text start="0">raw &amp; broken</text><text>second</text>`,
			"raw & broken second",
		},
		{"no text elements", `<transcript></transcript>`, ""},
		{"empty", ``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseInlineMarkup([]byte(tt.data)); got != tt.want {
				t.Errorf("parseInlineMarkup() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseCaptionPayloadFormatAgnostic(t *testing.T) {
	// The host sometimes answers in a different format than requested, so
	// every payload runs through all parsers.
	json3 := []byte(`{"events":[{"segs":[{"utf8":"structured"}]}]}`)
	markup := []byte(`<transcript><text>inline</text></transcript>`)

	if got := ParseCaptionPayload(json3); got != "structured" {
		t.Errorf("json3 payload = %q, want %q", got, "structured")
	}
	if got := ParseCaptionPayload(markup); got != "inline" {
		t.Errorf("markup payload = %q, want %q", got, "inline")
	}
	if got := ParseCaptionPayload([]byte("garbage")); got != "" {
		t.Errorf("garbage payload = %q, want empty", got)
	}
}

func TestWithFormat(t *testing.T) {
	base := "https://www.youtube.com/api/timedtext?v=abc&lang=en"

	tests := []struct {
		name     string
		trackURL string
		format   string
		token    string
		want     string
	}{
		{
			"append fmt when absent",
			base, FormatJSON3, "",
			base + "&fmt=json3",
		},
		{
			"rewrite existing fmt",
			base + "&fmt=srv1&extra=1", FormatJSON3, "",
			base + "&fmt=json3&extra=1",
		},
		{
			"fmt as first query param",
			"https://host/api?fmt=srv1&lang=en", FormatSRV3, "",
			"https://host/api?fmt=srv3&lang=en",
		},
		{
			"token attached",
			base, FormatJSON3, "tok123",
			base + "&fmt=json3&pot=tok123",
		},
		{
			"token not duplicated",
			base + "&pot=existing", FormatJSON3, "tok123",
			base + "&pot=existing&fmt=json3",
		},
		{
			"token query-escaped",
			base, FormatJSON3, "a+b/c",
			base + "&fmt=json3&pot=a%2Bb%2Fc",
		},
		{
			"url without query string starts one",
			"https://host/api/timedtext", FormatJSON3, "tok",
			"https://host/api/timedtext?fmt=json3&pot=tok",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WithFormat(tt.trackURL, tt.format, tt.token); got != tt.want {
				t.Errorf("WithFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWithFormatCoversAllFormats(t *testing.T) {
	base := "https://host/api?lang=en"
	for _, f := range Formats {
		u := WithFormat(base, f, "")
		if !strings.Contains(u, "fmt="+f) {
			t.Errorf("WithFormat(%q) = %q, missing fmt=%s", f, u, f)
		}
	}
}

func TestFetchCaptions(t *testing.T) {
	payloads := map[string]string{
		"/json3": `{"events":[{"segs":[{"utf8":"from json3"}]}]}`,
		"/xml":   `<transcript><text>from markup</text></transcript>`,
		"/empty": "",
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("origin") != "https://www.youtube.com" {
			t.Errorf("missing origin header")
		}
		_, _ = w.Write([]byte(payloads[r.URL.Path]))
	}))
	defer srv.Close()

	sess := NewSession()
	ctx := context.Background()

	if got, err := FetchCaptions(ctx, sess, srv.URL+"/json3"); err != nil || got != "from json3" {
		t.Errorf("json3: got (%q, %v)", got, err)
	}
	if got, err := FetchCaptions(ctx, sess, srv.URL+"/xml"); err != nil || got != "from markup" {
		t.Errorf("xml: got (%q, %v)", got, err)
	}

	// A zero-length body is a soft miss, not an error: the caller advances
	// to the next format or track.
	got, err := FetchCaptions(ctx, sess, srv.URL+"/empty")
	if err != nil {
		t.Fatalf("empty body must not error: %v", err)
	}
	if got != "" {
		t.Errorf("empty body: got %q, want empty", got)
	}
}
