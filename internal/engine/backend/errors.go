package backend

import (
	"errors"
	"strings"
)

// Failure classes the caller must branch on. Everything else arrives as a
// wrapped generic error with a friendly message.
var (
	// ErrAuth: the credential is invalid and one refresh did not fix it.
	ErrAuth = errors.New("authentication failed, please sign in again")
	// ErrQuota: monthly summary quota exhausted. Never retried.
	ErrQuota = errors.New("monthly summary limit reached")
	// ErrNetwork: consecutive transport failures exceeded tolerance.
	ErrNetwork = errors.New("network connection lost")
	// ErrTimeout: the job did not reach a terminal status within the
	// polling budget. Distinct from ErrNetwork.
	ErrTimeout = errors.New("processing timed out, please try again")
)

// friendlyError translates raw server or transport error text into a short
// human-readable message. Raw transport text never reaches the user.
func friendlyError(msg string) string {
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "subtitles are disabled"),
		strings.Contains(lower, "transcriptsdisabled"):
		return "This video doesn't have subtitles enabled. The video owner has disabled captions."
	case strings.Contains(lower, "no subtitles available"),
		strings.Contains(lower, "no transcript"):
		return "No subtitles available for this video. Try a different video."
	case strings.Contains(lower, "sign in to confirm"),
		strings.Contains(lower, "cookies"):
		return "Unable to access this video right now. Please try again in a few minutes."
	case strings.Contains(lower, "invalid") && strings.Contains(lower, "url"):
		return "Invalid YouTube URL. Please paste a valid YouTube link."
	case strings.Contains(lower, "could not extract video id"):
		return "Couldn't recognize this as a YouTube video. Please check the URL."
	case strings.Contains(lower, "timeout"),
		strings.Contains(lower, "connection"):
		return "Connection error. Please check your internet and try again."
	case strings.Contains(lower, "rate limit"),
		strings.Contains(lower, "too many requests"):
		return "Too many requests. Please wait a moment and try again."
	case strings.Contains(lower, "potoken"),
		strings.Contains(lower, "authentication token"):
		return "This video has restricted captions that require additional verification. Please try a different video."
	case strings.Contains(lower, "multiple empty responses"):
		return "This video's captions are protected. Please try a different video."
	}

	if len(msg) > 100 {
		return "Something went wrong. Please try a different video."
	}
	return msg
}
