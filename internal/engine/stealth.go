package engine

import (
	stealth "github.com/anatolykoptev/go-stealth"
)

// Re-export stealth types and helpers for engine consumers.
type BrowserClient = stealth.BrowserClient

func ChromeHeaders() map[string]string { return stealth.ChromeHeaders() }
func RandomUserAgent() string          { return stealth.RandomUserAgent() }
