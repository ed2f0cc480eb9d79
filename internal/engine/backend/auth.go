package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"golang.org/x/sync/singleflight"

	"watchlater/internal/engine"
)

// Credentials holds the process-local access/refresh token pair. Reads are
// cheap; refresh replaces both atomically. Concurrent refresh attempts are
// collapsed into one: a second caller observing a refresh in flight waits
// for its result instead of issuing a duplicate exchange.
type Credentials struct {
	mu      sync.RWMutex
	access  string
	refresh string
	sf      singleflight.Group
}

// NewCredentials creates a credential store from an existing token pair.
func NewCredentials(accessToken, refreshToken string) *Credentials {
	return &Credentials{access: accessToken, refresh: refreshToken}
}

// AccessToken returns the current access token.
func (c *Credentials) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.access
}

type refreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// Refresh exchanges the stored refresh token for a new access token at the
// identity provider and installs the new pair. Returns the new access
// token. Safe for concurrent use.
func (c *Credentials) Refresh(ctx context.Context) (string, error) {
	token, err, _ := c.sf.Do("refresh", func() (any, error) {
		return c.doRefresh(ctx)
	})
	if err != nil {
		return "", err
	}
	return token.(string), nil
}

func (c *Credentials) doRefresh(ctx context.Context) (string, error) {
	engine.IncrTokenRefresh()

	c.mu.RLock()
	refreshToken := c.refresh
	c.mu.RUnlock()
	if refreshToken == "" {
		return "", errors.New("no refresh token stored")
	}

	body, err := json.Marshal(map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return "", err
	}

	endpoint := engine.Cfg.AuthURL + "/token?grant_type=refresh_token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", engine.Cfg.AuthAPIKey)

	resp, err := engine.Cfg.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token refresh: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return "", fmt.Errorf("token refresh: HTTP %d: %s", resp.StatusCode, snippet)
	}

	var tokens refreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return "", fmt.Errorf("token refresh decode: %w", err)
	}
	if tokens.AccessToken == "" {
		return "", errors.New("token refresh: empty access token")
	}

	c.mu.Lock()
	c.access = tokens.AccessToken
	if tokens.RefreshToken != "" {
		c.refresh = tokens.RefreshToken
	}
	c.mu.Unlock()

	return tokens.AccessToken, nil
}
