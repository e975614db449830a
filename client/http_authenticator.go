package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/layer-3/walletauth/adapters/tokenizer"
)

const loginPath = "/api/auth/login"

// LoginError is a non-200 answer from the login endpoint
type LoginError struct {
	StatusCode int
	Message    string
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("login failed (%d): %s", e.StatusCode, e.Message)
}

// HTTPAuthenticator submits signed challenges to a walletauth server
type HTTPAuthenticator struct {
	baseURL string
	client  *http.Client
}

// NewHTTPAuthenticator targets the server at baseURL. A nil client gets a
// default with a timeout.
func NewHTTPAuthenticator(baseURL string, client *http.Client) *HTTPAuthenticator {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPAuthenticator{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (a *HTTPAuthenticator) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode login request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+loginPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build login request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	var out struct {
		Error string `json:"error"`
		User  *struct {
			ID            string `json:"id"`
			WalletAddress string `json:"walletAddress"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode login response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &LoginError{StatusCode: resp.StatusCode, Message: out.Error}
	}
	if out.User == nil {
		return nil, fmt.Errorf("login response carried no user")
	}

	for _, c := range resp.Cookies() {
		if c.Name == tokenizer.CookieName && c.Value != "" {
			return &Session{
				Token:         c.Value,
				UserID:        out.User.ID,
				WalletAddress: out.User.WalletAddress,
			}, nil
		}
	}
	return nil, fmt.Errorf("login response set no %s cookie", tokenizer.CookieName)
}
