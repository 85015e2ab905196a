package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/exp/slog"

	"billbase/internal/config"
	"billbase/internal/identity"
	"billbase/internal/sync"
)

// TokenSource supplies the bearer token for authenticated calls.
type TokenSource interface {
	Token() (string, error)
}

// Client is the HTTP implementation of the remote store adapter. It talks to
// the billbase server's row API and auth endpoints.
type Client struct {
	client    *http.Client
	log       *slog.Logger
	baseURL   string
	tokens    TokenSource
	userAgent string
}

func NewClient(cfg *config.Config, tokens TokenSource, log *slog.Logger) *Client {
	client := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 10,
		},
	}

	scheme := "http://"
	if cfg.EnableTLS {
		scheme = "https://"
	}

	return &Client{
		client:    client,
		log:       log.With("component", "remote_client"),
		baseURL:   scheme + cfg.ServerAddress,
		tokens:    tokens,
		userAgent: "billbase-client/1.0",
	}
}

// HealthCheck verifies the server is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/v1/health", nil, false)
	if err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}
	return c.parseResponse(resp, nil)
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string        `json:"token"`
	User  identity.User `json:"user"`
}

// Register creates an account and returns the issued session.
func (c *Client) Register(ctx context.Context, email, password string) (string, *identity.User, error) {
	return c.authCall(ctx, "/api/v1/user/register", email, password)
}

// Login authenticates and returns the issued session.
func (c *Client) Login(ctx context.Context, email, password string) (string, *identity.User, error) {
	return c.authCall(ctx, "/api/v1/user/login", email, password)
}

func (c *Client) authCall(ctx context.Context, path, email, password string) (string, *identity.User, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, path, credentialsRequest{Email: email, Password: password}, false)
	if err != nil {
		return "", nil, err
	}

	var out authResponse
	if err := c.parseResponse(resp, &out); err != nil {
		return "", nil, err
	}
	return out.Token, &out.User, nil
}

// Insert ships a full row snapshot. The server treats it as an upsert so
// replaying a push after a lost acknowledgement cannot fail on a duplicate.
func (c *Client) Insert(ctx context.Context, table string, row json.RawMessage) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/v1/rows/"+url.PathEscape(table), row, true)
	if err != nil {
		return err
	}
	return c.parseResponse(resp, nil)
}

func (c *Client) Update(ctx context.Context, table, id string, row json.RawMessage) error {
	path := "/api/v1/rows/" + url.PathEscape(table) + "/" + url.PathEscape(id)
	resp, err := c.doRequest(ctx, http.MethodPut, path, row, true)
	if err != nil {
		return err
	}
	return c.parseResponse(resp, nil)
}

func (c *Client) Delete(ctx context.Context, table, id string) error {
	path := "/api/v1/rows/" + url.PathEscape(table) + "/" + url.PathEscape(id)
	resp, err := c.doRequest(ctx, http.MethodDelete, path, nil, true)
	if err != nil {
		return err
	}
	return c.parseResponse(resp, nil)
}

type selectSinceResponse struct {
	Rows []sync.RemoteRow `json:"rows"`
}

// SelectSince fetches the caller's rows changed after since. The server
// scopes by the session's user; userID is sent along so a stale session and
// a fresh local store cannot silently mix accounts.
func (c *Client) SelectSince(ctx context.Context, table, userID string, since *time.Time) ([]sync.RemoteRow, error) {
	q := url.Values{}
	q.Set("user_id", userID)
	if since != nil {
		q.Set("since", since.UTC().Format(time.RFC3339Nano))
	}
	path := "/api/v1/rows/" + url.PathEscape(table) + "?" + q.Encode()

	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, true)
	if err != nil {
		return nil, err
	}

	var out selectSinceResponse
	if err := c.parseResponse(resp, &out); err != nil {
		return nil, err
	}
	return out.Rows, nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, authed bool) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if authed {
		token, err := c.tokens.Token()
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.log.Debug("request", "method", method, "url", req.URL.String())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	return resp, nil
}

func (c *Client) parseResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Title  string `json:"title"`
			Detail string `json:"detail"`
		}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Detail != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Detail)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
