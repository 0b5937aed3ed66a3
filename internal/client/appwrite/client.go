package appwrite

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gigrithm/gigrithm/internal/logging"
)

const responseFormat = "1.5.0"

// Config identifies the service instance.
type Config struct {
	Endpoint  string // e.g. https://cloud.appwrite.io/v1
	ProjectID string
}

// Client is a configured handle to one project. It is safe for concurrent use.
type Client struct {
	endpoint string
	project  string
	http     *http.Client
	logger   logging.Logger

	mu      sync.RWMutex
	session string
}

// New validates cfg and returns a Client. A nil httpClient means
// http.DefaultClient.
func New(cfg Config, httpClient *http.Client, logger logging.Logger) (*Client, error) {
	if _, err := url.ParseRequestURI(cfg.Endpoint); err != nil {
		return nil, fmt.Errorf("invalid appwrite endpoint: %w", err)
	}
	if cfg.ProjectID == "" {
		return nil, errors.New("appwrite project id is required")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Client{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		project:  cfg.ProjectID,
		http:     httpClient,
		logger:   logger.With("component", "appwrite"),
	}, nil
}

// Account returns the identity capability group.
func (c *Client) Account() *Account { return &Account{c: c} }

// Databases returns document CRUD bound to one database.
func (c *Client) Databases(databaseID string) *Databases {
	return &Databases{c: c, databaseID: databaseID}
}

// SetSession installs a session secret, e.g. one restored from disk.
func (c *Client) SetSession(secret string) {
	c.mu.Lock()
	c.session = secret
	c.mu.Unlock()
}

// Session returns the current session secret, "" when signed out.
func (c *Client) Session() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

func (c *Client) sessionCookieNames() []string {
	return []string{"a_session_" + c.project, "a_session_" + c.project + "_legacy"}
}

// call performs one request. body is JSON-encoded when non-nil; out, when
// non-nil, receives the decoded response.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	u := c.endpoint + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return err
	}
	req.Header.Set("X-Appwrite-Project", c.project)
	req.Header.Set("X-Appwrite-Response-Format", responseFormat)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s := c.Session(); s != "" {
		req.Header.Set("X-Appwrite-Session", s)
	}

	c.logger.Debug(ctx, "request", "method", method, "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	for _, ck := range resp.Cookies() {
		for _, name := range c.sessionCookieNames() {
			if ck.Name == name && ck.Value != "" {
				c.SetSession(ck.Value)
			}
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &Error{Code: resp.StatusCode}
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if err := json.Unmarshal(b, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(b))
		}
		apiErr.Code = resp.StatusCode
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// logFailure records a failed call. Rejections by the service are warnings;
// anything else is an error.
func (c *Client) logFailure(ctx context.Context, op string, err error) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		c.logger.Warn(ctx, "call rejected", "op", op, "code", apiErr.Code, "type", apiErr.Type, "error", apiErr.Message)
		return
	}
	c.logger.Error(ctx, "call failed", "op", op, "error", err)
}
