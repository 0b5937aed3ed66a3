package gigapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gigrithm/gigrithm/internal/logging"
	"github.com/sethvargo/go-retry"
)

// TokenSource supplies a bearer token. *session.Store satisfies it.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type Client struct {
	base    string
	http    *http.Client
	logger  logging.Logger
	tokens  TokenSource
	backoff func() retry.Backoff
}

type Option func(*Client)

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithRetry sets how often idempotent requests are retried and the initial
// backoff, which doubles per attempt.
func WithRetry(max uint64, base time.Duration) Option {
	return func(c *Client) {
		c.backoff = func() retry.Backoff {
			return retry.WithMaxRetries(max, retry.NewExponential(base))
		}
	}
}

func New(baseURL string, httpClient *http.Client, logger logging.Logger, opts ...Option) (*Client, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid gig api url: %w", err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = logging.Nop()
	}
	c := &Client{
		base:   strings.TrimRight(baseURL, "/"),
		http:   httpClient,
		logger: logger.With("component", "gigapi"),
	}
	WithRetry(2, 250*time.Millisecond)(c)
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// get issues an idempotent GET, retrying while the failure is ErrUnavailable.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	err := retry.Do(ctx, c.backoff(), func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		err = c.send(req, out)
		if errors.Is(err, ErrUnavailable) {
			c.logger.Debug(ctx, "retrying", "path", path, "error", err)
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		c.logger.Warn(ctx, "request failed", "method", http.MethodGet, "path", path, "error", err)
	}
	return err
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if err := c.send(req, out); err != nil {
		c.logger.Warn(ctx, "request failed", "method", http.MethodPost, "path", path, "error", err)
		return err
	}
	return nil
}

// postFile uploads data as the multipart field "resume".
func (c *Client) postFile(ctx context.Context, path, filename string, data []byte, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="resume"; filename=%q`, filename))
	h.Set("Content-Type", mimetype.Detect(data).String())
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := part.Write(data); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if err := c.send(req, out); err != nil {
		c.logger.Warn(ctx, "upload failed", "path", path, "file", filename, "error", err)
		return err
	}
	return nil
}

// send performs req and decodes a 2xx JSON body into out. Error bodies of
// the form {error} or {message} become *APIError.
func (c *Client) send(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		if tok, err := c.tokens.Token(req.Context()); err == nil && tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		_ = json.Unmarshal(body, &env)
		msg := env.Error
		if msg == "" {
			msg = env.Message
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}
