package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/zabahd4k/bildy/internal/session"
	"go.uber.org/zap"
)

// Client performs authenticated JSON calls against the Bildy REST API.
// It holds no mutable state and performs no retries or caching; every
// outcome is reported to the caller immediately.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.SugaredLogger
}

// New creates an API client. The http.Client carries the request timeout;
// a nil logger disables logging.
func New(baseURL string, httpClient *http.Client, log *zap.SugaredLogger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		log:     log,
	}
}

func (c *Client) get(ctx context.Context, path string, sess *session.Session, out any, fallback string) error {
	return c.do(ctx, http.MethodGet, path, sess, nil, out, fallback)
}

func (c *Client) post(ctx context.Context, path string, sess *session.Session, body, out any, fallback string) error {
	return c.do(ctx, http.MethodPost, path, sess, body, out, fallback)
}

func (c *Client) put(ctx context.Context, path string, sess *session.Session, body, out any, fallback string) error {
	return c.do(ctx, http.MethodPut, path, sess, body, out, fallback)
}

// do issues one request. A non-nil sess marks the endpoint as authenticated:
// a missing token short-circuits to ErrUnauthenticated before any network I/O.
func (c *Client) do(ctx context.Context, method, path string, sess *session.Session, body, out any, fallback string) error {
	if sess != nil && !sess.Valid() {
		return ErrUnauthenticated
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if sess != nil {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	// Correlation id ties the request/response log lines together.
	reqID := uuid.NewString()
	c.log.Debugw("api request", "id", reqID, "method", method, "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Errorw("api transport failure", "id", reqID, "method", method, "path", path, "err", err)
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := errorMessage(resp.Body, fallback)
		c.log.Warnw("api error response", "id", reqID, "status", resp.StatusCode, "message", msg)
		return &StatusError{Status: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			c.log.Errorw("api decode failure", "id", reqID, "err", err)
			return fmt.Errorf("%w: %v", ErrDecode, err)
		}
	}

	c.log.Debugw("api response", "id", reqID, "status", resp.StatusCode)
	return nil
}

// errorMessage extracts a display message from an error response body:
// a JSON error/message field if present, plain body text otherwise,
// falling back to the per-operation message.
func errorMessage(r io.Reader, fallback string) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return fallback
	}

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &payload) == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}

	text := strings.TrimSpace(string(data))
	if text != "" && !strings.HasPrefix(text, "{") && !strings.HasPrefix(text, "[") {
		return text
	}
	return fallback
}
