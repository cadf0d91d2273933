// Package apiclient is the bearer-token REST client for the assistant
// backend. Every response carries a body-level status code in addition to
// the transport status; both are checked.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"assistant-client/internal/utils"
)

// TokenFunc supplies the current bearer token; empty means unauthenticated.
type TokenFunc func() string

type Client struct {
	baseURL string
	http    *http.Client
	logger  *logrus.Logger
	token   TokenFunc
}

func New(baseURL string, token TokenFunc, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
		token:   token,
	}
}

// do performs one request and decodes the JSON body into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	requestID := uuid.New().String()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	c.logger.Debugf("request_id=%s %s %s -> %d", requestID, method, path, resp.StatusCode)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s %s: http %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response body: %w", err)
		}
	}
	return nil
}

// get retries transient failures; reads are safe to repeat.
func (c *Client) get(ctx context.Context, path string, out any) error {
	return utils.Retry(c.logger, 3, 500*time.Millisecond, func() error {
		return c.do(ctx, http.MethodGet, path, nil, out)
	})
}

// checkStatus enforces the body-level status contract.
func checkStatus(op string, status int) error {
	if status >= 200 && status < 300 {
		return nil
	}
	return fmt.Errorf("%s: backend status %d", op, status)
}
