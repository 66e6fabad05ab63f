package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"dentsync/pkg/errors"
	"dentsync/pkg/logger"
)

// Client is the shared HTTP plumbing for every remote repository. It carries
// the base URL and bearer token; one instance is built at startup and handed
// to each repository constructor.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// apiError is the remote API's error body. The message is surfaced verbatim,
// field details included when the server sends them.
type apiError struct {
	Message string            `json:"message"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Internal("Failed to encode request body", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return errors.Internal("Failed to build request", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("Clinic API %s %s failed: %v", method, path, err)
		return errors.Upstream("Clinic API is unreachable", http.StatusBadGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.mapError(method, path, resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Upstream("Failed to parse clinic API response", http.StatusBadGateway, err)
	}

	return nil
}

func (c *Client) mapError(method, path string, resp *http.Response) error {
	var body apiError
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	json.Unmarshal(raw, &body)

	message := body.Message
	if message == "" {
		message = body.Error
	}

	logger.Warn("Clinic API %s %s returned %d: %s", method, path, resp.StatusCode, message)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if message == "" {
			message = "Session token was rejected"
		}
		return errors.Unauthorized(message, nil)
	case http.StatusNotFound:
		if message == "" {
			message = fmt.Sprintf("Resource at %s", path)
		}
		return errors.NotFound(message, nil)
	default:
		return errors.Upstream(message, resp.StatusCode, nil)
	}
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) patch(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
