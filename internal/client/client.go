// Package client talks to the expense REST API and mirrors its state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tracker/internal/core"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// Unwrap maps the status onto the matching core sentinel so callers can use
// errors.Is on either side of the wire.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusBadRequest:
		if strings.EqualFold(e.Message, core.ErrInvalidInput.Error()) {
			return core.ErrInvalidInput
		}
		return core.ErrMissingFields
	case http.StatusNotFound:
		return core.ErrNotFound
	}
	return nil
}

// Client is a thin JSON client for /api/expenses.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient targets the server at baseURL (for example http://localhost:5000).
// A nil httpClient gets a client with a 15 second timeout.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parse base url: unsupported scheme %q", u.Scheme)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: u.String(), httpClient: httpClient}, nil
}

func (c *Client) List(ctx context.Context) ([]core.Expense, error) {
	var out []core.Expense
	if err := c.doJSON(ctx, http.MethodGet, "/api/expenses", nil, &out); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	if out == nil {
		out = []core.Expense{}
	}
	return out, nil
}

func (c *Client) Create(ctx context.Context, f core.Fields) (core.Expense, error) {
	var out core.Expense
	if err := c.doJSON(ctx, http.MethodPost, "/api/expenses", f, &out); err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	return out, nil
}

func (c *Client) Update(ctx context.Context, id int64, f core.Fields) (core.Expense, error) {
	var out core.Expense
	if err := c.doJSON(ctx, http.MethodPut, expensePath(id), f, &out); err != nil {
		return core.Expense{}, fmt.Errorf("update expense %d: %w", id, err)
	}
	return out, nil
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	if err := c.doJSON(ctx, http.MethodDelete, expensePath(id), nil, nil); err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	return nil
}

func (c *Client) Summary(ctx context.Context) (core.Breakdown, error) {
	var out core.Breakdown
	if err := c.doJSON(ctx, http.MethodGet, "/api/expenses/summary", nil, &out); err != nil {
		return core.Breakdown{}, fmt.Errorf("summarize expenses: %w", err)
	}
	return out, nil
}

// ExportCSV downloads the CSV document as served.
func (c *Client) ExportCSV(ctx context.Context) ([]byte, error) {
	resp, err := c.send(ctx, http.MethodGet, "/api/expenses/csv", nil)
	if err != nil {
		return nil, fmt.Errorf("export expenses: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("export expenses: read body: %w", err)
	}
	return body, nil
}

func expensePath(id int64) string {
	return "/api/expenses/" + strconv.FormatInt(id, 10)
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// send performs the request and turns non-2xx answers into *APIError. The
// caller owns the body of a successful response.
func (c *Client) send(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	var payload struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
		apiErr.Message = payload.Error
	}
	return nil, apiErr
}
