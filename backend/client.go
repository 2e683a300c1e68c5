// Package backend is the HTTP client for the attendance backend's
// record and history endpoints.
package backend

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

	"overtime-ui/models"
)

// ErrUnexpectedStatus is wrapped by a TransportError when the backend
// answers with a non-2xx status and no result body.
var ErrUnexpectedStatus = errors.New("unexpected status")

// TransportError is a network, status or decoding failure. Application
// failures (success=false) are reported through result values instead.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CurrentMonth fetches the current month's records and aggregates.
func (c *Client) CurrentMonth(ctx context.Context) (*models.MonthSummary, error) {
	var out models.MonthSummary
	if err := c.do(ctx, "current month", http.MethodGet, "/api/records", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) History(ctx context.Context) ([]models.HistoryEntry, error) {
	var out models.HistoryResponse
	if err := c.do(ctx, "history", http.MethodGet, "/api/history", nil, &out); err != nil {
		return nil, err
	}
	return out.History, nil
}

func (c *Client) Record(ctx context.Context, date string) (*models.RecordResult, error) {
	var out models.RecordResult
	if err := c.do(ctx, "get record", http.MethodGet, recordPath(date), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateRecord(ctx context.Context, p models.RecordPayload) (*models.WriteResult, error) {
	var out models.WriteResult
	if err := c.do(ctx, "create record", http.MethodPost, "/api/record", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateRecord addresses the record by date, which is the original date
// of the edit session rather than the payload's date.
func (c *Client) UpdateRecord(ctx context.Context, date string, p models.RecordPayload) (*models.WriteResult, error) {
	var out models.WriteResult
	if err := c.do(ctx, "update record", http.MethodPut, recordPath(date), p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteRecord(ctx context.Context, date string) (*models.WriteResult, error) {
	var out models.WriteResult
	if err := c.do(ctx, "delete record", http.MethodDelete, recordPath(date), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func recordPath(date string) string {
	return "/api/record/" + url.PathEscape(date)
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Op: op, Err: err}
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// A result body ({"success":false,"message":...}) is an application
		// failure whatever the status.
		if isResultBody(out, data) && json.Unmarshal(data, out) == nil {
			return nil
		}
		return &TransportError{Op: op, Err: fmt.Errorf("%w %d", ErrUnexpectedStatus, resp.StatusCode)}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func isResultBody(out any, data []byte) bool {
	switch out.(type) {
	case *models.WriteResult, *models.RecordResult:
	default:
		return false
	}
	var probe struct {
		Success *bool `json:"success"`
	}
	return json.Unmarshal(data, &probe) == nil && probe.Success != nil
}
