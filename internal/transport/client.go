// Package transport executes requests against the cleaning backend.
//
// Every failure leaving this package is a *core.RequestError: non-2xx
// responses carry the backend's "detail" message, and network or encoding
// failures are normalized the same way. Callers never see raw transport
// errors, although the cause stays reachable through errors.Is.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/JonMunkholm/cleanmind/internal/core"
)

// maxErrorBody bounds how much of a failed response is read for its detail.
const maxErrorBody = 1 << 20

// Options describes a single request. JSON and Body are mutually exclusive.
type Options struct {
	// Method defaults to GET.
	Method string

	// JSON is serialized as the request body with Content-Type application/json.
	JSON any

	// Body is sent unmodified, e.g. a multipart form.
	Body io.Reader

	// ContentType is set when Body is used.
	ContentType string
}

// Result is a successful response. Exactly one of JSON or Response is set:
// JSON holds the body of an application/json response, Response is the
// untouched handle for anything else and must be closed by the caller.
type Result struct {
	Status   int
	JSON     json.RawMessage
	Response *http.Response
}

// Client is a stateless request executor bound to a base URL.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for baseURL. A zero timeout disables it.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// URL resolves a relative endpoint path against the base URL.
func (c *Client) URL(path string) string {
	return c.baseURL + path
}

// Request executes a request and negotiates the response representation.
func (c *Client) Request(ctx context.Context, path string, opts Options) (*Result, error) {
	if opts.JSON != nil && opts.Body != nil {
		return nil, &core.RequestError{Message: "Request failed: JSON and raw bodies are mutually exclusive"}
	}

	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	body := opts.Body
	if opts.JSON != nil {
		data, err := json.Marshal(opts.JSON)
		if err != nil {
			return nil, requestFailed(err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), body)
	if err != nil {
		return nil, requestFailed(err)
	}

	req.Header.Set("Accept", "application/json")
	switch {
	case opts.JSON != nil:
		req.Header.Set("Content-Type", "application/json")
	case opts.ContentType != "":
		req.Header.Set("Content-Type", opts.ContentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, requestFailed(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, errorFromResponse(resp)
	}

	if !isJSON(resp.Header.Get("Content-Type")) {
		return &Result{Status: resp.StatusCode, Response: resp}, nil
	}

	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &core.RequestError{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("Request failed: %v", err),
			Err:     err,
		}
	}

	return &Result{Status: resp.StatusCode, JSON: data}, nil
}

// requestFailed normalizes a transport-level failure.
func requestFailed(err error) *core.RequestError {
	return &core.RequestError{
		Message: fmt.Sprintf("Request failed: %v", err),
		Err:     err,
	}
}

// errorFromResponse resolves the message of a failed response from its
// "detail" field: strings verbatim, other values serialized, anything
// missing or undecodable replaced by the status code.
func errorFromResponse(resp *http.Response) *core.RequestError {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return core.NewRequestError(resp.StatusCode)
	}

	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return core.NewRequestError(resp.StatusCode)
	}

	msg, ok := detailMessage(payload.Detail)
	if !ok {
		return core.NewRequestError(resp.StatusCode)
	}

	return &core.RequestError{Status: resp.StatusCode, Message: msg}
}

func detailMessage(raw json.RawMessage) (string, bool) {
	var detail any
	if err := json.Unmarshal(raw, &detail); err != nil {
		return "", false
	}

	// Absent, null, false, "" and numeric zero all mean no detail.
	switch d := detail.(type) {
	case nil:
		return "", false
	case bool:
		if !d {
			return "", false
		}
	case string:
		return d, d != ""
	case float64:
		if d == 0 {
			return "", false
		}
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, bytes.TrimSpace(raw)); err != nil {
		return "", false
	}
	return buf.String(), true
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(contentType, "application/json")
	}
	return mediaType == "application/json"
}
