package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/oakmed/carebook/pkg/idx"
)

// doRequest performs one HTTP request. A JSON body is marshaled from in when
// non-nil; every request gets an X-Request-ID for backend log correlation.
// The default bearer credential is attached unless the caller already set an
// Authorization header of their own.
func (c *Client) doRequest(
	ctx context.Context,
	method, path string,
	in any,
	headers map[string]string,
) (*http.Response, error) {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", idx.New().String())

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	// Attach the default credential, but never clobber a caller-supplied
	// Authorization header.
	if req.Header.Get("Authorization") == "" {
		if token := c.Credential(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, classifyTransport(err)
	}

	return resp, nil
}

// decodeJSON reads the response body, turning non-expected statuses into a
// typed *APIError and decoding successful bodies into target. A nil target
// drains and discards the body.
func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return classifyResponse(resp, bodyBytes)
	}

	if target == nil {
		return nil
	}

	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// get is the common GET-and-decode path.
func (c *Client) get(ctx context.Context, path string, target any) error {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return err
	}
	return decodeJSON(resp, target, http.StatusOK)
}

// patch is the common PATCH-and-decode path for status transitions.
func (c *Client) patch(ctx context.Context, path string, in, target any) error {
	resp, err := c.doRequest(ctx, http.MethodPatch, path, in, nil)
	if err != nil {
		return err
	}
	return decodeJSON(resp, target, http.StatusOK)
}
