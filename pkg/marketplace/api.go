package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// APIError is the error body returned by the marketplace API
type APIError struct {
	Name       string `json:"error"`
	Code       int    `json:"code"`
	Message    string `json:"msg"`
	Cause      string `json:"cause,omitempty"`
	HTTPStatus int    `json:"status"`
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("marketplace api error %d (%s): %s", e.Code, e.Name, e.Message)
	if e.Cause != "" {
		msg += ": " + e.Cause
	}
	return msg
}

// IsAPIError reports whether err carries an APIError with the given code
func IsAPIError(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// call posts body to the named method and decodes the response into out
func (c *Client) call(ctx context.Context, method string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", method, err)
	}

	url := c.endpoint + "/" + method
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.accessKey != "" {
		req.Header.Set("X-Access-Key", c.accessKey)
	}

	c.log.Debug("calling marketplace api", "method", method)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{}
		if err := json.Unmarshal(respBody, apiErr); err != nil || apiErr.Message == "" {
			return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(respBody))
		}
		if apiErr.HTTPStatus == 0 {
			apiErr.HTTPStatus = resp.StatusCode
		}
		c.log.Debug("marketplace api returned an error", "method", method, "code", apiErr.Code, "status", apiErr.HTTPStatus)
		return apiErr
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	return nil
}
