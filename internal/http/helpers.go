// helpers.go - Shared HTTP utilities for automatic response cleanup.
//
// Centralizes the response-body cleanup that the token-exchange and Graph
// layers would otherwise repeat with manual defer resp.Body.Close()
// patterns. Keeping this in its own package avoids dependency cycles
// between internal/auth and internal/graph.

package http

import (
	"fmt"
	"io"
	"net/http"
)

// WithAutoCleanup executes fn with resp and guarantees the body is closed.
func WithAutoCleanup(resp *http.Response, fn func(*http.Response) error) error {
	if resp == nil {
		return fmt.Errorf("nil response provided")
	}
	defer resp.Body.Close()
	return fn(resp)
}

// ReadAllAndClose reads the entire response body and closes it.
func ReadAllAndClose(resp *http.Response) ([]byte, error) {
	var body []byte
	err := WithAutoCleanup(resp, func(resp *http.Response) error {
		data, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return readErr
		}
		body = data
		return nil
	})
	return body, err
}
