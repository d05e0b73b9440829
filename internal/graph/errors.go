// errors.go - Classification of Microsoft Graph call failures.

package graph

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/microsoftgraph/msgraph-sdk-go/models/odataerrors"

	"github.com/bcperry/graph-mcp/internal/auth"
	"github.com/bcperry/graph-mcp/internal/logging"
)

// UnavailableError indicates Microsoft Graph is temporarily unreachable:
// throttling, server errors, or a call timeout. Surfaced to the caller as
// a service-unavailable condition, distinct from an authorization denial.
type UnavailableError struct {
	StatusCode int
	Err        error
}

func (e *UnavailableError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("graph unavailable (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("graph unavailable: %v", e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// IsUnavailable reports whether err is a temporary Graph outage.
func IsUnavailable(err error) bool {
	var target *UnavailableError
	return errors.As(err, &target)
}

// ClassifyError maps a Graph SDK error into the error taxonomy:
// 401/403 become authorization failures, throttling and 5xx become
// UnavailableError, timeouts become UnavailableError, and anything else
// passes through with OData detail attached.
func ClassifyError(operation string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		logging.GraphLogger.Warn("Graph call timed out", "operation", operation)
		return &UnavailableError{Err: err}
	}

	var oErr *odataerrors.ODataError
	if errors.As(err, &oErr) {
		status := oErr.ResponseStatusCode
		code, message := odataDetail(oErr)

		switch {
		case status == http.StatusUnauthorized || status == http.StatusForbidden:
			logging.GraphLogger.Warn("Graph rejected the exchanged token",
				"operation", operation, "status_code", status, "odata_code", code)
			return &auth.AuthorizationError{Code: code, Description: message}
		case status == http.StatusTooManyRequests || status >= 500:
			logging.GraphLogger.Warn("Graph temporarily unavailable",
				"operation", operation, "status_code", status, "odata_code", code)
			return &UnavailableError{StatusCode: status, Err: err}
		default:
			return fmt.Errorf("%s failed (%s): %s", operation, code, message)
		}
	}

	return fmt.Errorf("%s failed: %w", operation, err)
}

func odataDetail(oErr *odataerrors.ODataError) (code, message string) {
	code, message = "unknown", oErr.Error()
	if mainErr := oErr.GetErrorEscaped(); mainErr != nil {
		if c := mainErr.GetCode(); c != nil {
			code = *c
		}
		if m := mainErr.GetMessage(); m != nil {
			message = *m
		}
	}
	return code, message
}
