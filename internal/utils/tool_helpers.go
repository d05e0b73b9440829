// Copyright (c) 2025 graph-mcp contributors
//
// Licensed under the MIT License. See LICENSE file in the project root for full license information.

// tool_helpers.go - Common utilities for MCP tool handlers.
//
// Centralizes result creation, taxonomy-aware error shaping, and operation
// logging so every handler surfaces identity failures the same way. The
// error_type field in shaped results is the contract with MCP clients:
// "you're not authorized", "you must re-consent", and "the service is
// down" must stay distinguishable end to end.

package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bcperry/graph-mcp/internal/auth"
	"github.com/bcperry/graph-mcp/internal/graph"
	"github.com/bcperry/graph-mcp/internal/logging"
)

// Outcome error_type values surfaced to MCP clients.
const (
	ErrorTypeAuthorization       = "authorization"
	ErrorTypeInteractionRequired = "interaction_required"
	ErrorTypeUnavailable         = "service_unavailable"
	ErrorTypeConfiguration       = "configuration"
	ErrorTypeNotImplemented      = "not_implemented"
	ErrorTypeInternal            = "internal"
)

// ToolResult provides helper functions for creating consistent MCP tool results.
type ToolResult struct{}

// Global instance for easy access.
var ToolResults = ToolResult{}

// NewError creates a standardized error result.
func (tr ToolResult) NewError(operation string, err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("Failed to %s: %v", operation, err))
}

// NewJSONResult marshals data to JSON and returns a text result, or an
// error result if marshaling fails.
func (tr ToolResult) NewJSONResult(operation string, data interface{}) *mcp.CallToolResult {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		logging.ToolsLogger.Error("Failed to marshal JSON response", "operation", operation, "error", err)
		return tr.NewError(fmt.Sprintf("marshal %s response", operation), err)
	}
	return mcp.NewToolResultText(string(jsonBytes))
}

// NewOutcomeError maps an error from the auth/graph taxonomy to a shaped,
// machine-readable error result. The distinction between denial,
// re-consent, outage, and misconfiguration always reaches the caller.
func (tr ToolResult) NewOutcomeError(operation string, err error) *mcp.CallToolResult {
	payload := map[string]interface{}{
		"success":    false,
		"error_type": ErrorTypeInternal,
		"error":      err.Error(),
	}

	var interactionErr *auth.InteractionRequiredError
	var authErr *auth.AuthorizationError
	var transientErr *auth.TransientProviderError
	var unavailableErr *graph.UnavailableError
	var configErr *auth.ConfigurationError
	var notImplErr *auth.NotImplementedError

	switch {
	case errors.As(err, &interactionErr):
		payload["error_type"] = ErrorTypeInteractionRequired
		payload["error"] = "additional user interaction (consent or MFA) is required"
		if interactionErr.SubError != "" {
			payload["suberror"] = interactionErr.SubError
		}
		if interactionErr.Claims != "" {
			payload["claims_challenge"] = interactionErr.Claims
		}
	case errors.As(err, &authErr):
		payload["error_type"] = ErrorTypeAuthorization
	case errors.As(err, &transientErr):
		payload["error_type"] = ErrorTypeUnavailable
		payload["error"] = "the identity provider is temporarily unavailable"
	case errors.As(err, &unavailableErr):
		payload["error_type"] = ErrorTypeUnavailable
		payload["error"] = "Microsoft Graph is temporarily unavailable"
	case errors.As(err, &configErr):
		payload["error_type"] = ErrorTypeConfiguration
	case errors.As(err, &notImplErr):
		payload["error_type"] = ErrorTypeNotImplemented
	}

	jsonBytes, marshalErr := json.Marshal(payload)
	if marshalErr != nil {
		return tr.NewError(operation, err)
	}
	return mcp.NewToolResultError(string(jsonBytes))
}

// NewUnimplemented returns the tagged outcome for a declared-but-unbuilt
// tool. It is not an error result: callers must be able to tell "not
// built yet" apart from "failed".
func (tr ToolResult) NewUnimplemented(tool, message string) *mcp.CallToolResult {
	payload := map[string]interface{}{
		"success":    false,
		"error_type": ErrorTypeNotImplemented,
		"message":    message,
	}
	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("Tool %s is not implemented", tool))
	}
	return mcp.NewToolResultText(string(jsonBytes))
}

// MissingTokenResult is returned when no inbound bearer token accompanies
// the request, e.g. over stdio transport or an unauthenticated HTTP call.
func (tr ToolResult) MissingTokenResult(operation string) *mcp.CallToolResult {
	logging.ToolsLogger.Warn("Tool invoked without an inbound bearer token", "operation", operation)
	return tr.NewOutcomeError(operation, &auth.AuthorizationError{
		Code:        "invalid_request",
		Description: "no bearer token accompanied this request",
	})
}

// ToolLogger provides standardized logging for tool operations.
type ToolLogger struct {
	operation string
	startTime time.Time
}

// NewToolLogger creates a new tool logger for an operation.
func NewToolLogger(operation string) *ToolLogger {
	logging.ToolsLogger.Info("Starting tool operation", "operation", operation, "type", "tool_invocation")
	return &ToolLogger{
		operation: operation,
		startTime: time.Now(),
	}
}

// LogError logs an error with operation context.
func (tl *ToolLogger) LogError(err error, extraFields ...interface{}) {
	fields := []interface{}{"operation", tl.operation, "error", err}
	fields = append(fields, extraFields...)
	logging.ToolsLogger.Error("Tool operation failed", fields...)
}

// LogDebug logs debug information with operation context.
func (tl *ToolLogger) LogDebug(message string, extraFields ...interface{}) {
	fields := []interface{}{"operation", tl.operation}
	fields = append(fields, extraFields...)
	logging.ToolsLogger.Debug(message, fields...)
}

// LogSuccess logs successful completion with duration.
func (tl *ToolLogger) LogSuccess(extraFields ...interface{}) {
	fields := []interface{}{"operation", tl.operation, "duration", time.Since(tl.startTime)}
	fields = append(fields, extraFields...)
	logging.ToolsLogger.Debug("Tool operation completed successfully", fields...)
}
