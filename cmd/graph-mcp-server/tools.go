package main

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bcperry/graph-mcp/internal/auth"
	"github.com/bcperry/graph-mcp/internal/config"
	"github.com/bcperry/graph-mcp/internal/graph"
	"github.com/bcperry/graph-mcp/internal/logging"
	"github.com/bcperry/graph-mcp/internal/tools"
	"github.com/bcperry/graph-mcp/internal/utils"
)

// toolDeps carries the shared dependencies every tool handler needs: the
// token exchanger, the resolved cloud environment, and the loaded config.
type toolDeps struct {
	exchanger auth.Exchanger
	env       graph.Environment
	cfg       *config.Config
	registry  *tools.ToolsetRegistry
}

// registerTools registers all MCP tools for the Graph server, honoring the
// configured toolsets.
func registerTools(s *server.MCPServer, deps *toolDeps) {
	deps.registry = tools.NewToolsetRegistry(deps.cfg.Toolsets)
	logging.ToolsLogger.Debug("Starting tool registration", "toolsets", deps.cfg.Toolsets)

	if deps.registry.ToolsetEnabled(tools.ToolsetAuth) {
		registerAuthTools(s, deps)
	}
	if deps.registry.ToolsetEnabled(tools.ToolsetUsers) {
		registerUserTools(s, deps)
	}
	if deps.registry.ToolsetEnabled(tools.ToolsetMail) {
		registerMailTools(s, deps)
	}

	logging.ToolsLogger.Debug("All tools registered successfully",
		"tool_count", len(deps.registry.ListTools()))
}

// inboundToken pulls the caller's bearer token off the request context.
// Returns a shaped authorization result when none is present.
func inboundToken(ctx context.Context, operation string) (auth.InboundToken, *mcp.CallToolResult) {
	token, ok := auth.InboundTokenFromContext(ctx)
	if !ok || token.Raw == "" {
		return auth.InboundToken{}, utils.ToolResults.MissingTokenResult(operation)
	}
	return token, nil
}

// graphClientForRequest runs the full per-request pipeline: inbound token
// from context, On-Behalf-Of exchange for the given scopes, and a Graph
// client bound to the exchanged token. Any failure comes back as a shaped
// tool result; the handler just returns it.
func graphClientForRequest(ctx context.Context, deps *toolDeps, operation string, scopes []string) (*graph.Client, *mcp.CallToolResult) {
	token, errResult := inboundToken(ctx, operation)
	if errResult != nil {
		return nil, errResult
	}

	exchanged, err := deps.exchanger.Exchange(ctx, auth.ExchangeRequest{
		Assertion: token.Raw,
		Resource:  deps.env.GraphResource(),
		Scopes:    scopes,
	})
	if err != nil {
		logging.ToolsLogger.Warn("Token exchange failed", "operation", operation, "scopes", scopes)
		return nil, utils.ToolResults.NewOutcomeError(operation, err)
	}

	client, err := graph.NewClient(exchanged, deps.env)
	if err != nil {
		return nil, utils.ToolResults.NewOutcomeError(operation, err)
	}
	return client, nil
}
