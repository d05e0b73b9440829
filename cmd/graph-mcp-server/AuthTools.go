// Copyright (c) 2025 graph-mcp contributors
//
// Licensed under the MIT License. See LICENSE file in the project root for full license information.

package main

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bcperry/graph-mcp/internal/auth"
	"github.com/bcperry/graph-mcp/internal/tools"
	"github.com/bcperry/graph-mcp/internal/utils"
)

// registerAuthTools registers identity and debugging tools. get_user_info
// never touches Graph: it answers from the caller's own token claims.
func registerAuthTools(s *server.MCPServer, deps *toolDeps) {
	// get_user_info: decode the caller's identity from the inbound token
	get_user_infoTool := mcp.NewTool(
		"get_user_info",
		mcp.WithDescription("Get information about the signed-in user from their token claims. Does not call Microsoft Graph."),
	)
	get_user_infoHandler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := utils.NewToolLogger("get_user_info")

		token, errResult := inboundToken(ctx, "get_user_info")
		if errResult != nil {
			return errResult, nil
		}

		claims := token.Claims
		response := map[string]interface{}{
			"azure_id":  claims.ObjectID,
			"email":     claims.PreferredUsername,
			"name":      claims.Name,
			"tenant_id": claims.TenantID,
			"subject":   claims.Subject,
			"scopes":    claims.Scopes(),
			"success":   true,
		}
		if claims.Email != "" {
			response["email"] = claims.Email
		}

		logger.LogSuccess("has_name", claims.Name != "")
		return utils.ToolResults.NewJSONResult("get_user_info", response), nil
	}
	s.AddTool(get_user_infoTool, get_user_infoHandler)
	deps.registry.RegisterTool(tools.Tool{
		Name:        "get_user_info",
		Description: "Identity claims from the caller's token",
		Toolset:     tools.ToolsetAuth,
	})

	// display_access_token: perform an exchange and return the resulting
	// Graph token to its owner. Debugging aid; the token belongs to the
	// caller, so returning it is not a disclosure.
	display_access_tokenTool := mcp.NewTool(
		"display_access_token",
		mcp.WithDescription("Exchange the caller's token for a Microsoft Graph access token and display it. Debugging tool."),
	)
	display_access_tokenHandler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := utils.NewToolLogger("display_access_token")

		token, errResult := inboundToken(ctx, "display_access_token")
		if errResult != nil {
			return errResult, nil
		}

		exchanged, err := deps.exchanger.Exchange(ctx, auth.ExchangeRequest{
			Assertion: token.Raw,
			Resource:  deps.env.GraphResource(),
			Scopes:    []string{"User.Read"},
		})
		if err != nil {
			logger.LogError(err)
			return utils.ToolResults.NewOutcomeError("display_access_token", err), nil
		}

		response := map[string]interface{}{
			"access_token":   exchanged.AccessToken,
			"expires_at":     exchanged.ExpiresAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
			"granted_scopes": exchanged.GrantedScopes,
			"resource":       exchanged.Resource,
			"success":        true,
		}

		logger.LogSuccess("granted_scope_count", len(exchanged.GrantedScopes))
		return utils.ToolResults.NewJSONResult("display_access_token", response), nil
	}
	s.AddTool(display_access_tokenTool, display_access_tokenHandler)
	deps.registry.RegisterTool(tools.Tool{
		Name:        "display_access_token",
		Description: "Exchanged Graph token details for debugging",
		Toolset:     tools.ToolsetAuth,
	})
}
