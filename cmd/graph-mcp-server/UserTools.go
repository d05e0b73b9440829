// Copyright (c) 2025 graph-mcp contributors
//
// Licensed under the MIT License. See LICENSE file in the project root for full license information.

package main

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bcperry/graph-mcp/internal/tools"
	"github.com/bcperry/graph-mcp/internal/users"
	"github.com/bcperry/graph-mcp/internal/utils"
)

// registerUserTools registers tools backed by the Graph /me profile.
func registerUserTools(s *server.MCPServer, deps *toolDeps) {
	// greet_user: fetch the caller's profile as themselves and greet them
	greet_userTool := mcp.NewTool(
		"greet_user",
		mcp.WithDescription("Greet the signed-in user by name using their Microsoft Graph profile. Requires the User.Read scope."),
	)
	greet_userHandler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := utils.NewToolLogger("greet_user")

		client, errResult := graphClientForRequest(ctx, deps, "greet_user", []string{"User.Read"})
		if errResult != nil {
			return errResult, nil
		}

		profile, err := users.NewProfileClient(client).GetMe(ctx)
		if err != nil {
			logger.LogError(err)
			return utils.ToolResults.NewOutcomeError("greet_user", err), nil
		}

		name := profile.DisplayName
		if name == "" {
			name = "there"
		}
		response := map[string]interface{}{
			"greeting":     fmt.Sprintf("Hello, %s!", name),
			"display_name": profile.DisplayName,
			"email":        profile.Email(),
			"success":      true,
		}

		logger.LogSuccess("has_display_name", profile.DisplayName != "")
		return utils.ToolResults.NewJSONResult("greet_user", response), nil
	}
	s.AddTool(greet_userTool, greet_userHandler)
	deps.registry.RegisterTool(tools.Tool{
		Name:        "greet_user",
		Description: "Personalized greeting from the user's Graph profile",
		Toolset:     tools.ToolsetUsers,
	})
}
