// Copyright (c) 2025 graph-mcp contributors
//
// Licensed under the MIT License. See LICENSE file in the project root for full license information.

package main

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bcperry/graph-mcp/internal/mail"
	"github.com/bcperry/graph-mcp/internal/tools"
	"github.com/bcperry/graph-mcp/internal/utils"
)

// registerMailTools registers mailbox tools. All of them require the
// Mail.Read delegated scope; send_email_message is declared but not built.
func registerMailTools(s *server.MCPServer, deps *toolDeps) {
	// list_email_messages: newest messages as lightweight summaries
	list_email_messagesTool := mcp.NewTool(
		"list_email_messages",
		mcp.WithDescription("List the newest messages in the signed-in user's mailbox, newest first. Returns summaries (id, subject, sender, preview). Requires the Mail.Read scope."),
		mcp.WithNumber("count",
			mcp.Description("Number of messages to return (1-50, default 25)"),
			mcp.Min(1),
			mcp.Max(float64(mail.MaxPageSize)),
		),
	)
	list_email_messagesHandler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := utils.NewToolLogger("list_email_messages")

		count := req.GetInt("count", mail.DefaultPageSize)

		client, errResult := graphClientForRequest(ctx, deps, "list_email_messages", []string{"Mail.Read"})
		if errResult != nil {
			return errResult, nil
		}

		result, err := mail.NewMailClient(client).ListMessages(ctx, count)
		if err != nil {
			logger.LogError(err)
			return utils.ToolResults.NewOutcomeError("list_email_messages", err), nil
		}

		response := map[string]interface{}{
			"messages": result.Messages,
			"count":    len(result.Messages),
			"has_more": result.HasMore,
			"success":  true,
		}

		logger.LogSuccess("count", len(result.Messages), "has_more", result.HasMore)
		return utils.ToolResults.NewJSONResult("list_email_messages", response), nil
	}
	s.AddTool(list_email_messagesTool, list_email_messagesHandler)
	deps.registry.RegisterTool(tools.Tool{
		Name:        "list_email_messages",
		Description: "Newest mailbox messages, summaries only",
		Toolset:     tools.ToolsetMail,
	})

	// get_email_message: one full message by ID
	get_email_messageTool := mcp.NewTool(
		"get_email_message",
		mcp.WithDescription("Get one email message by its ID, including the full body with plain-text and markdown renderings. Requires the Mail.Read scope."),
		mcp.WithString("message_id",
			mcp.Required(),
			mcp.Description("The Graph message ID, exactly as returned by list_email_messages"),
		),
	)
	get_email_messageHandler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := utils.NewToolLogger("get_email_message")

		messageID, err := req.RequireString("message_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		client, errResult := graphClientForRequest(ctx, deps, "get_email_message", []string{"Mail.Read"})
		if errResult != nil {
			return errResult, nil
		}

		detail, err := mail.NewMailClient(client).GetMessage(ctx, messageID)
		if err != nil {
			logger.LogError(err)
			return utils.ToolResults.NewOutcomeError("get_email_message", err), nil
		}

		response := map[string]interface{}{
			"message": detail,
			"success": true,
		}

		logger.LogSuccess("has_body", detail.Body != nil)
		return utils.ToolResults.NewJSONResult("get_email_message", response), nil
	}
	s.AddTool(get_email_messageTool, get_email_messageHandler)
	deps.registry.RegisterTool(tools.Tool{
		Name:        "get_email_message",
		Description: "One full message by ID",
		Toolset:     tools.ToolsetMail,
	})

	// send_email_message: declared so clients can discover it, but sending
	// is not built. Returns a tagged not_implemented outcome rather than a
	// generic failure.
	send_email_messageTool := mcp.NewTool(
		"send_email_message",
		mcp.WithDescription("Send an email message as the signed-in user. Not implemented yet."),
		mcp.WithString("to", mcp.Description("Recipient email address")),
		mcp.WithString("subject", mcp.Description("Message subject")),
		mcp.WithString("body", mcp.Description("Message body")),
	)
	send_email_messageHandler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := utils.NewToolLogger("send_email_message")
		logger.LogDebug("Declined unimplemented tool invocation")
		return utils.ToolResults.NewUnimplemented("send_email_message",
			"Sending email is not implemented. Use list_email_messages and get_email_message to read mail."), nil
	}
	s.AddTool(send_email_messageTool, send_email_messageHandler)
	deps.registry.RegisterTool(tools.Tool{
		Name:        "send_email_message",
		Description: "Send an email message (not implemented)",
		Toolset:     tools.ToolsetMail,
	})
}
