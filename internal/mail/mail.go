// Copyright (c) 2025 graph-mcp contributors
//
// Licensed under the MIT License. See LICENSE file in the project root for full license information.

// mail.go - Mailbox operations for the Microsoft Graph API client.
//
// The listing call returns lightweight summaries (id, subject, sender,
// preview) so an assistant can discover messages cheaply; the detail call
// returns one full message by ID. Both use explicit $select projections
// and run under the client's call timeout. Requires the Mail.Read
// delegated scope.
//
// HTML bodies are additionally rendered to plain text and markdown so MCP
// clients get something readable without parsing HTML themselves.

package mail

import (
	"context"
	"log/slog"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/jaytaylor/html2text"
	"github.com/microsoftgraph/msgraph-sdk-go/models"
	"github.com/microsoftgraph/msgraph-sdk-go/users"

	"github.com/bcperry/graph-mcp/internal/graph"
	"github.com/bcperry/graph-mcp/internal/logging"
)

const (
	// DefaultPageSize is the number of summaries returned when the caller
	// does not ask for a specific count.
	DefaultPageSize = 25
	// MaxPageSize bounds a single listing call; callers page with repeated
	// calls instead of streaming an entire mailbox through one result.
	MaxPageSize = 50
)

var summarySelect = []string{"id", "subject", "from", "isRead", "receivedDateTime", "bodyPreview"}

var detailSelect = []string{
	"id", "subject", "from", "sender", "toRecipients", "ccRecipients", "bccRecipients",
	"receivedDateTime", "sentDateTime", "createdDateTime", "lastModifiedDateTime",
	"isRead", "isDraft", "importance", "bodyPreview", "body", "hasAttachments",
	"webLink", "inferenceClassification", "flag", "conversationId", "parentFolderId",
}

// Recipient is a shaped Graph emailAddress pair.
type Recipient struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
}

// MessageSummary is the lightweight shape returned by ListMessages.
type MessageSummary struct {
	ID               string     `json:"id"`
	Subject          string     `json:"subject"`
	From             *Recipient `json:"from,omitempty"`
	IsRead           *bool      `json:"isRead,omitempty"`
	ReceivedDateTime string     `json:"receivedDateTime,omitempty"`
	BodyPreview      string     `json:"bodyPreview,omitempty"`
}

// MessageBody is a message body with its raw content plus plain-text and
// markdown renderings for HTML content.
type MessageBody struct {
	ContentType string `json:"contentType,omitempty"`
	Content     string `json:"content,omitempty"`
	Text        string `json:"text,omitempty"`
	Markdown    string `json:"markdown,omitempty"`
}

// MessageDetail is the full shape returned by GetMessage.
type MessageDetail struct {
	ID                      string       `json:"id"`
	Subject                 string       `json:"subject"`
	From                    *Recipient   `json:"from,omitempty"`
	Sender                  *Recipient   `json:"sender,omitempty"`
	ToRecipients            []Recipient  `json:"toRecipients,omitempty"`
	CcRecipients            []Recipient  `json:"ccRecipients,omitempty"`
	BccRecipients           []Recipient  `json:"bccRecipients,omitempty"`
	ReceivedDateTime        string       `json:"receivedDateTime,omitempty"`
	SentDateTime            string       `json:"sentDateTime,omitempty"`
	CreatedDateTime         string       `json:"createdDateTime,omitempty"`
	LastModifiedDateTime    string       `json:"lastModifiedDateTime,omitempty"`
	IsRead                  *bool        `json:"isRead,omitempty"`
	IsDraft                 *bool        `json:"isDraft,omitempty"`
	Importance              string       `json:"importance,omitempty"`
	BodyPreview             string       `json:"bodyPreview,omitempty"`
	Body                    *MessageBody `json:"body,omitempty"`
	HasAttachments          *bool        `json:"hasAttachments,omitempty"`
	WebLink                 string       `json:"webLink,omitempty"`
	InferenceClassification string       `json:"inferenceClassification,omitempty"`
	FlagStatus              string       `json:"flagStatus,omitempty"`
	ConversationID          string       `json:"conversationId,omitempty"`
	ParentFolderID          string       `json:"parentFolderId,omitempty"`
}

// ListResult is a single page of message summaries.
type ListResult struct {
	Messages []MessageSummary
	HasMore  bool // a further page exists beyond this one
}

// MailClient provides mailbox operations for the Graph API client.
type MailClient struct {
	*graph.Client
}

// NewMailClient creates a new mail client.
func NewMailClient(client *graph.Client) *MailClient {
	return &MailClient{Client: client}
}

// ListMessages lists the newest messages in the user's mailbox, newest
// first. top is clamped to [1, MaxPageSize]; zero means DefaultPageSize.
func (c *MailClient) ListMessages(ctx context.Context, top int) (*ListResult, error) {
	top = ClampPageSize(top)
	logging.MailLogger.Debug("Listing mailbox messages", "top", top)

	callCtx, cancel := c.CallContext(ctx)
	defer cancel()

	top32 := int32(top)
	config := &users.ItemMessagesRequestBuilderGetRequestConfiguration{
		QueryParameters: &users.ItemMessagesRequestBuilderGetQueryParameters{
			Top:     &top32,
			Orderby: []string{"receivedDateTime DESC"},
			Select:  summarySelect,
		},
	}

	result, err := c.GraphClient.Me().Messages().Get(callCtx, config)
	if err != nil {
		return nil, graph.ClassifyError("list messages", err)
	}

	messages := make([]MessageSummary, 0, len(result.GetValue()))
	for _, m := range result.GetValue() {
		messages = append(messages, shapeSummary(m))
	}

	logging.MailLogger.Info("Listed mailbox messages",
		"count", len(messages),
		"has_more", result.GetOdataNextLink() != nil)

	return &ListResult{
		Messages: messages,
		HasMore:  result.GetOdataNextLink() != nil,
	}, nil
}

// GetMessage fetches one message by its immutable Graph ID.
func (c *MailClient) GetMessage(ctx context.Context, messageID string) (*MessageDetail, error) {
	logging.MailLogger.Debug("Fetching message", "message_id_length", len(messageID))

	callCtx, cancel := c.CallContext(ctx)
	defer cancel()

	config := &users.ItemMessagesMessageItemRequestBuilderGetRequestConfiguration{
		QueryParameters: &users.ItemMessagesMessageItemRequestBuilderGetQueryParameters{
			Select: detailSelect,
		},
	}

	message, err := c.GraphClient.Me().Messages().ByMessageId(messageID).Get(callCtx, config)
	if err != nil {
		return nil, graph.ClassifyError("get message", err)
	}

	detail := shapeDetail(message)
	logging.MailLogger.Info("Fetched message", "has_body", detail.Body != nil)
	if detail.Body != nil {
		logging.LogContent(logging.MailLogger, slog.LevelDebug, "Fetched message content",
			"content_type", detail.Body.ContentType,
			"content_length", len(detail.Body.Content),
			"content", detail.Body.Content)
	}
	return detail, nil
}

// ClampPageSize normalizes a requested page size into [1, MaxPageSize].
func ClampPageSize(top int) int {
	switch {
	case top <= 0:
		return DefaultPageSize
	case top > MaxPageSize:
		return MaxPageSize
	default:
		return top
	}
}

func shapeSummary(m models.Messageable) MessageSummary {
	return MessageSummary{
		ID:               deref(m.GetId()),
		Subject:          deref(m.GetSubject()),
		From:             shapeRecipient(m.GetFrom()),
		IsRead:           m.GetIsRead(),
		ReceivedDateTime: formatTime(m.GetReceivedDateTime()),
		BodyPreview:      deref(m.GetBodyPreview()),
	}
}

func shapeDetail(m models.Messageable) *MessageDetail {
	detail := &MessageDetail{
		ID:                   deref(m.GetId()),
		Subject:              deref(m.GetSubject()),
		From:                 shapeRecipient(m.GetFrom()),
		Sender:               shapeRecipient(m.GetSender()),
		ToRecipients:         shapeRecipients(m.GetToRecipients()),
		CcRecipients:         shapeRecipients(m.GetCcRecipients()),
		BccRecipients:        shapeRecipients(m.GetBccRecipients()),
		ReceivedDateTime:     formatTime(m.GetReceivedDateTime()),
		SentDateTime:         formatTime(m.GetSentDateTime()),
		CreatedDateTime:      formatTime(m.GetCreatedDateTime()),
		LastModifiedDateTime: formatTime(m.GetLastModifiedDateTime()),
		IsRead:               m.GetIsRead(),
		IsDraft:              m.GetIsDraft(),
		BodyPreview:          deref(m.GetBodyPreview()),
		Body:                 shapeBody(m.GetBody()),
		HasAttachments:       m.GetHasAttachments(),
		WebLink:              deref(m.GetWebLink()),
		ConversationID:       deref(m.GetConversationId()),
		ParentFolderID:       deref(m.GetParentFolderId()),
	}

	if importance := m.GetImportance(); importance != nil {
		detail.Importance = importance.String()
	}
	if classification := m.GetInferenceClassification(); classification != nil {
		detail.InferenceClassification = classification.String()
	}
	if flag := m.GetFlag(); flag != nil && flag.GetFlagStatus() != nil {
		detail.FlagStatus = flag.GetFlagStatus().String()
	}

	return detail
}

// shapeBody carries the raw body through and, for HTML content, renders
// plain-text and markdown views.
func shapeBody(body models.ItemBodyable) *MessageBody {
	if body == nil {
		return nil
	}

	shaped := &MessageBody{Content: deref(body.GetContent())}
	if contentType := body.GetContentType(); contentType != nil {
		shaped.ContentType = contentType.String()
	}

	if shaped.ContentType == "html" && shaped.Content != "" {
		if text, err := html2text.FromString(shaped.Content, html2text.Options{OmitLinks: false}); err != nil {
			logging.MailLogger.Warn("Failed to render message body to text", "error", err)
		} else {
			shaped.Text = text
		}

		converter := md.NewConverter("", true, nil)
		if markdown, err := converter.ConvertString(shaped.Content); err != nil {
			logging.MailLogger.Warn("Failed to render message body to markdown", "error", err)
		} else {
			shaped.Markdown = markdown
		}

		logging.LogContent(logging.MailLogger, slog.LevelDebug, "Rendered message body",
			"text_length", len(shaped.Text),
			"markdown_length", len(shaped.Markdown),
			"text", shaped.Text)
	}

	return shaped
}

func shapeRecipient(r models.Recipientable) *Recipient {
	if r == nil || r.GetEmailAddress() == nil {
		return nil
	}
	addr := r.GetEmailAddress()
	return &Recipient{
		Name:    deref(addr.GetName()),
		Address: deref(addr.GetAddress()),
	}
}

func shapeRecipients(rs []models.Recipientable) []Recipient {
	if len(rs) == 0 {
		return nil
	}
	shaped := make([]Recipient, 0, len(rs))
	for _, r := range rs {
		if rec := shapeRecipient(r); rec != nil {
			shaped = append(shaped, *rec)
		}
	}
	return shaped
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
