package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Client wraps the Gmail API client
type Client struct {
	service *gmail.Service
	token   *oauth2.Token
	config  *oauth2.Config
}

// Email represents a parsed email message
type Email struct {
	ID         string
	ThreadID   string
	Subject    string
	From       string
	To         string
	Date       string
	ReceivedAt time.Time
	Body       string // Plain text body
	Snippet    string
	Labels     []string
	MessageID  string // RFC 2822 Message-ID header
}

// NewClient creates a new Gmail client from an OAuth2 config and token
func NewClient(config *oauth2.Config, token *oauth2.Token) (*Client, error) {
	if token == nil {
		return nil, fmt.Errorf("no token available")
	}

	client := &Client{
		config: config,
		token:  token,
	}

	if err := client.initService(context.Background()); err != nil {
		return nil, err
	}

	return client, nil
}

// initService initializes the Gmail service with the current token
func (c *Client) initService(ctx context.Context) error {
	httpClient := c.config.Client(ctx, c.token)
	service, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return fmt.Errorf("failed to create Gmail service: %w", err)
	}

	c.service = service
	return nil
}

// IsAuthenticated returns true if the client has a valid service
func (c *Client) IsAuthenticated() bool {
	return c != nil && c.service != nil
}

// ListMessages retrieves messages matching the query
// query follows Gmail search syntax (e.g., "is:unread", "from:user@example.com", "label:INBOX")
func (c *Client) ListMessages(query string, maxResults int64) ([]*gmail.Message, error) {
	if c.service == nil {
		return nil, fmt.Errorf("Gmail service not initialized")
	}

	call := c.service.Users.Messages.List("me").Q(query).MaxResults(maxResults)
	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	return resp.Messages, nil
}

// GetMessage retrieves a full message by ID
func (c *Client) GetMessage(messageID string) (*Email, error) {
	if c.service == nil {
		return nil, fmt.Errorf("Gmail service not initialized")
	}

	msg, err := c.service.Users.Messages.Get("me", messageID).Format("full").Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}

	return parseMessage(msg), nil
}

// MarkRead removes the UNREAD label from a message so the next poll
// does not pick it up again.
func (c *Client) MarkRead(messageID string) error {
	if c.service == nil {
		return fmt.Errorf("Gmail service not initialized")
	}

	req := &gmail.ModifyMessageRequest{
		RemoveLabelIds: []string{"UNREAD"},
	}
	_, err := c.service.Users.Messages.Modify("me", messageID, req).Do()
	if err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}

	return nil
}

// SendRaw sends a fully assembled RFC 2822 message. A non-empty threadID
// keeps the reply in the original conversation. Returns the sent message ID.
func (c *Client) SendRaw(threadID string, raw []byte) (string, error) {
	if c.service == nil {
		return "", fmt.Errorf("Gmail service not initialized")
	}

	msg := &gmail.Message{
		Raw:      base64.URLEncoding.EncodeToString(raw),
		ThreadId: threadID,
	}

	sent, err := c.service.Users.Messages.Send("me", msg).Do()
	if err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}

	return sent.Id, nil
}

// parseMessage converts a Gmail API message to our Email struct
func parseMessage(msg *gmail.Message) *Email {
	email := &Email{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		Snippet:  msg.Snippet,
		Labels:   msg.LabelIds,
	}

	// Gmail internal date is epoch milliseconds in UTC.
	if msg.InternalDate > 0 {
		email.ReceivedAt = time.Unix(0, msg.InternalDate*int64(time.Millisecond)).UTC()
	}

	// Extract headers
	for _, header := range msg.Payload.Headers {
		switch strings.ToLower(header.Name) {
		case "subject":
			email.Subject = header.Value
		case "from":
			email.From = header.Value
		case "to":
			email.To = header.Value
		case "date":
			email.Date = header.Value
		case "message-id":
			email.MessageID = header.Value
		}
	}

	// Some relays omit the internal date; fall back to the Date header,
	// which arrives in whatever format the sending server liked.
	if email.ReceivedAt.IsZero() && email.Date != "" {
		if t, err := dateparse.ParseAny(email.Date); err == nil {
			email.ReceivedAt = t.UTC()
		}
	}

	// Extract body
	email.Body = extractBody(msg.Payload)

	return email
}

// extractBody extracts plain text body from message payload
func extractBody(payload *gmail.MessagePart) string {
	// First try to find plain text part
	if payload.MimeType == "text/plain" {
		return decodeBase64(payload.Body.Data)
	}

	// Check multipart messages
	for _, part := range payload.Parts {
		if part.MimeType == "text/plain" {
			return decodeBase64(part.Body.Data)
		}
		// Recursively check nested parts
		if len(part.Parts) > 0 {
			if body := extractBodyFromParts(part.Parts); body != "" {
				return body
			}
		}
	}

	// Fallback to HTML if no plain text found
	for _, part := range payload.Parts {
		if part.MimeType == "text/html" {
			return decodeBase64(part.Body.Data)
		}
	}

	// Last resort: use the body data directly if available
	if payload.Body != nil && payload.Body.Data != "" {
		return decodeBase64(payload.Body.Data)
	}

	return ""
}

// extractBodyFromParts recursively extracts body from message parts
func extractBodyFromParts(parts []*gmail.MessagePart) string {
	for _, part := range parts {
		if part.MimeType == "text/plain" {
			return decodeBase64(part.Body.Data)
		}
		if len(part.Parts) > 0 {
			if body := extractBodyFromParts(part.Parts); body != "" {
				return body
			}
		}
	}
	return ""
}

// decodeBase64 decodes base64 URL-encoded data
func decodeBase64(data string) string {
	if data == "" {
		return ""
	}
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		// Try standard base64
		decoded, err = base64.StdEncoding.DecodeString(data)
		if err != nil {
			return ""
		}
	}
	return string(decoded)
}
