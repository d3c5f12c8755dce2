package notify

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// ResendSender sends replies through the Resend API, for deployments
// whose OAuth grant has no Gmail send scope.
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender creates a new Resend-backed reply sender
func NewResendSender(apiKey, from string) *ResendSender {
	if apiKey == "" {
		return nil
	}
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

// IsConfigured returns true if the sender has server-side config
func (r *ResendSender) IsConfigured() bool {
	return r.client != nil && r.from != ""
}

// Send sends the reply with the invite attached
func (r *ResendSender) Send(ctx context.Context, reply *Reply) error {
	if reply.To == "" {
		return ErrNoRecipient
	}

	params := &resend.SendEmailRequest{
		From:    r.from,
		To:      []string{reply.To},
		Subject: reply.Subject,
		Text:    reply.Body,
	}

	// Resend cannot post into a Gmail thread, but the standard threading
	// headers still group the reply in the recipient's mail client.
	if reply.MessageID != "" {
		params.Headers = map[string]string{
			"In-Reply-To": reply.MessageID,
			"References":  reply.MessageID,
		}
	}

	if reply.Attachment.Filename != "" {
		params.Attachments = []*resend.Attachment{
			{
				Content:     reply.Attachment.Data,
				Filename:    reply.Attachment.Filename,
				ContentType: reply.Attachment.ContentType,
			},
		}
	}

	if _, err := r.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}

	return nil
}

// Name returns the sender name
func (r *ResendSender) Name() string {
	return "resend"
}
