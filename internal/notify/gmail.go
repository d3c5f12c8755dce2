package notify

import (
	"context"
	"fmt"
	"time"
)

// RawSender sends a fully assembled RFC 2822 message
type RawSender interface {
	SendRaw(threadID string, raw []byte) (string, error)
}

// GmailSender replies through the Gmail API so the answer lands in the
// original conversation.
type GmailSender struct {
	mail RawSender
	from string
}

// NewGmailSender creates a Gmail-backed reply sender. An empty from lets
// Gmail use the authenticated account's address.
func NewGmailSender(mail RawSender, from string) *GmailSender {
	return &GmailSender{mail: mail, from: from}
}

// IsConfigured returns true if the sender has server-side config
func (g *GmailSender) IsConfigured() bool {
	return g.mail != nil
}

// Send delivers the reply in the original Gmail thread
func (g *GmailSender) Send(ctx context.Context, reply *Reply) error {
	if reply.To == "" {
		return ErrNoRecipient
	}

	raw, err := buildReplyMIME(g.from, reply, time.Now())
	if err != nil {
		return err
	}

	if _, err := g.mail.SendRaw(reply.ThreadID, raw); err != nil {
		return fmt.Errorf("gmail send failed: %w", err)
	}

	return nil
}

// Name returns the sender name
func (g *GmailSender) Name() string {
	return "gmail"
}
