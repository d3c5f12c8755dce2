package processor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/replycal/replycal/internal/claude"
	"github.com/replycal/replycal/internal/database"
	"github.com/replycal/replycal/internal/event"
	"github.com/replycal/replycal/internal/gmail"
	"github.com/replycal/replycal/internal/invite"
	"github.com/replycal/replycal/internal/notify"
)

// Extractor asks the model to pull event details out of an email
type Extractor interface {
	Complete(ctx context.Context, req claude.ExtractionRequest) (string, error)
	IsConfigured() bool
}

// Store keeps the audit trail of sent invites
type Store interface {
	RecordInvite(inv database.Invite) error
}

// Result is everything extraction derives from one email
type Result struct {
	Event     *event.Record
	Invite    string
	ReplyBody string
}

// Processor turns an email into a calendar invite reply
type Processor struct {
	extractor Extractor
	sender    notify.Sender
	store     Store
	logger    *slog.Logger
	now       func() time.Time
}

// New creates a new email processor
func New(extractor Extractor, sender notify.Sender, store Store, logger *slog.Logger) *Processor {
	return &Processor{
		extractor: extractor,
		sender:    sender,
		store:     store,
		logger:    logger,
		now:       time.Now,
	}
}

// Extract runs the model over an email and renders the invite and reply
// text. Nothing is sent; Process does that.
func (p *Processor) Extract(ctx context.Context, email *gmail.Email) (*Result, error) {
	if p.extractor == nil || !p.extractor.IsConfigured() {
		return nil, fmt.Errorf("extraction model not configured")
	}

	body := gmail.CleanEmailBody(email.Body)

	req := claude.BuildExtractionRequest(claude.EmailContent{
		Subject: email.Subject,
		From:    email.From,
		Body:    body,
	}, p.now())

	reply, err := p.extractor.Complete(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}

	rec, err := event.Parse(reply)
	if err != nil {
		return nil, fmt.Errorf("unusable extraction: %w", err)
	}

	doc, err := invite.Render(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to render invite: %w", err)
	}

	replyBody, err := invite.ReplyBody(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to build reply body: %w", err)
	}

	return &Result{Event: rec, Invite: doc, ReplyBody: replyBody}, nil
}

// Process handles one email end to end: extract the event, reply with the
// invite attached, and record the invite.
func (p *Processor) Process(ctx context.Context, email *gmail.Email) error {
	if p.sender == nil || !p.sender.IsConfigured() {
		return fmt.Errorf("reply sender not configured")
	}

	p.logger.Info("processing email",
		"message_id", email.ID,
		"from", gmail.ExtractSenderEmail(email.From),
		"subject", truncate(email.Subject, 50))

	result, err := p.Extract(ctx, email)
	if err != nil {
		return err
	}

	recipient := gmail.ExtractSenderEmail(email.From)
	if recipient == "" {
		return fmt.Errorf("message %s: %w", email.ID, notify.ErrNoRecipient)
	}

	reply := &notify.Reply{
		To:        recipient,
		Subject:   notify.ReplySubject(email.Subject),
		Body:      result.ReplyBody,
		ThreadID:  email.ThreadID,
		MessageID: email.MessageID,
		Attachment: notify.Attachment{
			Filename:    invite.Filename,
			ContentType: invite.MIMEType,
			Data:        []byte(result.Invite),
		},
	}

	if err := p.sender.Send(ctx, reply); err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}

	p.logger.Info("invite sent",
		"message_id", email.ID,
		"to", recipient,
		"title", result.Event.Title,
		"via", p.sender.Name())

	// Audit record. The reply is already out, so a write failure here is
	// logged rather than returned.
	if p.store != nil {
		inv := database.Invite{
			MessageID: email.ID,
			Recipient: recipient,
			Title:     result.Event.Title,
			StartsAt:  result.Event.Start,
			EndsAt:    result.Event.End,
			Location:  result.Event.Location,
			Sender:    p.sender.Name(),
		}
		if err := p.store.RecordInvite(inv); err != nil {
			p.logger.Warn("failed to record invite", "message_id", email.ID, "error", err)
		}
	}

	return nil
}

// truncate shortens a string for logging
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
