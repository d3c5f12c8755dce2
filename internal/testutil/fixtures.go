package testutil

import (
	"encoding/json"
	"time"

	"github.com/replycal/replycal/internal/gmail"
)

// SampleExtraction is the model reply a fresh MockModel answers with.
var SampleExtraction = Extraction("Project Kickoff", "20250402T100000", "20250402T110000", "Conference Room A")

// Extraction renders a model reply carrying the given event fields.
func Extraction(title, start, end, location string) string {
	b, _ := json.Marshal(map[string]string{
		"event_title":    title,
		"datetime_start": start,
		"datetime_end":   end,
		"location":       location,
	})
	return string(b)
}

// EmailBuilder builds test emails
type EmailBuilder struct {
	email gmail.Email
}

// NewEmailBuilder creates a new email builder with defaults
func NewEmailBuilder() *EmailBuilder {
	return &EmailBuilder{
		email: gmail.Email{
			ID:         "msg-1",
			ThreadID:   "thread-1",
			Subject:    "Project kickoff",
			From:       "Alice Example <alice@example.com>",
			To:         FromAddress,
			Body:       "Kickoff meeting on Wednesday April 2nd, 10am to 11am in Conference Room A.",
			MessageID:  "<kickoff-1@mail.example.com>",
			ReceivedAt: time.Date(2025, 3, 28, 9, 0, 0, 0, time.UTC),
		},
	}
}

// WithID sets the mailbox message ID
func (b *EmailBuilder) WithID(id string) *EmailBuilder {
	b.email.ID = id
	return b
}

// WithThreadID sets the conversation thread ID
func (b *EmailBuilder) WithThreadID(id string) *EmailBuilder {
	b.email.ThreadID = id
	return b
}

// WithSubject sets the subject line
func (b *EmailBuilder) WithSubject(subject string) *EmailBuilder {
	b.email.Subject = subject
	return b
}

// WithFrom sets the From header
func (b *EmailBuilder) WithFrom(from string) *EmailBuilder {
	b.email.From = from
	return b
}

// WithBody sets the email body
func (b *EmailBuilder) WithBody(body string) *EmailBuilder {
	b.email.Body = body
	return b
}

// WithMessageID sets the RFC 2822 Message-ID header
func (b *EmailBuilder) WithMessageID(id string) *EmailBuilder {
	b.email.MessageID = id
	return b
}

// Build returns the assembled email
func (b *EmailBuilder) Build() *gmail.Email {
	email := b.email
	return &email
}
