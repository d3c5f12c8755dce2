package notify

import (
	"context"
	"errors"
	"strings"
)

// ErrNoRecipient means the reply has nowhere to go. Retrying cannot fix
// a message without a sender address.
var ErrNoRecipient = errors.New("no recipient address")

// Attachment is a file attached to an outgoing reply
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Reply is an outgoing reply to a processed email
type Reply struct {
	To         string // recipient address
	Subject    string
	Body       string
	ThreadID   string // Gmail thread the reply belongs to
	MessageID  string // RFC 2822 Message-ID of the email being answered
	Attachment Attachment
}

// Sender delivers replies to a recipient
type Sender interface {
	// Send delivers the reply
	Send(ctx context.Context, reply *Reply) error
	// Name returns the sender type name (for logging)
	Name() string
	// IsConfigured returns true if the sender has server-side config
	IsConfigured() bool
}

// ReplySubject builds the subject line for a reply, adding the Re: prefix
// unless the original subject already carries one.
func ReplySubject(subject string) string {
	trimmed := strings.TrimSpace(subject)
	if trimmed == "" {
		return "Calendar invite"
	}
	if strings.HasPrefix(strings.ToLower(trimmed), "re:") {
		return trimmed
	}
	return "Re: " + trimmed
}
