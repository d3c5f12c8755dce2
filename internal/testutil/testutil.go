package testutil

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/emersion/go-message/mail"
	"github.com/replycal/replycal/internal/database"
	"github.com/replycal/replycal/internal/gmail"
	"github.com/replycal/replycal/internal/notify"
	"github.com/replycal/replycal/internal/processor"
	"github.com/stretchr/testify/require"
)

// FromAddress is the account the test pipeline replies from.
const FromAddress = "invites@replycal.test"

// TestPipeline wires the real processing stack for E2E testing: an
// in-memory database, the real processor, renderer and MIME assembly,
// with the extraction model and the Gmail transport replaced by mocks.
type TestPipeline struct {
	DB        *database.DB
	Model     *MockModel
	Mail      *MockMailer
	Processor *processor.Processor
	t         *testing.T
}

// NewTestPipeline creates a fully wired pipeline for E2E testing.
func NewTestPipeline(t *testing.T) *TestPipeline {
	t.Helper()

	db := database.NewTestDB(t)
	model := NewMockModel()
	mailer := NewMockMailer()
	sender := notify.NewGmailSender(mailer, FromAddress)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &TestPipeline{
		DB:        db,
		Model:     model,
		Mail:      mailer,
		Processor: processor.New(model, sender, db, logger),
		t:         t,
	}
}

// Process runs one email through the full pipeline.
func (tp *TestPipeline) Process(email *gmail.Email) error {
	tp.t.Helper()
	return tp.Processor.Process(context.Background(), email)
}

// ParsedReply is the readable form of a captured raw reply.
type ParsedReply struct {
	To             []string
	Subject        string
	InReplyTo      []string
	References     []string
	Body           string
	AttachmentName string
	AttachmentType string
	Attachment     []byte
}

// ParseReply decodes a captured raw MIME message back into its parts.
func ParseReply(t *testing.T, raw []byte) *ParsedReply {
	t.Helper()

	mr, err := mail.CreateReader(bytes.NewReader(raw))
	require.NoError(t, err, "failed to parse captured reply")

	parsed := &ParsedReply{}

	parsed.Subject, err = mr.Header.Subject()
	require.NoError(t, err)

	if addrs, err := mr.Header.AddressList("To"); err == nil {
		for _, addr := range addrs {
			parsed.To = append(parsed.To, addr.Address)
		}
	}
	parsed.InReplyTo, _ = mr.Header.MsgIDList("In-Reply-To")
	parsed.References, _ = mr.Header.MsgIDList("References")

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)

		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			body, err := io.ReadAll(part.Body)
			require.NoError(t, err)
			// The transfer encoding canonicalizes line endings to CRLF.
			parsed.Body = strings.ReplaceAll(string(body), "\r\n", "\n")
		case *mail.AttachmentHeader:
			parsed.AttachmentName, err = h.Filename()
			require.NoError(t, err)
			parsed.AttachmentType = h.Get("Content-Type")
			parsed.Attachment, err = io.ReadAll(part.Body)
			require.NoError(t, err)
		}
	}

	return parsed
}
