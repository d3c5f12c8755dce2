package notify

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/google/uuid"
)

// messageIDDomain is the right-hand side of generated Message-Id headers.
const messageIDDomain = "replycal.app"

// buildReplyMIME assembles the raw RFC 2822 reply, with the body as an
// inline text part and the invite as an attachment. An empty from leaves
// the From header out; Gmail fills it in from the authenticated account.
func buildReplyMIME(from string, reply *Reply, now time.Time) ([]byte, error) {
	var h mail.Header
	h.SetDate(now)
	h.SetSubject(reply.Subject)
	if from != "" {
		h.SetAddressList("From", []*mail.Address{{Address: from}})
	}
	h.SetAddressList("To", []*mail.Address{{Address: reply.To}})
	h.SetMsgIDList("Message-Id", []string{fmt.Sprintf("%s@%s", uuid.NewString(), messageIDDomain)})

	// Threading headers keep the reply attached to the original
	// conversation in the recipient's mailbox.
	if reply.MessageID != "" {
		orig := strings.Trim(reply.MessageID, "<>")
		h.SetMsgIDList("In-Reply-To", []string{orig})
		h.SetMsgIDList("References", []string{orig})
	}

	var buf bytes.Buffer
	mw, err := mail.CreateWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("failed to create message writer: %w", err)
	}

	var th mail.InlineHeader
	th.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	tw, err := mw.CreateSingleInline(th)
	if err != nil {
		return nil, fmt.Errorf("failed to create text part: %w", err)
	}
	if _, err := io.WriteString(tw, reply.Body); err != nil {
		return nil, fmt.Errorf("failed to write text part: %w", err)
	}
	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close text part: %w", err)
	}

	if reply.Attachment.Filename != "" {
		var ah mail.AttachmentHeader
		ah.Set("Content-Type", reply.Attachment.ContentType)
		ah.SetFilename(reply.Attachment.Filename)
		aw, err := mw.CreateAttachment(ah)
		if err != nil {
			return nil, fmt.Errorf("failed to create attachment: %w", err)
		}
		if _, err := aw.Write(reply.Attachment.Data); err != nil {
			return nil, fmt.Errorf("failed to write attachment: %w", err)
		}
		if err := aw.Close(); err != nil {
			return nil, fmt.Errorf("failed to close attachment: %w", err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close message: %w", err)
	}

	return buf.Bytes(), nil
}
