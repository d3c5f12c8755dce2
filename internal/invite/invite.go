package invite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/replycal/replycal/internal/event"
)

// ErrIncompleteEvent means a record reached the renderer without a title
// or timestamps. The validator should have caught it; the renderer checks
// again so it never emits a half-filled document.
var ErrIncompleteEvent = errors.New("incomplete event record")

const (
	// Filename is the attachment name carried on every reply.
	Filename = "invite.ics"
	// MIMEType labels the attachment as a calendar request.
	MIMEType = "text/calendar; charset=UTF-8; method=REQUEST"
)

// Render produces the iCalendar document for a single event. Lines are
// CRLF-joined and the document ends with a CRLF. The LOCATION line is
// omitted entirely when the record has no location.
func Render(rec *event.Record) (string, error) {
	switch {
	case rec.Title == "":
		return "", fmt.Errorf("%w: title", ErrIncompleteEvent)
	case rec.Start == "":
		return "", fmt.Errorf("%w: start", ErrIncompleteEvent)
	case rec.End == "":
		return "", fmt.Errorf("%w: end", ErrIncompleteEvent)
	}

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"BEGIN:VEVENT",
		"SUMMARY:" + EscapeText(rec.Title),
		"DTSTART:" + rec.Start,
		"DTEND:" + rec.End,
	}
	if rec.Location != "" {
		lines = append(lines, "LOCATION:"+EscapeText(rec.Location))
	}
	lines = append(lines, "END:VEVENT", "END:VCALENDAR")

	return strings.Join(lines, "\r\n") + "\r\n", nil
}

// EscapeText escapes free-text property values. Structural punctuation is
// escaped before newlines so the backslash introduced for a newline is
// never itself re-escaped.
func EscapeText(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, ";", `\;`)
	s = strings.ReplaceAll(s, ",", `\,`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}
