package claude

import (
	"bytes"
	"fmt"
	"time"
)

// SystemPrompt is the extraction instruction sent with every request. The
// current date is substituted in so the model can resolve relative dates
// like "tomorrow" or "next Friday".
const SystemPrompt = `You are an assistant that extracts calendar event details from a single email.

Today's date is %s.

Read the email and identify the event it describes. Respond with a single JSON object in exactly this shape:

{
  "event_title": "Concise name for the event",
  "datetime_start": "Event start in the format YYYYMMDDTHHMMSS, for example 20250314T090000. Append Z only when the email states a UTC time.",
  "datetime_end": "Event end, same format",
  "location": "Where the event takes place, or an empty string if the email names no place"
}

Rules:
- Respond with raw JSON only. No markdown fences, no commentary, no text before or after the object.
- Resolve relative dates against today's date given above.
- Use 24-hour time. If the email gives no end time, assume the event lasts one hour.
- If a detail is genuinely absent from the email, use an empty string for it.`

// promptDateLayout renders the reference date the way a person would
// write it.
const promptDateLayout = "Monday, 2 January 2006"

// maxBodyLength caps how much email body goes into the prompt.
const maxBodyLength = 8000

// EmailContent is the slice of an email the extraction prompt needs.
type EmailContent struct {
	Subject string
	From    string
	Body    string
}

// ExtractionRequest is a fully assembled model call: both role-tagged
// messages plus sampling parameters. A zero Temperature or MaxTokens
// defers to the client's configured values.
type ExtractionRequest struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// BuildExtractionRequest assembles the extraction prompt for one email.
// It is deterministic: the same email and clock always produce the same
// request.
func BuildExtractionRequest(email EmailContent, now time.Time) ExtractionRequest {
	var user bytes.Buffer
	fmt.Fprintf(&user, "Subject: %s\n", email.Subject)
	fmt.Fprintf(&user, "From: %s\n", email.From)
	fmt.Fprintf(&user, "Body:\n%s\n", truncateEmailBody(email.Body, maxBodyLength))

	return ExtractionRequest{
		System:    fmt.Sprintf(SystemPrompt, now.Format(promptDateLayout)),
		User:      user.String(),
		MaxTokens: defaultMaxTokens,
	}
}

// truncateEmailBody limits body length to keep prompts bounded
func truncateEmailBody(body string, maxLen int) string {
	if len(body) <= maxLen {
		return body
	}
	return body[:maxLen] + "..."
}
