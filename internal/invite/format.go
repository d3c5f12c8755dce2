package invite

import (
	"fmt"
	"strings"

	"github.com/replycal/replycal/internal/event"
)

// FormatDate renders a compact timestamp as a human date, "14th March 2025"
// style.
func FormatDate(ts string) (string, error) {
	t, err := event.ParseTimestamp(ts)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d%s %s %d", t.Day(), daySuffix(t.Day()), t.Month(), t.Year()), nil
}

// FormatTime renders a compact timestamp's time of day in 24-hour form.
func FormatTime(ts string) (string, error) {
	t, err := event.ParseTimestamp(ts)
	if err != nil {
		return "", err
	}
	return t.Format("15:04"), nil
}

// ReplyBody builds the plain-text reply that accompanies the invite.
func ReplyBody(rec *event.Record) (string, error) {
	startDate, err := FormatDate(rec.Start)
	if err != nil {
		return "", err
	}
	startTime, err := FormatTime(rec.Start)
	if err != nil {
		return "", err
	}
	endDate, err := FormatDate(rec.End)
	if err != nil {
		return "", err
	}
	endTime, err := FormatTime(rec.End)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Hello,\n\n")
	b.WriteString("I put together a calendar invite from your email:\n\n")
	fmt.Fprintf(&b, "    %s\n", rec.Title)
	if startDate == endDate {
		fmt.Fprintf(&b, "    %s, %s to %s\n", startDate, startTime, endTime)
	} else {
		fmt.Fprintf(&b, "    %s %s to %s %s\n", startDate, startTime, endDate, endTime)
	}
	if rec.Location != "" {
		fmt.Fprintf(&b, "    Location: %s\n", rec.Location)
	}
	b.WriteString("\nOpen the attached invite.ics to add it to your calendar.\n")
	return b.String(), nil
}

// daySuffix picks the English ordinal suffix for a day of month. The
// teens all take "th", including 11, 12 and 13.
func daySuffix(day int) string {
	if day >= 11 && day <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
