package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	// ErrMalformedJSON means the model reply was not a bare JSON object.
	ErrMalformedJSON = errors.New("malformed extraction JSON")
	// ErrMissingField means a required field was absent, null or empty.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidTimestamp means a datetime field does not match the compact layout.
	ErrInvalidTimestamp = errors.New("invalid timestamp format")
)

// TimestampLayout is the compact date-time layout carried in Record
// timestamps. A trailing Z may follow it on the wire.
const TimestampLayout = "20060102T150405"

var timestampPattern = regexp.MustCompile(`^\d{8}T\d{6}Z?$`)

// Record is a validated extraction result. Start and End keep the compact
// wire form (YYYYMMDDTHHMMSS, optional Z) so the invite renderer can embed
// them untouched. Location is empty when the email named none.
type Record struct {
	Title    string
	Start    string
	End      string
	Location string
}

// rawExtraction mirrors the JSON schema the model is instructed to emit.
// Pointer fields distinguish absent/null from empty.
type rawExtraction struct {
	EventTitle    *string `json:"event_title"`
	DatetimeStart *string `json:"datetime_start"`
	DatetimeEnd   *string `json:"datetime_end"`
	Location      *string `json:"location"`
}

// Parse validates a raw model reply and returns the event it describes.
// The reply must decode as a single bare JSON object: fenced or
// prose-wrapped output is rejected, not repaired.
func Parse(raw string) (*Record, error) {
	var ext rawExtraction
	if err := json.Unmarshal([]byte(raw), &ext); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}

	title, err := requiredField("event_title", ext.EventTitle)
	if err != nil {
		return nil, err
	}
	start, err := timestampField("datetime_start", ext.DatetimeStart)
	if err != nil {
		return nil, err
	}
	end, err := timestampField("datetime_end", ext.DatetimeEnd)
	if err != nil {
		return nil, err
	}

	rec := &Record{
		Title: title,
		Start: start,
		End:   end,
	}
	if ext.Location != nil {
		rec.Location = *ext.Location
	}
	return rec, nil
}

// ParseTimestamp converts a compact timestamp into a time.Time. The
// optional Z suffix is accepted and dropped.
func ParseTimestamp(ts string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, strings.TrimSuffix(ts, "Z"))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, ts)
	}
	return t, nil
}

func requiredField(name string, v *string) (string, error) {
	if v == nil || *v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	return *v, nil
}

func timestampField(name string, v *string) (string, error) {
	s, err := requiredField(name, v)
	if err != nil {
		return "", err
	}
	if !timestampPattern.MatchString(s) {
		return "", fmt.Errorf("%w: %s %q", ErrInvalidTimestamp, name, s)
	}
	return s, nil
}
