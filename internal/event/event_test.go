package event

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ValidExtraction(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected Record
	}{
		{
			name: "all fields present",
			raw:  `{"event_title":"Team Sync","datetime_start":"20250314T090000","datetime_end":"20250314T100000","location":"Room 5"}`,
			expected: Record{
				Title:    "Team Sync",
				Start:    "20250314T090000",
				End:      "20250314T100000",
				Location: "Room 5",
			},
		},
		{
			name: "location absent defaults to empty",
			raw:  `{"event_title":"Standup","datetime_start":"20250314T090000","datetime_end":"20250314T091500"}`,
			expected: Record{
				Title: "Standup",
				Start: "20250314T090000",
				End:   "20250314T091500",
			},
		},
		{
			name: "location null defaults to empty",
			raw:  `{"event_title":"Standup","datetime_start":"20250314T090000","datetime_end":"20250314T091500","location":null}`,
			expected: Record{
				Title: "Standup",
				Start: "20250314T090000",
				End:   "20250314T091500",
			},
		},
		{
			name: "utc suffixed timestamps pass through",
			raw:  `{"event_title":"Call","datetime_start":"20250314T090000Z","datetime_end":"20250314T100000Z","location":""}`,
			expected: Record{
				Title: "Call",
				Start: "20250314T090000Z",
				End:   "20250314T100000Z",
			},
		},
		{
			name: "unknown keys are ignored",
			raw:  `{"event_title":"Lunch","datetime_start":"20250601T120000","datetime_end":"20250601T130000","location":"Cafe","confidence":0.9}`,
			expected: Record{
				Title:    "Lunch",
				Start:    "20250601T120000",
				End:      "20250601T130000",
				Location: "Cafe",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Parse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, *rec)
		})
	}
}

func TestParse_MalformedJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "markdown fenced",
			raw:  "```json\n{\"event_title\":\"Team Sync\",\"datetime_start\":\"20250314T090000\",\"datetime_end\":\"20250314T100000\"}\n```",
		},
		{
			name: "leading prose",
			raw:  `Here is the extracted event: {"event_title":"Team Sync","datetime_start":"20250314T090000","datetime_end":"20250314T100000"}`,
		},
		{
			name: "trailing prose",
			raw:  `{"event_title":"Team Sync","datetime_start":"20250314T090000","datetime_end":"20250314T100000"} Let me know if you need anything else.`,
		},
		{
			name: "empty response",
			raw:  "",
		},
		{
			name: "truncated object",
			raw:  `{"event_title":"Team Sync","datetime_start":`,
		},
		{
			name: "plain refusal",
			raw:  "I could not find any event in this email.",
		},
		{
			name: "non-string field value",
			raw:  `{"event_title":42,"datetime_start":"20250314T090000","datetime_end":"20250314T100000"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Parse(tt.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedJSON))
			assert.Nil(t, rec)
		})
	}
}

func TestParse_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		field string
	}{
		{
			name:  "title absent",
			raw:   `{"datetime_start":"20250314T090000","datetime_end":"20250314T100000"}`,
			field: "event_title",
		},
		{
			name:  "title null",
			raw:   `{"event_title":null,"datetime_start":"20250314T090000","datetime_end":"20250314T100000"}`,
			field: "event_title",
		},
		{
			name:  "title empty",
			raw:   `{"event_title":"","datetime_start":"20250314T090000","datetime_end":"20250314T100000"}`,
			field: "event_title",
		},
		{
			name:  "start absent",
			raw:   `{"event_title":"Team Sync","datetime_end":"20250314T100000"}`,
			field: "datetime_start",
		},
		{
			name:  "start empty",
			raw:   `{"event_title":"Team Sync","datetime_start":"","datetime_end":"20250314T100000"}`,
			field: "datetime_start",
		},
		{
			name:  "end absent",
			raw:   `{"event_title":"Team Sync","datetime_start":"20250314T090000"}`,
			field: "datetime_end",
		},
		{
			name:  "end null",
			raw:   `{"event_title":"Team Sync","datetime_start":"20250314T090000","datetime_end":null}`,
			field: "datetime_end",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Parse(tt.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMissingField))
			assert.Contains(t, err.Error(), tt.field)
			assert.Nil(t, rec)
		})
	}
}

func TestParse_InvalidTimestampFormat(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		field string
	}{
		{
			name:  "iso 8601 start",
			raw:   `{"event_title":"Team Sync","datetime_start":"2025-03-14T09:00:00","datetime_end":"20250314T100000"}`,
			field: "datetime_start",
		},
		{
			name:  "missing time separator",
			raw:   `{"event_title":"Team Sync","datetime_start":"20250314090000","datetime_end":"20250314T100000"}`,
			field: "datetime_start",
		},
		{
			name:  "date only end",
			raw:   `{"event_title":"Team Sync","datetime_start":"20250314T090000","datetime_end":"20250314"}`,
			field: "datetime_end",
		},
		{
			name:  "short time component",
			raw:   `{"event_title":"Team Sync","datetime_start":"20250314T0900","datetime_end":"20250314T100000"}`,
			field: "datetime_start",
		},
		{
			name:  "lowercase utc suffix",
			raw:   `{"event_title":"Team Sync","datetime_start":"20250314T090000z","datetime_end":"20250314T100000"}`,
			field: "datetime_start",
		},
		{
			name:  "trailing garbage",
			raw:   `{"event_title":"Team Sync","datetime_start":"20250314T090000","datetime_end":"20250314T100000Z00"}`,
			field: "datetime_end",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Parse(tt.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidTimestamp))
			assert.Contains(t, err.Error(), tt.field)
			assert.Nil(t, rec)
		})
	}
}

func TestParse_DoesNotCompareStartAndEnd(t *testing.T) {
	// End before start is accepted: ordering is the sender's problem, not
	// a schema violation.
	rec, err := Parse(`{"event_title":"Backwards","datetime_start":"20250314T100000","datetime_end":"20250314T090000"}`)
	require.NoError(t, err)
	assert.Equal(t, "20250314T100000", rec.Start)
	assert.Equal(t, "20250314T090000", rec.End)
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name     string
		ts       string
		expected time.Time
		wantErr  bool
	}{
		{
			name:     "plain timestamp",
			ts:       "20250314T090000",
			expected: time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC),
		},
		{
			name:     "utc suffix dropped",
			ts:       "20250301T134500Z",
			expected: time.Date(2025, time.March, 1, 13, 45, 0, 0, time.UTC),
		},
		{
			name:    "impossible calendar date",
			ts:      "20250230T120000",
			wantErr: true,
		},
		{
			name:    "not a timestamp",
			ts:      "next tuesday",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := ParseTimestamp(tt.ts)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidTimestamp))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, parsed)
		})
	}
}
