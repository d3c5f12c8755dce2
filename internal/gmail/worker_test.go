package gmail

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmailapi "google.golang.org/api/gmail/v1"

	"github.com/replycal/replycal/internal/database"
	"github.com/replycal/replycal/internal/event"
	"github.com/replycal/replycal/internal/invite"
	"github.com/replycal/replycal/internal/notify"
)

type fakeLedger struct {
	processed        map[string]string
	checkErr         error
	cleanupCalled    bool
	cleanupOlderThan time.Duration
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{processed: make(map[string]string)}
}

func (f *fakeLedger) IsMessageProcessed(messageID string) (bool, error) {
	if f.checkErr != nil {
		return false, f.checkErr
	}
	_, ok := f.processed[messageID]
	return ok, nil
}

func (f *fakeLedger) MarkMessageProcessed(messageID, status string) error {
	if _, ok := f.processed[messageID]; !ok {
		f.processed[messageID] = status
	}
	return nil
}

func (f *fakeLedger) CleanupProcessedMessages(olderThan time.Duration) (int64, error) {
	f.cleanupCalled = true
	f.cleanupOlderThan = olderThan
	return 0, nil
}

type fakeMail struct {
	authed    bool
	msgs      []*gmailapi.Message
	emails    map[string]*Email
	marked    []string
	listCalls int
	listErr   error
	getErr    error
}

func (f *fakeMail) IsAuthenticated() bool { return f.authed }

func (f *fakeMail) ListMessages(query string, maxResults int64) ([]*gmailapi.Message, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.msgs, nil
}

func (f *fakeMail) GetMessage(messageID string) (*Email, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	email, ok := f.emails[messageID]
	if !ok {
		return nil, fmt.Errorf("no such message: %s", messageID)
	}
	return email, nil
}

func (f *fakeMail) MarkRead(messageID string) error {
	f.marked = append(f.marked, messageID)
	return nil
}

type fakeProcessor struct {
	errs map[string]error
	seen []string
}

func (f *fakeProcessor) Process(_ context.Context, email *Email) error {
	f.seen = append(f.seen, email.ID)
	return f.errs[email.ID]
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestWorker(client MailClient, db Ledger, proc Processor) *Worker {
	cfg := WorkerConfig{
		Query:        "is:unread",
		PollInterval: time.Minute,
		MaxPerPoll:   10,
	}
	return NewWorker(client, db, proc, cfg, discardLogger())
}

func mailWith(ids ...string) *fakeMail {
	mail := &fakeMail{authed: true, emails: make(map[string]*Email)}
	for _, id := range ids {
		mail.msgs = append(mail.msgs, &gmailapi.Message{Id: id})
		mail.emails[id] = &Email{
			ID:       id,
			ThreadID: "thread-" + id,
			From:     "Alice <alice@example.com>",
			Subject:  "Meeting",
			Body:     "Can we meet Friday at 3pm?",
		}
	}
	return mail
}

func TestWorkerPoll_RepliesAndLedgers(t *testing.T) {
	mail := mailWith("m1", "m2")
	ledger := newFakeLedger()
	proc := &fakeProcessor{}

	w := newTestWorker(mail, ledger, proc)
	w.poll()

	assert.Equal(t, []string{"m1", "m2"}, proc.seen)
	assert.Equal(t, database.StatusReplied, ledger.processed["m1"])
	assert.Equal(t, database.StatusReplied, ledger.processed["m2"])
	assert.ElementsMatch(t, []string{"m1", "m2"}, mail.marked)
}

func TestWorkerPoll_SkipsLedgeredMessages(t *testing.T) {
	mail := mailWith("m1")
	ledger := newFakeLedger()
	ledger.processed["m1"] = database.StatusReplied
	proc := &fakeProcessor{}

	w := newTestWorker(mail, ledger, proc)
	w.poll()

	assert.Empty(t, proc.seen)
	// The unread flag is cleared again so the message stops showing up.
	assert.Equal(t, []string{"m1"}, mail.marked)
}

func TestWorkerPoll_UnusableEmailMarkedFailed(t *testing.T) {
	mail := mailWith("m1")
	ledger := newFakeLedger()
	proc := &fakeProcessor{
		errs: map[string]error{
			"m1": fmt.Errorf("extract event: %w", event.ErrMissingField),
		},
	}

	w := newTestWorker(mail, ledger, proc)
	w.poll()

	assert.Equal(t, database.StatusFailed, ledger.processed["m1"])
	assert.Equal(t, []string{"m1"}, mail.marked)
}

func TestWorkerPoll_TransientErrorRetries(t *testing.T) {
	mail := mailWith("m1")
	ledger := newFakeLedger()
	proc := &fakeProcessor{
		errs: map[string]error{
			"m1": errors.New("anthropic api: status 529"),
		},
	}

	w := newTestWorker(mail, ledger, proc)
	w.poll()

	// Not ledgered, not marked read: the next poll picks it up again.
	require.Empty(t, ledger.processed)
	assert.Empty(t, mail.marked)

	w.poll()
	assert.Equal(t, []string{"m1", "m1"}, proc.seen)
}

func TestWorkerPoll_NotAuthenticated(t *testing.T) {
	mail := mailWith("m1")
	mail.authed = false
	ledger := newFakeLedger()
	proc := &fakeProcessor{}

	w := newTestWorker(mail, ledger, proc)
	w.poll()

	assert.Zero(t, mail.listCalls)
	assert.Empty(t, proc.seen)
}

func TestWorkerPoll_ListErrorAbortsCycle(t *testing.T) {
	mail := mailWith("m1")
	mail.listErr = errors.New("rate limited")
	ledger := newFakeLedger()
	proc := &fakeProcessor{}

	w := newTestWorker(mail, ledger, proc)
	w.poll()

	assert.Empty(t, proc.seen)
	assert.Empty(t, ledger.processed)
}

func TestWorkerPoll_FetchErrorLeavesMessageForRetry(t *testing.T) {
	mail := mailWith("m1")
	mail.getErr = errors.New("backend error")
	ledger := newFakeLedger()
	proc := &fakeProcessor{}

	w := newTestWorker(mail, ledger, proc)
	w.poll()

	assert.Empty(t, proc.seen)
	assert.Empty(t, ledger.processed)
	assert.Empty(t, mail.marked)
}

func TestWorkerStartStop(t *testing.T) {
	mail := mailWith()
	ledger := newFakeLedger()
	proc := &fakeProcessor{}

	w := newTestWorker(mail, ledger, proc)
	w.Start()
	w.Stop()

	assert.True(t, ledger.cleanupCalled)
	assert.Equal(t, processedRetention, ledger.cleanupOlderThan)
}

func TestWorkerConfigDefaults(t *testing.T) {
	w := NewWorker(nil, nil, nil, WorkerConfig{}, discardLogger())

	assert.Equal(t, "is:unread", w.query)
	assert.Equal(t, 2*time.Minute, w.pollInterval)
	assert.Equal(t, int64(10), w.maxPerPoll)
}

func TestUnusableEmail(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "malformed json",
			err:      fmt.Errorf("extract: %w", event.ErrMalformedJSON),
			expected: true,
		},
		{
			name:     "missing field",
			err:      fmt.Errorf("extract: %w", event.ErrMissingField),
			expected: true,
		},
		{
			name:     "invalid timestamp",
			err:      fmt.Errorf("extract: %w", event.ErrInvalidTimestamp),
			expected: true,
		},
		{
			name:     "incomplete event",
			err:      fmt.Errorf("render: %w", invite.ErrIncompleteEvent),
			expected: true,
		},
		{
			name:     "no recipient",
			err:      fmt.Errorf("send reply: %w", notify.ErrNoRecipient),
			expected: true,
		},
		{
			name:     "plain error",
			err:      errors.New("network down"),
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, unusableEmail(tt.err))
		})
	}
}
