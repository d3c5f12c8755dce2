package gmail

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	gmailapi "google.golang.org/api/gmail/v1"

	"github.com/replycal/replycal/internal/database"
	"github.com/replycal/replycal/internal/event"
	"github.com/replycal/replycal/internal/invite"
	"github.com/replycal/replycal/internal/notify"
)

const (
	// initialPollDelay gives the process a moment to settle before the
	// first mailbox poll.
	initialPollDelay = 30 * time.Second

	// processedRetention is how long ledger entries are kept. Gmail's
	// message IDs never repeat, so old rows are only dead weight.
	processedRetention = 90 * 24 * time.Hour
)

// Ledger defines the database operations needed by the worker
type Ledger interface {
	IsMessageProcessed(messageID string) (bool, error)
	MarkMessageProcessed(messageID, status string) error
	CleanupProcessedMessages(olderThan time.Duration) (int64, error)
}

// Processor handles a single parsed email end to end
type Processor interface {
	Process(ctx context.Context, email *Email) error
}

// MailClient is the slice of the Gmail client the worker uses
type MailClient interface {
	IsAuthenticated() bool
	ListMessages(query string, maxResults int64) ([]*gmailapi.Message, error)
	GetMessage(messageID string) (*Email, error)
	MarkRead(messageID string) error
}

// Worker polls the mailbox and feeds new messages to the processor
type Worker struct {
	client       MailClient
	db           Ledger
	processor    Processor
	query        string
	pollInterval time.Duration
	maxPerPoll   int64
	logger       *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// WorkerConfig contains configuration for the mailbox worker
type WorkerConfig struct {
	Query        string
	PollInterval time.Duration
	MaxPerPoll   int64
}

// NewWorker creates a new mailbox worker
func NewWorker(client MailClient, db Ledger, processor Processor, config WorkerConfig, logger *slog.Logger) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	query := config.Query
	if query == "" {
		query = "is:unread"
	}

	pollInterval := config.PollInterval
	if pollInterval <= 0 {
		pollInterval = 2 * time.Minute
	}

	maxPerPoll := config.MaxPerPoll
	if maxPerPoll <= 0 {
		maxPerPoll = 10
	}

	return &Worker{
		client:       client,
		db:           db,
		processor:    processor,
		query:        query,
		pollInterval: pollInterval,
		maxPerPoll:   maxPerPoll,
		logger:       logger,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start begins the background polling loop
func (w *Worker) Start() {
	w.logger.Info("mailbox worker starting",
		"query", w.query,
		"poll_interval", w.pollInterval,
		"max_per_poll", w.maxPerPoll)

	if deleted, err := w.db.CleanupProcessedMessages(processedRetention); err != nil {
		w.logger.Warn("ledger cleanup failed", "error", err)
	} else if deleted > 0 {
		w.logger.Info("cleaned up old ledger entries", "deleted", deleted)
	}

	w.wg.Add(1)
	go w.pollLoop()
}

// Stop gracefully shuts down the worker
func (w *Worker) Stop() {
	w.logger.Info("mailbox worker stopping")
	w.cancel()
	w.wg.Wait()
	w.logger.Info("mailbox worker stopped")
}

// pollLoop runs the polling cycle
func (w *Worker) pollLoop() {
	defer w.wg.Done()

	// Do an initial poll after a short delay
	select {
	case <-w.ctx.Done():
		return
	case <-time.After(initialPollDelay):
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.poll()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.poll()
		}
	}
}

// poll performs a single polling cycle
func (w *Worker) poll() {
	if w.client == nil || !w.client.IsAuthenticated() {
		w.logger.Warn("skipping poll, client not authenticated")
		return
	}

	messages, err := w.client.ListMessages(w.query, w.maxPerPoll)
	if err != nil {
		w.logger.Error("failed to list messages", "error", err)
		return
	}

	if len(messages) == 0 {
		return
	}

	w.logger.Info("found messages", "count", len(messages))

	var replied, failed int
	for _, msg := range messages {
		select {
		case <-w.ctx.Done():
			return
		default:
		}

		processed, err := w.db.IsMessageProcessed(msg.Id)
		if err != nil {
			w.logger.Error("failed to check ledger", "message_id", msg.Id, "error", err)
			continue
		}
		if processed {
			// Already handled; just clear the unread flag again in case
			// the earlier MarkRead did not stick.
			w.finishMessage(msg.Id)
			continue
		}

		email, err := w.client.GetMessage(msg.Id)
		if err != nil {
			w.logger.Error("failed to fetch message", "message_id", msg.Id, "error", err)
			continue
		}

		err = w.processor.Process(w.ctx, email)
		switch {
		case err == nil:
			w.recordOutcome(msg.Id, database.StatusReplied)
			w.finishMessage(msg.Id)
			replied++
		case unusableEmail(err):
			// The email itself cannot produce an invite; retrying will
			// not change that.
			w.logger.Warn("email not usable for an invite",
				"message_id", msg.Id,
				"from", ExtractSenderEmail(email.From),
				"error", err)
			w.recordOutcome(msg.Id, database.StatusFailed)
			w.finishMessage(msg.Id)
			failed++
		default:
			// Transient failure (model call, send). Leave the message
			// unread and unledgered so the next poll retries it.
			w.logger.Error("processing failed, will retry",
				"message_id", msg.Id,
				"error", err)
		}
	}

	w.logger.Info("poll complete", "found", len(messages), "replied", replied, "failed", failed)
}

// recordOutcome writes the final status for a message to the ledger
func (w *Worker) recordOutcome(messageID, status string) {
	if err := w.db.MarkMessageProcessed(messageID, status); err != nil {
		w.logger.Error("failed to record outcome", "message_id", messageID, "status", status, "error", err)
	}
}

// finishMessage clears the unread flag once a message has a ledger entry
func (w *Worker) finishMessage(messageID string) {
	if err := w.client.MarkRead(messageID); err != nil {
		w.logger.Warn("failed to mark message read", "message_id", messageID, "error", err)
	}
}

// unusableEmail reports whether processing failed because of the email's
// content rather than a collaborator outage.
func unusableEmail(err error) bool {
	return errors.Is(err, event.ErrMalformedJSON) ||
		errors.Is(err, event.ErrMissingField) ||
		errors.Is(err, event.ErrInvalidTimestamp) ||
		errors.Is(err, invite.ErrIncompleteEvent) ||
		errors.Is(err, notify.ErrNoRecipient)
}
