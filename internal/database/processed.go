package database

import (
	"fmt"
	"time"
)

// Terminal outcomes recorded for a mailbox message.
const (
	// StatusReplied means an invite reply went out for the message.
	StatusReplied = "replied"
	// StatusFailed means extraction or validation failed; the message is
	// done with, but no reply was sent.
	StatusFailed = "failed"
)

// IsMessageProcessed checks if a mailbox message already has a terminal
// outcome recorded.
func (d *DB) IsMessageProcessed(messageID string) (bool, error) {
	var count int
	err := d.QueryRow(`
		SELECT COUNT(*) FROM processed_messages WHERE message_id = ?
	`, messageID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check processed message: %w", err)
	}
	return count > 0, nil
}

// MarkMessageProcessed records a terminal outcome for a mailbox message.
// Recording the same message twice keeps the first outcome.
func (d *DB) MarkMessageProcessed(messageID, status string) error {
	_, err := d.Exec(`
		INSERT OR IGNORE INTO processed_messages (message_id, status) VALUES (?, ?)
	`, messageID, status)
	if err != nil {
		return fmt.Errorf("failed to mark message processed: %w", err)
	}
	return nil
}

// CleanupProcessedMessages removes ledger rows older than the given
// duration and returns how many were deleted.
func (d *DB) CleanupProcessedMessages(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	result, err := d.Exec(`
		DELETE FROM processed_messages WHERE processed_at < ?
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup processed messages: %w", err)
	}
	return result.RowsAffected()
}
