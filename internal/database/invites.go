package database

import (
	"fmt"
	"time"
)

// Invite is one audit row for a sent invite reply.
type Invite struct {
	ID        int64
	MessageID string
	Recipient string
	Title     string
	StartsAt  string
	EndsAt    string
	Location  string
	Sender    string
	SentAt    time.Time
}

// RecordInvite appends an audit row for a reply that was just sent.
func (d *DB) RecordInvite(inv Invite) error {
	_, err := d.Exec(`
		INSERT INTO invites (message_id, recipient, title, starts_at, ends_at, location, sender)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, inv.MessageID, inv.Recipient, inv.Title, inv.StartsAt, inv.EndsAt, inv.Location, inv.Sender)
	if err != nil {
		return fmt.Errorf("failed to record invite: %w", err)
	}
	return nil
}

// InvitesForMessage returns the audit rows recorded for one mailbox
// message, oldest first.
func (d *DB) InvitesForMessage(messageID string) ([]Invite, error) {
	rows, err := d.Query(`
		SELECT id, message_id, recipient, title, starts_at, ends_at, location, sender, sent_at
		FROM invites
		WHERE message_id = ?
		ORDER BY id
	`, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to query invites: %w", err)
	}
	defer rows.Close()

	var invites []Invite
	for rows.Next() {
		var inv Invite
		if err := rows.Scan(&inv.ID, &inv.MessageID, &inv.Recipient, &inv.Title,
			&inv.StartsAt, &inv.EndsAt, &inv.Location, &inv.Sender, &inv.SentAt); err != nil {
			return nil, fmt.Errorf("failed to scan invite: %w", err)
		}
		invites = append(invites, inv)
	}

	return invites, rows.Err()
}
