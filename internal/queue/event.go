// Package queue defines the messages exchanged over the broker and the
// background consumer that processes them.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// RSVPAction enumerates the two mutations a client can perform.
type RSVPAction string

const (
	ActionAdd    RSVPAction = "add"
	ActionRemove RSVPAction = "remove"
)

// RSVPChangedEvent is published after a successful RSVP add or remove.
// MessageID is minted per publish so downstream consumers can
// deduplicate redelivered messages.  NewCount is the counter value
// read right after the mutation committed.
type RSVPChangedEvent struct {
	MessageID  uuid.UUID  `json:"message_id"`
	EventID    string     `json:"event_id"`
	UserID     string     `json:"user_id"`
	Action     RSVPAction `json:"action"`
	NewCount   int        `json:"new_count"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// NewRSVPChangedEvent builds an event with a fresh message ID and
// timestamp.
func NewRSVPChangedEvent(eventID, userID string, action RSVPAction, newCount int) RSVPChangedEvent {
	return RSVPChangedEvent{
		MessageID:  uuid.New(),
		EventID:    eventID,
		UserID:     userID,
		Action:     action,
		NewCount:   newCount,
		OccurredAt: time.Now().UTC(),
	}
}
