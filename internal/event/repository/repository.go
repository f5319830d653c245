package repository

import (
	"jobmail-backend/internal/event/domain"
)

// MessageRepository defines data access for fetched inbound messages.
type MessageRepository interface {
	// Upsert stores a message keyed by (user, provider message id). A new
	// row starts in status queued; an existing row only refreshes its
	// subject and snippet; provider id, body and received timestamp are
	// immutable once set. Returns the stored row.
	Upsert(msg *domain.InboundMessage) (*domain.InboundMessage, error)

	// FindQueuedByUser returns the user's whole queued backlog, not just
	// the most recently fetched messages.
	FindQueuedByUser(userID string) ([]*domain.InboundMessage, error)

	// UpdateStatus moves a message to a terminal processing status.
	UpdateStatus(id string, status domain.ProcessingStatus) error
}

// EventRepository defines data access for events.
type EventRepository interface {
	// InsertIfAbsent atomically inserts the event unless one with the same
	// (user, dedup key) already exists. Returns the stored row and whether
	// this call created it. Safe under concurrent sync runs for the same
	// user: the unique index decides the race, the loser gets the winner's
	// row back.
	InsertIfAbsent(ev *domain.Event) (*domain.Event, bool, error)

	FindByUser(userID string) ([]*domain.Event, error)
	FindByID(id string) (*domain.Event, error)
	Update(ev *domain.Event) error
	Delete(id string) error
}
