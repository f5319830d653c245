package usecase

import (
	"context"

	"jobmail-backend/internal/event/domain"
)

// SyncPolicy selects which classified messages produce events. An earlier
// revision of the pipeline created a draft event for every message; the
// current default only keeps interview/briefing mail. Both behaviors stay
// selectable.
type SyncPolicy string

const (
	PolicyActionableOnly SyncPolicy = "actionable_only"
	PolicyAllMessages    SyncPolicy = "all_messages"
)

// MailSource fetches recent messages for a user from whatever provider the
// user has connected. Returns domain.ErrAuthRequired when no usable
// credentials exist.
type MailSource interface {
	FetchRecent(ctx context.Context, userID string, limit int) ([]*domain.FetchedMessage, error)
}

// SyncUsecase drives one synchronous sync pass for a user. It is the only
// entry point that mutates message/event storage from mail.
type SyncUsecase interface {
	Sync(ctx context.Context, userID string) ([]*domain.Event, error)
	// Preview fetches recent mail without persisting or processing anything.
	Preview(ctx context.Context, userID string) ([]*domain.FetchedMessage, error)
}

// EventUsecase covers the user-facing event operations.
type EventUsecase interface {
	ListEvents(userID string) ([]*domain.Event, error)
	// SearchEvents filters the user's events with typo-tolerant matching
	// over company name, title, location and memo, most relevant first.
	SearchEvents(userID, query string) ([]*domain.Event, error)
	GetEventByID(userID, eventID string) (*domain.Event, error)
	UpdateEvent(userID, eventID string, updates EventUpdateRequest) (*domain.Event, error)
	DeleteEvent(userID, eventID string) error
	// ExtractCompany exposes the company heuristics for manual-entry assist.
	ExtractCompany(subject, body, from string) string
}

// EventUpdateRequest carries a partial edit; nil fields are left untouched.
type EventUpdateRequest struct {
	CompanyName *string `json:"company_name"`
	Title       *string `json:"title"`
	EventType   *string `json:"event_type"`
	StartAt     *string `json:"start_at"`
	EndAt       *string `json:"end_at"`
	Location    *string `json:"location"`
	Memo        *string `json:"memo"`
	Status      *string `json:"status"`
}
