package domain

import (
	"errors"
	"time"
)

// ErrEventNotFound reports a lookup for an event id that does not exist.
var ErrEventNotFound = errors.New("event not found")

// ErrNotOwner reports an access to another user's event.
var ErrNotOwner = errors.New("unauthorized")

// EventType is the coarse classification of a recruiting event.
type EventType string

const (
	EventTypeInterview EventType = "interview"
	EventTypeBriefing  EventType = "briefing"
	EventTypeOther     EventType = "other"
)

// EventStatus is the user-facing lifecycle of an event.
type EventStatus string

const (
	EventStatusScheduled EventStatus = "scheduled"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusDone      EventStatus = "done"
)

// Provenance records whether an event was machine-generated or user-edited.
// Manual events are never overwritten by later automatic sync passes.
type Provenance string

const (
	ProvenanceAuto   Provenance = "auto"
	ProvenanceManual Provenance = "manual"
)

// Event is a calendar entry extracted from mail or entered by the user.
// (user_id, dedup_key) is unique so a repeated sync run cannot record the
// same occurrence twice.
type Event struct {
	ID          string      `json:"id" gorm:"primaryKey"`
	UserID      string      `json:"user_id" gorm:"not null;uniqueIndex:idx_events_user_dedup"`
	MessageID   string      `json:"message_id,omitempty" gorm:"index"` // Optional link to source message
	CompanyName string      `json:"company_name,omitempty" gorm:"type:text"`
	Title       string      `json:"title" gorm:"type:text;not null"`
	EventType   EventType   `json:"event_type" gorm:"type:varchar(16);default:other"`
	StartAt     time.Time   `json:"start_at" gorm:"not null"`
	EndAt       *time.Time  `json:"end_at,omitempty"`
	Location    string      `json:"location,omitempty" gorm:"type:text"`
	Memo        string      `json:"memo,omitempty" gorm:"type:text"`
	Provenance  Provenance  `json:"provenance" gorm:"type:varchar(16);default:auto"`
	Status      EventStatus `json:"status" gorm:"type:varchar(16);default:scheduled"`
	DedupKey    string      `json:"-" gorm:"not null;uniqueIndex:idx_events_user_dedup"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
