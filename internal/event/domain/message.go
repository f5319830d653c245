package domain

import "time"

// ProcessingStatus is the lifecycle of a fetched message through the
// extraction pipeline. Transitions only move forward:
// queued -> parsed or queued -> failed.
type ProcessingStatus string

const (
	StatusQueued ProcessingStatus = "queued"
	StatusParsed ProcessingStatus = "parsed"
	StatusFailed ProcessingStatus = "failed"
)

// InboundMessage is one fetched mail message persisted for a user.
// (user_id, provider_message_id) is unique; rows are never deleted.
type InboundMessage struct {
	ID                string           `json:"id" gorm:"primaryKey"`
	UserID            string           `json:"user_id" gorm:"not null;uniqueIndex:idx_messages_user_provider"`
	ProviderMessageID string           `json:"provider_message_id" gorm:"not null;uniqueIndex:idx_messages_user_provider"`
	FromAddress       string           `json:"from_address"`
	Subject           string           `json:"subject"`
	Snippet           string           `json:"snippet" gorm:"type:text"`
	BodyPlain         string           `json:"body_plain" gorm:"type:text"`
	ReceivedAt        time.Time        `json:"received_at"`
	ProcessingStatus  ProcessingStatus `json:"processing_status" gorm:"default:queued;index"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}
