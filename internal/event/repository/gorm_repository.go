package repository

import (
	"errors"
	"fmt"
	"time"

	"jobmail-backend/internal/event/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormMessageRepository implements MessageRepository using GORM
type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

func (r *gormMessageRepository) Upsert(msg *domain.InboundMessage) (*domain.InboundMessage, error) {
	var existing domain.InboundMessage
	err := r.db.Where("user_id = ? AND provider_message_id = ?", msg.UserID, msg.ProviderMessageID).
		First(&existing).Error
	if err == nil {
		// Subject and snippet rarely change, but refresh them anyway.
		updates := map[string]interface{}{"updated_at": time.Now()}
		if msg.Subject != "" {
			updates["subject"] = msg.Subject
		}
		if msg.Snippet != "" {
			updates["snippet"] = msg.Snippet
		}
		if err := r.db.Model(&existing).Updates(updates).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	msg.ID = uuid.New().String()
	msg.ProcessingStatus = domain.StatusQueued
	msg.CreatedAt = time.Now()
	msg.UpdatedAt = time.Now()
	if err := r.db.Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}

func (r *gormMessageRepository) FindQueuedByUser(userID string) ([]*domain.InboundMessage, error) {
	var messages []*domain.InboundMessage
	err := r.db.Where("user_id = ? AND processing_status = ?", userID, domain.StatusQueued).
		Order("received_at ASC").Find(&messages).Error
	return messages, err
}

func (r *gormMessageRepository) UpdateStatus(id string, status domain.ProcessingStatus) error {
	return r.db.Model(&domain.InboundMessage{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"processing_status": status,
			"updated_at":        time.Now(),
		}).Error
}

// gormEventRepository implements EventRepository using GORM
type gormEventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &gormEventRepository{db: db}
}

func (r *gormEventRepository) InsertIfAbsent(ev *domain.Event) (*domain.Event, bool, error) {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	ev.CreatedAt = time.Now()
	ev.UpdatedAt = time.Now()

	// The unique index on (user_id, dedup_key) arbitrates concurrent sync
	// runs; DO NOTHING means the loser simply fetches the winner's row.
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "dedup_key"}},
		DoNothing: true,
	}).Create(ev)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		return ev, true, nil
	}

	var existing domain.Event
	err := r.db.Where("user_id = ? AND dedup_key = ?", ev.UserID, ev.DedupKey).
		First(&existing).Error
	if err != nil {
		return nil, false, fmt.Errorf("lookup after dedup conflict: %w", err)
	}
	return &existing, false, nil
}

func (r *gormEventRepository) FindByUser(userID string) ([]*domain.Event, error) {
	var events []*domain.Event
	err := r.db.Where("user_id = ?", userID).Order("start_at ASC").Find(&events).Error
	return events, err
}

func (r *gormEventRepository) FindByID(id string) (*domain.Event, error) {
	var ev domain.Event
	err := r.db.Where("id = ?", id).First(&ev).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ev, nil
}

func (r *gormEventRepository) Update(ev *domain.Event) error {
	ev.UpdatedAt = time.Now()
	return r.db.Save(ev).Error
}

func (r *gormEventRepository) Delete(id string) error {
	return r.db.Delete(&domain.Event{}, "id = ?", id).Error
}
