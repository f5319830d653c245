package usecase

import (
	"context"
	"log"
	"time"

	"jobmail-backend/internal/event/domain"
	"jobmail-backend/internal/event/parser"
	"jobmail-backend/internal/event/repository"
)

const defaultFetchLimit = 50

// fallbackTitle stands in for messages with an empty subject line.
const fallbackTitle = "面接/説明会"

// syncUsecase implements SyncUsecase
type syncUsecase struct {
	messages   repository.MessageRepository
	events     repository.EventRepository
	mail       MailSource
	loc        *time.Location
	policy     SyncPolicy
	fetchLimit int
}

func NewSyncUsecase(messages repository.MessageRepository, events repository.EventRepository, mail MailSource, loc *time.Location, policy SyncPolicy, fetchLimit int) SyncUsecase {
	if fetchLimit <= 0 {
		fetchLimit = defaultFetchLimit
	}
	if policy == "" {
		policy = PolicyActionableOnly
	}
	return &syncUsecase{
		messages:   messages,
		events:     events,
		mail:       mail,
		loc:        loc,
		policy:     policy,
		fetchLimit: fetchLimit,
	}
}

// Sync pulls recent mail, records it, runs the extraction pipeline over the
// user's queued backlog, and returns the user's events ordered by start
// time. Each message commits independently; one bad message never aborts
// the batch.
func (u *syncUsecase) Sync(ctx context.Context, userID string) ([]*domain.Event, error) {
	fetched, err := u.mail.FetchRecent(ctx, userID, u.fetchLimit)
	if err != nil {
		// domain.ErrAuthRequired passes through so the caller can prompt
		// re-authorization.
		return nil, err
	}

	for _, fm := range fetched {
		msg := &domain.InboundMessage{
			UserID:            userID,
			ProviderMessageID: fm.ProviderID,
			FromAddress:       fm.From,
			Subject:           fm.Subject,
			Snippet:           fm.Snippet,
			BodyPlain:         fm.BodyPlain,
			ReceivedAt:        parser.ParseHeaderDate(fm.HeaderDate, u.loc),
		}
		if _, err := u.messages.Upsert(msg); err != nil {
			log.Printf("[WARN] upsert message %s for user %s: %v", fm.ProviderID, userID, err)
		}
	}

	queued, err := u.messages.FindQueuedByUser(userID)
	if err != nil {
		return nil, err
	}
	for _, msg := range queued {
		if err := u.processMessage(msg); err != nil {
			log.Printf("[WARN] process message %s for user %s: %v", msg.ID, userID, err)
		}
	}

	return u.events.FindByUser(userID)
}

func (u *syncUsecase) Preview(ctx context.Context, userID string) ([]*domain.FetchedMessage, error) {
	return u.mail.FetchRecent(ctx, userID, u.fetchLimit)
}

// processMessage runs classify → extract → dedup → upsert for one queued
// message and leaves it in a terminal status. An error return means the
// message stays queued and is retried on the next sync.
func (u *syncUsecase) processMessage(msg *domain.InboundMessage) error {
	text := msg.Subject + "\n" + msg.BodyPlain

	eventType := parser.Classify(text)
	if eventType == domain.EventTypeOther && u.policy == PolicyActionableOnly {
		return u.messages.UpdateStatus(msg.ID, domain.StatusParsed)
	}

	startAt, err := parser.ExtractStartAt(text, u.loc)
	if err != nil {
		if u.policy != PolicyAllMessages {
			return u.messages.UpdateStatus(msg.ID, domain.StatusFailed)
		}
		// The create-everything policy pins undated messages to their
		// arrival time instead of dropping them.
		startAt = msg.ReceivedAt
	}

	company := parser.ExtractCompanyName(msg.Subject, msg.BodyPlain, msg.FromAddress)

	title := msg.Subject
	if title == "" {
		title = fallbackTitle
	}

	ev := &domain.Event{
		UserID:      msg.UserID,
		MessageID:   msg.ID,
		CompanyName: company,
		Title:       title,
		EventType:   eventType,
		StartAt:     startAt,
		Provenance:  domain.ProvenanceAuto,
		Status:      domain.EventStatusScheduled,
		DedupKey:    parser.DedupKey(msg.UserID, company, title, startAt),
	}

	stored, created, err := u.events.InsertIfAbsent(ev)
	if err != nil {
		return err
	}
	if !created && stored.Provenance != domain.ProvenanceManual {
		// A later pass may refresh company/title (and the updated
		// timestamp) but never moves start_at or provenance.
		stored.CompanyName = company
		stored.Title = title
		if err := u.events.Update(stored); err != nil {
			return err
		}
	}

	return u.messages.UpdateStatus(msg.ID, domain.StatusParsed)
}
