package usecase

import (
	"sort"
	"strings"
	"time"

	"jobmail-backend/internal/event/domain"
	"jobmail-backend/internal/event/parser"
	"jobmail-backend/internal/event/repository"
	"jobmail-backend/pkg/fuzzy"
)

// eventUsecase implements EventUsecase
type eventUsecase struct {
	events repository.EventRepository
}

func NewEventUsecase(events repository.EventRepository) EventUsecase {
	return &eventUsecase{events: events}
}

func (u *eventUsecase) ListEvents(userID string) ([]*domain.Event, error) {
	return u.events.FindByUser(userID)
}

func (u *eventUsecase) SearchEvents(userID, query string) ([]*domain.Event, error) {
	events, err := u.events.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return events, nil
	}

	type scored struct {
		ev    *domain.Event
		score float64
	}
	var matched []scored
	for _, ev := range events {
		if !fuzzy.FuzzyMatchEvent(query, ev.CompanyName, ev.Title, ev.Location, ev.Memo) {
			continue
		}
		matched = append(matched, scored{
			ev:    ev,
			score: fuzzy.CalculateRelevanceScore(query, ev.CompanyName, ev.Title, ev.Location),
		})
	}

	// FindByUser already orders by start time, so ties keep that order.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].score > matched[j].score
	})

	out := make([]*domain.Event, 0, len(matched))
	for _, m := range matched {
		out = append(out, m.ev)
	}
	return out, nil
}

func (u *eventUsecase) GetEventByID(userID, eventID string) (*domain.Event, error) {
	ev, err := u.events.FindByID(eventID)
	if err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, domain.ErrEventNotFound
	}
	if ev.UserID != userID {
		return nil, domain.ErrNotOwner
	}
	return ev, nil
}

// UpdateEvent applies a partial edit. Any edit marks the event as manual so
// later automatic sync passes leave it alone.
func (u *eventUsecase) UpdateEvent(userID, eventID string, updates EventUpdateRequest) (*domain.Event, error) {
	ev, err := u.GetEventByID(userID, eventID)
	if err != nil {
		return nil, err
	}

	touched := false
	if updates.CompanyName != nil {
		ev.CompanyName = *updates.CompanyName
		touched = true
	}
	if updates.Title != nil {
		ev.Title = *updates.Title
		touched = true
	}
	if updates.EventType != nil {
		ev.EventType = domain.EventType(*updates.EventType)
		touched = true
	}
	if updates.StartAt != nil {
		if t, err := time.Parse(time.RFC3339, *updates.StartAt); err == nil {
			ev.StartAt = t
			touched = true
		}
	}
	if updates.EndAt != nil {
		if *updates.EndAt == "" {
			ev.EndAt = nil
			touched = true
		} else if t, err := time.Parse(time.RFC3339, *updates.EndAt); err == nil {
			ev.EndAt = &t
			touched = true
		}
	}
	if updates.Location != nil {
		ev.Location = *updates.Location
		touched = true
	}
	if updates.Memo != nil {
		ev.Memo = *updates.Memo
		touched = true
	}
	if updates.Status != nil {
		ev.Status = domain.EventStatus(*updates.Status)
		touched = true
	}

	if touched {
		ev.Provenance = domain.ProvenanceManual
	}

	if err := u.events.Update(ev); err != nil {
		return nil, err
	}
	return ev, nil
}

func (u *eventUsecase) DeleteEvent(userID, eventID string) error {
	ev, err := u.GetEventByID(userID, eventID)
	if err != nil {
		return err
	}
	return u.events.Delete(ev.ID)
}

func (u *eventUsecase) ExtractCompany(subject, body, from string) string {
	return parser.ExtractCompanyName(subject, body, from)
}
