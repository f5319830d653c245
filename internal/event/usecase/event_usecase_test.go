package usecase

import (
	"testing"
	"time"

	"jobmail-backend/internal/event/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedEvent(t *testing.T, events *fakeEventRepo, userID string) *domain.Event {
	t.Helper()
	ev, created, err := events.InsertIfAbsent(&domain.Event{
		UserID:      userID,
		CompanyName: "株式会社Example",
		Title:       "一次面接のご案内",
		EventType:   domain.EventTypeInterview,
		StartAt:     time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC),
		Provenance:  domain.ProvenanceAuto,
		Status:      domain.EventStatusScheduled,
		DedupKey:    "seed-" + userID,
	})
	require.NoError(t, err)
	require.True(t, created)
	return ev
}

func TestGetEventByID(t *testing.T) {
	events := newFakeEventRepo()
	seeded := seedEvent(t, events, "user-1")
	uc := NewEventUsecase(events)

	got, err := uc.GetEventByID("user-1", seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, got.ID)

	_, err = uc.GetEventByID("user-1", "missing")
	assert.ErrorIs(t, err, domain.ErrEventNotFound)

	_, err = uc.GetEventByID("user-2", seeded.ID)
	assert.ErrorIs(t, err, domain.ErrNotOwner)
}

func TestUpdateEventMarksManual(t *testing.T) {
	events := newFakeEventRepo()
	seeded := seedEvent(t, events, "user-1")
	uc := NewEventUsecase(events)

	company := "株式会社Sample"
	memo := "受付で内線1234"
	got, err := uc.UpdateEvent("user-1", seeded.ID, EventUpdateRequest{
		CompanyName: &company,
		Memo:        &memo,
	})
	require.NoError(t, err)

	assert.Equal(t, "株式会社Sample", got.CompanyName)
	assert.Equal(t, "受付で内線1234", got.Memo)
	assert.Equal(t, domain.ProvenanceManual, got.Provenance)

	stored, err := events.FindByID(seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProvenanceManual, stored.Provenance)
}

func TestUpdateEventRescheduling(t *testing.T) {
	events := newFakeEventRepo()
	seeded := seedEvent(t, events, "user-1")
	uc := NewEventUsecase(events)

	startAt := "2025-03-12T10:00:00+09:00"
	endAt := "2025-03-12T11:00:00+09:00"
	got, err := uc.UpdateEvent("user-1", seeded.ID, EventUpdateRequest{
		StartAt: &startAt,
		EndAt:   &endAt,
	})
	require.NoError(t, err)

	wantStart, _ := time.Parse(time.RFC3339, startAt)
	require.NotNil(t, got.EndAt)
	assert.True(t, got.StartAt.Equal(wantStart))

	// An empty end time clears the field.
	empty := ""
	got, err = uc.UpdateEvent("user-1", seeded.ID, EventUpdateRequest{EndAt: &empty})
	require.NoError(t, err)
	assert.Nil(t, got.EndAt)
}

func TestUpdateEventIgnoresMalformedStart(t *testing.T) {
	events := newFakeEventRepo()
	seeded := seedEvent(t, events, "user-1")
	uc := NewEventUsecase(events)

	bad := "next tuesday"
	got, err := uc.UpdateEvent("user-1", seeded.ID, EventUpdateRequest{StartAt: &bad})
	require.NoError(t, err)

	assert.True(t, got.StartAt.Equal(seeded.StartAt))
	// Nothing actually changed, so the event stays automatic.
	assert.Equal(t, domain.ProvenanceAuto, got.Provenance)
}

func TestUpdateEventStatus(t *testing.T) {
	events := newFakeEventRepo()
	seeded := seedEvent(t, events, "user-1")
	uc := NewEventUsecase(events)

	status := "cancelled"
	got, err := uc.UpdateEvent("user-1", seeded.ID, EventUpdateRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, domain.EventStatusCancelled, got.Status)
}

func TestDeleteEvent(t *testing.T) {
	events := newFakeEventRepo()
	seeded := seedEvent(t, events, "user-1")
	uc := NewEventUsecase(events)

	require.ErrorIs(t, uc.DeleteEvent("user-2", seeded.ID), domain.ErrNotOwner)

	require.NoError(t, uc.DeleteEvent("user-1", seeded.ID))
	_, err := uc.GetEventByID("user-1", seeded.ID)
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestSearchEvents(t *testing.T) {
	events := newFakeEventRepo()
	uc := NewEventUsecase(events)

	for i, company := range []string{"株式会社Example", "楽天株式会社", "Sky株式会社"} {
		_, created, err := events.InsertIfAbsent(&domain.Event{
			UserID:      "user-1",
			CompanyName: company,
			Title:       "一次面接のご案内",
			EventType:   domain.EventTypeInterview,
			StartAt:     time.Date(2025, 3, 10+i, 14, 0, 0, 0, time.UTC),
			Provenance:  domain.ProvenanceAuto,
			Status:      domain.EventStatusScheduled,
			DedupKey:    company,
		})
		require.NoError(t, err)
		require.True(t, created)
	}

	got, err := uc.SearchEvents("user-1", "楽天")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "楽天株式会社", got[0].CompanyName)

	// A blank query degrades to the plain listing.
	got, err = uc.SearchEvents("user-1", "  ")
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = uc.SearchEvents("user-1", "存在しない会社")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExtractCompany(t *testing.T) {
	uc := NewEventUsecase(newFakeEventRepo())

	got := uc.ExtractCompany("一次面接のご案内（株式会社Example）", "", "")
	assert.Equal(t, "株式会社Example", got)
}
