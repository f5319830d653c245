package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"jobmail-backend/internal/event/domain"
	"jobmail-backend/internal/event/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jst(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	return loc
}

type fakeMailSource struct {
	msgs []*domain.FetchedMessage
	err  error
}

func (f *fakeMailSource) FetchRecent(_ context.Context, _ string, _ int) ([]*domain.FetchedMessage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.msgs, nil
}

type fakeMessageRepo struct {
	byKey     map[string]*domain.InboundMessage
	nextID    int
	upsertErr map[string]error
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{
		byKey:     make(map[string]*domain.InboundMessage),
		upsertErr: make(map[string]error),
	}
}

func (f *fakeMessageRepo) Upsert(msg *domain.InboundMessage) (*domain.InboundMessage, error) {
	if err := f.upsertErr[msg.ProviderMessageID]; err != nil {
		return nil, err
	}
	key := msg.UserID + "|" + msg.ProviderMessageID
	if existing, ok := f.byKey[key]; ok {
		existing.Subject = msg.Subject
		existing.Snippet = msg.Snippet
		return existing, nil
	}
	f.nextID++
	stored := *msg
	stored.ID = fmt.Sprintf("msg-%d", f.nextID)
	stored.ProcessingStatus = domain.StatusQueued
	f.byKey[key] = &stored
	return &stored, nil
}

func (f *fakeMessageRepo) FindQueuedByUser(userID string) ([]*domain.InboundMessage, error) {
	var out []*domain.InboundMessage
	for _, m := range f.byKey {
		if m.UserID == userID && m.ProcessingStatus == domain.StatusQueued {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeMessageRepo) UpdateStatus(id string, status domain.ProcessingStatus) error {
	for _, m := range f.byKey {
		if m.ID == id {
			m.ProcessingStatus = status
			return nil
		}
	}
	return errors.New("message not found")
}

func (f *fakeMessageRepo) statusOf(userID, providerID string) domain.ProcessingStatus {
	m := f.byKey[userID+"|"+providerID]
	if m == nil {
		return ""
	}
	return m.ProcessingStatus
}

type fakeEventRepo struct {
	events      map[string]*domain.Event
	nextID      int
	updateCalls int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[string]*domain.Event)}
}

func (f *fakeEventRepo) InsertIfAbsent(ev *domain.Event) (*domain.Event, bool, error) {
	for _, existing := range f.events {
		if existing.UserID == ev.UserID && existing.DedupKey == ev.DedupKey {
			return existing, false, nil
		}
	}
	f.nextID++
	stored := *ev
	stored.ID = fmt.Sprintf("ev-%d", f.nextID)
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	f.events[stored.ID] = &stored
	return &stored, true, nil
}

func (f *fakeEventRepo) FindByUser(userID string) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, ev := range f.events {
		if ev.UserID == userID {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

func (f *fakeEventRepo) FindByID(id string) (*domain.Event, error) {
	ev, ok := f.events[id]
	if !ok {
		return nil, nil
	}
	copied := *ev
	return &copied, nil
}

func (f *fakeEventRepo) Update(ev *domain.Event) error {
	if _, ok := f.events[ev.ID]; !ok {
		return errors.New("event not found")
	}
	f.updateCalls++
	copied := *ev
	copied.UpdatedAt = time.Now()
	f.events[ev.ID] = &copied
	return nil
}

func (f *fakeEventRepo) Delete(id string) error {
	delete(f.events, id)
	return nil
}

func interviewMail(providerID string) *domain.FetchedMessage {
	return &domain.FetchedMessage{
		ProviderID: providerID,
		From:       "採用担当 <recruit@example.co.jp>",
		Subject:    "一次面接のご案内（株式会社Example）",
		BodyPlain:  "選考の日程は 2025-03-10 14:30 からとなります。",
		HeaderDate: "Mon, 03 Mar 2025 09:00:00 +0900",
	}
}

func TestSyncCreatesInterviewEvent(t *testing.T) {
	loc := jst(t)
	messages := newFakeMessageRepo()
	events := newFakeEventRepo()
	mail := &fakeMailSource{msgs: []*domain.FetchedMessage{interviewMail("g-1")}}

	uc := NewSyncUsecase(messages, events, mail, loc, PolicyActionableOnly, 50)
	got, err := uc.Sync(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, got, 1)

	ev := got[0]
	assert.Equal(t, "株式会社Example", ev.CompanyName)
	assert.Equal(t, domain.EventTypeInterview, ev.EventType)
	assert.Equal(t, "一次面接のご案内（株式会社Example）", ev.Title)
	assert.True(t, ev.StartAt.Equal(time.Date(2025, 3, 10, 14, 30, 0, 0, loc)))
	assert.Equal(t, domain.ProvenanceAuto, ev.Provenance)
	assert.Equal(t, domain.EventStatusScheduled, ev.Status)
	assert.Equal(t, domain.StatusParsed, messages.statusOf("user-1", "g-1"))
}

func TestSyncIsIdempotent(t *testing.T) {
	loc := jst(t)
	messages := newFakeMessageRepo()
	events := newFakeEventRepo()
	mail := &fakeMailSource{msgs: []*domain.FetchedMessage{interviewMail("g-1")}}

	uc := NewSyncUsecase(messages, events, mail, loc, PolicyActionableOnly, 50)

	first, err := uc.Sync(context.Background(), "user-1")
	require.NoError(t, err)
	second, err := uc.Sync(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Len(t, first, 1)
	assert.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Len(t, events.events, 1)
}

func TestSyncIgnoresNonActionableMail(t *testing.T) {
	messages := newFakeMessageRepo()
	events := newFakeEventRepo()
	mail := &fakeMailSource{msgs: []*domain.FetchedMessage{{
		ProviderID: "g-2",
		From:       "newsletter@jobs.example.com",
		Subject:    "今週の新着求人まとめ",
		BodyPlain:  "おすすめの求人を 2025-03-10 10:00 に配信しました。",
		HeaderDate: "Mon, 03 Mar 2025 09:00:00 +0900",
	}}}

	uc := NewSyncUsecase(messages, events, mail, jst(t), PolicyActionableOnly, 50)
	got, err := uc.Sync(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Empty(t, got)
	assert.Equal(t, domain.StatusParsed, messages.statusOf("user-1", "g-2"))
}

func TestSyncMarksUndatedMailFailed(t *testing.T) {
	messages := newFakeMessageRepo()
	events := newFakeEventRepo()
	mail := &fakeMailSource{msgs: []*domain.FetchedMessage{{
		ProviderID: "g-3",
		From:       "recruit@example.co.jp",
		Subject:    "一次面接について",
		BodyPlain:  "日程は追ってご連絡いたします。",
		HeaderDate: "Mon, 03 Mar 2025 09:00:00 +0900",
	}}}

	uc := NewSyncUsecase(messages, events, mail, jst(t), PolicyActionableOnly, 50)
	got, err := uc.Sync(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Empty(t, got)
	assert.Equal(t, domain.StatusFailed, messages.statusOf("user-1", "g-3"))
}

func TestSyncAllMessagesPolicyPinsUndatedMail(t *testing.T) {
	loc := jst(t)
	messages := newFakeMessageRepo()
	events := newFakeEventRepo()
	mail := &fakeMailSource{msgs: []*domain.FetchedMessage{{
		ProviderID: "g-4",
		From:       "hr@example.co.jp",
		Subject:    "書類を受領しました",
		BodyPlain:  "内容を確認のうえご連絡いたします。",
		HeaderDate: "Mon, 03 Mar 2025 09:00:00 +0900",
	}}}

	uc := NewSyncUsecase(messages, events, mail, loc, PolicyAllMessages, 50)
	got, err := uc.Sync(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, got, 1)

	received := time.Date(2025, 3, 3, 9, 0, 0, 0, loc)
	assert.Equal(t, domain.EventTypeOther, got[0].EventType)
	assert.True(t, got[0].StartAt.Equal(received))
	assert.Equal(t, domain.StatusParsed, messages.statusOf("user-1", "g-4"))
}

func TestSyncPropagatesAuthRequired(t *testing.T) {
	uc := NewSyncUsecase(newFakeMessageRepo(), newFakeEventRepo(), &fakeMailSource{err: domain.ErrAuthRequired}, jst(t), PolicyActionableOnly, 50)

	_, err := uc.Sync(context.Background(), "user-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestSyncProcessesQueuedBacklog(t *testing.T) {
	loc := jst(t)
	messages := newFakeMessageRepo()
	events := newFakeEventRepo()

	// A message recorded by an earlier run that never got processed.
	_, err := messages.Upsert(&domain.InboundMessage{
		UserID:            "user-1",
		ProviderMessageID: "old-1",
		FromAddress:       "recruit@example.co.jp",
		Subject:           "最終面接のご案内",
		BodyPlain:         "最終面接は 2025-04-01 10:00 からです。",
		ReceivedAt:        time.Date(2025, 3, 20, 12, 0, 0, 0, loc),
	})
	require.NoError(t, err)

	uc := NewSyncUsecase(messages, events, &fakeMailSource{}, loc, PolicyActionableOnly, 50)
	got, err := uc.Sync(context.Background(), "user-1")
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.True(t, got[0].StartAt.Equal(time.Date(2025, 4, 1, 10, 0, 0, 0, loc)))
}

func TestSyncLeavesManualEventsAlone(t *testing.T) {
	loc := jst(t)
	messages := newFakeMessageRepo()
	events := newFakeEventRepo()
	mail := &fakeMailSource{msgs: []*domain.FetchedMessage{interviewMail("g-1")}}

	startAt := time.Date(2025, 3, 10, 14, 30, 0, 0, loc)
	title := "一次面接のご案内（株式会社Example）"
	seeded, created, err := events.InsertIfAbsent(&domain.Event{
		UserID:      "user-1",
		CompanyName: "株式会社Example",
		Title:       title,
		EventType:   domain.EventTypeInterview,
		StartAt:     startAt,
		Provenance:  domain.ProvenanceManual,
		Status:      domain.EventStatusScheduled,
		Memo:        "会場は本社ビル",
		DedupKey:    parser.DedupKey("user-1", "株式会社Example", title, startAt),
	})
	require.NoError(t, err)
	require.True(t, created)

	uc := NewSyncUsecase(messages, events, mail, loc, PolicyActionableOnly, 50)
	got, err := uc.Sync(context.Background(), "user-1")
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, seeded.ID, got[0].ID)
	assert.Equal(t, "会場は本社ビル", got[0].Memo)
	assert.Equal(t, domain.ProvenanceManual, got[0].Provenance)
	assert.Zero(t, events.updateCalls)
}

func TestSyncOneBadMessageDoesNotAbortTheBatch(t *testing.T) {
	loc := jst(t)
	messages := newFakeMessageRepo()
	messages.upsertErr["broken-1"] = errors.New("connection reset")
	events := newFakeEventRepo()

	broken := interviewMail("broken-1")
	ok := interviewMail("g-9")
	ok.Subject = "会社説明会のご案内（株式会社Sample）"
	ok.BodyPlain = "説明会は 2025-03-15 13:00 より開催します。"
	mail := &fakeMailSource{msgs: []*domain.FetchedMessage{broken, ok}}

	uc := NewSyncUsecase(messages, events, mail, loc, PolicyActionableOnly, 50)
	got, err := uc.Sync(context.Background(), "user-1")
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, domain.EventTypeBriefing, got[0].EventType)
	assert.Equal(t, "株式会社Sample", got[0].CompanyName)
}
