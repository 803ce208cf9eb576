package services

import (
	"context"
	"sync"

	"github.com/Dosada05/tournament-recorder/models"
)

// FakePlayerRepository lets each test script only the calls it cares about.
type FakePlayerRepository struct {
	ListFn   func(ctx context.Context) ([]models.Player, error)
	CreateFn func(ctx context.Context, player *models.Player) error
	UpsertFn func(ctx context.Context, player *models.Player) (bool, error)
	DeleteFn func(ctx context.Context, id int64) error

	calls []string
}

func (f *FakePlayerRepository) List(ctx context.Context) ([]models.Player, error) {
	f.calls = append(f.calls, "List")
	if f.ListFn != nil {
		return f.ListFn(ctx)
	}
	return nil, nil
}

func (f *FakePlayerRepository) Create(ctx context.Context, player *models.Player) error {
	f.calls = append(f.calls, "Create")
	if f.CreateFn != nil {
		return f.CreateFn(ctx, player)
	}
	return nil
}

func (f *FakePlayerRepository) Upsert(ctx context.Context, player *models.Player) (bool, error) {
	f.calls = append(f.calls, "Upsert")
	if f.UpsertFn != nil {
		return f.UpsertFn(ctx, player)
	}
	return false, nil
}

func (f *FakePlayerRepository) Delete(ctx context.Context, id int64) error {
	f.calls = append(f.calls, "Delete")
	if f.DeleteFn != nil {
		return f.DeleteFn(ctx, id)
	}
	return nil
}

type FakeMatchRepository struct {
	CreateFn     func(ctx context.Context, match *models.Match) error
	ListByDateFn func(ctx context.Context, date models.Date) ([]models.Match, error)

	calls []string
}

func (f *FakeMatchRepository) Create(ctx context.Context, match *models.Match) error {
	f.calls = append(f.calls, "Create")
	if f.CreateFn != nil {
		return f.CreateFn(ctx, match)
	}
	return nil
}

func (f *FakeMatchRepository) ListByDate(ctx context.Context, date models.Date) ([]models.Match, error) {
	f.calls = append(f.calls, "ListByDate")
	if f.ListByDateFn != nil {
		return f.ListByDateFn(ctx, date)
	}
	return nil, nil
}

type FakeTournamentRepository struct {
	CreateFn     func(ctx context.Context, snapshot *models.Snapshot) error
	ListByDateFn func(ctx context.Context, date models.Date) ([]models.Snapshot, error)

	calls []string
}

func (f *FakeTournamentRepository) Create(ctx context.Context, snapshot *models.Snapshot) error {
	f.calls = append(f.calls, "Create")
	if f.CreateFn != nil {
		return f.CreateFn(ctx, snapshot)
	}
	return nil
}

func (f *FakeTournamentRepository) ListByDate(ctx context.Context, date models.Date) ([]models.Snapshot, error) {
	f.calls = append(f.calls, "ListByDate")
	if f.ListByDateFn != nil {
		return f.ListByDateFn(ctx, date)
	}
	return nil, nil
}

type FakeArchiver struct {
	ArchiveFn func(ctx context.Context, snapshot *models.Snapshot) error
	archived  []int64
}

func (f *FakeArchiver) Archive(ctx context.Context, snapshot *models.Snapshot) error {
	f.archived = append(f.archived, snapshot.ID)
	if f.ArchiveFn != nil {
		return f.ArchiveFn(ctx, snapshot)
	}
	return nil
}

// recordingBroadcaster captures every room message.
type recordingBroadcaster struct {
	mu       sync.Mutex
	messages map[string][]LiveMessage
}

func newRecordingBroadcaster() *recordingBroadcaster {
	return &recordingBroadcaster{messages: make(map[string][]LiveMessage)}
}

func (b *recordingBroadcaster) BroadcastToRoom(roomID string, message interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages[roomID] = append(b.messages[roomID], message.(LiveMessage))
}

func (b *recordingBroadcaster) room(roomID string) []LiveMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.messages[roomID]
}

func ptr[T any](v T) *T { return &v }
