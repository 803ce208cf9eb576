package repositories

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/tournament-recorder/models"
)

// MemoryStore is an in-process gateway with the same contracts as the
// Postgres repositories. It backs STORAGE_BACKEND=memory and the tests.
type MemoryStore struct {
	mu           sync.Mutex
	now          func() time.Time
	players      map[int64]models.Player
	nextPlayerID int64
	matches      []models.Match
	snapshots    []models.Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:          time.Now,
		players:      make(map[int64]models.Player),
		nextPlayerID: 1,
	}
}

func (s *MemoryStore) Players() PlayerRepository { return memoryPlayers{s} }
func (s *MemoryStore) Matches() MatchRepository { return memoryMatches{s} }
func (s *MemoryStore) Tournaments() TournamentRepository { return memoryTournaments{s} }

// Ping always succeeds; it lets the store stand in for a database health check.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

type memoryPlayers struct{ s *MemoryStore }

func (r memoryPlayers) List(ctx context.Context) ([]models.Player, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	players := make([]models.Player, 0, len(r.s.players))
	for _, p := range r.s.players {
		players = append(players, clonePlayer(p))
	}
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	return players, nil
}

func (r memoryPlayers) Create(ctx context.Context, p *models.Player) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for {
		if _, taken := r.s.players[r.s.nextPlayerID]; !taken {
			break
		}
		r.s.nextPlayerID++
	}
	now := r.s.now()
	p.ID = r.s.nextPlayerID
	p.CreatedAt, p.UpdatedAt = now, now
	r.s.nextPlayerID++
	r.s.players[p.ID] = clonePlayer(*p)
	return nil
}

func (r memoryPlayers) Upsert(ctx context.Context, p *models.Player) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	existing, found := r.s.players[p.ID]
	if found {
		p.CreatedAt = existing.CreatedAt
	} else {
		p.CreatedAt = now
		if p.ID >= r.s.nextPlayerID {
			r.s.nextPlayerID = p.ID + 1
		}
	}
	p.UpdatedAt = now
	r.s.players[p.ID] = clonePlayer(*p)
	return !found, nil
}

func (r memoryPlayers) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.players, id)
	return nil
}

type memoryMatches struct{ s *MemoryStore }

func (r memoryMatches) Create(ctx context.Context, m *models.Match) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m.ID = int64(len(r.s.matches)) + 1
	m.CreatedAt = r.s.now()
	r.s.matches = append(r.s.matches, cloneMatch(*m))
	return nil
}

func (r memoryMatches) ListByDate(ctx context.Context, date models.Date) ([]models.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	matches := make([]models.Match, 0)
	for _, m := range r.s.matches {
		if m.Date != nil && m.Date.Equal(date) {
			matches = append(matches, cloneMatch(m))
		}
	}
	return matches, nil
}

type memoryTournaments struct{ s *MemoryStore }

func (r memoryTournaments) Create(ctx context.Context, snap *models.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	snap.ID = int64(len(r.s.snapshots)) + 1
	snap.CreatedAt = r.s.now()
	r.s.snapshots = append(r.s.snapshots, cloneSnapshot(*snap))
	return nil
}

func (r memoryTournaments) ListByDate(ctx context.Context, date models.Date) ([]models.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	snapshots := make([]models.Snapshot, 0)
	for _, snap := range r.s.snapshots {
		if snap.Date.Equal(date) {
			snapshots = append(snapshots, cloneSnapshot(snap))
		}
	}
	return snapshots, nil
}

func clonePlayer(p models.Player) models.Player {
	if p.DueDate != nil {
		d := *p.DueDate
		p.DueDate = &d
	}
	return p
}

func cloneMatch(m models.Match) models.Match {
	if m.Date != nil {
		d := *m.Date
		m.Date = &d
	}
	if m.Score1 != nil {
		v := *m.Score1
		m.Score1 = &v
	}
	if m.Score2 != nil {
		v := *m.Score2
		m.Score2 = &v
	}
	return m
}

func cloneSnapshot(s models.Snapshot) models.Snapshot {
	s.Data = append(json.RawMessage(nil), s.Data...)
	return s
}
