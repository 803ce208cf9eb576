//go:build integration

package repositories_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/Dosada05/tournament-recorder/db"
	"github.com/Dosada05/tournament-recorder/models"
	"github.com/Dosada05/tournament-recorder/repositories"
)

// startPostgres runs a throwaway Postgres and returns its DSN.
func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("recorder"),
		postgres.WithUsername("recorder"),
		postgres.WithPassword("recorder"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

func openDB(t *testing.T, driver, dsn string) *sql.DB {
	t.Helper()
	conn, err := db.Connect(driver, dsn, db.DefaultPoolConfig, 10*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	ctx := context.Background()
	require.NoError(t, db.EnsureSchema(ctx, conn))
	// Схема должна применяться повторно без ошибок.
	require.NoError(t, db.EnsureSchema(ctx, conn))

	_, err = conn.ExecContext(ctx, `TRUNCATE players, matches, tournaments RESTART IDENTITY`)
	require.NoError(t, err)
	return conn
}

func TestPostgresRepositories(t *testing.T) {
	dsn := startPostgres(t)

	for _, driver := range []string{"postgres", "pgx"} {
		t.Run(driver, func(t *testing.T) {
			t.Run("players", func(t *testing.T) { testPlayers(t, openDB(t, driver, dsn)) })
			t.Run("matches", func(t *testing.T) { testMatches(t, openDB(t, driver, dsn)) })
			t.Run("tournaments", func(t *testing.T) { testTournaments(t, openDB(t, driver, dsn)) })
		})
	}
}

func testPlayers(t *testing.T, conn *sql.DB) {
	ctx := context.Background()
	repo := repositories.NewPostgresPlayerRepository(conn)
	due := models.NewDate(2024, time.June, 30)

	created, err := repo.Upsert(ctx, &models.Player{ID: 5, Name: "Ann", Gender: "Girls", DueDate: &due, Seq: 2})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Upsert(ctx, &models.Player{ID: 5, Name: "Ann B", Gender: "Boys"})
	require.NoError(t, err)
	assert.False(t, created)

	// The identity sequence must have moved past the explicit id.
	generated := &models.Player{Name: "Gen", Gender: "Boys"}
	require.NoError(t, repo.Create(ctx, generated))
	assert.Greater(t, generated.ID, int64(5))

	players, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, int64(5), players[0].ID)
	assert.Equal(t, "Ann B", players[0].Name)
	assert.Nil(t, players[0].DueDate)
	assert.Zero(t, players[0].Seq)
	assert.False(t, players[0].CreatedAt.IsZero())

	require.NoError(t, repo.Delete(ctx, 5))
	require.NoError(t, repo.Delete(ctx, 5))
	players, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, generated.ID, players[0].ID)

	t.Run("concurrent upserts of one id", func(t *testing.T) {
		var wg sync.WaitGroup
		var mu sync.Mutex
		inserts := 0
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				created, err := repo.Upsert(ctx, &models.Player{ID: 900, Name: "Race", Gender: "Boys"})
				assert.NoError(t, err)
				if created {
					mu.Lock()
					inserts++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, inserts)
	})

	t.Run("blank name rejected by the store", func(t *testing.T) {
		err := repo.Create(ctx, &models.Player{Name: "  ", Gender: "Boys"})
		assert.True(t, errors.Is(err, repositories.ErrConstraintViolation), "got %v", err)
	})
}

func testMatches(t *testing.T, conn *sql.DB) {
	ctx := context.Background()
	repo := repositories.NewPostgresMatchRepository(conn)
	d1 := models.NewDate(2024, time.May, 1)
	d2 := models.NewDate(2024, time.May, 2)
	s1, s2 := 21.5, 15.0

	m := &models.Match{Date: &d1, Player1: "A", Player2: "B", Score1: &s1, Score2: &s2, Winner: "A", Round: 1}
	require.NoError(t, repo.Create(ctx, m))
	assert.NotZero(t, m.ID)
	require.NoError(t, repo.Create(ctx, &models.Match{Date: &d2, Player1: "C", Player2: "D", Winner: "D"}))
	require.NoError(t, repo.Create(ctx, &models.Match{Player1: "E", Player2: "F", Winner: "F"}))
	require.NoError(t, repo.Create(ctx, &models.Match{Date: &d1, Player1: "G", Player2: "H", Winner: "H"}))

	matches, err := repo.ListByDate(ctx, d1)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "A", matches[0].Player1)
	require.NotNil(t, matches[0].Score1)
	assert.Equal(t, 21.5, *matches[0].Score1)
	assert.Equal(t, "2024-05-01", matches[0].Date.String())
	assert.Nil(t, matches[1].Score1)
	assert.Less(t, matches[0].ID, matches[1].ID)
}

func testTournaments(t *testing.T, conn *sql.DB) {
	ctx := context.Background()
	repo := repositories.NewPostgresTournamentRepository(conn)
	d := models.NewDate(2024, time.May, 1)
	payload := json.RawMessage(`{"rounds":[["A","B"],["C",null]],"meta":{"b":1,"a":2}}`)

	require.NoError(t, repo.Create(ctx, &models.Snapshot{Date: d, Key: "U12", Data: payload}))
	require.NoError(t, repo.Create(ctx, &models.Snapshot{Date: d, Key: "U12", Data: payload}))

	snaps, err := repo.ListByDate(ctx, d)
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.JSONEq(t, string(payload), string(snaps[0].Data))
	assert.Equal(t, "U12", snaps[1].Key)
}
