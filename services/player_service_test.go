package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-recorder/models"
	"github.com/Dosada05/tournament-recorder/repositories"
	"github.com/Dosada05/tournament-recorder/utils"
)

var ignoreTimestamps = cmpopts.IgnoreFields(models.Player{}, "CreatedAt", "UpdatedAt")

func TestPlayerService_UpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := NewPlayerService(repositories.NewMemoryStore().Players(), Options{})

	input := decode[PlayerInput](t, `{"id":7,"name":"Ann","seq":2}`)

	first, created, err := svc.Upsert(ctx, input)
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := svc.Upsert(ctx, input)
	require.NoError(t, err)
	assert.False(t, created)

	if diff := cmp.Diff(first, second, ignoreTimestamps); diff != "" {
		t.Errorf("second upsert changed the record (-first +second):\n%s", diff)
	}

	players, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, int64(7), players[0].ID)
}

func TestPlayerService_UpsertOverwritesEveryField(t *testing.T) {
	ctx := context.Background()
	svc := NewPlayerService(repositories.NewMemoryStore().Players(), Options{})

	_, _, err := svc.Upsert(ctx, decode[PlayerInput](t, `{
		"id": 3, "name": "Ann", "phone": "555", "national_id": "X1",
		"due_date": "2024-01-01", "gender": "Girls", "photo": "abc", "seq": 4
	}`))
	require.NoError(t, err)

	// Omitted fields fall back to defaults instead of keeping old values.
	updated, created, err := svc.Upsert(ctx, decode[PlayerInput](t, `{"id":3,"name":"Ann B"}`))
	require.NoError(t, err)
	assert.False(t, created)

	want := &models.Player{ID: 3, Name: "Ann B", Gender: models.DefaultGender}
	if diff := cmp.Diff(want, updated, ignoreTimestamps); diff != "" {
		t.Errorf("unexpected record (-want +got):\n%s", diff)
	}

	players, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, players, 1)
	if diff := cmp.Diff(*want, players[0], ignoreTimestamps); diff != "" {
		t.Errorf("stored record differs (-want +got):\n%s", diff)
	}
}

func TestPlayerService_UpsertWithoutIDCreates(t *testing.T) {
	ctx := context.Background()
	svc := NewPlayerService(repositories.NewMemoryStore().Players(), Options{})

	a, created, err := svc.Upsert(ctx, decode[PlayerInput](t, `{"name":"A"}`))
	require.NoError(t, err)
	assert.True(t, created)

	b, created, err := svc.Upsert(ctx, decode[PlayerInput](t, `{"name":"A"}`))
	require.NoError(t, err)
	assert.True(t, created)

	assert.NotZero(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestPlayerService_GeneratedIDsSkipExplicitOnes(t *testing.T) {
	ctx := context.Background()
	svc := NewPlayerService(repositories.NewMemoryStore().Players(), Options{})

	_, _, err := svc.Upsert(ctx, decode[PlayerInput](t, `{"id":1,"name":"Explicit"}`))
	require.NoError(t, err)

	p, created, err := svc.Upsert(ctx, decode[PlayerInput](t, `{"name":"Generated"}`))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(2), p.ID)
}

func TestPlayerService_ValidationFailureWritesNothing(t *testing.T) {
	repo := &FakePlayerRepository{}
	svc := NewPlayerService(repo, Options{})

	_, _, err := svc.Upsert(context.Background(), decode[PlayerInput](t, `{"id":5,"name":"  "}`))
	requireValidationError(t, err, MsgNameRequired)
	assert.Empty(t, repo.calls)
}

func TestPlayerService_StorageErrors(t *testing.T) {
	boom := errors.New("connection refused")

	tests := []struct {
		name string
		repo *FakePlayerRepository
		call func(svc PlayerService) error
	}{
		{
			name: "create",
			repo: &FakePlayerRepository{CreateFn: func(context.Context, *models.Player) error { return boom }},
			call: func(svc PlayerService) error {
				_, _, err := svc.Upsert(context.Background(), PlayerInput{Name: utils.NewFlexString("A")})
				return err
			},
		},
		{
			name: "upsert",
			repo: &FakePlayerRepository{UpsertFn: func(context.Context, *models.Player) (bool, error) { return false, boom }},
			call: func(svc PlayerService) error {
				_, _, err := svc.Upsert(context.Background(), decode[PlayerInput](t, `{"id":9,"name":"A"}`))
				return err
			},
		},
		{
			name: "list",
			repo: &FakePlayerRepository{ListFn: func(context.Context) ([]models.Player, error) { return nil, boom }},
			call: func(svc PlayerService) error {
				_, err := svc.List(context.Background())
				return err
			},
		},
		{
			name: "delete",
			repo: &FakePlayerRepository{DeleteFn: func(context.Context, int64) error { return boom }},
			call: func(svc PlayerService) error {
				return svc.Delete(context.Background(), 1)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call(NewPlayerService(tt.repo, Options{}))
			require.Error(t, err)

			var storageErr *StorageError
			assert.ErrorAs(t, err, &storageErr)
			assert.ErrorIs(t, err, ErrStorage)
			assert.ErrorIs(t, err, boom)
			assert.NotErrorIs(t, err, ErrValidationFailed)
		})
	}
}

func TestPlayerService_Delete(t *testing.T) {
	ctx := context.Background()
	svc := NewPlayerService(repositories.NewMemoryStore().Players(), Options{})

	_, _, err := svc.Upsert(ctx, decode[PlayerInput](t, `{"id":4,"name":"A"}`))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, 4))
	// Повторное удаление тоже успешно.
	require.NoError(t, svc.Delete(ctx, 4))
	require.NoError(t, svc.Delete(ctx, 999))

	players, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, players)
	assert.NotNil(t, players)
}

func TestPlayerService_QueryTimeoutApplied(t *testing.T) {
	repo := &FakePlayerRepository{
		ListFn: func(ctx context.Context) ([]models.Player, error) {
			_, ok := ctx.Deadline()
			assert.True(t, ok, "gateway call should carry a deadline")
			return nil, nil
		},
	}
	_, err := NewPlayerService(repo, Options{}).List(context.Background())
	require.NoError(t, err)
}
