package services

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-recorder/models"
)

func decode[T any](t *testing.T, body string) T {
	t.Helper()
	var in T
	require.NoError(t, json.Unmarshal([]byte(body), &in))
	return in
}

func requireValidationError(t *testing.T, err error, msg string) {
	t.Helper()
	require.Error(t, err)
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr), "want ValidationError, got %T", err)
	assert.Equal(t, msg, vErr.Message)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestNormalizePlayer(t *testing.T) {
	t.Run("missing name", func(t *testing.T) {
		_, err := NormalizePlayer(decode[PlayerInput](t, `{"phone":"555"}`))
		requireValidationError(t, err, MsgNameRequired)
	})

	t.Run("blank name", func(t *testing.T) {
		_, err := NormalizePlayer(decode[PlayerInput](t, `{"name":"   "}`))
		requireValidationError(t, err, MsgNameRequired)
	})

	t.Run("defaults", func(t *testing.T) {
		p, err := NormalizePlayer(decode[PlayerInput](t, `{"name":" Ann "}`))
		require.NoError(t, err)
		assert.Equal(t, &models.Player{Name: "Ann", Gender: models.DefaultGender}, p)
	})

	t.Run("full payload", func(t *testing.T) {
		p, err := NormalizePlayer(decode[PlayerInput](t, `{
			"id": 7, "seq": "3", "name": "Ann", "phone": "555-1234",
			"national_id": 12345, "due_date": "2024-06-30", "gender": "Girls", "photo": "aGVsbG8="
		}`))
		require.NoError(t, err)
		assert.Equal(t, int64(7), p.ID)
		assert.Equal(t, 3, p.Seq)
		assert.Equal(t, "555-1234", p.Phone)
		assert.Equal(t, "12345", p.NationalID)
		require.NotNil(t, p.DueDate)
		assert.Equal(t, "2024-06-30", p.DueDate.String())
		assert.Equal(t, "Girls", p.Gender)
		assert.Equal(t, "aGVsbG8=", p.Photo)
	})

	t.Run("unresolvable values degrade", func(t *testing.T) {
		p, err := NormalizePlayer(decode[PlayerInput](t, `{"id":"abc","seq":"x","name":"Ann","due_date":"soon","gender":"  "}`))
		require.NoError(t, err)
		assert.Zero(t, p.ID)
		assert.Zero(t, p.Seq)
		assert.Nil(t, p.DueDate)
		assert.Equal(t, models.DefaultGender, p.Gender)
	})

	t.Run("non-positive id is absent", func(t *testing.T) {
		for _, body := range []string{`{"id":0,"name":"A"}`, `{"id":-4,"name":"A"}`, `{"id":null,"name":"A"}`} {
			p, err := NormalizePlayer(decode[PlayerInput](t, body))
			require.NoError(t, err)
			assert.Zero(t, p.ID, body)
		}
	})
}

func TestNormalizeMatch(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		strict     bool
		wantErr    string
		wantWinner string
		check      func(t *testing.T, m *models.Match)
	}{
		{name: "missing player2", body: `{"player1":"A"}`, wantErr: MsgPlayersRequired},
		{name: "blank player1", body: `{"player1":" ","player2":"B"}`, wantErr: MsgPlayersRequired},
		{name: "empty body", body: `{}`, wantErr: MsgPlayersRequired},
		{
			name:       "derived winner",
			body:       `{"player1":"A","player2":"B","score1":21,"score2":15}`,
			wantWinner: "A",
		},
		{
			name:       "supplied winner kept verbatim",
			body:       `{"player1":"A","player2":"B","score1":21,"score2":15,"winner":"B"}`,
			wantWinner: "B",
		},
		{
			name:       "blank winner is derived",
			body:       `{"player1":"A","player2":"B","score1":1,"score2":2,"winner":"  "}`,
			wantWinner: "B",
		},
		{
			name:       "unparsable scores become null",
			body:       `{"player1":"A","player2":"B","score1":"n/a","score2":"7"}`,
			wantWinner: "B",
			check: func(t *testing.T, m *models.Match) {
				assert.Nil(t, m.Score1)
				require.NotNil(t, m.Score2)
				assert.Equal(t, 7.0, *m.Score2)
			},
		},
		{
			name:       "defaults",
			body:       `{"player1":"A","player2":"B","round":"first"}`,
			wantWinner: "B",
			check: func(t *testing.T, m *models.Match) {
				assert.Nil(t, m.Date)
				assert.Empty(t, m.Category)
				assert.Empty(t, m.Gender)
				assert.Zero(t, m.Round)
			},
		},
		{
			name:       "lenient mode allows same player",
			body:       `{"player1":"A","player2":"A"}`,
			wantWinner: "A",
		},
		{name: "strict rejects same player", body: `{"player1":"Ann","player2":"ann","score1":1,"score2":2}`, strict: true, wantErr: MsgPlayersMustDiffer},
		{name: "strict rejects missing score", body: `{"player1":"A","player2":"B","score1":1}`, strict: true, wantErr: MsgScoresRequired},
		{
			name:       "strict accepts complete match",
			body:       `{"date":"2024-05-01","category":"U12","gender":"Boys","player1":"A","player2":"B","score1":3,"score2":1,"round":2}`,
			strict:     true,
			wantWinner: "A",
			check: func(t *testing.T, m *models.Match) {
				require.NotNil(t, m.Date)
				assert.Equal(t, "2024-05-01", m.Date.String())
				assert.Equal(t, "U12", m.Category)
				assert.Equal(t, 2, m.Round)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NormalizeMatch(decode[MatchInput](t, tt.body), tt.strict)
			if tt.wantErr != "" {
				requireValidationError(t, err, tt.wantErr)
				assert.Nil(t, m)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantWinner, m.Winner)
			if tt.check != nil {
				tt.check(t, m)
			}
		})
	}
}

func TestNormalizeSnapshot(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "missing date", body: `{"key":"k","data":{}}`, wantErr: MsgDateRequired},
		{name: "bad date", body: `{"date":"tomorrow","key":"k","data":{}}`, wantErr: MsgDateRequired},
		{name: "missing key", body: `{"date":"2024-05-01","data":{}}`, wantErr: MsgKeyRequired},
		{name: "blank key", body: `{"date":"2024-05-01","key":" ","data":{}}`, wantErr: MsgKeyRequired},
		{name: "missing data", body: `{"date":"2024-05-01","key":"k"}`, wantErr: MsgDataRequired},
		{name: "null data", body: `{"date":"2024-05-01","key":"k","data":null}`, wantErr: MsgDataRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeSnapshot(decode[SnapshotInput](t, tt.body))
			requireValidationError(t, err, tt.wantErr)
		})
	}

	t.Run("data kept as sent", func(t *testing.T) {
		s, err := NormalizeSnapshot(decode[SnapshotInput](t, `{"date":"2024-05-01","key":"U12 Boys","data":{"rounds":[[1,2]],"x":null}}`))
		require.NoError(t, err)
		assert.Equal(t, "U12 Boys", s.Key)
		assert.Equal(t, "2024-05-01", s.Date.String())
		assert.JSONEq(t, `{"rounds":[[1,2]],"x":null}`, string(s.Data))
	})
}
