package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/tournament-recorder/models"
)

// MatchRepository is append-only: there is no update or delete path.
type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	// ListByDate returns the matches of one day in insertion order.
	ListByDate(ctx context.Context, date models.Date) ([]models.Match, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) Create(ctx context.Context, m *models.Match) error {
	query := `
		INSERT INTO matches
			(date, category, gender, player1, player2, score1, score2, winner, round)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		m.Date,
		m.Category,
		m.Gender,
		m.Player1,
		m.Player2,
		m.Score1,
		m.Score2,
		m.Winner,
		m.Round,
	).Scan(&m.ID, &m.CreatedAt)

	return classifyError(err)
}

func (r *postgresMatchRepository) ListByDate(ctx context.Context, date models.Date) ([]models.Match, error) {
	query := `
		SELECT id, date, category, gender, player1, player2, score1, score2, winner, round, created_at
		FROM matches
		WHERE date = $1
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for %s: %w", date, err)
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		var m models.Match
		if err := rows.Scan(
			&m.ID,
			&m.Date,
			&m.Category,
			&m.Gender,
			&m.Player1,
			&m.Player2,
			&m.Score1,
			&m.Score2,
			&m.Winner,
			&m.Round,
			&m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}
