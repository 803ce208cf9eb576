package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/tournament-recorder/models"
)

// TournamentRepository stores bracket snapshots. Every save appends a row,
// so repeated saves for one date and key build up history.
type TournamentRepository interface {
	Create(ctx context.Context, snapshot *models.Snapshot) error
	ListByDate(ctx context.Context, date models.Date) ([]models.Snapshot, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) Create(ctx context.Context, s *models.Snapshot) error {
	query := `
		INSERT INTO tournaments (date, key, data)
		VALUES ($1, $2, $3::json)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, s.Date, s.Key, string(s.Data)).Scan(&s.ID, &s.CreatedAt)
	return classifyError(err)
}

func (r *postgresTournamentRepository) ListByDate(ctx context.Context, date models.Date) ([]models.Snapshot, error) {
	query := `
		SELECT id, date, key, data, created_at
		FROM tournaments
		WHERE date = $1
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournament snapshots for %s: %w", date, err)
	}
	defer rows.Close()

	snapshots := make([]models.Snapshot, 0)
	for rows.Next() {
		var s models.Snapshot
		var data []byte
		if err := rows.Scan(&s.ID, &s.Date, &s.Key, &data, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tournament snapshot: %w", err)
		}
		s.Data = data
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during tournament rows iteration: %w", err)
	}
	return snapshots, nil
}
