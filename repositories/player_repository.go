package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/tournament-recorder/models"
)

// PlayerRepository is the roster side of the persistence gateway.
type PlayerRepository interface {
	// List returns every player ordered by id.
	List(ctx context.Context) ([]models.Player, error)
	// Create inserts a player with a store-generated id and fills ID and timestamps.
	Create(ctx context.Context, player *models.Player) error
	// Upsert atomically inserts the player or overwrites every field of the row
	// with the same id. It reports whether a new row was created.
	Upsert(ctx context.Context, player *models.Player) (bool, error)
	// Delete removes the player if present. A missing id is not an error.
	Delete(ctx context.Context, id int64) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

const playerColumns = `id, seq, name, phone, national_id, due_date, gender, photo, created_at, updated_at`

func (r *postgresPlayerRepository) List(ctx context.Context) ([]models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(
			&p.ID, &p.Seq, &p.Name, &p.Phone, &p.NationalID, &p.DueDate,
			&p.Gender, &p.Photo, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during player rows iteration: %w", err)
	}
	return players, nil
}

func (r *postgresPlayerRepository) Create(ctx context.Context, p *models.Player) error {
	query := `
		INSERT INTO players (seq, name, phone, national_id, due_date, gender, photo)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		p.Seq, p.Name, p.Phone, p.NationalID, p.DueDate, p.Gender, p.Photo,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return classifyError(err)
	}
	return nil
}

// Upsert relies on ON CONFLICT so concurrent upserts of one id never race.
// xmax is zero only for a freshly inserted tuple.
func (r *postgresPlayerRepository) Upsert(ctx context.Context, p *models.Player) (bool, error) {
	query := `
		INSERT INTO players (id, seq, name, phone, national_id, due_date, gender, photo)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			seq = EXCLUDED.seq,
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			national_id = EXCLUDED.national_id,
			due_date = EXCLUDED.due_date,
			gender = EXCLUDED.gender,
			photo = EXCLUDED.photo,
			updated_at = NOW()
		RETURNING created_at, updated_at, (xmax = 0) AS inserted`

	// Explicit ids bypass the identity sequence; move it past the new maximum
	// so later generated ids cannot collide.
	const syncSequence = `
		SELECT setval(pg_get_serial_sequence('players', 'id'),
		              GREATEST((SELECT MAX(id) FROM players), 1))`

	var inserted bool
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, query,
			p.ID, p.Seq, p.Name, p.Phone, p.NationalID, p.DueDate, p.Gender, p.Photo,
		).Scan(&p.CreatedAt, &p.UpdatedAt, &inserted); err != nil {
			return classifyError(err)
		}
		if !inserted {
			return nil
		}
		if _, err := tx.ExecContext(ctx, syncSequence); err != nil {
			return fmt.Errorf("failed to advance player id sequence: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return inserted, nil
}

func (r *postgresPlayerRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM players WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete player %d: %w", id, classifyError(err))
	}
	return nil
}
