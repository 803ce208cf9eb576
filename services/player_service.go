package services

import (
	"context"
	"log/slog"

	"github.com/Dosada05/tournament-recorder/models"
	"github.com/Dosada05/tournament-recorder/repositories"
)

// PlayerService reconciles incoming player payloads with the roster.
type PlayerService interface {
	List(ctx context.Context) ([]models.Player, error)
	// Upsert validates the payload and writes the full record. The bool is
	// true when a new roster entry was created.
	Upsert(ctx context.Context, input PlayerInput) (*models.Player, bool, error)
	// Delete succeeds whether or not the player existed.
	Delete(ctx context.Context, id int64) error
}

type playerService struct {
	playerRepo repositories.PlayerRepository
	opts       Options
}

func NewPlayerService(playerRepo repositories.PlayerRepository, opts Options) PlayerService {
	return &playerService{
		playerRepo: playerRepo,
		opts:       opts.withDefaults(),
	}
}

func (s *playerService) List(ctx context.Context) ([]models.Player, error) {
	ctx, cancel := s.opts.queryContext(ctx)
	defer cancel()

	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, storageError("list players", err)
	}
	if players == nil {
		return []models.Player{}, nil
	}
	return players, nil
}

func (s *playerService) Upsert(ctx context.Context, input PlayerInput) (player *models.Player, created bool, err error) {
	defer func() { s.opts.Metrics.Operation("upsert_player", outcome(err)) }()

	player, err = NormalizePlayer(input)
	if err != nil {
		return nil, false, err
	}

	ctx, cancel := s.opts.queryContext(ctx)
	defer cancel()

	// Без id запись всегда новая: идентификатор выдаёт хранилище.
	if player.ID == 0 {
		if err = s.playerRepo.Create(ctx, player); err != nil {
			return nil, false, storageError("create player", err)
		}
		s.opts.Logger.Info("player created", slog.Int64("player_id", player.ID))
		return player, true, nil
	}

	created, err = s.playerRepo.Upsert(ctx, player)
	if err != nil {
		return nil, false, storageError("upsert player", err)
	}
	s.opts.Logger.Info("player upserted", slog.Int64("player_id", player.ID), slog.Bool("created", created))
	return player, created, nil
}

func (s *playerService) Delete(ctx context.Context, id int64) (err error) {
	defer func() { s.opts.Metrics.Operation("delete_player", outcome(err)) }()

	ctx, cancel := s.opts.queryContext(ctx)
	defer cancel()

	if err = s.playerRepo.Delete(ctx, id); err != nil {
		return storageError("delete player", err)
	}
	return nil
}
