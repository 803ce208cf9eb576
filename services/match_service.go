package services

import (
	"context"
	"log/slog"

	"github.com/Dosada05/tournament-recorder/models"
	"github.com/Dosada05/tournament-recorder/repositories"
)

// MatchService records results. Resubmitting a payload stores a second row.
type MatchService interface {
	Record(ctx context.Context, input MatchInput) (*models.Match, error)
	ListByDate(ctx context.Context, date models.Date) ([]models.Match, error)
}

type matchService struct {
	matchRepo repositories.MatchRepository
	strict    bool
	opts      Options
}

// NewMatchService builds the service. strict turns on the extra checks of
// NormalizeMatch (distinct players, both scores present).
func NewMatchService(matchRepo repositories.MatchRepository, strict bool, opts Options) MatchService {
	return &matchService{
		matchRepo: matchRepo,
		strict:    strict,
		opts:      opts.withDefaults(),
	}
}

func (s *matchService) Record(ctx context.Context, input MatchInput) (match *models.Match, err error) {
	defer func() { s.opts.Metrics.Operation("record_match", outcome(err)) }()

	match, err = NormalizeMatch(input, s.strict)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.opts.queryContext(ctx)
	defer cancel()

	if err = s.matchRepo.Create(ctx, match); err != nil {
		return nil, storageError("record match", err)
	}

	s.opts.Logger.Info("match recorded",
		slog.Int64("match_id", match.ID),
		slog.String("winner", match.Winner),
	)
	s.opts.publish(match.Date, MessageMatchRecorded, match)
	return match, nil
}

func (s *matchService) ListByDate(ctx context.Context, date models.Date) ([]models.Match, error) {
	ctx, cancel := s.opts.queryContext(ctx)
	defer cancel()

	matches, err := s.matchRepo.ListByDate(ctx, date)
	if err != nil {
		return nil, storageError("list matches", err)
	}
	if matches == nil {
		return []models.Match{}, nil
	}
	return matches, nil
}
