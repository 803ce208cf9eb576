package services

import (
	"context"
	"log/slog"

	"github.com/Dosada05/tournament-recorder/models"
	"github.com/Dosada05/tournament-recorder/repositories"
)

// TournamentService saves and loads opaque bracket snapshots by date.
type TournamentService interface {
	SaveSnapshot(ctx context.Context, input SnapshotInput) (*models.Snapshot, error)
	LoadSnapshots(ctx context.Context, date models.Date) ([]models.Snapshot, error)
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	archiver       SnapshotArchiver
	opts           Options
}

// NewTournamentService builds the service. archiver may be nil.
func NewTournamentService(tournamentRepo repositories.TournamentRepository, archiver SnapshotArchiver, opts Options) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		archiver:       archiver,
		opts:           opts.withDefaults(),
	}
}

func (s *tournamentService) SaveSnapshot(ctx context.Context, input SnapshotInput) (snapshot *models.Snapshot, err error) {
	defer func() { s.opts.Metrics.Operation("save_snapshot", outcome(err)) }()

	snapshot, err = NormalizeSnapshot(input)
	if err != nil {
		return nil, err
	}

	queryCtx, cancel := s.opts.queryContext(ctx)
	defer cancel()

	if err = s.tournamentRepo.Create(queryCtx, snapshot); err != nil {
		return nil, storageError("save snapshot", err)
	}

	logger := s.opts.Logger.With(
		slog.Int64("snapshot_id", snapshot.ID),
		slog.String("date", snapshot.Date.String()),
		slog.String("key", snapshot.Key),
	)
	logger.Info("tournament snapshot saved")

	// The row is already durable; archive problems are reported, not returned.
	if s.archiver != nil {
		if archiveErr := s.archiver.Archive(ctx, snapshot); archiveErr != nil {
			s.opts.Metrics.ArchiveFailed()
			logger.Error("failed to archive tournament snapshot", slog.Any("error", archiveErr))
		}
	}

	s.opts.publish(&snapshot.Date, MessageSnapshotSaved, snapshot)
	return snapshot, nil
}

func (s *tournamentService) LoadSnapshots(ctx context.Context, date models.Date) ([]models.Snapshot, error) {
	ctx, cancel := s.opts.queryContext(ctx)
	defer cancel()

	snapshots, err := s.tournamentRepo.ListByDate(ctx, date)
	if err != nil {
		return nil, storageError("load snapshots", err)
	}
	if snapshots == nil {
		return []models.Snapshot{}, nil
	}
	return snapshots, nil
}
