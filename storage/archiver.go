package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/gosimple/slug"

	"github.com/Dosada05/tournament-recorder/models"
)

// SnapshotArchiver uploads each saved snapshot payload as a JSON object.
type SnapshotArchiver struct {
	uploader FileUploader
	prefix   string
	logger   *slog.Logger
}

func NewSnapshotArchiver(uploader FileUploader, logger *slog.Logger) *SnapshotArchiver {
	return &SnapshotArchiver{
		uploader: uploader,
		prefix:   "snapshots",
		logger:   logger,
	}
}

// ObjectKey is snapshots/<date>/<slug of key>/<id>.json. Snapshot keys are
// free text, so they are slugged to stay URL- and path-safe.
func (a *SnapshotArchiver) ObjectKey(s *models.Snapshot) string {
	keySlug := slug.Make(s.Key)
	if keySlug == "" {
		keySlug = "untitled"
	}
	return fmt.Sprintf("%s/%s/%s/%d.json", a.prefix, s.Date.String(), keySlug, s.ID)
}

func (a *SnapshotArchiver) Archive(ctx context.Context, s *models.Snapshot) error {
	key := a.ObjectKey(s)
	result, err := a.uploader.Upload(ctx, key, "application/json", bytes.NewReader(s.Data))
	if err != nil {
		return fmt.Errorf("archive snapshot %d: %w", s.ID, err)
	}
	a.logger.Debug("tournament snapshot archived",
		slog.String("object_key", result.Key),
		slog.String("location", result.Location),
	)
	return nil
}
