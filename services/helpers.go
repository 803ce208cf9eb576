package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Dosada05/tournament-recorder/metrics"
	"github.com/Dosada05/tournament-recorder/models"
)

// DefaultQueryTimeout bounds every gateway round-trip when no timeout is configured.
const DefaultQueryTimeout = 5 * time.Second

// Room message types published after successful writes.
const (
	MessageMatchRecorded = "MATCH_RECORDED"
	MessageSnapshotSaved = "SNAPSHOT_SAVED"
)

// Broadcaster publishes a message to everyone watching a room.
type Broadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

// SnapshotArchiver copies a stored snapshot to secondary storage.
type SnapshotArchiver interface {
	Archive(ctx context.Context, snapshot *models.Snapshot) error
}

// LiveMessage is the envelope sent to room subscribers.
type LiveMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	RoomID  string      `json:"room_id,omitempty"`
}

// DateRoom names the live room for a calendar date.
func DateRoom(date models.Date) string {
	return "date_" + date.String()
}

// Options carries the collaborators shared by every service.
// Zero values are usable: no broadcasts, no metrics, default timeout, discarded logs.
type Options struct {
	QueryTimeout time.Duration
	Broadcaster  Broadcaster
	Metrics      *metrics.Metrics
	Logger       *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.QueryTimeout <= 0 {
		o.QueryTimeout = DefaultQueryTimeout
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

func (o Options) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, o.QueryTimeout)
}

func (o Options) publish(date *models.Date, msgType string, payload interface{}) {
	if o.Broadcaster == nil || date == nil {
		return
	}
	room := DateRoom(*date)
	o.Broadcaster.BroadcastToRoom(room, LiveMessage{Type: msgType, Payload: payload, RoomID: room})
	o.Metrics.Broadcast()
}

// outcome classifies err for the operations counter.
func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrValidationFailed):
		return metrics.OutcomeValidationError
	default:
		return metrics.OutcomeStorageError
	}
}
