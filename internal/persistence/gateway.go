package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/dyluth/kanban/pkg/board"
)

// LoadStatus says where a loaded board came from.
type LoadStatus string

const (
	// LoadedSnapshot means the stored snapshot was read and accepted.
	LoadedSnapshot LoadStatus = "snapshot"
	// LoadedDefaultAbsent means nothing was stored yet.
	LoadedDefaultAbsent LoadStatus = "absent"
	// LoadedDefaultCorrupt means the stored bytes were not a usable board.
	LoadedDefaultCorrupt LoadStatus = "corrupt"
	// LoadedDefaultUnavailable means the backend could not be read.
	LoadedDefaultUnavailable LoadStatus = "unavailable"
)

// SnapshotError reports a stored snapshot that cannot be used: bytes that
// do not parse, or a board that fails board.Validate.
type SnapshotError struct {
	Key string
	Err error
}

func (e *SnapshotError) Error() string {
	return fmt.Sprintf("unusable snapshot at %s: %v", e.Key, e.Err)
}

func (e *SnapshotError) Unwrap() error { return e.Err }

// Gateway reads and writes the board snapshot under a single key.
type Gateway struct {
	blobs    BlobStore
	key      string
	fallback board.Board
	logger   logrus.FieldLogger
}

// NewGateway creates a gateway over blobs. The fallback board starts as
// board.Default(). A nil logger discards output.
func NewGateway(blobs BlobStore, key string, logger logrus.FieldLogger) *Gateway {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Gateway{blobs: blobs, key: key, fallback: board.Default(), logger: logger}
}

// SetFallback replaces the board used when no usable snapshot exists.
func (g *Gateway) SetFallback(b board.Board) {
	g.fallback = b.Clone()
}

// Key returns the key the snapshot lives under.
func (g *Gateway) Key() string {
	return g.key
}

// Read returns the stored board without any recovery. It fails with
// ErrNotFound when nothing is stored, with a *SnapshotError when the blob
// is unusable, and with the backend error otherwise.
func (g *Gateway) Read(ctx context.Context) (board.Board, error) {
	data, err := g.blobs.Get(ctx, g.key)
	if err != nil {
		return board.Board{}, err
	}

	var b board.Board
	if err := json.Unmarshal(data, &b); err != nil {
		return board.Board{}, &SnapshotError{Key: g.key, Err: err}
	}
	normalize(&b)
	if err := b.Validate(); err != nil {
		return board.Board{}, &SnapshotError{Key: g.key, Err: err}
	}
	return b, nil
}

// Load returns the stored board, or the fallback board when there is none
// or it cannot be used. It never fails; the status says which happened.
func (g *Gateway) Load(ctx context.Context) (board.Board, LoadStatus) {
	log := g.logger.WithField("key", g.key)

	b, err := g.Read(ctx)
	switch {
	case err == nil:
		log.WithFields(logrus.Fields{"tasks": len(b.Tasks), "columns": len(b.Columns)}).Info("loaded board snapshot")
		return b, LoadedSnapshot
	case IsNotFound(err):
		log.Info("no board snapshot stored; starting with default board")
		return g.fallback.Clone(), LoadedDefaultAbsent
	case isSnapshotError(err):
		log.WithError(err).Warn("ignoring unusable board snapshot; starting with default board")
		return g.fallback.Clone(), LoadedDefaultCorrupt
	default:
		log.WithError(err).Error("board storage unavailable; starting with default board")
		return g.fallback.Clone(), LoadedDefaultUnavailable
	}
}

// Save writes b as the current snapshot. Implements store.Saver.
func (g *Gateway) Save(ctx context.Context, b board.Board) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to marshal board: %w", err)
	}
	if err := g.blobs.Set(ctx, g.key, data); err != nil {
		return fmt.Errorf("failed to save board: %w", err)
	}
	g.logger.WithField("key", g.key).Debug("saved board snapshot")
	return nil
}

// normalize replaces JSON nulls with empty slices so loaded boards compare
// equal to freshly built ones.
func normalize(b *board.Board) {
	if b.Tasks == nil {
		b.Tasks = []board.Task{}
	}
	if b.Columns == nil {
		b.Columns = []board.Column{}
	}
	for i := range b.Columns {
		if b.Columns[i].TaskIDs == nil {
			b.Columns[i].TaskIDs = []string{}
		}
	}
}

func isSnapshotError(err error) bool {
	_, ok := err.(*SnapshotError)
	return ok
}
