package persistence

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyluth/kanban/pkg/board"
)

func sampleBoard() board.Board {
	b := board.Default()
	created := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	b.Tasks = []board.Task{
		{ID: "t1", Title: "Write docs", Description: "README", ColumnID: "todo", CreatedAt: created},
		{ID: "t2", Title: "Ship", ColumnID: "done", CreatedAt: created.Add(time.Hour)},
	}
	b.Columns[0].TaskIDs = []string{"t1"}
	b.Columns[3].TaskIDs = []string{"t2"}
	return b
}

// failingBlobs is a BlobStore whose backend is always down.
type failingBlobs struct{}

func (failingBlobs) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}
func (failingBlobs) Set(context.Context, string, []byte) error { return errors.New("connection refused") }
func (failingBlobs) Close() error                                 { return nil }

func backends(t *testing.T) map[string]BlobStore {
	redisStore, _ := setupTestRedis(t)

	sqliteStore, err := OpenSQLite(filepath.Join(t.TempDir(), "kanban.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqliteStore.Close() })

	return map[string]BlobStore{"redis": redisStore, "sqlite": sqliteStore}
}

func TestGateway_RoundTrip(t *testing.T) {
	for name, blobs := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			gw := NewGateway(blobs, BoardKey("test"), nil)

			want := sampleBoard()
			require.NoError(t, gw.Save(ctx, want))

			got, status := gw.Load(ctx)
			assert.Equal(t, LoadedSnapshot, status)
			assert.Equal(t, want, got)
		})
	}
}

func TestGateway_Absent(t *testing.T) {
	for name, blobs := range backends(t) {
		t.Run(name, func(t *testing.T) {
			logger, hook := test.NewNullLogger()
			gw := NewGateway(blobs, BoardKey("empty"), logger)

			got, status := gw.Load(context.Background())
			assert.Equal(t, LoadedDefaultAbsent, status)
			assert.Equal(t, board.Default(), got)
			require.NotNil(t, hook.LastEntry())
			assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
		})
	}
}

func TestGateway_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "{{{"},
		{"wrong shape", `{"tasks": "nope"}`},
		{"task without column entry", `{"tasks":[{"id":"t1","title":"x","columnId":"todo","createdAt":"2025-01-01T00:00:00Z"}],"columns":[{"id":"todo","title":"To Do","color":"bg-accent-blue","taskIds":[]}]}`},
		{"dangling task id", `{"tasks":[],"columns":[{"id":"todo","title":"To Do","color":"bg-accent-blue","taskIds":["ghost"]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blobs, _ := setupTestRedis(t)
			ctx := context.Background()
			require.NoError(t, blobs.Set(ctx, BoardKey("test"), []byte(tt.data)))

			logger, hook := test.NewNullLogger()
			gw := NewGateway(blobs, BoardKey("test"), logger)

			got, status := gw.Load(ctx)
			assert.Equal(t, LoadedDefaultCorrupt, status)
			assert.Equal(t, board.Default(), got)
			assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)

			_, err := gw.Read(ctx)
			var snapErr *SnapshotError
			assert.True(t, errors.As(err, &snapErr))
		})
	}
}

func TestGateway_Unavailable(t *testing.T) {
	logger, hook := test.NewNullLogger()
	gw := NewGateway(failingBlobs{}, BoardKey("test"), logger)

	got, status := gw.Load(context.Background())
	assert.Equal(t, LoadedDefaultUnavailable, status)
	assert.Equal(t, board.Default(), got)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)

	err := gw.Save(context.Background(), board.Default())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save board")
}

func TestGateway_NullSlicesNormalized(t *testing.T) {
	blobs, _ := setupTestRedis(t)
	ctx := context.Background()
	require.NoError(t, blobs.Set(ctx, "k", []byte(`{"tasks":null,"columns":[{"id":"a","title":"A","color":"c","taskIds":null}]}`)))

	gw := NewGateway(blobs, "k", nil)
	got, status := gw.Load(ctx)
	require.Equal(t, LoadedSnapshot, status)
	assert.NotNil(t, got.Tasks)
	assert.Equal(t, []string{}, got.Columns[0].TaskIDs)
}

func TestGateway_SetFallback(t *testing.T) {
	blobs, _ := setupTestRedis(t)
	gw := NewGateway(blobs, "k", nil)

	seed := board.Board{
		Tasks:   []board.Task{},
		Columns: []board.Column{{ID: "backlog", Title: "Backlog", Color: board.ColorBlue, TaskIDs: []string{}}},
	}
	gw.SetFallback(seed)

	got, status := gw.Load(context.Background())
	assert.Equal(t, LoadedDefaultAbsent, status)
	assert.Equal(t, seed, got)

	// The gateway hands out copies
	got.Columns[0].Title = "changed"
	again, _ := gw.Load(context.Background())
	assert.Equal(t, "Backlog", again.Columns[0].Title)
}
