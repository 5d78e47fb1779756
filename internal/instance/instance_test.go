package instance

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyluth/kanban/internal/config"
	"github.com/dyluth/kanban/internal/persistence"
	"github.com/dyluth/kanban/internal/reconcile"
	"github.com/dyluth/kanban/pkg/board"
)

func sqliteConfig(t *testing.T) (*config.KanbanConfig, string) {
	t.Helper()
	cfg := &config.KanbanConfig{Version: "1.0"}
	require.NoError(t, cfg.Validate())
	return cfg, filepath.Join(t.TempDir(), "kanban.yml")
}

func redisConfig(t *testing.T, mr *miniredis.Miniredis) *config.KanbanConfig {
	t.Helper()
	cfg := &config.KanbanConfig{
		Version:  "1.0",
		Instance: "team",
		Storage: &config.StorageConfig{
			Backend: config.BackendRedis,
			Redis:   &config.RedisConfig{URL: "redis://" + mr.Addr()},
		},
	}
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestOpen_SQLitePersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	cfg, configPath := sqliteConfig(t)
	opts := Options{ConfigPath: configPath, IDs: &board.SequenceGenerator{Prefix: "t"}}

	inst, err := Open(ctx, cfg, opts)
	require.NoError(t, err)
	assert.Equal(t, persistence.LoadedDefaultAbsent, inst.LoadStatus)
	assert.Nil(t, inst.Redis())

	task, err := inst.Store.AddTask(ctx, "Persist me", "", "todo")
	require.NoError(t, err)
	require.NoError(t, inst.Close())

	reopened, err := Open(ctx, cfg, opts)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, persistence.LoadedSnapshot, reopened.LoadStatus)
	got, ok := reopened.Store.Snapshot().Task(task.ID)
	require.True(t, ok)
	assert.Equal(t, "Persist me", got.Title)
}

func TestOpen_SeedColumns(t *testing.T) {
	cfg := &config.KanbanConfig{Version: "1.0", Columns: []config.ColumnSeed{{ID: "backlog", Title: "Backlog"}}}
	require.NoError(t, cfg.Validate())

	inst, err := Open(context.Background(), cfg, Options{ConfigPath: filepath.Join(t.TempDir(), "kanban.yml")})
	require.NoError(t, err)
	defer inst.Close()

	b := inst.Store.Snapshot()
	require.Len(t, b.Columns, 1)
	assert.Equal(t, "backlog", b.Columns[0].ID)
}

func TestOpen_RedisMirrorsEvents(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	inst, err := Open(ctx, redisConfig(t, mr), Options{Clock: func() time.Time {
		return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	}})
	require.NoError(t, err)
	defer inst.Close()
	require.NotNil(t, inst.Redis())

	sub, err := inst.Redis().SubscribeBoardEvents(ctx, "team")
	require.NoError(t, err)
	defer sub.Close()

	task, err := inst.Store.AddTask(ctx, "Mirrored", "", "todo")
	require.NoError(t, err)

	select {
	case msg := <-sub.Messages():
		assert.Equal(t, board.TopicTaskCreated, msg.Topic)
		assert.Contains(t, string(msg.Payload), task.ID)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for mirrored event")
	}

	// Snapshot landed under the namespaced key
	assert.True(t, mr.Exists(persistence.BoardKey("team")))
}

func TestOpen_RedisUnreachable(t *testing.T) {
	cfg := &config.KanbanConfig{
		Version: "1.0",
		Storage: &config.StorageConfig{
			Backend: config.BackendRedis,
			Redis:   &config.RedisConfig{URL: "redis://127.0.0.1:1"},
		},
	}
	require.NoError(t, cfg.Validate())

	_, err := Open(context.Background(), cfg, Options{})
	assert.ErrorContains(t, err, "failed to connect to Redis")
}

func TestInstance_Reconciler(t *testing.T) {
	ctx := context.Background()
	cfg, configPath := sqliteConfig(t)

	inst, err := Open(ctx, cfg, Options{ConfigPath: configPath, IDs: &board.SequenceGenerator{Prefix: "t"}})
	require.NoError(t, err)
	defer inst.Close()

	a, _ := inst.Store.AddTask(ctx, "A", "", "todo")
	r := inst.Reconciler()

	r.DragStart(reconcile.DragEvent{ActiveID: a.ID})
	move, ok := r.DragEnd(ctx, reconcile.DragEvent{ActiveID: a.ID, OverID: "done"})
	require.True(t, ok)
	assert.Equal(t, "done", move.DestinationColumnID)

	got, _ := inst.Store.Snapshot().Task(a.ID)
	assert.Equal(t, "done", got.ColumnID)
}
