// Package instance wires a configured board together: blob store, gateway,
// event bus, Redis mirror and board store. It is the only place that knows
// which backend is in use.
package instance

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dyluth/kanban/internal/config"
	"github.com/dyluth/kanban/internal/events"
	"github.com/dyluth/kanban/internal/persistence"
	"github.com/dyluth/kanban/internal/reconcile"
	"github.com/dyluth/kanban/internal/store"
	"github.com/dyluth/kanban/pkg/board"
)

const pingTimeout = 3 * time.Second

// Options tune Open. Zero values give production behaviour.
type Options struct {
	// ConfigPath anchors relative sqlite paths. Empty means the working directory.
	ConfigPath string
	Logger     logrus.FieldLogger
	IDs        board.IDGenerator
	Clock      func() time.Time
}

// Instance is an open board.
type Instance struct {
	Name       string
	Config     *config.KanbanConfig
	Store      *store.Store
	Bus        *events.Bus
	Gateway    *persistence.Gateway
	LoadStatus persistence.LoadStatus

	blobs  persistence.BlobStore
	redis  *persistence.RedisStore
	logger logrus.FieldLogger
}

// Open connects to the configured backend, loads the board and returns a
// ready store. A backend that cannot be reached at all is an error; an
// absent or unusable snapshot is not.
func Open(ctx context.Context, cfg *config.KanbanConfig, opts Options) (*Instance, error) {
	logger := opts.Logger
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	logger = logger.WithField("instance", cfg.Instance)

	inst := &Instance{Name: cfg.Instance, Config: cfg, logger: logger}

	if err := inst.openBackend(ctx, opts.ConfigPath); err != nil {
		return nil, err
	}

	inst.Gateway = persistence.NewGateway(inst.blobs, persistence.BoardKey(cfg.Instance), logger)
	inst.Gateway.SetFallback(cfg.SeedBoard())

	initial, status := inst.Gateway.Load(ctx)
	inst.LoadStatus = status

	inst.Bus = events.New(logger)
	if inst.redis != nil {
		fwd := persistence.NewRedisForwarder(inst.redis, cfg.Instance, logger)
		inst.Bus.SubscribeAll(fwd.Forward)
	}

	storeOpts := []store.Option{
		store.WithPublisher(inst.Bus),
		store.WithSaver(inst.Gateway),
		store.WithLogger(logger),
	}
	if opts.IDs != nil {
		storeOpts = append(storeOpts, store.WithIDGenerator(opts.IDs))
	}
	if opts.Clock != nil {
		storeOpts = append(storeOpts, store.WithClock(opts.Clock))
	}
	inst.Store = store.New(initial, storeOpts...)

	return inst, nil
}

func (i *Instance) openBackend(ctx context.Context, configPath string) error {
	storage := i.Config.Storage

	switch storage.Backend {
	case config.BackendRedis:
		rs, err := persistence.NewRedisStoreFromURL(storage.Redis.URL)
		if err != nil {
			return err
		}

		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := rs.Ping(pingCtx); err != nil {
			rs.Close()
			return fmt.Errorf("failed to connect to Redis at %s: %w", storage.Redis.URL, err)
		}

		i.redis = rs
		i.blobs = rs
		i.logger.WithField("url", storage.Redis.URL).Debug("connected to Redis")

	case config.BackendSQLite:
		path := ResolveDataPath(configPath, storage.SQLite.Path)
		ss, err := persistence.OpenSQLite(path)
		if err != nil {
			return err
		}
		i.blobs = ss
		i.logger.WithField("path", path).Debug("opened SQLite database")

	default:
		return fmt.Errorf("unsupported storage backend: %s", storage.Backend)
	}

	return nil
}

// Reconciler returns a drag-and-drop reconciler bound to this board.
func (i *Instance) Reconciler() *reconcile.Reconciler {
	return reconcile.New(i.Store, i.logger)
}

// Redis returns the Redis store, or nil when the backend is sqlite.
func (i *Instance) Redis() *persistence.RedisStore {
	return i.redis
}

// Close disposes of the store and releases the backend connection.
func (i *Instance) Close() error {
	if i.Store != nil {
		i.Store.Close()
	}
	if i.blobs != nil {
		return i.blobs.Close()
	}
	return nil
}
