package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dyluth/kanban/internal/config"
	"github.com/dyluth/kanban/internal/instance"
	"github.com/dyluth/kanban/internal/printer"
	"github.com/dyluth/kanban/internal/resolver"
	"github.com/dyluth/kanban/pkg/board"
)

// app is the state shared by every command of one invocation
type app struct {
	configPath string
	logLevel   string

	out     io.Writer
	errOut  io.Writer
	printer *printer.Printer
	now     func() time.Time
	ids     board.IDGenerator // nil uses UUIDs
}

// loadConfig finds and loads kanban.yml. Without --config, the file is
// searched for upwards from the working directory; when none exists the
// built-in defaults are used. Returns the path the config came from, or ""
// for defaults.
func (a *app) loadConfig() (*config.KanbanConfig, string, error) {
	path := a.configPath
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, "", fmt.Errorf("failed to get working directory: %w", err)
		}
		found, err := instance.FindConfig(cwd)
		if errors.Is(err, instance.ErrNoConfig) {
			cfg := config.Default()
			cfg.ApplyEnv(os.LookupEnv)
			return cfg, "", nil
		}
		if err != nil {
			return nil, "", err
		}
		path = found
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", a.printer.ErrorWithContext(
			"invalid configuration",
			err.Error(),
			map[string]string{"Config": path},
			[]string{"Fix the file, or regenerate it:\n  kanban init --force"},
		)
	}
	return cfg, path, nil
}

// newLogger builds the logrus logger for this run. --log-level wins over
// kanban.yml.
func (a *app) newLogger(cfg *config.KanbanConfig) (*logrus.Logger, error) {
	levelName := cfg.LogLevel
	if a.logLevel != "" {
		levelName = a.logLevel
	}
	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		return nil, a.printer.Error(
			"invalid log level",
			fmt.Sprintf("Unknown log level: %s", levelName),
			[]string{"Valid levels: debug, info, warn, error"},
		)
	}

	logger := logrus.New()
	logger.SetOutput(a.errOut)
	logger.SetLevel(level)
	return logger, nil
}

// open loads the config and opens the board it names. Caller must Close
// the instance.
func (a *app) open(ctx context.Context) (*instance.Instance, error) {
	cfg, path, err := a.loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := a.newLogger(cfg)
	if err != nil {
		return nil, err
	}
	if path == "" {
		logger.Debug("no kanban.yml found; using defaults")
	}

	inst, err := instance.Open(ctx, cfg, instance.Options{
		ConfigPath: path,
		Logger:     logger,
		IDs:        a.ids,
		Clock:      a.now,
	})
	if err != nil {
		return nil, a.printer.ErrorWithContext(
			"board storage unavailable",
			err.Error(),
			map[string]string{"Instance": cfg.Instance, "Backend": cfg.Storage.Backend},
			[]string{
				"Check that the storage backend is reachable",
				fmt.Sprintf("Override the Redis URL:\n  %s=redis://host:6379 kanban ...", config.RedisURLEnv),
			},
		)
	}
	return inst, nil
}

// resolveTask turns a user-supplied task reference into a task id,
// printing a friendly error when it cannot.
func (a *app) resolveTask(b board.Board, ref string) (string, error) {
	id, err := resolver.ResolveTaskID(b, ref)
	if err == nil {
		return id, nil
	}

	var ambiguous *resolver.AmbiguousError
	switch {
	case errors.As(err, &ambiguous):
		return "", a.printer.Error(
			fmt.Sprintf("ambiguous task '%s'", ref),
			resolver.FormatAmbiguousError(ambiguous),
			nil,
		)
	case resolver.IsNotFoundError(err):
		return "", a.printer.Error(
			fmt.Sprintf("task '%s' not found", ref),
			"No task on the board has that id.",
			[]string{"List tasks:\n  kanban task ls"},
		)
	default:
		return "", a.printer.Error("invalid task id", err.Error(), nil)
	}
}

// resolveColumn is resolveTask for columns.
func (a *app) resolveColumn(b board.Board, ref string) (string, error) {
	id, err := resolver.ResolveColumnID(b, ref)
	if err == nil {
		return id, nil
	}

	var ambiguous *resolver.AmbiguousError
	switch {
	case errors.As(err, &ambiguous):
		return "", a.printer.Error(
			fmt.Sprintf("ambiguous column '%s'", ref),
			resolver.FormatAmbiguousError(ambiguous),
			nil,
		)
	case resolver.IsNotFoundError(err):
		return "", a.printer.Error(
			fmt.Sprintf("column '%s' not found", ref),
			"No column has that id or title.",
			[]string{"Show the board:\n  kanban board"},
		)
	default:
		return "", a.printer.Error("invalid column id", err.Error(), nil)
	}
}

// storeError prints a store failure in user terms.
func (a *app) storeError(action string, err error) error {
	var verr *board.ValidationError
	switch {
	case errors.As(err, &verr):
		return a.printer.Error(
			fmt.Sprintf("cannot %s", action),
			verr.Error(),
			nil,
		)
	case board.IsNotFound(err):
		return a.printer.Error(fmt.Sprintf("cannot %s", action), err.Error(), nil)
	default:
		return a.printer.Error(fmt.Sprintf("failed to %s", action), err.Error(), nil)
	}
}
