package instance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dyluth/kanban/internal/config"
)

// ErrNoConfig is returned by FindConfig when no kanban.yml exists in the
// start directory or any parent.
var ErrNoConfig = errors.New("no kanban.yml found")

// FindConfig looks for kanban.yml in start and then each parent directory,
// so commands work from anywhere inside a project. Returns the canonical
// absolute path of the file.
func FindConfig(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	dir, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("failed to resolve symlinks: %w", err)
	}

	for {
		candidate := filepath.Join(dir, config.DefaultPath)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoConfig
		}
		dir = parent
	}
}

// ResolveDataPath makes a relative sqlite path relative to the directory
// holding the config file.
func ResolveDataPath(configPath, dataPath string) string {
	if filepath.IsAbs(dataPath) || configPath == "" {
		return dataPath
	}
	return filepath.Join(filepath.Dir(configPath), dataPath)
}
