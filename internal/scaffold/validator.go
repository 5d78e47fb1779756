package scaffold

import (
	"fmt"
	"os"

	"github.com/dyluth/kanban/internal/config"
)

// CheckExisting returns an error if kanban.yml already exists in the
// current directory
func CheckExisting() error {
	if _, err := os.Stat(config.DefaultPath); err == nil {
		return fmt.Errorf("board already initialized\n\nFound existing: %s\n\nUse 'kanban init --force' to reinitialize (this will overwrite existing configuration)", config.DefaultPath)
	}
	return nil
}
