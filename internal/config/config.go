package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/dyluth/kanban/pkg/board"
)

const (
	// DefaultPath is where commands look for the config when --config is not given
	DefaultPath = "kanban.yml"

	// DefaultInstance names the board when instance is omitted
	DefaultInstance = "default"

	// DefaultSQLitePath is the database file used by the sqlite backend
	DefaultSQLitePath = ".kanban/kanban.db"

	// DefaultRedisURL is used by the redis backend when no URL is configured
	DefaultRedisURL = "redis://localhost:6379"

	// RedisURLEnv overrides storage.redis.url
	RedisURLEnv = "KANBAN_REDIS_URL"

	// MaxInstanceLength is the maximum length for an instance name
	MaxInstanceLength = 63
)

// Storage backends
const (
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// instancePattern matches lowercase alphanumeric names with inner hyphens
var instancePattern = regexp.MustCompile(`^[a-z0-9]([-a-z0-9]*[a-z0-9])?$`)

// KanbanConfig represents the top-level kanban.yml configuration
type KanbanConfig struct {
	Version  string         `yaml:"version"`
	Instance string         `yaml:"instance,omitempty"`
	LogLevel string         `yaml:"log_level,omitempty"`
	Storage  *StorageConfig `yaml:"storage,omitempty"`
	Columns  []ColumnSeed   `yaml:"columns,omitempty"` // Replaces the default four columns on a fresh board
}

// StorageConfig selects where the board snapshot lives
type StorageConfig struct {
	Backend string        `yaml:"backend"` // "redis" or "sqlite"
	Redis   *RedisConfig  `yaml:"redis,omitempty"`
	SQLite  *SQLiteConfig `yaml:"sqlite,omitempty"`
}

// RedisConfig configures the redis backend
type RedisConfig struct {
	URL string `yaml:"url"`
}

// SQLiteConfig configures the sqlite backend
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// ColumnSeed describes one column of the initial board
type ColumnSeed struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	Color string `yaml:"color,omitempty"`
}

// Default returns the configuration used when no kanban.yml exists.
func Default() *KanbanConfig {
	c := &KanbanConfig{Version: "1.0"}
	// Defaults never fail validation
	_ = c.Validate()
	return c
}

// Validate performs strict validation on the configuration and fills in
// defaults for omitted fields.
func (c *KanbanConfig) Validate() error {
	if c.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s (expected: 1.0)", c.Version)
	}

	if c.Instance == "" {
		c.Instance = DefaultInstance
	}
	if len(c.Instance) > MaxInstanceLength {
		return fmt.Errorf("instance name too long: %d characters (max: %d)", len(c.Instance), MaxInstanceLength)
	}
	if !instancePattern.MatchString(c.Instance) {
		return fmt.Errorf("invalid instance name '%s': must be lowercase alphanumeric with hyphens (not at start/end)", c.Instance)
	}

	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %s", c.LogLevel)
	}

	if err := c.validateStorage(); err != nil {
		return err
	}

	return c.validateColumns()
}

func (c *KanbanConfig) validateStorage() error {
	if c.Storage == nil {
		c.Storage = &StorageConfig{}
	}
	s := c.Storage

	if s.Backend == "" {
		s.Backend = BackendSQLite
	}

	switch s.Backend {
	case BackendRedis:
		if s.Redis == nil {
			s.Redis = &RedisConfig{}
		}
		if s.Redis.URL == "" {
			s.Redis.URL = DefaultRedisURL
		}
	case BackendSQLite:
		if s.SQLite == nil {
			s.SQLite = &SQLiteConfig{}
		}
		if s.SQLite.Path == "" {
			s.SQLite.Path = DefaultSQLitePath
		}
	default:
		return fmt.Errorf("invalid storage.backend: %s (must be 'redis' or 'sqlite')", s.Backend)
	}

	return nil
}

func (c *KanbanConfig) validateColumns() error {
	seen := make(map[string]bool)
	for i := range c.Columns {
		col := &c.Columns[i]
		if col.ID == "" {
			return fmt.Errorf("columns[%d]: id is required", i)
		}
		if col.Title == "" {
			return fmt.Errorf("column '%s': title is required", col.ID)
		}
		if seen[col.ID] {
			return fmt.Errorf("duplicate column id '%s'", col.ID)
		}
		seen[col.ID] = true

		if col.Color == "" {
			col.Color = board.DefaultColumnColor
		}
	}
	return nil
}

// SeedBoard returns the board to start from when nothing is persisted:
// the configured columns, or board.Default() when none are configured.
func (c *KanbanConfig) SeedBoard() board.Board {
	if len(c.Columns) == 0 {
		return board.Default()
	}

	b := board.Board{Tasks: []board.Task{}, Columns: make([]board.Column, 0, len(c.Columns))}
	for _, seed := range c.Columns {
		b.Columns = append(b.Columns, board.Column{
			ID:      seed.ID,
			Title:   seed.Title,
			Color:   seed.Color,
			TaskIDs: []string{},
		})
	}
	return b
}

// ApplyEnv applies environment overrides. lookup is usually os.LookupEnv.
func (c *KanbanConfig) ApplyEnv(lookup func(string) (string, bool)) {
	url, ok := lookup(RedisURLEnv)
	if !ok || url == "" {
		return
	}
	if c.Storage == nil {
		c.Storage = &StorageConfig{}
	}
	if c.Storage.Redis == nil {
		c.Storage.Redis = &RedisConfig{}
	}
	c.Storage.Redis.URL = url
}

// Load reads and validates kanban.yml from the specified path
func Load(path string) (*KanbanConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config KanbanConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	config.ApplyEnv(os.LookupEnv)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}
