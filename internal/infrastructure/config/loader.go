package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/askcmd/assets"
	"github.com/doeshing/askcmd/internal/domain"
	"github.com/doeshing/askcmd/internal/pkg/filesystem"
	"github.com/doeshing/askcmd/internal/ports"
)

// FileLoader loads YAML configuration from ~/.ask/config.yaml (overridable
// via ASK_CONFIG), applies ASK_* environment overrides, and writes the
// embedded defaults on first run.
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return domain.Config{}, err
		}
		data = assets.DefaultConfigYAML
		if err := os.WriteFile(path, data, domain.SecureFilePermissions); err != nil {
			return domain.Config{}, err
		}
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}
	applyEnv(&cfg)
	return hydrateDefaults(cfg), nil
}

// Path returns the resolved config file location.
func (l *FileLoader) Path() string {
	return l.resolvePath()
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return filesystem.Expand(l.overridePath)
	}
	if custom := os.Getenv("ASK_CONFIG"); custom != "" {
		return filesystem.Expand(custom)
	}
	return filepath.Join(filesystem.StateDir(), "config.yaml")
}

// applyEnv lets individual ASK_* variables beat the file values.
func applyEnv(cfg *domain.Config) {
	if v := os.Getenv("ASK_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("ASK_HISTORY_FILE"); v != "" {
		cfg.History.Path = v
	}
	if v, ok := envInt("ASK_MAX_HISTORY"); ok {
		cfg.History.MaxEntries = v
	}
	if v, ok := envInt("ASK_MAX_COMMAND_LENGTH"); ok {
		cfg.History.MaxCommandLength = v
	}
	if v, ok := envInt("ASK_GENERATE_TIMEOUT"); ok {
		cfg.Timeouts.GenerateSeconds = v
	}
	if v, ok := envInt("ASK_EXPLAIN_TIMEOUT"); ok {
		cfg.Timeouts.ExplainSeconds = v
	}
	if v := os.Getenv("ASK_RULES_FILE"); v != "" {
		cfg.Security.RulesFile = v
	}
}

func envInt(key string) (int, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, false
	}
	return value, true
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.Model == "" {
		cfg.Model = "llama3.2"
	}
	if cfg.History.Path == "" {
		cfg.History.Path = filepath.Join(filesystem.StateDir(), "history")
	}
	if cfg.History.MaxEntries <= 0 {
		cfg.History.MaxEntries = domain.DefaultMaxHistory
	}
	if cfg.History.MaxCommandLength <= 0 {
		cfg.History.MaxCommandLength = domain.DefaultMaxCommandLength
	}
	if cfg.Security.RulesFile == "" {
		cfg.Security.RulesFile = filepath.Join(filesystem.StateDir(), "rules.yaml")
	}
	return cfg
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
