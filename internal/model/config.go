package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Default values applied when the config file omits a key or is missing.
const (
	DefaultFilterName = "Open"
	DefaultSortName   = "creation"
)

// GeneralConfig holds startup defaults for the task view and the database
// location.
type GeneralConfig struct {
	// DBPath is the SQLite database file. A leading ~/ is expanded.
	DBPath string `mapstructure:"db_path" yaml:"db_path"`

	// DefaultProject is "All Projects", a project name, or a project id.
	DefaultProject string `mapstructure:"default_project" yaml:"default_project"`

	// DefaultFilter is the status filter shown at startup.
	DefaultFilter string `mapstructure:"default_filter" yaml:"default_filter"`

	// DefaultSort is the sort key used at startup.
	DefaultSort string `mapstructure:"default_sort" yaml:"default_sort"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	General GeneralConfig `mapstructure:"general" yaml:"general"`

	// Shortcuts maps action names (e.g. "add_task") to key strings and
	// overrides the default key map.
	Shortcuts map[string]string `mapstructure:"shortcuts" yaml:"shortcuts"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/lmtodo/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "lmtodo", "config.yaml")
}

// DefaultDBPath returns $XDG_DATA_HOME/lmtodo/todo.db, falling back to
// ~/.local/share/lmtodo/todo.db.
func DefaultDBPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "todo.db"
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "lmtodo", "todo.db")
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		General: GeneralConfig{
			DBPath:         DefaultDBPath(),
			DefaultProject: AllProjectsName,
			DefaultFilter:  DefaultFilterName,
			DefaultSort:    DefaultSortName,
		},
		Shortcuts: map[string]string{},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
// LMTODO_GENERAL_* environment variables override file values.
func LoadConfig(path string) (*AppConfig, error) {
	return loadConfig(path, true)
}

// LoadFileConfig reads only what the file at path says: no environment
// overrides and no ~/ expansion. Changes that get saved back start here.
func LoadFileConfig(path string) (*AppConfig, error) {
	return loadConfig(path, false)
}

// UpdateConfig applies edit to the file config at path and saves it, so
// values overridden for this run never reach the file.
func UpdateConfig(path string, edit func(*AppConfig)) error {
	cfg, err := LoadFileConfig(path)
	if err != nil {
		return err
	}
	edit(cfg)
	return SaveConfig(path, cfg)
}

func loadConfig(path string, resolve bool) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if resolve {
		v.SetEnvPrefix("lmtodo")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("general.db_path", DefaultDBPath())
	v.SetDefault("general.default_project", AllProjectsName)
	v.SetDefault("general.default_filter", DefaultFilterName)
	v.SetDefault("general.default_sort", DefaultSortName)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return finish(v, defaultAppConfig(), path, resolve)
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return finish(v, defaultAppConfig(), path, resolve)
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	return finish(v, defaultAppConfig(), path, resolve)
}

// finish unmarshals v into cfg and fills in what the file left empty.
func finish(v *viper.Viper, cfg *AppConfig, path string, resolve bool) (*AppConfig, error) {
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if strings.TrimSpace(cfg.General.DBPath) == "" {
		cfg.General.DBPath = DefaultDBPath()
	}
	if resolve {
		cfg.General.DBPath = ExpandHome(cfg.General.DBPath)
	}
	if cfg.Shortcuts == nil {
		cfg.Shortcuts = map[string]string{}
	}
	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("general.db_path", cfg.General.DBPath)
	v.Set("general.default_project", cfg.General.DefaultProject)
	v.Set("general.default_filter", cfg.General.DefaultFilter)
	v.Set("general.default_sort", cfg.General.DefaultSort)
	if len(cfg.Shortcuts) > 0 {
		v.Set("shortcuts", cfg.Shortcuts)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
