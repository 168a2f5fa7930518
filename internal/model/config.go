package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Store driver names.
const (
	StoreDriverSQLite = "sqlite"
	StoreDriverMemory = "memory"
)

// StoreConfig selects and locates the persistence backend.
type StoreConfig struct {
	// Driver is "sqlite" or "memory".
	Driver string `mapstructure:"driver" yaml:"driver"`

	// Path is the SQLite database file. Ignored by the memory driver.
	Path string `mapstructure:"path" yaml:"path"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level    string `mapstructure:"level" yaml:"level"`
	Encoding string `mapstructure:"encoding" yaml:"encoding"`
	Mode     string `mapstructure:"mode" yaml:"mode"`
}

// MutationConfig tunes the list mutation service.
type MutationConfig struct {
	// Strict makes empty input and commit failures surface as errors
	// instead of being ignored or logged.
	Strict bool `mapstructure:"strict" yaml:"strict"`

	// RenumberOnDelete re-densifies sibling order after deletes.
	RenumberOnDelete bool `mapstructure:"renumber_on_delete" yaml:"renumber_on_delete"`
}

// NavigatorConfig tunes the hierarchy navigator.
type NavigatorConfig struct {
	CacheSize int `mapstructure:"cache_size" yaml:"cache_size"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Store     StoreConfig     `mapstructure:"store" yaml:"store"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	Mutation  MutationConfig  `mapstructure:"mutation" yaml:"mutation"`
	Navigator NavigatorConfig `mapstructure:"navigator" yaml:"navigator"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/hammer/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "hammer", "config.yaml")
}

// DefaultDBPath returns the default SQLite location next to the config.
func DefaultDBPath() string {
	return filepath.Join(filepath.Dir(DefaultConfigPath()), "hammer.db")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Store: StoreConfig{
			Driver: StoreDriverSQLite,
			Path:   DefaultDBPath(),
		},
		Log: LogConfig{
			Level:    "info",
			Encoding: "console",
			Mode:     "production",
		},
		Mutation: MutationConfig{
			Strict:           false,
			RenumberOnDelete: true,
		},
		Navigator: NavigatorConfig{
			CacheSize: 256,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// HAMMER_* environment variables override file values. If the file does not
// exist, defaults (plus environment overrides) are returned.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("hammer")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := defaultAppConfig()
	v.SetDefault("store.driver", def.Store.Driver)
	v.SetDefault("store.path", def.Store.Path)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.encoding", def.Log.Encoding)
	v.SetDefault("log.mode", def.Log.Mode)
	v.SetDefault("mutation.strict", def.Mutation.Strict)
	v.SetDefault("mutation.renumber_on_delete", def.Mutation.RenumberOnDelete)
	v.SetDefault("navigator.cache_size", def.Navigator.CacheSize)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	switch cfg.Store.Driver {
	case StoreDriverSQLite, StoreDriverMemory:
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if cfg.Navigator.CacheSize <= 0 {
		cfg.Navigator.CacheSize = def.Navigator.CacheSize
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

	v.Set("store", cfg.Store)
	v.Set("log", cfg.Log)
	v.Set("mutation", cfg.Mutation)
	v.Set("navigator", cfg.Navigator)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
