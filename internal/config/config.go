// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/bethropolis/ebb/internal/logger"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger logger.Config `toml:"logger"` // Embed logger config under [logger] table
	Editor EditorConfig  `toml:"editor"` // Editor-specific settings
}

// EditorConfig holds editor-specific settings.
type EditorConfig struct {
	BlockSize     int  `toml:"block_size"`      // bytes per cached block
	MaxBlockCount int  `toml:"max_block_count"` // resident block cap
	ChunkSize     int  `toml:"chunk_size"`      // shift chunk in bytes
	ReadOnly      bool `toml:"read_only"`       // open files without write access
}

var (
	loadedConfig *Config
	loadOnce     sync.Once
	loadErr      error
)

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: logger.NewConfig(),
		Editor: EditorConfig{
			BlockSize:     DefaultBlockSize,
			MaxBlockCount: DefaultMaxBlockCount,
			ChunkSize:     DefaultChunkSize,
		},
	}
}

// loadFromFile attempts to load configuration from a TOML file. A
// missing file is not an error; the defaults stand.
func loadFromFile(filePath string, verbose bool) (*Config, error) {
	cfg := &Config{}
	_, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		if verbose {
			logger.Debugf("Config file not found: %s", filePath)
		}
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("error checking config file '%s': %w", filePath, err)
	}

	metadata, err := toml.DecodeFile(filePath, cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	if len(metadata.Undecoded()) > 0 && verbose {
		logger.Warnf("Config file '%s': Unrecognized keys: %v", filePath, metadata.Undecoded())
	}
	return cfg, nil
}

// merge copies the non-zero values of src over dst.
func merge(dst, src *Config) {
	if src.Logger.LogLevel != "" {
		dst.Logger.LogLevel = src.Logger.LogLevel
	}
	if src.Logger.LogFilePath != "" {
		dst.Logger.LogFilePath = src.Logger.LogFilePath
	}
	if src.Editor.BlockSize != 0 {
		dst.Editor.BlockSize = src.Editor.BlockSize
	}
	if src.Editor.MaxBlockCount != 0 {
		dst.Editor.MaxBlockCount = src.Editor.MaxBlockCount
	}
	if src.Editor.ChunkSize != 0 {
		dst.Editor.ChunkSize = src.Editor.ChunkSize
	}
	if src.Editor.ReadOnly {
		dst.Editor.ReadOnly = true
	}
}

// validate checks config values and resets invalid ones to defaults.
func (c *Config) validate() {
	defaults := NewDefaultConfig()

	if c.Editor.BlockSize <= 0 {
		c.Editor.BlockSize = defaults.Editor.BlockSize
	}
	if c.Editor.MaxBlockCount <= 0 {
		c.Editor.MaxBlockCount = defaults.Editor.MaxBlockCount
	}
	if c.Editor.ChunkSize <= 0 {
		c.Editor.ChunkSize = defaults.Editor.ChunkSize
	}
	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}
}

// DefaultConfigPath returns ~/.config/ebb/config.toml (or the platform
// equivalent), empty when the user config dir cannot be determined.
func DefaultConfigPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, ConfigDirName, DefaultConfigFileName)
}

// LoadConfig orchestrates loading defaults, file, applying flags, and
// validation. It should be called only once, typically from main.
func LoadConfig(configFilePath string, flags *Flags) (*Config, error) {
	loadOnce.Do(func() {
		cfg := NewDefaultConfig()

		effectivePath := configFilePath
		if effectivePath == "" {
			effectivePath = DefaultConfigPath()
		}

		if effectivePath != "" {
			fileCfg, err := loadFromFile(effectivePath, false)
			if err != nil {
				loadErr = err
				loadedConfig = cfg
				return
			}
			merge(cfg, fileCfg)
		}

		if flags != nil {
			flags.ApplyOverrides(cfg)
		}

		cfg.validate()
		loadedConfig = cfg
	})
	return loadedConfig, loadErr
}
