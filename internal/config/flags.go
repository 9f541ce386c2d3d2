// internal/config/flags.go
package config

import (
	"flag"
	"fmt"
)

// Flags holds values parsed from command-line flags.
// Use pointers to distinguish between unset flags and zero-value flags.
type Flags struct {
	ConfigFilePath *string
	LogLevel       *string
	LogFilePath    *string
	BlockSize      *int
	MaxBlockCount  *int
	ReadOnly       *bool
}

// DefineFlags sets up the command-line flags and associates them with the Flags struct fields.
func (f *Flags) DefineFlags() {
	f.ConfigFilePath = flag.String("config", "", fmt.Sprintf("Path to TOML configuration file (default ~/.config/%s/%s)", AppName, DefaultConfigFileName))
	f.LogLevel = flag.String("loglevel", "", "Log level (debug, info, warn, error) - Overrides config file")
	f.LogFilePath = flag.String("logfile", "", "Path to write log file (use '-' for stderr) - Overrides config file")
	f.BlockSize = flag.Int("blocksize", 0, "Bytes per cached block - Overrides config file")
	f.MaxBlockCount = flag.Int("blocks", 0, "Number of resident cache blocks - Overrides config file")
	f.ReadOnly = flag.Bool("readonly", false, "Open the file without write access")
}

// ParseFlags parses the defined command-line flags into the Flags struct.
// It returns the remaining non-flag arguments (e.g., the file path).
func (f *Flags) ParseFlags() []string {
	f.DefineFlags()
	flag.Parse()
	return flag.Args()
}

// ApplyOverrides updates the Config struct with values from flags *if* they were set.
func (f *Flags) ApplyOverrides(cfg *Config) {
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "loglevel":
			cfg.Logger.LogLevel = *f.LogLevel
		case "logfile":
			cfg.Logger.LogFilePath = *f.LogFilePath
		case "blocksize":
			cfg.Editor.BlockSize = *f.BlockSize
		case "blocks":
			cfg.Editor.MaxBlockCount = *f.MaxBlockCount
		case "readonly":
			cfg.Editor.ReadOnly = *f.ReadOnly
		}
	})
}
