// cmd/ebb/main.go
package main

import (
	"fmt"
	stlog "log" // Use standard log for errors before the logger is ready
	"os"

	"github.com/bethropolis/ebb/internal/clipboard"
	"github.com/bethropolis/ebb/internal/config"
	"github.com/bethropolis/ebb/internal/editor"
	"github.com/bethropolis/ebb/internal/logger"
	"github.com/bethropolis/ebb/internal/ui"
)

func main() {
	// --- Argument & Flag Parsing ---
	flags := &config.Flags{}
	args := flags.ParseFlags()
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <file>\n", config.AppName)
		os.Exit(2)
	}
	filePath := args[0]

	cfg, err := config.LoadConfig(*flags.ConfigFilePath, flags)
	if err != nil {
		stlog.Fatalf("Failed to load configuration: %v", err)
	}

	// --- Logger Initialization ---
	logPath := cfg.Logger.LogFilePath
	if logPath == "" {
		logPath = config.DefaultLogFileName
	}
	if logPath == "-" {
		logger.Init(cfg.Logger.Level(), os.Stderr)
	} else {
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			stlog.Fatalf("Failed to open log file '%s': %v", logPath, err)
		}
		defer logFile.Close()
		logger.Init(cfg.Logger.Level(), logFile)
	}

	logger.Infof("Starting %s...", config.AppName)

	// --- Open the editor ---
	ed, err := editor.New(filePath, editor.Options{
		BlockSize:     uint64(cfg.Editor.BlockSize),
		MaxBlockCount: cfg.Editor.MaxBlockCount,
		ChunkSize:     uint64(cfg.Editor.ChunkSize),
		ReadOnly:      cfg.Editor.ReadOnly,
	})
	if err != nil {
		logger.Errorf("Error opening %s: %v", filePath, err)
		fmt.Fprintf(os.Stderr, "%s: %v\n", config.AppName, err)
		os.Exit(1)
	}
	defer ed.Close()

	// --- Create and run the UI ---
	front, err := ui.New(ed, clipboard.NewManager(true))
	if err != nil {
		logger.Errorf("Error initializing UI: %v", err)
		fmt.Fprintf(os.Stderr, "%s: %v\n", config.AppName, err)
		os.Exit(1)
	}
	defer front.Close()

	if err := front.Run(); err != nil {
		front.Close()
		logger.Errorf("UI exited with error: %v", err)
		os.Exit(1)
	}

	logger.Infof("%s finished.", config.AppName)
}
