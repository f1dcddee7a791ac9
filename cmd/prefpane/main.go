// Package main is the entry point for the prefpane command. It loads a
// settings file into the demo preferences tree, optionally runs a Lua
// script against it, prints the change history and saves the result.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/prefpane/internal/app"
	"github.com/dshills/prefpane/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type cliOptions struct {
	app.Options

	ScriptPath string
	Watch      bool
	NoSave     bool
	LogLevel   string
	LogFormat  string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts, err := parseFlags(os.Args[1:], os.Stdout, os.Stderr)
	if errors.Is(err, errExitEarly) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	logger := logging.New(logging.Config{Level: opts.LogLevel, Format: opts.LogFormat}, version)
	opts.Logger = logger

	prefs, err := app.New(opts.Options, demoCategories()...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer prefs.Close()

	if _, err := prefs.LoadSettingValues(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Handle signals for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		cancel()
	}()

	if opts.ScriptPath != "" {
		if err := prefs.RunScript(ctx, opts.ScriptPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	fmt.Print(prefs.HistoryReport())

	if opts.SettingsPath != "" && !opts.NoSave {
		if err := prefs.SaveSettingValues(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		logger.Info("settings saved", "path", opts.SettingsPath)
	}

	if opts.Watch {
		if err := prefs.Watch(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	return 0
}

// errExitEarly reports that -help or -version was handled and the command
// should stop successfully.
var errExitEarly = errors.New("exit early")

func parseFlags(args []string, stdout, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions
	var showVersion bool
	var showHelp bool

	fs := flag.NewFlagSet("prefpane", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.SettingsPath, "settings", "", "Settings file (.toml, .yaml or .yml)")
	fs.StringVar(&opts.SettingsPath, "s", "", "Settings file (shorthand)")
	fs.StringVar(&opts.ScriptPath, "script", "", "Lua script to run after loading")
	fs.BoolVar(&opts.Watch, "watch", false, "Reload the settings file when it changes")
	fs.BoolVar(&opts.Watch, "w", false, "Reload the settings file when it changes (shorthand)")
	fs.BoolVar(&opts.NoSave, "no-save", false, "Do not write the settings file")
	fs.BoolVar(&opts.AutoSave, "autosave", false, "Save after every change")
	fs.IntVar(&opts.MaxHistory, "max-history", 0, "Maximum undo entries (0 for default)")
	fs.StringVar(&opts.EnvPrefix, "env-prefix", "PREFPANE_", "Environment override prefix (empty disables)")
	fs.StringVar(&opts.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.LogFormat, "log-format", "text", "Log format (text, json)")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	fs.BoolVar(&showHelp, "help", false, "Show help message")
	fs.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "prefpane - preferences with undo/redo history\n\n")
		fmt.Fprintf(stderr, "Usage: prefpane [options]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  prefpane -s settings.toml                    Load, print history, save\n")
		fmt.Fprintf(stderr, "  prefpane -s settings.yaml -script tweak.lua  Apply a script\n")
		fmt.Fprintf(stderr, "  prefpane -s settings.toml -w                 Watch for external edits\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	if showHelp {
		fs.Usage()
		return opts, errExitEarly
	}

	if showVersion {
		fmt.Fprintf(stdout, "prefpane %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return opts, errExitEarly
	}

	switch opts.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return opts, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", opts.LogLevel)
	}

	switch opts.LogFormat {
	case "text", "json":
	default:
		return opts, fmt.Errorf("invalid log format %q (must be text or json)", opts.LogFormat)
	}

	if opts.Watch && opts.SettingsPath == "" {
		return opts, errors.New("-watch requires -settings")
	}

	return opts, nil
}
