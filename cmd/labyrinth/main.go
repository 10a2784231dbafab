// Labyrinth is a text adventure interpreter. It plays the built-in
// Labyrinth of Echoes, or a world loaded from Lua or YAML content.
//
// Usage: labyrinth [flags] [content]
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/nathoo/labyrinth/cli"
	"github.com/nathoo/labyrinth/config"
	"github.com/nathoo/labyrinth/engine"
	"github.com/nathoo/labyrinth/engine/save"
	"github.com/nathoo/labyrinth/loader"
	"github.com/nathoo/labyrinth/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	envFile    string
	plain      bool
	scriptFile string
	cfg        = &config.Config{}
)

var rootCmd = &cobra.Command{
	Use:     "labyrinth [content]",
	Short:   "Play The Labyrinth of Echoes",
	Long:    `Labyrinth plays the built-in Labyrinth of Echoes, or a world loaded from a Lua directory or file, or a YAML/JSON game_config document.`,
	Args:    cobra.MaximumNArgs(1),
	Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
	RunE:         run,
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&envFile, "env-file", ".env", "environment file to read settings from")
	flags.BoolVar(&plain, "plain", false, "use the line-oriented interface instead of the TUI")
	flags.StringVar(&scriptFile, "script", "", "play commands from a file and echo them")
	flags.Int64Var(&cfg.Seed, "seed", 0, "random seed (0 seeds from the clock)")
	flags.StringVar(&cfg.SaveDir, "save-dir", config.DefaultSaveDir, "directory for saved games")
	flags.StringVar(&cfg.RedisAddr, "redis", "", "keep saved games in Redis at this address")
	flags.IntVar(&cfg.Threshold, "threshold", 0, "crystal fragments needed for restoration (0 keeps the content's value)")
	flags.StringVar(&cfg.LogFile, "log-file", "", "write logs to this file")
	flags.StringVar(&cfg.LogLevel, "log-level", config.DefaultLogLevel, "log level: debug, info, warn or error")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the environment, then lets explicit flags win.
func loadConfig(cmd *cobra.Command) error {
	env, err := config.Load(envFile)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if !flags.Changed("seed") {
		cfg.Seed = env.Seed
	}
	if !flags.Changed("save-dir") {
		cfg.SaveDir = env.SaveDir
	}
	if !flags.Changed("redis") {
		cfg.RedisAddr = env.RedisAddr
	}
	if !flags.Changed("threshold") {
		cfg.Threshold = env.Threshold
	}
	if !flags.Changed("log-file") {
		cfg.LogFile = env.LogFile
	}
	if !flags.Changed("log-level") {
		cfg.LogLevel = env.LogLevel
	}
	cfg.Content = env.Content
	if cfg.Threshold < 0 {
		return oops.Errorf("threshold must not be negative, got %d", cfg.Threshold)
	}
	return nil
}

func run(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		cfg.Content = args[0]
	}

	closeLog, err := setupLogging(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	store, closeStore := openStore(cmd.Context(), cfg)
	defer closeStore()

	content := loader.LoadOrBuiltin(cfg.Content, loader.Options{Threshold: cfg.Threshold})
	eng := engine.New(content.World, engine.Options{
		Scripts: content.Scripts,
		Store:   store,
		Seed:    seed,
	})
	slog.Info("session started", "world", content.World.Name, "seed", seed)

	// Script mode: read commands from the file and echo them.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			return oops.Wrapf(err, "opening script %s", scriptFile)
		}
		defer f.Close()
		c := cli.New(eng)
		c.In = f
		c.EchoInput = true
		c.Run()
		return nil
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if plain || !isTerminal() {
		cli.New(eng).Run()
		return nil
	}

	if err := tui.Run(eng); err != nil {
		return oops.Wrapf(err, "running terminal UI")
	}
	return nil
}

// setupLogging points the default slog logger at path, or discards logs
// when path is empty.
func setupLogging(path, level string) (func(), error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, oops.Wrapf(err, "invalid log level %q", level)
	}

	var w io.Writer = io.Discard
	closer := func() {}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, oops.Wrapf(err, "opening log file %s", path)
		}
		w = f
		closer = func() { f.Close() }
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})))
	return closer, nil
}

// openStore returns the Redis store when one is configured and reachable,
// and a file store otherwise.
func openStore(ctx context.Context, cfg *config.Config) (save.Store, func()) {
	if cfg.RedisAddr != "" {
		rs := save.NewRedisStore(cfg.RedisAddr)
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		err := rs.Client.Ping(pingCtx).Err()
		if err == nil {
			slog.Info("saving games to redis", "addr", cfg.RedisAddr)
			return rs, func() { rs.Close() }
		}
		slog.Warn("redis unreachable, saving games to disk", "addr", cfg.RedisAddr, "error", err)
		rs.Close()
	}
	return &save.FileStore{Dir: cfg.SaveDir}, func() {}
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
