// Package config reads session settings from the environment. A .env file
// in the working directory is loaded first; variables already set in the
// environment win over it.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/samber/oops"
)

// Environment variables read by Load.
const (
	EnvContent   = "LABYRINTH_CONTENT"
	EnvSaveDir   = "LABYRINTH_SAVE_DIR"
	EnvSeed      = "LABYRINTH_SEED"
	EnvRedisAddr = "LABYRINTH_REDIS_ADDR"
	EnvThreshold = "LABYRINTH_THRESHOLD"
	EnvLogFile   = "LABYRINTH_LOG_FILE"
	EnvLogLevel  = "LABYRINTH_LOG_LEVEL"
)

// Defaults.
const (
	DefaultSaveDir  = "saves"
	DefaultLogLevel = "info"
)

// Config holds the application configuration.
type Config struct {
	Content   string // content path; empty plays the built-in world
	SaveDir   string
	Seed      int64 // zero means seed from the clock
	RedisAddr string // non-empty stores saves in Redis instead of SaveDir
	Threshold int
	LogFile   string // empty discards logs
	LogLevel  string
}

// Load reads the configuration from envFile, if it exists, and the
// environment.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, oops.Wrapf(err, "load %s", envFile)
		}
	}

	cfg := &Config{
		Content:   os.Getenv(EnvContent),
		SaveDir:   getenv(EnvSaveDir, DefaultSaveDir),
		RedisAddr: os.Getenv(EnvRedisAddr),
		LogFile:   os.Getenv(EnvLogFile),
		LogLevel:  getenv(EnvLogLevel, DefaultLogLevel),
	}
	if s := os.Getenv(EnvSeed); s != "" {
		seed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, oops.Wrapf(err, "parse %s", EnvSeed)
		}
		cfg.Seed = seed
	}
	if s := os.Getenv(EnvThreshold); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return nil, oops.Errorf("%s must be a non-negative integer, got %q", EnvThreshold, s)
		}
		cfg.Threshold = n
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
