package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Local storage backends for the terminal client.
const (
	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// ClientConfig configures the terminal client. Fields left empty by the
// caller are filled from ROSARY_* environment variables and defaults.
type ClientConfig struct {
	DataDir  string // badger directory
	Backend  string // badger, redis or memory
	LogLevel string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	APIURL string // server base URL; required when UserID is set
	UserID string // empty means guest

	AudioDir string // local audio directory; empty streams from APIURL

	LoadTimeout time.Duration
	LoadRetries int
	LoadBackoff time.Duration
}

// ClientFlags carries raw flag values; empty strings fall through to the
// environment.
type ClientFlags struct {
	DataDir, Backend, LogLevel, RedisAddr, APIURL, UserID, AudioDir string
	LoadTimeout, LoadRetries                                       string
	EnvFile                                                        string
}

// LoadClientConfig resolves the client configuration.
func LoadClientConfig(f ClientFlags) (*ClientConfig, error) {
	envFile := f.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	_ = godotenv.Load(envFile)

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	cfg := &ClientConfig{
		DataDir:       getConfigValue(f.DataDir, "ROSARY_DATA_DIR", filepath.Join(home, ".rosary", "device")),
		Backend:       strings.ToLower(getConfigValue(f.Backend, "ROSARY_BACKEND", BackendBadger)),
		LogLevel:      getConfigValue(f.LogLevel, "ROSARY_LOG_LEVEL", "warn"),
		RedisAddr:     getConfigValue(f.RedisAddr, "ROSARY_REDIS_ADDR", "localhost:6379"),
		RedisPassword: getConfigValue("", "ROSARY_REDIS_PASSWORD", ""),
		RedisDB:       getIntConfigValue("", "ROSARY_REDIS_DB", 0),
		RedisPrefix:   getConfigValue("", "ROSARY_REDIS_PREFIX", "rosary:"),
		APIURL:        strings.TrimRight(getConfigValue(f.APIURL, "ROSARY_API_URL", ""), "/"),
		UserID:        getConfigValue(f.UserID, "ROSARY_USER_ID", ""),
		AudioDir:      getConfigValue(f.AudioDir, "ROSARY_AUDIO_DIR", ""),
		LoadRetries:   getIntConfigValue(f.LoadRetries, "ROSARY_LOAD_RETRIES", 2),
	}

	if cfg.LoadTimeout, err = getDurationConfigValue(f.LoadTimeout, "ROSARY_LOAD_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.LoadBackoff, err = getDurationConfigValue("", "ROSARY_LOAD_BACKOFF", 300*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.DataDir, err = expandPath(cfg.DataDir, ""); err != nil {
		return nil, fmt.Errorf("invalid data dir: %w", err)
	}
	if cfg.AudioDir != "" {
		if cfg.AudioDir, err = expandPath(cfg.AudioDir, ""); err != nil {
			return nil, fmt.Errorf("invalid audio dir: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Guest reports whether the client runs without a signed-in user.
func (c *ClientConfig) Guest() bool {
	return c.UserID == ""
}

// Validate checks the client configuration.
func (c *ClientConfig) Validate() error {
	switch c.Backend {
	case BackendBadger:
		if c.DataDir == "" {
			return errors.New("data dir cannot be empty for the badger backend")
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			return errors.New("redis address cannot be empty")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("invalid backend: %s (must be badger, redis, or memory)", c.Backend)
	}

	if c.UserID != "" && c.APIURL == "" {
		return errors.New("ROSARY_API_URL is required when a user id is set")
	}
	if c.LoadTimeout <= 0 {
		return errors.New("load timeout must be positive")
	}
	if c.LoadRetries < 0 {
		return errors.New("load retries cannot be negative")
	}
	return nil
}
