// Package localstore is the device-local key/value storage used by the
// client core: the reading position, guest records and preferences.
//
// Values are opaque bytes. ReadJSON and WriteJSON add the JSON encoding
// every caller uses, and clear keys that no longer decode.
package localstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sacredrosary/rosary-server/internal/config"
)

// Storage keys. They match the keys earlier clients wrote, so existing
// device data keeps working.
const (
	KeyFontSize      = "rosary-font-size"
	KeyProgress      = "rosary_progress"
	KeySection       = "rosary_section"
	KeyIntentions    = "rosary_intentions"
	KeyCustomPrayers = "rosary_custom_prayers"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("localstore: key not found")

// Store is a small synchronous key/value store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open returns the backend selected by cfg.
func Open(ctx context.Context, cfg *config.ClientConfig, logger *slog.Logger) (Store, error) {
	switch cfg.Backend {
	case config.BackendBadger:
		return OpenBadger(cfg.DataDir, logger)
	case config.BackendRedis:
		return OpenRedis(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
	case config.BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown local storage backend %q", cfg.Backend)
	}
}
