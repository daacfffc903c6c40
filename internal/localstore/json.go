package localstore

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"

	domainerrors "github.com/sacredrosary/rosary-server/internal/errors"
)

// ErrCorrupt reports a stored value that no longer decodes. The key has
// already been removed when it is returned.
var ErrCorrupt = domainerrors.ErrPersistenceReadCorrupt

// ReadJSON decodes the value at key into dst. A missing key returns
// ErrNotFound. A value that fails to decode is deleted, logged, and
// reported as ErrCorrupt.
func ReadJSON(ctx context.Context, s Store, key string, dst any, logger *slog.Logger) error {
	data, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		if logger != nil {
			logger.Warn("discarding unreadable stored value",
				"code", domainerrors.CodePersistenceReadCorrupt,
				"key", key,
				"error", err,
			)
		}
		if delErr := s.Delete(ctx, key); delErr != nil {
			return errors.Join(ErrCorrupt.WithDetails(map[string]string{"key": key}).WithCause(err), delErr)
		}
		return ErrCorrupt.WithDetails(map[string]string{"key": key}).WithCause(err)
	}
	return nil
}

// WriteJSON encodes v and stores it at key.
func WriteJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, data)
}
