// Package records stores a user's intentions and custom prayers. Guests
// keep them on the device; signed-in users keep them on the server. The
// two are never merged.
package records

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sacredrosary/rosary-server/internal/domain"
	"github.com/sacredrosary/rosary-server/internal/localstore"
)

// Store is the record capability the client works against.
type Store interface {
	Intentions(ctx context.Context) ([]domain.IntentionEntry, error)
	AddIntention(ctx context.Context, text string) (domain.IntentionEntry, error)
	RemoveIntention(ctx context.Context, id int64) error

	CustomPrayers(ctx context.Context) ([]domain.CustomPrayerEntry, error)
	AddCustomPrayer(ctx context.Context, title, content string, section domain.Section) (domain.CustomPrayerEntry, error)
	UpdateCustomPrayer(ctx context.Context, id int64, u domain.CustomPrayerUpdate) (domain.CustomPrayerEntry, error)
	RemoveCustomPrayer(ctx context.Context, id int64) error

	// Guest reports whether records live on the device.
	Guest() bool
}

// Options configures New.
type Options struct {
	// UserID selects the remote store when set.
	UserID  string
	BaseURL string
	Client  *http.Client
	Logger  *slog.Logger
}

// New returns a Remote store for a signed-in user and a Guest store
// over kv otherwise.
func New(ctx context.Context, kv localstore.Store, opts Options) (Store, error) {
	if opts.UserID != "" {
		return NewRemote(RemoteOptions{
			BaseURL: opts.BaseURL,
			UserID:  opts.UserID,
			Client:  opts.Client,
			Logger:  opts.Logger,
		})
	}
	return OpenGuest(ctx, kv, opts.Logger)
}
