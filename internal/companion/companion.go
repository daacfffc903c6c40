// Package companion assembles the pieces a rosary client runs with: the
// progress navigator, the audio player, the record store and display
// preferences, all over one device-local store.
package companion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/sacredrosary/rosary-server/internal/catalog"
	"github.com/sacredrosary/rosary-server/internal/config"
	"github.com/sacredrosary/rosary-server/internal/localstore"
	"github.com/sacredrosary/rosary-server/internal/logger"
	"github.com/sacredrosary/rosary-server/internal/playback"
	"github.com/sacredrosary/rosary-server/internal/preferences"
	"github.com/sacredrosary/rosary-server/internal/progress"
	"github.com/sacredrosary/rosary-server/internal/records"
)

// Options configures Open.
type Options struct {
	// Store holds progress, preferences and guest records. Required.
	Store   localstore.Store
	Catalog *catalog.Catalog
	Loader  playback.Loader
	// Interaction gates autoplay; nil means the user has not interacted.
	Interaction playback.Interaction
	Policy      playback.LoadPolicy
	Records     records.Options
	// AutoAdvance moves to the next song when one ends.
	AutoAdvance bool
	Logger      *slog.Logger
}

// Companion is one running client.
type Companion struct {
	Progress    *progress.Navigator
	Player      *playback.Session
	Records     records.Store
	Preferences *preferences.Preferences
	Catalog     *catalog.Catalog

	kv      localstore.Store
	ownsKV  bool
	logger  *slog.Logger
	mu      sync.Mutex
	advance func()
	closed  bool
}

// Open restores the client state held in opts.Store.
func Open(ctx context.Context, opts Options) (*Companion, error) {
	if opts.Store == nil {
		return nil, errors.New("companion: store is required")
	}
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	log := logger.OrDiscard(opts.Logger)

	nav, err := progress.Open(ctx, opts.Store, log)
	if err != nil {
		return nil, fmt.Errorf("open progress: %w", err)
	}
	prefs, err := preferences.Open(ctx, opts.Store, log)
	if err != nil {
		return nil, fmt.Errorf("open preferences: %w", err)
	}
	if opts.Records.Logger == nil {
		opts.Records.Logger = log
	}
	rec, err := records.New(ctx, opts.Store, opts.Records)
	if err != nil {
		return nil, fmt.Errorf("open records: %w", err)
	}
	player, err := playback.NewSession(playback.Options{
		Catalog:     opts.Catalog,
		Loader:      opts.Loader,
		Interaction: opts.Interaction,
		Policy:      opts.Policy,
		Logger:      log,
	})
	if err != nil {
		return nil, fmt.Errorf("open player: %w", err)
	}

	c := &Companion{
		Progress:    nav,
		Player:      player,
		Records:     rec,
		Preferences: prefs,
		Catalog:     opts.Catalog,
		kv:          opts.Store,
		logger:      log,
	}
	c.SetAutoAdvance(opts.AutoAdvance)
	return c, nil
}

// FromConfig opens the local store named by cfg and a companion over it.
// Audio comes from cfg.AudioDir when set, else from the server. The
// returned companion closes the store on Close.
func FromConfig(ctx context.Context, cfg *config.ClientConfig, log *slog.Logger) (*Companion, error) {
	kv, err := localstore.Open(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	var opener playback.Opener = playback.DirOpener{Root: cfg.AudioDir}
	if cfg.AudioDir == "" {
		opener = playback.HTTPOpener{BaseURL: cfg.APIURL, Client: &http.Client{Timeout: 2 * time.Minute}}
	}

	c, err := Open(ctx, Options{
		Store:       kv,
		Catalog:     catalog.Default(),
		Loader:      &playback.StreamLoader{Opener: opener, Logger: log},
		Interaction: playback.Always{},
		Policy: playback.LoadPolicy{
			DefaultTimeout: cfg.LoadTimeout,
			MaxRetries:     cfg.LoadRetries,
			Backoff:        cfg.LoadBackoff,
		},
		Records: records.Options{UserID: cfg.UserID, BaseURL: cfg.APIURL, Logger: log},
		Logger:  log,
	})
	if err != nil {
		_ = kv.Close()
		return nil, err
	}
	c.ownsKV = true
	return c, nil
}

// SetAutoAdvance turns advancing to the next song on song end on or off.
func (c *Companion) SetAutoAdvance(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.advance != nil {
		c.advance()
		c.advance = nil
	}
	if on {
		c.advance = c.Player.OnSongEnded(func(songID string) {
			c.logger.Debug("song ended, advancing", "song_id", songID)
			c.Player.Next(false)
		})
	}
}

// AutoAdvance reports whether songs advance on their own.
func (c *Companion) AutoAdvance() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.advance != nil
}

// Close releases the player, and the local store when FromConfig opened it.
func (c *Companion) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	if c.advance != nil {
		c.advance()
		c.advance = nil
	}
	c.mu.Unlock()

	err := c.Player.Close()
	if c.ownsKV {
		err = errors.Join(err, c.kv.Close())
	}
	return err
}
