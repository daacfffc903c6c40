package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/sacredrosary/rosary-server/internal/catalog"
	"github.com/sacredrosary/rosary-server/internal/config"
	"github.com/sacredrosary/rosary-server/internal/logger"
)

// ProvideCatalog provides the song catalog, from the configured TOML file
// or the built-in one.
func ProvideCatalog(i do.Injector) (*catalog.Catalog, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Audio.CatalogPath == "" {
		c := catalog.Default()
		log.Info("Song catalog loaded", "songs", c.Len(), "source", "built-in")
		return c, nil
	}

	c, err := catalog.Load(cfg.Audio.CatalogPath)
	if err != nil {
		return nil, err
	}
	log.Info("Song catalog loaded", "songs", c.Len(), "source", cfg.Audio.CatalogPath)
	return c, nil
}

// SongIndexHandle wraps the song search index with shutdown capability.
// Index is nil when the index could not be built.
type SongIndexHandle struct {
	*catalog.Index
}

// Shutdown implements do.Shutdownable.
func (h *SongIndexHandle) Shutdown() error {
	if h.Index == nil {
		return nil
	}
	return h.Close()
}

// ProvideSongIndex provides the in-memory Bleve index over the catalog.
// A failed build is logged and song search falls back to title matching.
func ProvideSongIndex(i do.Injector) (*SongIndexHandle, error) {
	c := do.MustInvoke[*catalog.Catalog](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := catalog.NewIndex(c)
	if err != nil {
		log.Warn("Song search index unavailable", "error", err)
		return &SongIndexHandle{}, nil
	}
	return &SongIndexHandle{Index: index}, nil
}

// ProbeAudioIfEnabled checks the audio directory against the catalog in
// the background and logs every missing or mismatched file.
func ProbeAudioIfEnabled(i do.Injector) {
	cfg := do.MustInvoke[*config.Config](i)
	if !cfg.Audio.ProbeOnStart || cfg.Audio.Dir == "" {
		return
	}
	c := do.MustInvoke[*catalog.Catalog](i)
	log := do.MustInvoke[*logger.Logger](i)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		defer cancel()

		results, err := catalog.Probe(ctx, c, cfg.Audio.Dir)
		if err != nil {
			log.Warn("Audio probe interrupted", "error", err)
		}
		bad := 0
		for _, r := range results {
			switch {
			case r.Missing:
				bad++
				log.Warn("Audio file missing", "song_id", r.SongID, "file", r.File)
			case r.Err != nil:
				bad++
				log.Warn("Audio file unreadable", "song_id", r.SongID, "file", r.File, "error", r.Err)
			case r.Mismatch():
				bad++
				log.Warn("Audio duration mismatch",
					"song_id", r.SongID,
					"nominal", r.Nominal,
					"measured", r.Measured,
				)
			}
		}
		log.Info("Audio probe complete", "songs", len(results), "problems", bad)
	}()
}
