// Package progress tracks where the user is in the rosary: the current
// section and, for the three mystery sections, how many mysteries have
// been prayed. Every change is written through to local storage.
package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"

	"github.com/sacredrosary/rosary-server/internal/domain"
	domainerrors "github.com/sacredrosary/rosary-server/internal/errors"
	"github.com/sacredrosary/rosary-server/internal/localstore"
	"github.com/sacredrosary/rosary-server/internal/logger"
)

// lastMystery is the zero-based index of the final mystery in a section.
const lastMystery = domain.MysteriesPerSection - 1

// Position describes what the navigator is showing.
type Position struct {
	Section      domain.Section `json:"section"`
	SectionIndex int            `json:"sectionIndex"`
	// Mystery is the zero-based mystery on screen, or -1 in a leaf section.
	Mystery   int `json:"mystery"`
	Completed int `json:"completed"`
}

// Navigator is safe for concurrent use.
type Navigator struct {
	kv     localstore.Store
	logger *slog.Logger

	mu      sync.Mutex
	section int
	counts  map[domain.Section]int
}

// Open rehydrates a navigator from kv. Missing or unreadable values start
// from the beginning; only storage failures are returned.
func Open(ctx context.Context, kv localstore.Store, log *slog.Logger) (*Navigator, error) {
	n := &Navigator{
		kv:     kv,
		logger: logger.OrDiscard(log).With("component", "progress"),
		counts: zeroCounts(),
	}

	var stored map[domain.Section]int
	err := localstore.ReadJSON(ctx, kv, localstore.KeyProgress, &stored, n.logger)
	switch {
	case err == nil:
		for _, s := range domain.MysterySections() {
			n.counts[s] = clampInt(stored[s], 0, domain.MysteriesPerSection)
		}
	case errors.Is(err, localstore.ErrNotFound), errors.Is(err, localstore.ErrCorrupt):
	default:
		return nil, fmt.Errorf("read progress: %w", err)
	}

	raw, err := kv.Get(ctx, localstore.KeySection)
	switch {
	case err == nil:
		if s := domain.Section(raw); s.Valid() {
			n.section = s.Index()
		} else {
			n.logger.Warn("discarding unreadable stored value",
				"code", domainerrors.CodePersistenceReadCorrupt, "key", localstore.KeySection)
			if err := kv.Delete(ctx, localstore.KeySection); err != nil {
				return nil, fmt.Errorf("clear section: %w", err)
			}
		}
	case errors.Is(err, localstore.ErrNotFound):
	default:
		return nil, fmt.Errorf("read section: %w", err)
	}

	return n, nil
}

// Position returns the current position.
func (n *Navigator) Position() Position {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.positionLocked()
}

// Progress returns a copy of the completed counts per mystery section.
func (n *Navigator) Progress() map[domain.Section]int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return maps.Clone(n.counts)
}

// CurrentMystery returns the mystery shown for section: the first one not
// yet prayed, or the last when all are done. Leaf sections return -1.
func (n *Navigator) CurrentMystery(section domain.Section) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.mysteryLocked(section)
}

// Advance moves to the next mystery, or to the next section when the
// current one has no further mysteries. It stops at the last section.
func (n *Navigator) Advance(ctx context.Context) (Position, error) {
	return n.mutate(ctx, func() {
		s := n.currentLocked()
		if s.MysteryBearing() && n.counts[s] < lastMystery {
			n.counts[s]++
			return
		}
		n.section = min(n.section+1, domain.SectionCount()-1)
	})
}

// Retreat moves to the previous mystery, or to the previous section when
// the current one is at its first mystery. It stops at the first section.
func (n *Navigator) Retreat(ctx context.Context) (Position, error) {
	return n.mutate(ctx, func() {
		s := n.currentLocked()
		if s.MysteryBearing() && n.counts[s] > 0 {
			n.counts[s]--
			return
		}
		n.section = max(n.section-1, 0)
	})
}

// JumpToMystery sets the completed count of section to index, clamped to
// the mysteries that exist. The current section is not changed.
func (n *Navigator) JumpToMystery(ctx context.Context, section domain.Section, index int) (Position, error) {
	if !section.MysteryBearing() {
		return n.Position(), domainerrors.Validationf("section %q has no mysteries", section)
	}
	return n.mutate(ctx, func() {
		n.counts[section] = clampInt(index, 0, lastMystery)
	})
}

// SelectSection jumps straight to section without touching any counts.
func (n *Navigator) SelectSection(ctx context.Context, section domain.Section) (Position, error) {
	if !section.Valid() {
		return n.Position(), domainerrors.Validationf("unknown section %q", section)
	}
	return n.mutate(ctx, func() {
		n.section = section.Index()
	})
}

// Reset clears every count and returns to the first section.
func (n *Navigator) Reset(ctx context.Context) (Position, error) {
	return n.mutate(ctx, func() {
		n.section = 0
		n.counts = zeroCounts()
	})
}

// mutate applies fn and persists the result. The in-memory change is kept
// even when the write fails; the error is returned to the caller.
func (n *Navigator) mutate(ctx context.Context, fn func()) (Position, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	fn()
	pos := n.positionLocked()

	if err := localstore.WriteJSON(ctx, n.kv, localstore.KeyProgress, n.counts); err != nil {
		n.logger.Error("failed to persist progress", "error", err)
		return pos, fmt.Errorf("persist progress: %w", err)
	}
	if err := n.kv.Set(ctx, localstore.KeySection, []byte(pos.Section)); err != nil {
		n.logger.Error("failed to persist section", "error", err)
		return pos, fmt.Errorf("persist section: %w", err)
	}
	return pos, nil
}

func (n *Navigator) currentLocked() domain.Section {
	s, _ := domain.SectionAt(n.section)
	return s
}

func (n *Navigator) mysteryLocked(s domain.Section) int {
	if !s.MysteryBearing() {
		return -1
	}
	return min(n.counts[s], lastMystery)
}

func (n *Navigator) positionLocked() Position {
	s := n.currentLocked()
	return Position{
		Section:      s,
		SectionIndex: n.section,
		Mystery:      n.mysteryLocked(s),
		Completed:    n.counts[s],
	}
}

func zeroCounts() map[domain.Section]int {
	m := make(map[domain.Section]int, 3)
	for _, s := range domain.MysterySections() {
		m[s] = 0
	}
	return m
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
