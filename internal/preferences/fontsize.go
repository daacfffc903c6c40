// Package preferences holds device-local reading preferences.
package preferences

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	domainerrors "github.com/sacredrosary/rosary-server/internal/errors"
	"github.com/sacredrosary/rosary-server/internal/localstore"
	"github.com/sacredrosary/rosary-server/internal/logger"
)

// FontSize is a step of the reading text scale.
type FontSize string

const (
	FontLarge FontSize = "lg"
	FontXL    FontSize = "xl"
	Font2XL   FontSize = "2xl"
	Font3XL   FontSize = "3xl"
	Font4XL   FontSize = "4xl"
)

// DefaultFont is used until the user picks a size.
const DefaultFont = FontLarge

var fontScale = []FontSize{FontLarge, FontXL, Font2XL, Font3XL, Font4XL}

// fontPixels is the rendered size of each step.
var fontPixels = map[FontSize]int{
	FontLarge: 20,
	FontXL:    24,
	Font2XL:   30,
	Font3XL:   36,
	Font4XL:   48,
}

// FontSizes returns the scale from smallest to largest.
func FontSizes() []FontSize {
	return slices.Clone(fontScale)
}

// Valid reports whether f is on the scale.
func (f FontSize) Valid() bool {
	return slices.Contains(fontScale, f)
}

// Pixels returns the rendered text size.
func (f FontSize) Pixels() int {
	return fontPixels[f]
}

// Preferences reads and writes preferences in a local store.
type Preferences struct {
	kv     localstore.Store
	logger *slog.Logger

	mu   sync.Mutex
	font FontSize
}

// Open loads preferences from kv. An unknown stored font size is
// discarded and the default used.
func Open(ctx context.Context, kv localstore.Store, log *slog.Logger) (*Preferences, error) {
	p := &Preferences{
		kv:     kv,
		logger: logger.OrDiscard(log).With("component", "preferences"),
		font:   DefaultFont,
	}

	raw, err := kv.Get(ctx, localstore.KeyFontSize)
	switch {
	case errors.Is(err, localstore.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("read font size: %w", err)
	case FontSize(raw).Valid():
		p.font = FontSize(raw)
	default:
		p.logger.Warn("discarding unreadable stored value",
			"code", domainerrors.CodePersistenceReadCorrupt, "key", localstore.KeyFontSize)
		if err := kv.Delete(ctx, localstore.KeyFontSize); err != nil {
			return nil, fmt.Errorf("clear font size: %w", err)
		}
	}
	return p, nil
}

// FontSize returns the current font size.
func (p *Preferences) FontSize() FontSize {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.font
}

// SetFontSize stores f.
func (p *Preferences) SetFontSize(ctx context.Context, f FontSize) error {
	if !f.Valid() {
		return domainerrors.Validationf("unknown font size %q", f)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.setLocked(ctx, f)
}

// Larger steps the font size up, stopping at the largest.
func (p *Preferences) Larger(ctx context.Context) (FontSize, error) {
	return p.step(ctx, 1)
}

// Smaller steps the font size down, stopping at the smallest.
func (p *Preferences) Smaller(ctx context.Context) (FontSize, error) {
	return p.step(ctx, -1)
}

func (p *Preferences) step(ctx context.Context, delta int) (FontSize, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := slices.Index(fontScale, p.font) + delta
	i = max(0, min(i, len(fontScale)-1))
	next := fontScale[i]
	if next == p.font {
		return next, nil
	}
	return next, p.setLocked(ctx, next)
}

func (p *Preferences) setLocked(ctx context.Context, f FontSize) error {
	p.font = f
	if err := p.kv.Set(ctx, localstore.KeyFontSize, []byte(f)); err != nil {
		return fmt.Errorf("persist font size: %w", err)
	}
	return nil
}
