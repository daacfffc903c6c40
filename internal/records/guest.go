package records

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/sacredrosary/rosary-server/internal/domain"
	domainerrors "github.com/sacredrosary/rosary-server/internal/errors"
	"github.com/sacredrosary/rosary-server/internal/id"
	"github.com/sacredrosary/rosary-server/internal/localstore"
	"github.com/sacredrosary/rosary-server/internal/logger"
)

// Guest keeps records as JSON lists in local storage. Ids are millisecond
// timestamps. Removal deletes the entry outright.
type Guest struct {
	kv     localstore.Store
	clock  *id.GuestClock
	logger *slog.Logger

	mu         sync.Mutex
	intentions []domain.IntentionEntry
	prayers    []domain.CustomPrayerEntry
}

// OpenGuest loads both lists from kv. A list that fails to decode is
// cleared and treated as empty.
func OpenGuest(ctx context.Context, kv localstore.Store, log *slog.Logger) (*Guest, error) {
	g := &Guest{
		kv:     kv,
		clock:  id.NewGuestClock(),
		logger: logger.OrDiscard(log).With("component", "records", "mode", "guest"),
	}
	if err := readList(ctx, kv, localstore.KeyIntentions, &g.intentions, g.logger); err != nil {
		return nil, err
	}
	if err := readList(ctx, kv, localstore.KeyCustomPrayers, &g.prayers, g.logger); err != nil {
		return nil, err
	}

	var maxID int64
	for _, e := range g.intentions {
		maxID = max(maxID, e.ID)
	}
	for _, e := range g.prayers {
		maxID = max(maxID, e.ID)
	}
	g.clock.Seed(maxID)
	return g, nil
}

func readList[T any](ctx context.Context, kv localstore.Store, key string, dst *[]T, log *slog.Logger) error {
	err := localstore.ReadJSON(ctx, kv, key, dst, log)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, localstore.ErrNotFound), errors.Is(err, localstore.ErrCorrupt):
		*dst = nil
		return nil
	default:
		return fmt.Errorf("read %s: %w", key, err)
	}
}

func (g *Guest) Guest() bool { return true }

func (g *Guest) Intentions(context.Context) ([]domain.IntentionEntry, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.intentions), nil
}

func (g *Guest) AddIntention(ctx context.Context, text string) (domain.IntentionEntry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.IntentionEntry{}, domainerrors.Validation("intention text is required")
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	e := domain.IntentionEntry{ID: g.clock.Next(), Text: text}
	next := append(slices.Clone(g.intentions), e)
	if err := localstore.WriteJSON(ctx, g.kv, localstore.KeyIntentions, next); err != nil {
		return domain.IntentionEntry{}, err
	}
	g.intentions = next
	return e, nil
}

func (g *Guest) RemoveIntention(ctx context.Context, entryID int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	next := slices.DeleteFunc(slices.Clone(g.intentions), func(e domain.IntentionEntry) bool { return e.ID == entryID })
	if len(next) == len(g.intentions) {
		return domainerrors.NotFoundf("intention %d not found", entryID)
	}
	if err := localstore.WriteJSON(ctx, g.kv, localstore.KeyIntentions, next); err != nil {
		return err
	}
	g.intentions = next
	return nil
}

func (g *Guest) CustomPrayers(context.Context) ([]domain.CustomPrayerEntry, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.prayers), nil
}

func (g *Guest) AddCustomPrayer(ctx context.Context, title, content string, section domain.Section) (domain.CustomPrayerEntry, error) {
	e := domain.CustomPrayerEntry{
		Title:   strings.TrimSpace(title),
		Content: strings.TrimSpace(content),
		Section: section,
	}
	if err := validateEntry(e); err != nil {
		return domain.CustomPrayerEntry{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	e.ID = g.clock.Next()
	next := append(slices.Clone(g.prayers), e)
	if err := localstore.WriteJSON(ctx, g.kv, localstore.KeyCustomPrayers, next); err != nil {
		return domain.CustomPrayerEntry{}, err
	}
	g.prayers = next
	return e, nil
}

func (g *Guest) UpdateCustomPrayer(ctx context.Context, entryID int64, u domain.CustomPrayerUpdate) (domain.CustomPrayerEntry, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	i := slices.IndexFunc(g.prayers, func(e domain.CustomPrayerEntry) bool { return e.ID == entryID })
	if i < 0 {
		return domain.CustomPrayerEntry{}, domainerrors.NotFoundf("custom prayer %d not found", entryID)
	}

	e := g.prayers[i]
	if u.Title != nil {
		e.Title = strings.TrimSpace(*u.Title)
	}
	if u.Content != nil {
		e.Content = strings.TrimSpace(*u.Content)
	}
	if u.Section != nil {
		e.Section = *u.Section
	}
	if err := validateEntry(e); err != nil {
		return domain.CustomPrayerEntry{}, err
	}

	next := slices.Clone(g.prayers)
	next[i] = e
	if err := localstore.WriteJSON(ctx, g.kv, localstore.KeyCustomPrayers, next); err != nil {
		return domain.CustomPrayerEntry{}, err
	}
	g.prayers = next
	return e, nil
}

func (g *Guest) RemoveCustomPrayer(ctx context.Context, entryID int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	next := slices.DeleteFunc(slices.Clone(g.prayers), func(e domain.CustomPrayerEntry) bool { return e.ID == entryID })
	if len(next) == len(g.prayers) {
		return domainerrors.NotFoundf("custom prayer %d not found", entryID)
	}
	if err := localstore.WriteJSON(ctx, g.kv, localstore.KeyCustomPrayers, next); err != nil {
		return err
	}
	g.prayers = next
	return nil
}

func validateEntry(e domain.CustomPrayerEntry) error {
	fields := map[string]string{}
	if e.Title == "" {
		fields["title"] = "title is required"
	}
	if e.Content == "" {
		fields["content"] = "content is required"
	}
	if !e.Section.AcceptsCustomPrayers() {
		fields["section"] = "custom prayers belong to initium or ultima"
	}
	if len(fields) > 0 {
		return domainerrors.ValidationWithDetails("invalid custom prayer", fields)
	}
	return nil
}
