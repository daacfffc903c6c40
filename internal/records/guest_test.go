package records

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sacredrosary/rosary-server/internal/domain"
	domainerrors "github.com/sacredrosary/rosary-server/internal/errors"
	"github.com/sacredrosary/rosary-server/internal/localstore"
)

func openGuest(t *testing.T, kv localstore.Store) *Guest {
	t.Helper()
	g, err := OpenGuest(context.Background(), kv, nil)
	require.NoError(t, err)
	return g
}

func TestGuest_IntentionsSurviveRestart(t *testing.T) {
	ctx := context.Background()
	kv, err := localstore.OpenBadger(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	g := openGuest(t, kv)
	assert.True(t, g.Guest())

	first, err := g.AddIntention(ctx, "Pela paz no mundo")
	require.NoError(t, err)
	second, err := g.AddIntention(ctx, "Pela saúde da família")
	require.NoError(t, err)

	list, err := g.Intentions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Pela paz no mundo", list[0].Text)
	assert.Equal(t, "Pela saúde da família", list[1].Text)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Greater(t, second.ID, first.ID)

	reloaded, err := openGuest(t, kv).Intentions(ctx)
	require.NoError(t, err)
	assert.Equal(t, list, reloaded)
}

func TestGuest_IdsIncreaseAcrossRestart(t *testing.T) {
	ctx := context.Background()
	kv := localstore.NewMemory()
	require.NoError(t, localstore.WriteJSON(ctx, kv, localstore.KeyIntentions,
		[]domain.IntentionEntry{{ID: 9_999_999_999_999, Text: "from the future"}}))

	e, err := openGuest(t, kv).AddIntention(ctx, "today")
	require.NoError(t, err)
	assert.Greater(t, e.ID, int64(9_999_999_999_999))
}

func TestGuest_RemoveIntention(t *testing.T) {
	ctx := context.Background()
	g := openGuest(t, localstore.NewMemory())

	e, err := g.AddIntention(ctx, "Pelos enfermos")
	require.NoError(t, err)
	require.NoError(t, g.RemoveIntention(ctx, e.ID))

	list, err := g.Intentions(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.ErrorIs(t, g.RemoveIntention(ctx, e.ID), domainerrors.ErrNotFound)
}

func TestGuest_RejectsBlankIntention(t *testing.T) {
	_, err := openGuest(t, localstore.NewMemory()).AddIntention(context.Background(), "   ")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestGuest_CustomPrayers(t *testing.T) {
	ctx := context.Background()
	kv := localstore.NewMemory()
	g := openGuest(t, kv)

	p, err := g.AddCustomPrayer(ctx, "Oração da manhã", "Senhor, abençoai este dia.", domain.SectionInitium)
	require.NoError(t, err)

	_, err = g.AddCustomPrayer(ctx, "Mistério", "texto", domain.SectionDolorosa)
	assert.ErrorIs(t, err, domainerrors.ErrValidation, "only opening and closing sections")

	title := "Oração da noite"
	section := domain.SectionUltima
	updated, err := g.UpdateCustomPrayer(ctx, p.ID, domain.CustomPrayerUpdate{Title: &title, Section: &section})
	require.NoError(t, err)
	assert.Equal(t, "Oração da noite", updated.Title)
	assert.Equal(t, "Senhor, abençoai este dia.", updated.Content)
	assert.Equal(t, domain.SectionUltima, updated.Section)

	blank := ""
	_, err = g.UpdateCustomPrayer(ctx, p.ID, domain.CustomPrayerUpdate{Content: &blank})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	reloaded, err := openGuest(t, kv).CustomPrayers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.CustomPrayerEntry{updated}, reloaded)

	require.NoError(t, g.RemoveCustomPrayer(ctx, p.ID))
	_, err = g.UpdateCustomPrayer(ctx, p.ID, domain.CustomPrayerUpdate{Title: &title})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestGuest_CorruptListIsDiscarded(t *testing.T) {
	ctx := context.Background()
	kv := localstore.NewMemory()
	require.NoError(t, kv.Set(ctx, localstore.KeyCustomPrayers, []byte("[{oops")))

	g := openGuest(t, kv)
	list, err := g.CustomPrayers(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = kv.Get(ctx, localstore.KeyCustomPrayers)
	assert.ErrorIs(t, err, localstore.ErrNotFound)
}

func TestNew_SelectsByUser(t *testing.T) {
	ctx := context.Background()

	s, err := New(ctx, localstore.NewMemory(), Options{})
	require.NoError(t, err)
	assert.True(t, s.Guest())

	s, err = New(ctx, localstore.NewMemory(), Options{UserID: "3f0c2a4e-1b7d-4c61-9a53-0c6f1d2e8b90", BaseURL: "http://localhost:8080"})
	require.NoError(t, err)
	assert.False(t, s.Guest())

	_, err = New(ctx, localstore.NewMemory(), Options{UserID: "3f0c2a4e-1b7d-4c61-9a53-0c6f1d2e8b90"})
	assert.Error(t, err)
}
