package records

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/sacredrosary/rosary-server/internal/api"
	"github.com/sacredrosary/rosary-server/internal/catalog"
	"github.com/sacredrosary/rosary-server/internal/domain"
	domainerrors "github.com/sacredrosary/rosary-server/internal/errors"
	"github.com/sacredrosary/rosary-server/internal/localstore"
	"github.com/sacredrosary/rosary-server/internal/service"
	"github.com/sacredrosary/rosary-server/internal/store/sqlstore"
	"github.com/sacredrosary/rosary-server/internal/validation"
)

const remoteUser = "8a1f7c2e-5d3b-4b9a-9e61-2f4c8d0a7b13"

// startAPI runs the real HTTP API over a temporary SQLite store.
func startAPI(t *testing.T) *httptest.Server {
	t.Helper()

	st, err := sqlstore.OpenSQLite(filepath.Join(t.TempDir(), "rosary.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	v := validation.New()
	srv := api.NewServer(st, &api.Services{
		Prayers:       service.NewPrayerService(st, v, nil),
		Intentions:    service.NewIntentionService(st, v, nil),
		CustomPrayers: service.NewCustomPrayerService(st, v, nil),
		Profiles:      service.NewProfileService(st, v, nil),
	}, &api.Songs{Catalog: catalog.Default()}, api.Options{}, nil)
	t.Cleanup(srv.Close)

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts
}

func newRemote(t *testing.T, baseURL string) *Remote {
	t.Helper()
	r, err := NewRemote(RemoteOptions{
		BaseURL: baseURL,
		UserID:  remoteUser,
		Limiter: rate.NewLimiter(rate.Inf, 1),
	})
	require.NoError(t, err)
	return r
}

func TestNewRemote_RequiresBaseURLAndUser(t *testing.T) {
	_, err := NewRemote(RemoteOptions{UserID: remoteUser})
	assert.Error(t, err)
	_, err = NewRemote(RemoteOptions{BaseURL: "http://localhost"})
	assert.Error(t, err)
}

func TestRemote_Intentions(t *testing.T) {
	ctx := context.Background()
	r := newRemote(t, startAPI(t).URL)
	assert.False(t, r.Guest())

	first, err := r.AddIntention(ctx, "Pela paz no mundo")
	require.NoError(t, err)
	assert.NotZero(t, first.ID)
	_, err = r.AddIntention(ctx, "Pela saúde da família")
	require.NoError(t, err)

	list, err := r.Intentions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.NoError(t, r.RemoveIntention(ctx, first.ID))
	list, err = r.Intentions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Pela saúde da família", list[0].Text)

	err = r.RemoveIntention(ctx, 9999)
	assert.Equal(t, domainerrors.CodeNotFound, domainerrors.CodeOf(err))
}

func TestRemote_CustomPrayers(t *testing.T) {
	ctx := context.Background()
	r := newRemote(t, startAPI(t).URL)

	p, err := r.AddCustomPrayer(ctx, "Oração da manhã", "Senhor, abençoa este dia.", domain.SectionInitium)
	require.NoError(t, err)
	assert.Equal(t, domain.SectionInitium, p.Section)

	title := "Oração da noite"
	section := domain.SectionUltima
	updated, err := r.UpdateCustomPrayer(ctx, p.ID, domain.CustomPrayerUpdate{Title: &title, Section: &section})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, p.Content, updated.Content)

	list, err := r.CustomPrayers(ctx)
	require.NoError(t, err)
	require.Equal(t, []domain.CustomPrayerEntry{updated}, list)

	require.NoError(t, r.RemoveCustomPrayer(ctx, p.ID))
	list, err = r.CustomPrayers(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRemote_ValidationIsRemoteFailure(t *testing.T) {
	r := newRemote(t, startAPI(t).URL)

	_, err := r.AddCustomPrayer(context.Background(), "t", "c", domain.SectionDolorosa)
	require.Error(t, err)

	var derr *domainerrors.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domainerrors.CodeRemoteOperationFailed, derr.Code)
	assert.Equal(t, map[string]any{"status": http.StatusBadRequest, "code": "VALIDATION_ERROR"}, derr.Details)
}

func TestRemote_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"code":"INTERNAL_ERROR","message":"internal server error"}`))
	}))
	t.Cleanup(srv.Close)

	_, err := newRemote(t, srv.URL).Intentions(context.Background())
	assert.Equal(t, domainerrors.CodeRemoteOperationFailed, domainerrors.CodeOf(err))
	assert.ErrorContains(t, err, "status 500")
}

func TestRemote_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newRemote(t, url).AddIntention(context.Background(), "x")
	assert.Equal(t, domainerrors.CodeRemoteOperationFailed, domainerrors.CodeOf(err))
}

func TestRemote_CanceledContext(t *testing.T) {
	r, err := NewRemote(RemoteOptions{BaseURL: "http://127.0.0.1:1", UserID: remoteUser})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Intentions(ctx)
	assert.Equal(t, domainerrors.CodeRemoteOperationFailed, domainerrors.CodeOf(err))
}

// Guest and Remote hold the same records after the same operations.
func TestGuestRemoteParity(t *testing.T) {
	ctx := context.Background()
	g, err := OpenGuest(ctx, localstore.NewMemory(), nil)
	require.NoError(t, err)
	r := newRemote(t, startAPI(t).URL)

	for _, s := range []Store{g, r} {
		a, err := s.AddIntention(ctx, "Pela paz no mundo")
		require.NoError(t, err)
		_, err = s.AddIntention(ctx, "Pelos enfermos")
		require.NoError(t, err)
		require.NoError(t, s.RemoveIntention(ctx, a.ID))
		_, err = s.AddCustomPrayer(ctx, "Oferecimento", "Ofereço este terço.", domain.SectionInitium)
		require.NoError(t, err)
	}

	texts := func(s Store) []string {
		list, err := s.Intentions(ctx)
		require.NoError(t, err)
		out := make([]string, 0, len(list))
		for _, e := range list {
			out = append(out, e.Text)
		}
		return out
	}
	assert.ElementsMatch(t, texts(g), texts(r))

	gp, err := g.CustomPrayers(ctx)
	require.NoError(t, err)
	rp, err := r.CustomPrayers(ctx)
	require.NoError(t, err)
	require.Len(t, gp, 1)
	require.Len(t, rp, 1)
	assert.Equal(t, gp[0].Title, rp[0].Title)
	assert.Equal(t, gp[0].Section, rp[0].Section)
}
