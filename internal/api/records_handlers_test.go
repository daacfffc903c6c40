package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sacredrosary/rosary-server/internal/domain"
)

func TestPrayerRoutes(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Post("/api/prayers", map[string]any{"userId": alice, "section": "gaudiosa"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	created := decode[domain.Prayer](t, resp)
	assert.False(t, created.Completed)

	resp = ts.api.Patch(fmt.Sprintf("/api/prayers/%d", created.ID), map[string]any{"completed": true})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	done := decode[domain.Prayer](t, resp)
	assert.True(t, done.Completed)
	assert.NotNil(t, done.CompletedAt)

	resp = ts.api.Get("/api/prayers/" + alice)
	require.Equal(t, http.StatusOK, resp.Code)
	list := decode[[]domain.Prayer](t, resp)
	require.Len(t, list, 1)
	assert.True(t, list[0].Completed)

	resp = ts.api.Get("/api/prayers/" + bob)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `[]`, resp.Body.String())
}

func TestPrayerRoutes_Errors(t *testing.T) {
	ts := setupTestServer(t, Options{})

	tests := []struct {
		name   string
		body   map[string]any
		status int
	}{
		{"unknown section", map[string]any{"userId": alice, "section": "luminosa"}, http.StatusBadRequest},
		{"missing user", map[string]any{"section": "gaudiosa"}, http.StatusBadRequest},
		{"bad user id", map[string]any{"userId": "alice", "section": "gaudiosa"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post("/api/prayers", tt.body)
			require.Equal(t, tt.status, resp.Code, resp.Body.String())
			assert.Equal(t, "VALIDATION_ERROR", decode[errorBody](t, resp).Code)
		})
	}

	resp := ts.api.Patch("/api/prayers/999", map[string]any{"completed": true})
	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "Prayer not found", decode[errorBody](t, resp).Message)
}

func TestIntentionRoutes(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Post("/api/intentions", map[string]any{"userId": alice, "text": "Pela paz no mundo"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	first := decode[domain.Intention](t, resp)
	assert.True(t, first.IsActive)

	resp = ts.api.Post("/api/intentions", map[string]any{"userId": alice, "text": "Pela saúde da família"})
	require.Equal(t, http.StatusOK, resp.Code)

	// Another user cannot delete it.
	resp = ts.api.Delete(fmt.Sprintf("/api/intentions/%d", first.ID), map[string]any{"userId": bob})
	require.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Delete(fmt.Sprintf("/api/intentions/%d", first.ID), map[string]any{"userId": alice})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.True(t, decode[SuccessResponse](t, resp).Success)

	list := decode[[]domain.Intention](t, ts.api.Get("/api/intentions/"+alice))
	require.Len(t, list, 1)
	assert.Equal(t, "Pela saúde da família", list[0].Text)

	resp = ts.api.Patch(fmt.Sprintf("/api/intentions/%d/status", first.ID), map[string]any{"userId": alice, "isActive": true})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Len(t, decode[[]domain.Intention](t, ts.api.Get("/api/intentions/"+alice)), 2)
}

func TestIntentionRoutes_BlankText(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Post("/api/intentions", map[string]any{"userId": alice, "text": "   "})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	body := decode[errorBody](t, resp)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	assert.Equal(t, "is required", body.Details["text"])
}

func TestCustomPrayerRoutes(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Post("/api/custom-prayers", map[string]any{
		"userId":  alice,
		"title":   "Oração da manhã",
		"content": "Senhor, abençoa este dia.",
		"section": "initium",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	p := decode[domain.CustomPrayer](t, resp)

	resp = ts.api.Patch(fmt.Sprintf("/api/custom-prayers/%d", p.ID), map[string]any{
		"userId":  alice,
		"section": "ultima",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, domain.SectionUltima, decode[domain.CustomPrayer](t, resp).Section)

	resp = ts.api.Delete(fmt.Sprintf("/api/custom-prayers/%d", p.ID), map[string]any{"userId": alice})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, "Custom prayer deleted successfully", decode[MessageResponse](t, resp).Message)

	assert.Empty(t, decode[[]domain.CustomPrayer](t, ts.api.Get("/api/custom-prayers/"+alice)))
}

func TestCustomPrayerRoutes_MysterySectionRejected(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Post("/api/custom-prayers", map[string]any{
		"userId":  alice,
		"title":   "t",
		"content": "c",
		"section": "dolorosa",
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "must be one of: initium ultima", decode[errorBody](t, resp).Details["section"])
}

func TestProfileRoutes(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Post("/api/user-profiles", map[string]any{
		"userId":   alice,
		"username": "MariaDasDores",
		"email":    "maria@example.com",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/user-profiles/username/mariadasdores")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, alice, decode[domain.UserProfile](t, resp).UserID)

	resp = ts.api.Get("/api/user-profiles/email/MARIA@example.com")
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/auth/email-by-username/MariaDasDores")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "maria@example.com", decode[EmailResponse](t, resp).Email)

	resp = ts.api.Patch("/api/user-profiles/"+alice, map[string]any{"displayName": "Maria"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	updated := decode[domain.UserProfile](t, resp)
	require.NotNil(t, updated.DisplayName)
	assert.Equal(t, "Maria", *updated.DisplayName)

	resp = ts.api.Get("/api/user-profiles/username/nobody")
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestProfileRoutes_DuplicateIsBadRequest(t *testing.T) {
	ts := setupTestServer(t, Options{})

	body := map[string]any{"userId": alice, "username": "maria", "email": "maria@example.com"}
	require.Equal(t, http.StatusOK, ts.api.Post("/api/user-profiles", body).Code)

	resp := ts.api.Post("/api/user-profiles", map[string]any{
		"userId":   bob,
		"username": "MARIA",
		"email":    "other@example.com",
	})
	require.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
	assert.Equal(t, "VALIDATION_ERROR", decode[errorBody](t, resp).Code)
}
