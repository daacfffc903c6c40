package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/sacredrosary/rosary-server/internal/catalog"
	"github.com/sacredrosary/rosary-server/internal/domain"
	domainerrors "github.com/sacredrosary/rosary-server/internal/errors"
)

func (s *Server) registerSongRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listSongs",
		Method:      http.MethodGet,
		Path:        "/api/songs",
		Summary:     "List or search songs",
		Description: "Returns the devotional song catalog in order. With q, returns matches best first.",
		Tags:        []string{"Songs"},
	}, s.handleListSongs)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSong",
		Method:      http.MethodGet,
		Path:        "/api/songs/{id}",
		Summary:     "Get a song",
		Tags:        []string{"Songs"},
	}, s.handleGetSong)
}

// SongResponse is a catalog entry as served to clients.
type SongResponse struct {
	domain.Song
	Seconds float64 `json:"seconds" doc:"Nominal duration in seconds"`
}

// ListSongsInput contains the optional search query.
type ListSongsInput struct {
	Query string `query:"q" doc:"Full-text query over title, Latin title and description"`
	Limit int    `query:"limit" minimum:"0" maximum:"50" doc:"Maximum results for a search"`
}

// SongListOutput wraps a list of songs.
type SongListOutput struct {
	Body []SongResponse
}

// SongPathInput selects a song.
type SongPathInput struct {
	ID string `path:"id" doc:"Song ID, e.g. adoro-te-devote"`
}

// SongOutput wraps a single song.
type SongOutput struct {
	Body SongResponse
}

func (s *Server) handleListSongs(_ context.Context, input *ListSongsInput) (*SongListOutput, error) {
	c := s.songs.Catalog
	q := strings.TrimSpace(input.Query)
	if q == "" {
		out := make([]SongResponse, 0, c.Len())
		for _, song := range c.Songs() {
			out = append(out, toSongResponse(song))
		}
		return &SongListOutput{Body: out}, nil
	}

	limit := input.Limit
	if limit <= 0 {
		limit = maxSongResults
	}

	var ids []string
	if s.songs.Index != nil {
		found, err := s.songs.Index.Search(q, limit)
		if err != nil {
			s.logger.Error("Song search failed", "error", err, "query", q)
			return nil, apiError(err)
		}
		ids = found
	} else {
		ids = titleMatches(c, q, limit)
	}

	out := make([]SongResponse, 0, len(ids))
	for _, id := range ids {
		if song, ok := c.GetByID(id); ok {
			out = append(out, toSongResponse(song))
		}
	}
	return &SongListOutput{Body: out}, nil
}

func (s *Server) handleGetSong(_ context.Context, input *SongPathInput) (*SongOutput, error) {
	song, ok := s.songs.Catalog.GetByID(input.ID)
	if !ok {
		return nil, apiError(domainerrors.ErrSongNotFound.WithDetails(map[string]string{"songId": input.ID}))
	}
	return &SongOutput{Body: toSongResponse(song)}, nil
}

func toSongResponse(song domain.Song) SongResponse {
	r := SongResponse{Song: song}
	if d, err := catalog.ParseDuration(song.Duration); err == nil {
		r.Seconds = d.Seconds()
	}
	return r
}

// titleMatches is the search fallback when no index was built.
func titleMatches(c *catalog.Catalog, q string, limit int) []string {
	q = strings.ToLower(q)
	var ids []string
	for _, song := range c.Songs() {
		if len(ids) == limit {
			break
		}
		if strings.Contains(strings.ToLower(song.Title), q) || strings.Contains(strings.ToLower(song.Latin), q) {
			ids = append(ids, song.ID)
		}
	}
	return ids
}
