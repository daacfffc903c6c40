package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/sacredrosary/rosary-server/internal/domain"
	"github.com/sacredrosary/rosary-server/internal/service"
)

func (s *Server) registerPrayerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listPrayers",
		Method:      http.MethodGet,
		Path:        "/api/prayers/{userId}",
		Summary:     "List prayers",
		Description: "Returns every prayer recorded for a user, newest first",
		Tags:        []string{"Prayers"},
	}, s.handleListPrayers)

	huma.Register(s.api, huma.Operation{
		OperationID: "createPrayer",
		Method:      http.MethodPost,
		Path:        "/api/prayers",
		Summary:     "Record a prayer",
		Tags:        []string{"Prayers"},
	}, s.handleCreatePrayer)

	huma.Register(s.api, huma.Operation{
		OperationID: "setPrayerCompleted",
		Method:      http.MethodPatch,
		Path:        "/api/prayers/{id}",
		Summary:     "Mark a prayer completed",
		Description: "Sets or clears completion; completedAt follows the flag",
		Tags:        []string{"Prayers"},
	}, s.handleSetPrayerCompleted)
}

// UserPathInput selects the records of one user.
type UserPathInput struct {
	UserID string `path:"userId" doc:"User ID (UUID)"`
}

// PrayerListOutput wraps a list of prayers.
type PrayerListOutput struct {
	Body []domain.Prayer
}

// PrayerOutput wraps a single prayer.
type PrayerOutput struct {
	Body *domain.Prayer
}

// CreatePrayerRequest is the request body for recording a prayer.
type CreatePrayerRequest struct {
	UserID    string         `json:"userId" doc:"User ID (UUID)"`
	Section   domain.Section `json:"section" doc:"Rosary section"`
	Completed bool           `json:"completed,omitempty" doc:"Whether the section was finished"`
}

// CreatePrayerInput wraps the create prayer request for Huma.
type CreatePrayerInput struct {
	Body CreatePrayerRequest
}

// SetPrayerCompletedRequest is the request body for marking completion.
type SetPrayerCompletedRequest struct {
	Completed bool `json:"completed" doc:"Completion flag"`
}

// SetPrayerCompletedInput wraps the completion request for Huma.
type SetPrayerCompletedInput struct {
	ID   int64 `path:"id" doc:"Prayer ID"`
	Body SetPrayerCompletedRequest
}

func (s *Server) handleListPrayers(ctx context.Context, input *UserPathInput) (*PrayerListOutput, error) {
	prayers, err := s.services.Prayers.List(ctx, input.UserID)
	if err != nil {
		return nil, apiError(err)
	}
	return &PrayerListOutput{Body: prayers}, nil
}

func (s *Server) handleCreatePrayer(ctx context.Context, input *CreatePrayerInput) (*PrayerOutput, error) {
	p, err := s.services.Prayers.Create(ctx, service.CreatePrayerInput{
		UserID:    input.Body.UserID,
		Section:   input.Body.Section,
		Completed: input.Body.Completed,
	})
	if err != nil {
		return nil, apiError(err)
	}
	return &PrayerOutput{Body: p}, nil
}

func (s *Server) handleSetPrayerCompleted(ctx context.Context, input *SetPrayerCompletedInput) (*PrayerOutput, error) {
	p, err := s.services.Prayers.SetCompleted(ctx, input.ID, input.Body.Completed)
	if err != nil {
		return nil, apiError(err)
	}
	return &PrayerOutput{Body: p}, nil
}
