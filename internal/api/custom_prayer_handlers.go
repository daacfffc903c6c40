package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/sacredrosary/rosary-server/internal/domain"
	"github.com/sacredrosary/rosary-server/internal/service"
)

func (s *Server) registerCustomPrayerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCustomPrayers",
		Method:      http.MethodGet,
		Path:        "/api/custom-prayers/{userId}",
		Summary:     "List active custom prayers",
		Tags:        []string{"Custom Prayers"},
	}, s.handleListCustomPrayers)

	huma.Register(s.api, huma.Operation{
		OperationID: "createCustomPrayer",
		Method:      http.MethodPost,
		Path:        "/api/custom-prayers",
		Summary:     "Create a custom prayer",
		Description: "Custom prayers belong to the opening or closing section",
		Tags:        []string{"Custom Prayers"},
	}, s.handleCreateCustomPrayer)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateCustomPrayer",
		Method:      http.MethodPatch,
		Path:        "/api/custom-prayers/{id}",
		Summary:     "Update a custom prayer",
		Tags:        []string{"Custom Prayers"},
	}, s.handleUpdateCustomPrayer)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteCustomPrayer",
		Method:      http.MethodDelete,
		Path:        "/api/custom-prayers/{id}",
		Summary:     "Remove a custom prayer",
		Description: "Soft delete: the prayer is deactivated and no longer listed",
		Tags:        []string{"Custom Prayers"},
	}, s.handleDeleteCustomPrayer)
}

// CustomPrayerListOutput wraps a list of custom prayers.
type CustomPrayerListOutput struct {
	Body []domain.CustomPrayer
}

// CustomPrayerOutput wraps a single custom prayer.
type CustomPrayerOutput struct {
	Body *domain.CustomPrayer
}

// CreateCustomPrayerRequest is the request body for creating a custom prayer.
type CreateCustomPrayerRequest struct {
	UserID   string         `json:"userId" doc:"Owner user ID (UUID)"`
	Title    string         `json:"title" doc:"Prayer title" maxLength:"120"`
	Content  string         `json:"content" doc:"Prayer text" maxLength:"5000"`
	Section  domain.Section `json:"section" doc:"initium or ultima"`
	IsActive *bool          `json:"isActive,omitempty" doc:"Defaults to true"`
}

// CreateCustomPrayerInput wraps the create request for Huma.
type CreateCustomPrayerInput struct {
	Body CreateCustomPrayerRequest
}

// UpdateCustomPrayerRequest is the request body for updating a custom prayer.
type UpdateCustomPrayerRequest struct {
	UserID  string          `json:"userId" doc:"Owner user ID (UUID)"`
	Title   *string         `json:"title,omitempty" doc:"New title"`
	Content *string         `json:"content,omitempty" doc:"New text"`
	Section *domain.Section `json:"section,omitempty" doc:"New section"`
}

// UpdateCustomPrayerInput wraps the update request for Huma.
type UpdateCustomPrayerInput struct {
	ID   int64 `path:"id" doc:"Custom prayer ID"`
	Body UpdateCustomPrayerRequest
}

// DeleteCustomPrayerInput contains parameters for removing a custom prayer.
type DeleteCustomPrayerInput struct {
	ID   int64 `path:"id" doc:"Custom prayer ID"`
	Body OwnerRequest
}

// MessageResponse acknowledges a mutation with a message.
type MessageResponse struct {
	Message string `json:"message"`
}

// MessageOutput wraps MessageResponse for Huma.
type MessageOutput struct {
	Body MessageResponse
}

func (s *Server) handleListCustomPrayers(ctx context.Context, input *UserPathInput) (*CustomPrayerListOutput, error) {
	list, err := s.services.CustomPrayers.List(ctx, input.UserID)
	if err != nil {
		return nil, apiError(err)
	}
	return &CustomPrayerListOutput{Body: list}, nil
}

func (s *Server) handleCreateCustomPrayer(ctx context.Context, input *CreateCustomPrayerInput) (*CustomPrayerOutput, error) {
	p, err := s.services.CustomPrayers.Create(ctx, service.CreateCustomPrayerInput{
		UserID:   input.Body.UserID,
		Title:    input.Body.Title,
		Content:  input.Body.Content,
		Section:  input.Body.Section,
		IsActive: input.Body.IsActive,
	})
	if err != nil {
		return nil, apiError(err)
	}
	return &CustomPrayerOutput{Body: p}, nil
}

func (s *Server) handleUpdateCustomPrayer(ctx context.Context, input *UpdateCustomPrayerInput) (*CustomPrayerOutput, error) {
	p, err := s.services.CustomPrayers.Update(ctx, input.ID, input.Body.UserID, domain.CustomPrayerUpdate{
		Title:   input.Body.Title,
		Content: input.Body.Content,
		Section: input.Body.Section,
	})
	if err != nil {
		return nil, apiError(err)
	}
	return &CustomPrayerOutput{Body: p}, nil
}

func (s *Server) handleDeleteCustomPrayer(ctx context.Context, input *DeleteCustomPrayerInput) (*MessageOutput, error) {
	if err := s.services.CustomPrayers.Delete(ctx, input.ID, input.Body.UserID); err != nil {
		return nil, apiError(err)
	}
	return &MessageOutput{Body: MessageResponse{Message: "Custom prayer deleted successfully"}}, nil
}
