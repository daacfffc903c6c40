package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/sacredrosary/rosary-server/internal/domain"
	"github.com/sacredrosary/rosary-server/internal/service"
)

func (s *Server) registerIntentionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listIntentions",
		Method:      http.MethodGet,
		Path:        "/api/intentions/{userId}",
		Summary:     "List active intentions",
		Tags:        []string{"Intentions"},
	}, s.handleListIntentions)

	huma.Register(s.api, huma.Operation{
		OperationID: "createIntention",
		Method:      http.MethodPost,
		Path:        "/api/intentions",
		Summary:     "Add an intention",
		Tags:        []string{"Intentions"},
	}, s.handleCreateIntention)

	huma.Register(s.api, huma.Operation{
		OperationID: "setIntentionStatus",
		Method:      http.MethodPatch,
		Path:        "/api/intentions/{id}/status",
		Summary:     "Activate or deactivate an intention",
		Tags:        []string{"Intentions"},
	}, s.handleSetIntentionStatus)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteIntention",
		Method:      http.MethodDelete,
		Path:        "/api/intentions/{id}",
		Summary:     "Remove an intention",
		Description: "Soft delete: the intention is deactivated and no longer listed",
		Tags:        []string{"Intentions"},
	}, s.handleDeleteIntention)
}

// IntentionListOutput wraps a list of intentions.
type IntentionListOutput struct {
	Body []domain.Intention
}

// IntentionOutput wraps a single intention.
type IntentionOutput struct {
	Body *domain.Intention
}

// CreateIntentionRequest is the request body for adding an intention.
type CreateIntentionRequest struct {
	UserID   string `json:"userId" doc:"User ID (UUID)"`
	Text     string `json:"text" doc:"Intention text" maxLength:"500"`
	IsActive *bool  `json:"isActive,omitempty" doc:"Defaults to true"`
}

// CreateIntentionInput wraps the create intention request for Huma.
type CreateIntentionInput struct {
	Body CreateIntentionRequest
}

// SetIntentionStatusRequest is the request body for the status route.
type SetIntentionStatusRequest struct {
	UserID   string `json:"userId" doc:"Owner user ID (UUID)"`
	IsActive bool   `json:"isActive" doc:"Active flag"`
}

// SetIntentionStatusInput wraps the status request for Huma.
type SetIntentionStatusInput struct {
	ID   int64 `path:"id" doc:"Intention ID"`
	Body SetIntentionStatusRequest
}

// OwnerRequest names the user a mutation is made on behalf of.
type OwnerRequest struct {
	UserID string `json:"userId" doc:"Owner user ID (UUID)"`
}

// DeleteIntentionInput contains parameters for removing an intention.
type DeleteIntentionInput struct {
	ID   int64 `path:"id" doc:"Intention ID"`
	Body OwnerRequest
}

// SuccessResponse acknowledges a mutation without returning the record.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// SuccessOutput wraps SuccessResponse for Huma.
type SuccessOutput struct {
	Body SuccessResponse
}

func (s *Server) handleListIntentions(ctx context.Context, input *UserPathInput) (*IntentionListOutput, error) {
	list, err := s.services.Intentions.List(ctx, input.UserID)
	if err != nil {
		return nil, apiError(err)
	}
	return &IntentionListOutput{Body: list}, nil
}

func (s *Server) handleCreateIntention(ctx context.Context, input *CreateIntentionInput) (*IntentionOutput, error) {
	in, err := s.services.Intentions.Create(ctx, service.CreateIntentionInput{
		UserID:   input.Body.UserID,
		Text:     input.Body.Text,
		IsActive: input.Body.IsActive,
	})
	if err != nil {
		return nil, apiError(err)
	}
	return &IntentionOutput{Body: in}, nil
}

func (s *Server) handleSetIntentionStatus(ctx context.Context, input *SetIntentionStatusInput) (*IntentionOutput, error) {
	in, err := s.services.Intentions.SetActive(ctx, input.ID, input.Body.UserID, input.Body.IsActive)
	if err != nil {
		return nil, apiError(err)
	}
	return &IntentionOutput{Body: in}, nil
}

func (s *Server) handleDeleteIntention(ctx context.Context, input *DeleteIntentionInput) (*SuccessOutput, error) {
	if err := s.services.Intentions.Delete(ctx, input.ID, input.Body.UserID); err != nil {
		return nil, apiError(err)
	}
	return &SuccessOutput{Body: SuccessResponse{Success: true}}, nil
}
