package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/sacredrosary/rosary-server/internal/domain"
	"github.com/sacredrosary/rosary-server/internal/service"
)

func (s *Server) registerProfileRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createUserProfile",
		Method:      http.MethodPost,
		Path:        "/api/user-profiles",
		Summary:     "Create user profile",
		Description: "Registers the public profile of a signed-in user. Usernames and emails are unique ignoring case.",
		Tags:        []string{"Profiles"},
	}, s.handleCreateProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateUserProfile",
		Method:      http.MethodPatch,
		Path:        "/api/user-profiles/{userId}",
		Summary:     "Update user profile",
		Tags:        []string{"Profiles"},
	}, s.handleUpdateProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUserProfileByUsername",
		Method:      http.MethodGet,
		Path:        "/api/user-profiles/username/{username}",
		Summary:     "Look up a profile by username",
		Tags:        []string{"Profiles"},
	}, s.handleGetProfileByUsername)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUserProfileByEmail",
		Method:      http.MethodGet,
		Path:        "/api/user-profiles/email/{email}",
		Summary:     "Look up a profile by email",
		Tags:        []string{"Profiles"},
	}, s.handleGetProfileByEmail)

	huma.Register(s.api, huma.Operation{
		OperationID: "getEmailByUsername",
		Method:      http.MethodGet,
		Path:        "/api/auth/email-by-username/{username}",
		Summary:     "Resolve a username to its sign-in email",
		Description: "Lets the client sign in with a username against an email-based identity provider",
		Tags:        []string{"Auth"},
	}, s.handleGetEmailByUsername)
}

// ProfileOutput wraps a user profile for Huma.
type ProfileOutput struct {
	Body *domain.UserProfile
}

// CreateProfileRequest is the request body for creating a profile.
type CreateProfileRequest struct {
	UserID      string  `json:"userId" doc:"User ID (UUID) from the identity provider"`
	Username    string  `json:"username" doc:"Public username" minLength:"3" maxLength:"32"`
	Email       string  `json:"email" doc:"Sign-in email"`
	DisplayName *string `json:"displayName,omitempty" doc:"Optional display name"`
}

// CreateProfileInput wraps the create profile request for Huma.
type CreateProfileInput struct {
	Body CreateProfileRequest
}

// UpdateProfileRequest contains the optional fields to change.
type UpdateProfileRequest struct {
	Username    *string `json:"username,omitempty" doc:"New username"`
	Email       *string `json:"email,omitempty" doc:"New email"`
	DisplayName *string `json:"displayName,omitempty" doc:"New display name; empty clears it"`
}

// UpdateProfileInput wraps the update profile request for Huma.
type UpdateProfileInput struct {
	UserID string `path:"userId" doc:"User ID (UUID)"`
	Body   UpdateProfileRequest
}

// UsernamePathInput selects a profile by username.
type UsernamePathInput struct {
	Username string `path:"username" doc:"Username, matched ignoring case"`
}

// EmailPathInput selects a profile by email.
type EmailPathInput struct {
	Email string `path:"email" doc:"Email, matched ignoring case"`
}

// EmailResponse carries a resolved sign-in email.
type EmailResponse struct {
	Email string `json:"email"`
}

// EmailOutput wraps EmailResponse for Huma.
type EmailOutput struct {
	Body EmailResponse
}

func (s *Server) handleCreateProfile(ctx context.Context, input *CreateProfileInput) (*ProfileOutput, error) {
	p, err := s.services.Profiles.Create(ctx, service.CreateProfileInput{
		UserID:      input.Body.UserID,
		Username:    input.Body.Username,
		Email:       input.Body.Email,
		DisplayName: input.Body.DisplayName,
	})
	if err != nil {
		return nil, apiError(err)
	}
	return &ProfileOutput{Body: p}, nil
}

func (s *Server) handleUpdateProfile(ctx context.Context, input *UpdateProfileInput) (*ProfileOutput, error) {
	p, err := s.services.Profiles.Update(ctx, input.UserID, domain.ProfileUpdate{
		Username:    input.Body.Username,
		Email:       input.Body.Email,
		DisplayName: input.Body.DisplayName,
	})
	if err != nil {
		return nil, apiError(err)
	}
	return &ProfileOutput{Body: p}, nil
}

func (s *Server) handleGetProfileByUsername(ctx context.Context, input *UsernamePathInput) (*ProfileOutput, error) {
	p, err := s.services.Profiles.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, apiError(err)
	}
	return &ProfileOutput{Body: p}, nil
}

func (s *Server) handleGetProfileByEmail(ctx context.Context, input *EmailPathInput) (*ProfileOutput, error) {
	p, err := s.services.Profiles.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, apiError(err)
	}
	return &ProfileOutput{Body: p}, nil
}

func (s *Server) handleGetEmailByUsername(ctx context.Context, input *UsernamePathInput) (*EmailOutput, error) {
	email, err := s.services.Profiles.EmailForUsername(ctx, input.Username)
	if err != nil {
		return nil, apiError(err)
	}
	return &EmailOutput{Body: EmailResponse{Email: email}}, nil
}
