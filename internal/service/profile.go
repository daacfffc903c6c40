package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sacredrosary/rosary-server/internal/domain"
	domainerrors "github.com/sacredrosary/rosary-server/internal/errors"
	"github.com/sacredrosary/rosary-server/internal/logger"
	"github.com/sacredrosary/rosary-server/internal/store"
	"github.com/sacredrosary/rosary-server/internal/validation"
)

// MaxDisplayNameLength is the maximum number of characters in a display name.
const MaxDisplayNameLength = 80

// CreateProfileInput is the payload for registering a profile.
type CreateProfileInput struct {
	UserID      string  `json:"userId" validate:"required"`
	Username    string  `json:"username" validate:"required,min=3,max=32"`
	Email       string  `json:"email" validate:"required,email"`
	DisplayName *string `json:"displayName,omitempty" validate:"omitempty,max=80"`
}

// ProfileService provides the user-profile directory.
type ProfileService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
	now       func() time.Time
}

// NewProfileService creates a new profile service.
func NewProfileService(st store.Store, v *validation.Validator, log *slog.Logger) *ProfileService {
	return &ProfileService{store: st, validator: v, logger: logger.OrDiscard(log), now: time.Now}
}

// Create registers a profile. A taken user id, username or email is a
// validation error.
func (s *ProfileService) Create(ctx context.Context, in CreateProfileInput) (*domain.UserProfile, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	uid, err := normalizeUserID(in.UserID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	p := &domain.UserProfile{
		UserID:      uid,
		Username:    in.Username,
		Email:       in.Email,
		DisplayName: trimmed(in.DisplayName),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateProfile(ctx, p, keysFor(p)); err != nil {
		return nil, profileError(err, "create profile")
	}

	s.logger.Info("profile created", "user_id", uid, "username", p.Username)
	return p, nil
}

// Update changes the set fields of the profile of userID.
func (s *ProfileService) Update(ctx context.Context, userID string, u domain.ProfileUpdate) (*domain.UserProfile, error) {
	uid, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}

	p, err := s.store.GetProfileByUserID(ctx, uid)
	if err != nil {
		return nil, profileError(err, "get profile")
	}
	if u.Empty() {
		return p, nil
	}

	if u.Username != nil {
		p.Username = strings.TrimSpace(*u.Username)
		if err := s.validator.Var("username", p.Username, "required,min=3,max=32"); err != nil {
			return nil, err
		}
	}
	if u.Email != nil {
		p.Email = strings.TrimSpace(*u.Email)
		if err := s.validator.Var("email", p.Email, "required,email"); err != nil {
			return nil, err
		}
	}
	if u.DisplayName != nil {
		p.DisplayName = trimmed(u.DisplayName)
		if p.DisplayName != nil && len(*p.DisplayName) > MaxDisplayNameLength {
			return nil, domainerrors.ValidationWithDetails("validation failed", map[string]string{
				"displayName": fmt.Sprintf("must not exceed %d characters", MaxDisplayNameLength),
			})
		}
	}
	p.UpdatedAt = s.now()

	if err := s.store.UpdateProfile(ctx, p, keysFor(p)); err != nil {
		return nil, profileError(err, "update profile")
	}
	return p, nil
}

// GetByUsername looks a profile up ignoring case.
func (s *ProfileService) GetByUsername(ctx context.Context, username string) (*domain.UserProfile, error) {
	p, err := s.store.GetProfileByUsername(ctx, foldKey(username))
	if err != nil {
		return nil, profileError(err, "get profile by username")
	}
	return p, nil
}

// GetByEmail looks a profile up ignoring case.
func (s *ProfileService) GetByEmail(ctx context.Context, email string) (*domain.UserProfile, error) {
	p, err := s.store.GetProfileByEmail(ctx, foldKey(email))
	if err != nil {
		return nil, profileError(err, "get profile by email")
	}
	return p, nil
}

// EmailForUsername returns the sign-in email registered for username.
func (s *ProfileService) EmailForUsername(ctx context.Context, username string) (string, error) {
	p, err := s.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	return p.Email, nil
}

func keysFor(p *domain.UserProfile) store.ProfileKeys {
	return store.ProfileKeys{Username: foldKey(p.Username), Email: foldKey(p.Email)}
}

func profileError(err error, op string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return domainerrors.NotFound("User profile not found")
	case errors.Is(err, store.ErrAlreadyExists):
		return domainerrors.Validation("Username or email already taken").WithCause(err)
	default:
		return domainerrors.Wrap(err, domainerrors.CodeInternal, op)
	}
}

// trimmed returns nil for a nil or blank string, else the trimmed value.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
