package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/sacredrosary/rosary-server/internal/domain"
	"github.com/sacredrosary/rosary-server/internal/logger"
	"github.com/sacredrosary/rosary-server/internal/store"
	"github.com/sacredrosary/rosary-server/internal/validation"
)

// MaxIntentionLength bounds the text of an intention.
const MaxIntentionLength = 500

// CreateIntentionInput is the payload for adding an intention.
type CreateIntentionInput struct {
	UserID string `json:"userId" validate:"required"`
	Text   string `json:"text" validate:"notblank,max=500"`
	// IsActive defaults to true.
	IsActive *bool `json:"isActive,omitempty"`
}

// IntentionService manages personal prayer intentions.
type IntentionService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
	now       func() time.Time
}

// NewIntentionService creates a new intention service.
func NewIntentionService(st store.Store, v *validation.Validator, log *slog.Logger) *IntentionService {
	return &IntentionService{store: st, validator: v, logger: logger.OrDiscard(log), now: time.Now}
}

// List returns the active intentions of userID, newest first.
func (s *IntentionService) List(ctx context.Context, userID string) ([]domain.Intention, error) {
	uid, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	list, err := s.store.ListActiveIntentions(ctx, uid)
	return list, storeError(err, "intentions not found")
}

// Create adds an intention.
func (s *IntentionService) Create(ctx context.Context, in CreateIntentionInput) (*domain.Intention, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	uid, err := normalizeUserID(in.UserID)
	if err != nil {
		return nil, err
	}

	intention := &domain.Intention{
		UserID:    uid,
		Text:      strings.TrimSpace(in.Text),
		IsActive:  in.IsActive == nil || *in.IsActive,
		CreatedAt: s.now(),
	}
	if err := s.store.CreateIntention(ctx, intention); err != nil {
		return nil, storeError(err, "intention not found")
	}
	return intention, nil
}

// SetActive sets the active flag of an intention owned by userID.
func (s *IntentionService) SetActive(ctx context.Context, intentionID int64, userID string, active bool) (*domain.Intention, error) {
	uid, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	in, err := s.store.SetIntentionActive(ctx, intentionID, uid, active)
	if err != nil {
		return nil, storeError(err, "Intention not found")
	}
	return in, nil
}

// Delete soft-deletes an intention owned by userID.
func (s *IntentionService) Delete(ctx context.Context, intentionID int64, userID string) error {
	if _, err := s.SetActive(ctx, intentionID, userID, false); err != nil {
		return err
	}
	s.logger.Debug("intention removed", "id", intentionID)
	return nil
}
