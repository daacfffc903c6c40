package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/sacredrosary/rosary-server/internal/domain"
	domainerrors "github.com/sacredrosary/rosary-server/internal/errors"
	"github.com/sacredrosary/rosary-server/internal/logger"
	"github.com/sacredrosary/rosary-server/internal/store"
	"github.com/sacredrosary/rosary-server/internal/validation"
)

// CreateCustomPrayerInput is the payload for authoring a custom prayer.
type CreateCustomPrayerInput struct {
	UserID   string         `json:"userId" validate:"required"`
	Title    string         `json:"title" validate:"notblank,max=120"`
	Content  string         `json:"content" validate:"notblank,max=5000"`
	Section  domain.Section `json:"section" validate:"required,recitable"`
	IsActive *bool          `json:"isActive,omitempty"`
}

// CustomPrayerService manages user-authored prayers.
type CustomPrayerService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
	now       func() time.Time
}

// NewCustomPrayerService creates a new custom prayer service.
func NewCustomPrayerService(st store.Store, v *validation.Validator, log *slog.Logger) *CustomPrayerService {
	return &CustomPrayerService{store: st, validator: v, logger: logger.OrDiscard(log), now: time.Now}
}

// List returns the active custom prayers of userID, newest first.
func (s *CustomPrayerService) List(ctx context.Context, userID string) ([]domain.CustomPrayer, error) {
	uid, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	list, err := s.store.ListActiveCustomPrayers(ctx, uid)
	return list, storeError(err, "custom prayers not found")
}

// Create adds a custom prayer.
func (s *CustomPrayerService) Create(ctx context.Context, in CreateCustomPrayerInput) (*domain.CustomPrayer, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	uid, err := normalizeUserID(in.UserID)
	if err != nil {
		return nil, err
	}

	p := &domain.CustomPrayer{
		UserID:    uid,
		Title:     strings.TrimSpace(in.Title),
		Content:   strings.TrimSpace(in.Content),
		Section:   in.Section,
		IsActive:  in.IsActive == nil || *in.IsActive,
		CreatedAt: s.now(),
	}
	if err := s.store.CreateCustomPrayer(ctx, p); err != nil {
		return nil, storeError(err, "custom prayer not found")
	}
	return p, nil
}

// Update changes the set fields of a custom prayer owned by userID.
func (s *CustomPrayerService) Update(ctx context.Context, prayerID int64, userID string, u domain.CustomPrayerUpdate) (*domain.CustomPrayer, error) {
	uid, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{}
	if u.Title != nil {
		t := strings.TrimSpace(*u.Title)
		u.Title = &t
		if err := s.validator.Var("title", t, "notblank,max=120"); err != nil {
			fields["title"] = "is required"
		}
	}
	if u.Content != nil {
		c := strings.TrimSpace(*u.Content)
		u.Content = &c
		if err := s.validator.Var("content", c, "notblank,max=5000"); err != nil {
			fields["content"] = "is required"
		}
	}
	if u.Section != nil && !u.Section.AcceptsCustomPrayers() {
		fields["section"] = "must be one of: initium ultima"
	}
	if len(fields) > 0 {
		return nil, domainerrors.ValidationWithDetails("validation failed", fields)
	}

	p, err := s.store.UpdateCustomPrayer(ctx, prayerID, uid, u)
	if err != nil {
		return nil, storeError(err, "Custom prayer not found")
	}
	return p, nil
}

// Delete soft-deletes a custom prayer owned by userID.
func (s *CustomPrayerService) Delete(ctx context.Context, prayerID int64, userID string) error {
	uid, err := normalizeUserID(userID)
	if err != nil {
		return err
	}
	if _, err := s.store.SetCustomPrayerActive(ctx, prayerID, uid, false); err != nil {
		return storeError(err, "Custom prayer not found")
	}
	s.logger.Debug("custom prayer removed", "id", prayerID)
	return nil
}
