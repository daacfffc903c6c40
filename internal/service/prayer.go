package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/sacredrosary/rosary-server/internal/domain"
	"github.com/sacredrosary/rosary-server/internal/logger"
	"github.com/sacredrosary/rosary-server/internal/store"
	"github.com/sacredrosary/rosary-server/internal/validation"
)

// CreatePrayerInput is the payload for recording a prayed section.
type CreatePrayerInput struct {
	UserID    string         `json:"userId" validate:"required"`
	Section   domain.Section `json:"section" validate:"required,section"`
	Completed bool           `json:"completed"`
}

// PrayerService records which sections a user has prayed.
type PrayerService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
	now       func() time.Time
}

// NewPrayerService creates a new prayer service.
func NewPrayerService(st store.Store, v *validation.Validator, log *slog.Logger) *PrayerService {
	return &PrayerService{store: st, validator: v, logger: logger.OrDiscard(log), now: time.Now}
}

// List returns the prayers of userID, newest first.
func (s *PrayerService) List(ctx context.Context, userID string) ([]domain.Prayer, error) {
	uid, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	prayers, err := s.store.ListPrayers(ctx, uid)
	return prayers, storeError(err, "prayers not found")
}

// Create records a prayer. A prayer created completed is stamped now.
func (s *PrayerService) Create(ctx context.Context, in CreatePrayerInput) (*domain.Prayer, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	uid, err := normalizeUserID(in.UserID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	p := &domain.Prayer{UserID: uid, Section: in.Section, CreatedAt: now}
	p.MarkCompleted(in.Completed, now)
	if err := s.store.CreatePrayer(ctx, p); err != nil {
		return nil, storeError(err, "prayer not found")
	}
	s.logger.Debug("prayer recorded", "user_id", uid, "section", p.Section, "id", p.ID)
	return p, nil
}

// SetCompleted marks a prayer completed (stamping the time) or clears it.
func (s *PrayerService) SetCompleted(ctx context.Context, prayerID int64, completed bool) (*domain.Prayer, error) {
	p, err := s.store.SetPrayerCompleted(ctx, prayerID, completed, s.now())
	if err != nil {
		return nil, storeError(err, "Prayer not found")
	}
	return p, nil
}
