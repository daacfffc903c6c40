// Package store defines the server-side record store for prayers,
// intentions, custom prayers and user profiles. Implementations live in
// subpackages.
package store

import (
	"context"
	"time"

	"github.com/sacredrosary/rosary-server/internal/domain"
)

// ProfileKeys are the case-folded lookup keys stored beside a profile.
type ProfileKeys struct {
	Username string
	Email    string
}

// Store is the persistence contract the services depend on. Lists are
// newest first. Nothing is ever hard-deleted.
type Store interface {
	ListPrayers(ctx context.Context, userID string) ([]domain.Prayer, error)
	CreatePrayer(ctx context.Context, p *domain.Prayer) error
	// SetPrayerCompleted sets or clears completion and returns the updated
	// prayer, or ErrNotFound.
	SetPrayerCompleted(ctx context.Context, id int64, completed bool, at time.Time) (*domain.Prayer, error)

	ListActiveIntentions(ctx context.Context, userID string) ([]domain.Intention, error)
	CreateIntention(ctx context.Context, in *domain.Intention) error
	// SetIntentionActive flips the soft-delete flag of an intention owned by
	// userID. ErrNotFound covers both a missing row and another owner.
	SetIntentionActive(ctx context.Context, id int64, userID string, active bool) (*domain.Intention, error)

	ListActiveCustomPrayers(ctx context.Context, userID string) ([]domain.CustomPrayer, error)
	CreateCustomPrayer(ctx context.Context, p *domain.CustomPrayer) error
	UpdateCustomPrayer(ctx context.Context, id int64, userID string, u domain.CustomPrayerUpdate) (*domain.CustomPrayer, error)
	SetCustomPrayerActive(ctx context.Context, id int64, userID string, active bool) (*domain.CustomPrayer, error)

	// CreateProfile returns ErrAlreadyExists when the user id, username key
	// or email key is taken.
	CreateProfile(ctx context.Context, p *domain.UserProfile, keys ProfileKeys) error
	GetProfileByUserID(ctx context.Context, userID string) (*domain.UserProfile, error)
	GetProfileByUsername(ctx context.Context, usernameKey string) (*domain.UserProfile, error)
	GetProfileByEmail(ctx context.Context, emailKey string) (*domain.UserProfile, error)
	UpdateProfile(ctx context.Context, p *domain.UserProfile, keys ProfileKeys) error

	Ping(ctx context.Context) error
	Close() error
}
