package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sacredrosary/rosary-server/internal/domain"
	"github.com/sacredrosary/rosary-server/internal/store"
)

// profileColumns must match the scan order in scanProfile.
const profileColumns = `id, user_id, username, email, display_name, created_at, updated_at`

func scanProfile(scanner interface{ Scan(dest ...any) error }) (*domain.UserProfile, error) {
	var (
		p           domain.UserProfile
		displayName sql.NullString
		createdAt   string
		updatedAt   string
	)
	err := scanner.Scan(&p.ID, &p.UserID, &p.Username, &p.Email, &displayName, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if displayName.Valid {
		p.DisplayName = &displayName.String
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &p, nil
}

// CreateProfile inserts p and sets its ID. Returns store.ErrAlreadyExists
// when the user id, username or email is taken.
func (s *Store) CreateProfile(ctx context.Context, p *domain.UserProfile, keys store.ProfileKeys) error {
	id, err := s.insert(ctx, `
		INSERT INTO user_profiles (
			user_id, username, email, username_key, email_key, display_name, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.UserID, p.Username, p.Email, keys.Username, keys.Email,
		nullableString(p.DisplayName), formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	if s.isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithCause(err)
	}
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	p.ID = id
	return nil
}

// GetProfileByUserID returns store.ErrNotFound if no profile exists.
func (s *Store) GetProfileByUserID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	return s.getProfile(ctx, "user_id", userID)
}

// GetProfileByUsername looks a profile up by its case-folded username.
func (s *Store) GetProfileByUsername(ctx context.Context, usernameKey string) (*domain.UserProfile, error) {
	return s.getProfile(ctx, "username_key", usernameKey)
}

// GetProfileByEmail looks a profile up by its case-folded email.
func (s *Store) GetProfileByEmail(ctx context.Context, emailKey string) (*domain.UserProfile, error) {
	return s.getProfile(ctx, "email_key", emailKey)
}

// getProfile selects by one of the unique columns; column is never user input.
func (s *Store) getProfile(ctx context.Context, column, value string) (*domain.UserProfile, error) {
	row := s.db.QueryRowContext(ctx, s.q(
		`SELECT `+profileColumns+` FROM user_profiles WHERE `+column+` = ?`), value)
	p, err := scanProfile(row)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// UpdateProfile rewrites the editable fields of the profile with p.UserID.
func (s *Store) UpdateProfile(ctx context.Context, p *domain.UserProfile, keys store.ProfileKeys) error {
	res, err := s.db.ExecContext(ctx, s.q(`
		UPDATE user_profiles
		SET username = ?, email = ?, username_key = ?, email_key = ?, display_name = ?, updated_at = ?
		WHERE user_id = ?`),
		p.Username, p.Email, keys.Username, keys.Email, nullableString(p.DisplayName), formatTime(p.UpdatedAt), p.UserID)
	if s.isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithCause(err)
	}
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}
