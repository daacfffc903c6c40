package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/sacredrosary/rosary-server/internal/domain"
	"github.com/sacredrosary/rosary-server/internal/store"
)

const customPrayerColumns = `id, user_id, title, content, section, is_active, created_at`

func scanCustomPrayer(scanner interface{ Scan(dest ...any) error }) (*domain.CustomPrayer, error) {
	var (
		p         domain.CustomPrayer
		section   string
		createdAt string
	)
	if err := scanner.Scan(&p.ID, &p.UserID, &p.Title, &p.Content, &section, &p.IsActive, &createdAt); err != nil {
		return nil, err
	}
	p.Section = domain.Section(section)
	var err error
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &p, nil
}

// ListActiveCustomPrayers returns the active custom prayers of userID,
// newest first.
func (s *Store) ListActiveCustomPrayers(ctx context.Context, userID string) ([]domain.CustomPrayer, error) {
	rows, err := s.db.QueryContext(ctx, s.q(
		`SELECT `+customPrayerColumns+` FROM custom_prayers
		 WHERE user_id = ? AND is_active = ?
		 ORDER BY created_at DESC, id DESC`), userID, true)
	if err != nil {
		return nil, fmt.Errorf("list custom prayers: %w", err)
	}
	defer rows.Close()

	out := []domain.CustomPrayer{}
	for rows.Next() {
		p, err := scanCustomPrayer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// CreateCustomPrayer inserts p and sets its ID.
func (s *Store) CreateCustomPrayer(ctx context.Context, p *domain.CustomPrayer) error {
	id, err := s.insert(ctx,
		`INSERT INTO custom_prayers (user_id, title, content, section, is_active, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		p.UserID, p.Title, p.Content, string(p.Section), p.IsActive, formatTime(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert custom prayer: %w", err)
	}
	p.ID = id
	return nil
}

// UpdateCustomPrayer applies the set fields of u to a prayer owned by userID.
func (s *Store) UpdateCustomPrayer(ctx context.Context, id int64, userID string, u domain.CustomPrayerUpdate) (*domain.CustomPrayer, error) {
	var (
		sets []string
		args []any
	)
	if u.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *u.Title)
	}
	if u.Content != nil {
		sets = append(sets, "content = ?")
		args = append(args, *u.Content)
	}
	if u.Section != nil {
		sets = append(sets, "section = ?")
		args = append(args, string(*u.Section))
	}
	if len(sets) == 0 {
		return s.getCustomPrayer(ctx, id, userID)
	}

	args = append(args, id, userID)
	res, err := s.db.ExecContext(ctx, s.q(
		`UPDATE custom_prayers SET `+strings.Join(sets, ", ")+` WHERE id = ? AND user_id = ?`), args...)
	if err != nil {
		return nil, fmt.Errorf("update custom prayer: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, store.ErrNotFound
	}
	return s.getCustomPrayer(ctx, id, userID)
}

// SetCustomPrayerActive sets the active flag of a prayer owned by userID.
func (s *Store) SetCustomPrayerActive(ctx context.Context, id int64, userID string, active bool) (*domain.CustomPrayer, error) {
	res, err := s.db.ExecContext(ctx, s.q(
		`UPDATE custom_prayers SET is_active = ? WHERE id = ? AND user_id = ?`), active, id, userID)
	if err != nil {
		return nil, fmt.Errorf("update custom prayer: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, store.ErrNotFound
	}
	return s.getCustomPrayer(ctx, id, userID)
}

func (s *Store) getCustomPrayer(ctx context.Context, id int64, userID string) (*domain.CustomPrayer, error) {
	p, err := scanCustomPrayer(s.db.QueryRowContext(ctx, s.q(
		`SELECT `+customPrayerColumns+` FROM custom_prayers WHERE id = ? AND user_id = ?`), id, userID))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}
