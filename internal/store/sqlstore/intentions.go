package sqlstore

import (
	"context"
	"fmt"

	"github.com/sacredrosary/rosary-server/internal/domain"
	"github.com/sacredrosary/rosary-server/internal/store"
)

const intentionColumns = `id, user_id, text, is_active, created_at`

func scanIntention(scanner interface{ Scan(dest ...any) error }) (*domain.Intention, error) {
	var (
		in        domain.Intention
		createdAt string
	)
	if err := scanner.Scan(&in.ID, &in.UserID, &in.Text, &in.IsActive, &createdAt); err != nil {
		return nil, err
	}
	var err error
	if in.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &in, nil
}

// ListActiveIntentions returns the active intentions of userID, newest first.
func (s *Store) ListActiveIntentions(ctx context.Context, userID string) ([]domain.Intention, error) {
	rows, err := s.db.QueryContext(ctx, s.q(
		`SELECT `+intentionColumns+` FROM intentions
		 WHERE user_id = ? AND is_active = ?
		 ORDER BY created_at DESC, id DESC`), userID, true)
	if err != nil {
		return nil, fmt.Errorf("list intentions: %w", err)
	}
	defer rows.Close()

	out := []domain.Intention{}
	for rows.Next() {
		in, err := scanIntention(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *in)
	}
	return out, rows.Err()
}

// CreateIntention inserts in and sets its ID.
func (s *Store) CreateIntention(ctx context.Context, in *domain.Intention) error {
	id, err := s.insert(ctx,
		`INSERT INTO intentions (user_id, text, is_active, created_at) VALUES (?, ?, ?, ?)`,
		in.UserID, in.Text, in.IsActive, formatTime(in.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert intention: %w", err)
	}
	in.ID = id
	return nil
}

// SetIntentionActive sets the active flag of an intention owned by userID.
func (s *Store) SetIntentionActive(ctx context.Context, id int64, userID string, active bool) (*domain.Intention, error) {
	res, err := s.db.ExecContext(ctx, s.q(
		`UPDATE intentions SET is_active = ? WHERE id = ? AND user_id = ?`), active, id, userID)
	if err != nil {
		return nil, fmt.Errorf("update intention: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, store.ErrNotFound
	}

	in, err := scanIntention(s.db.QueryRowContext(ctx, s.q(
		`SELECT `+intentionColumns+` FROM intentions WHERE id = ?`), id))
	if err != nil {
		return nil, notFound(err)
	}
	return in, nil
}
