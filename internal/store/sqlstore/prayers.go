package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sacredrosary/rosary-server/internal/domain"
	"github.com/sacredrosary/rosary-server/internal/store"
)

// prayerColumns must match the scan order in scanPrayer.
const prayerColumns = `id, user_id, section, completed, completed_at, created_at`

func scanPrayer(scanner interface{ Scan(dest ...any) error }) (*domain.Prayer, error) {
	var (
		p           domain.Prayer
		section     string
		completedAt sql.NullString
		createdAt   string
	)
	if err := scanner.Scan(&p.ID, &p.UserID, &section, &p.Completed, &completedAt, &createdAt); err != nil {
		return nil, err
	}
	p.Section = domain.Section(section)

	var err error
	if p.CompletedAt, err = parseNullableTime(completedAt); err != nil {
		return nil, fmt.Errorf("parse completed_at: %w", err)
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &p, nil
}

// ListPrayers returns every prayer of userID, newest first.
func (s *Store) ListPrayers(ctx context.Context, userID string) ([]domain.Prayer, error) {
	rows, err := s.db.QueryContext(ctx, s.q(
		`SELECT `+prayerColumns+` FROM prayers WHERE user_id = ? ORDER BY created_at DESC, id DESC`), userID)
	if err != nil {
		return nil, fmt.Errorf("list prayers: %w", err)
	}
	defer rows.Close()

	out := []domain.Prayer{}
	for rows.Next() {
		p, err := scanPrayer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// CreatePrayer inserts p and sets its ID.
func (s *Store) CreatePrayer(ctx context.Context, p *domain.Prayer) error {
	id, err := s.insert(ctx,
		`INSERT INTO prayers (user_id, section, completed, completed_at, created_at) VALUES (?, ?, ?, ?, ?)`,
		p.UserID, string(p.Section), p.Completed, nullTimeString(p.CompletedAt), formatTime(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert prayer: %w", err)
	}
	p.ID = id
	return nil
}

// SetPrayerCompleted marks a prayer completed at the given time, or clears
// its completion.
func (s *Store) SetPrayerCompleted(ctx context.Context, id int64, completed bool, at time.Time) (*domain.Prayer, error) {
	var completedAt sql.NullString
	if completed {
		completedAt = nullTimeString(&at)
	}
	res, err := s.db.ExecContext(ctx, s.q(
		`UPDATE prayers SET completed = ?, completed_at = ? WHERE id = ?`), completed, completedAt, id)
	if err != nil {
		return nil, fmt.Errorf("update prayer: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, store.ErrNotFound
	}

	p, err := scanPrayer(s.db.QueryRowContext(ctx, s.q(`SELECT `+prayerColumns+` FROM prayers WHERE id = ?`), id))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}
