package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gradepoint/gradepoint/internal/domain/semester"
	"github.com/gradepoint/gradepoint/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEMESTER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// SemesterRepository implements semester.Repository for PostgreSQL.
//
// Every exclusivity operation runs as one transaction: demotion of the old
// current semester and promotion of the new one either both land or
// neither does. The partial unique index idx_semesters_one_current backs
// the invariant at the storage level.
type SemesterRepository struct {
	conn *Connection
}

// NewSemesterRepository creates a new SemesterRepository.
func NewSemesterRepository(conn *Connection) *SemesterRepository {
	return &SemesterRepository{conn: conn}
}

// demoteOthers collapses every other current/in-progress semester of the
// user to {completed, not current}. Must run inside the caller's tx,
// before the winner is made current.
func demoteOthers(ctx context.Context, tx pgx.Tx, userID, winnerID string) error {
	query := `
		UPDATE semesters
		SET is_current = FALSE, status = 'completed'
		WHERE user_id = $1 AND id <> $2 AND (is_current OR status = 'in_progress')
	`
	if _, err := tx.Exec(ctx, query, userID, winnerID); err != nil {
		return fmt.Errorf("failed to demote semesters: %w", err)
	}
	return nil
}

// Create inserts the semester, demoting all others first when it claims
// the current slot.
func (r *SemesterRepository) Create(ctx context.Context, s *semester.Semester) error {
	return r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		if s.IsCurrent {
			if err := demoteOthers(ctx, tx, s.UserID, s.ID); err != nil {
				return err
			}
		}

		query := `
			INSERT INTO semesters (id, user_id, name, status, is_current, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		_, err := tx.Exec(ctx, query, s.ID, s.UserID, s.Name, string(s.Status), s.IsCurrent, s.CreatedAt)
		if err != nil {
			if IsForeignKeyViolation(err) {
				return shared.ErrUserNotFound
			}
			return fmt.Errorf("failed to create semester: %w", err)
		}
		return nil
	})
}

// GetByID returns a semester owned by the given user.
func (r *SemesterRepository) GetByID(ctx context.Context, userID, id string) (*semester.Semester, error) {
	query := `
		SELECT id, user_id, name, status, is_current, created_at
		FROM semesters
		WHERE id = $1 AND user_id = $2
	`

	var s semester.Semester
	var status string
	err := r.conn.QueryRow(ctx, query, id, userID).
		Scan(&s.ID, &s.UserID, &s.Name, &status, &s.IsCurrent, &s.CreatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrSemesterNotFound
		}
		return nil, fmt.Errorf("failed to get semester: %w", err)
	}
	s.Status = semester.Status(status)
	return &s, nil
}

// ListByUser returns all semesters of a user, newest first.
func (r *SemesterRepository) ListByUser(ctx context.Context, userID string) ([]*semester.Semester, error) {
	query := `
		SELECT id, user_id, name, status, is_current, created_at
		FROM semesters
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.conn.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list semesters: %w", err)
	}
	defer rows.Close()

	var out []*semester.Semester
	for rows.Next() {
		var s semester.Semester
		var status string
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &status, &s.IsCurrent, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan semester: %w", err)
		}
		s.Status = semester.Status(status)
		out = append(out, &s)
	}
	return out, rows.Err()
}

// Rename changes the semester name.
func (r *SemesterRepository) Rename(ctx context.Context, userID, id, name string) error {
	query := `UPDATE semesters SET name = $1 WHERE id = $2 AND user_id = $3`

	result, err := r.conn.Exec(ctx, query, name, id, userID)
	if err != nil {
		return fmt.Errorf("failed to rename semester: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrSemesterNotFound
	}
	return nil
}

// SetCurrent makes the semester the single active term.
func (r *SemesterRepository) SetCurrent(ctx context.Context, userID, id string) error {
	return r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		if err := demoteOthers(ctx, tx, userID, id); err != nil {
			return err
		}

		query := `
			UPDATE semesters
			SET is_current = TRUE, status = 'in_progress'
			WHERE id = $1 AND user_id = $2
		`
		result, err := tx.Exec(ctx, query, id, userID)
		if err != nil {
			return fmt.Errorf("failed to set current semester: %w", err)
		}
		if result.RowsAffected() == 0 {
			return shared.ErrSemesterNotFound
		}
		return nil
	})
}

// UpdateStatus transitions the semester. Moving to in_progress claims the
// current slot; completing releases it.
func (r *SemesterRepository) UpdateStatus(ctx context.Context, userID, id string, status semester.Status) error {
	if status == semester.StatusInProgress {
		return r.SetCurrent(ctx, userID, id)
	}

	query := `
		UPDATE semesters
		SET is_current = FALSE, status = 'completed'
		WHERE id = $1 AND user_id = $2
	`
	result, err := r.conn.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to update semester status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrSemesterNotFound
	}
	return nil
}

// DeleteCascade removes the semester. Its courses and their grade rows go
// via ON DELETE CASCADE; when the deleted semester was current, the most
// recently created remaining in-progress semester is promoted in the same
// transaction.
func (r *SemesterRepository) DeleteCascade(ctx context.Context, userID, id string) error {
	return r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		var wasCurrent bool
		err := tx.QueryRow(ctx,
			`SELECT is_current FROM semesters WHERE id = $1 AND user_id = $2 FOR UPDATE`,
			id, userID,
		).Scan(&wasCurrent)
		if err != nil {
			if IsNoRows(err) {
				return shared.ErrSemesterNotFound
			}
			return fmt.Errorf("failed to lock semester: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM semesters WHERE id = $1 AND user_id = $2`, id, userID); err != nil {
			return fmt.Errorf("failed to delete semester: %w", err)
		}

		if !wasCurrent {
			return nil
		}

		promote := `
			UPDATE semesters
			SET is_current = TRUE
			WHERE id = (
				SELECT id FROM semesters
				WHERE user_id = $1 AND status = 'in_progress'
				ORDER BY created_at DESC
				LIMIT 1
			)
		`
		if _, err := tx.Exec(ctx, promote, userID); err != nil {
			return fmt.Errorf("failed to promote replacement semester: %w", err)
		}
		return nil
	})
}
