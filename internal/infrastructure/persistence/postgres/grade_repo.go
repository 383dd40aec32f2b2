package postgres

import (
	"context"
	"fmt"

	"github.com/gradepoint/gradepoint/internal/domain/course"
	"github.com/gradepoint/gradepoint/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GRADE ITEM REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// GradeItemRepository implements course.GradeItemRepository for PostgreSQL.
// Grade rows carry no user_id of their own; ownership is resolved through
// the owning course in every statement.
type GradeItemRepository struct {
	conn *Connection
}

// NewGradeItemRepository creates a new GradeItemRepository.
func NewGradeItemRepository(conn *Connection) *GradeItemRepository {
	return &GradeItemRepository{conn: conn}
}

// Upsert inserts the row, or updates it in place when the (course, row key)
// pair already exists. The INSERT source is a SELECT guarded by course
// ownership, so a foreign course ID writes nothing.
func (r *GradeItemRepository) Upsert(ctx context.Context, userID string, item *course.GradeItem) error {
	query := `
		INSERT INTO grade_items (id, course_id, row_key, assignment_name, grade_input, numeric_grade, weight_input, weight, created_at)
		SELECT $1, c.id, $3, $4, $5, $6, $7, $8, $9
		FROM courses c
		WHERE c.id = $2 AND c.user_id = $10
		ON CONFLICT (course_id, row_key) DO UPDATE SET
			assignment_name = EXCLUDED.assignment_name,
			grade_input = EXCLUDED.grade_input,
			numeric_grade = EXCLUDED.numeric_grade,
			weight_input = EXCLUDED.weight_input,
			weight = EXCLUDED.weight
	`

	result, err := r.conn.Exec(ctx, query,
		item.ID,
		item.CourseID,
		item.RowKey,
		item.AssignmentName,
		item.GradeInput,
		item.NumericGrade,
		item.WeightInput,
		item.Weight,
		item.CreatedAt,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert grade row: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrCourseNotFound
	}

	return nil
}

// ListByCourse returns the rows of one course, oldest first.
func (r *GradeItemRepository) ListByCourse(ctx context.Context, userID, courseID string) ([]*course.GradeItem, error) {
	query := `
		SELECT gi.id, gi.course_id, gi.row_key, gi.assignment_name, gi.grade_input,
		       gi.numeric_grade, gi.weight_input, gi.weight, gi.created_at
		FROM grade_items gi
		JOIN courses c ON c.id = gi.course_id
		WHERE gi.course_id = $1 AND c.user_id = $2
		ORDER BY gi.created_at
	`

	rows, err := r.conn.Query(ctx, query, courseID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list grade rows: %w", err)
	}
	defer rows.Close()

	var out []*course.GradeItem
	for rows.Next() {
		var it course.GradeItem
		err := rows.Scan(&it.ID, &it.CourseID, &it.RowKey, &it.AssignmentName, &it.GradeInput,
			&it.NumericGrade, &it.WeightInput, &it.Weight, &it.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan grade row: %w", err)
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}

// DeleteByKey removes one row. Deleting a key that was never saved is a
// no-op, not an error.
func (r *GradeItemRepository) DeleteByKey(ctx context.Context, userID, courseID, rowKey string) error {
	query := `
		DELETE FROM grade_items gi
		USING courses c
		WHERE gi.course_id = c.id
		  AND gi.course_id = $1 AND gi.row_key = $2 AND c.user_id = $3
	`

	_, err := r.conn.Exec(ctx, query, courseID, rowKey, userID)
	if err != nil {
		return fmt.Errorf("failed to delete grade row: %w", err)
	}
	return nil
}

// DeleteByCourse removes every row of a course.
func (r *GradeItemRepository) DeleteByCourse(ctx context.Context, userID, courseID string) error {
	query := `
		DELETE FROM grade_items gi
		USING courses c
		WHERE gi.course_id = c.id
		  AND gi.course_id = $1 AND c.user_id = $2
	`

	_, err := r.conn.Exec(ctx, query, courseID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete course grade rows: %w", err)
	}
	return nil
}

// DeleteOrphans removes grade rows whose owning course no longer exists
// and reports how many were removed. The schema's FK cascade makes
// orphans impossible for rows written through this repository; this
// covers rows imported before the constraint existed.
func (r *GradeItemRepository) DeleteOrphans(ctx context.Context) (int64, error) {
	query := `
		DELETE FROM grade_items gi
		WHERE NOT EXISTS (SELECT 1 FROM courses c WHERE c.id = gi.course_id)
	`

	result, err := r.conn.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to delete orphaned grade rows: %w", err)
	}
	return result.RowsAffected(), nil
}

// CountByCourse returns the number of saved rows in a course.
func (r *GradeItemRepository) CountByCourse(ctx context.Context, userID, courseID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM grade_items gi
		JOIN courses c ON c.id = gi.course_id
		WHERE gi.course_id = $1 AND c.user_id = $2
	`

	var count int
	if err := r.conn.QueryRow(ctx, query, courseID, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count grade rows: %w", err)
	}
	return count, nil
}
