package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gradepoint/gradepoint/internal/domain/course"
	"github.com/gradepoint/gradepoint/internal/domain/grading"
	"github.com/gradepoint/gradepoint/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// COURSE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// CourseRepository implements course.Repository for PostgreSQL.
type CourseRepository struct {
	conn *Connection
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(conn *Connection) *CourseRepository {
	return &CourseRepository{conn: conn}
}

// Create inserts a new course.
func (r *CourseRepository) Create(ctx context.Context, c *course.Course) error {
	query := `
		INSERT INTO courses (id, user_id, semester_id, name, credit_hours, grade_type, scale, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	scaleJSON, err := marshalScale(c.Scale)
	if err != nil {
		return err
	}

	_, err = r.conn.Exec(ctx, query,
		c.ID,
		c.UserID,
		nullableID(c.SemesterID),
		c.Name,
		c.CreditHours,
		string(c.GradeType),
		scaleJSON,
		c.CreatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return shared.ErrSemesterNotFound
		}
		return fmt.Errorf("failed to create course: %w", err)
	}

	return nil
}

// GetByID returns a course owned by the given user.
func (r *CourseRepository) GetByID(ctx context.Context, userID, id string) (*course.Course, error) {
	query := `
		SELECT id, user_id, semester_id, name, credit_hours, grade_type, scale, created_at
		FROM courses
		WHERE id = $1 AND user_id = $2
	`

	row := r.conn.QueryRow(ctx, query, id, userID)
	return scanCourse(row)
}

// ListByUser returns all courses of a user, oldest first.
func (r *CourseRepository) ListByUser(ctx context.Context, userID string) ([]*course.Course, error) {
	query := `
		SELECT id, user_id, semester_id, name, credit_hours, grade_type, scale, created_at
		FROM courses
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := r.conn.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	return collectCourses(rows)
}

// ListBySemester returns the user's courses assigned to one semester.
func (r *CourseRepository) ListBySemester(ctx context.Context, userID, semesterID string) ([]*course.Course, error) {
	query := `
		SELECT id, user_id, semester_id, name, credit_hours, grade_type, scale, created_at
		FROM courses
		WHERE user_id = $1 AND semester_id = $2
		ORDER BY created_at
	`

	rows, err := r.conn.Query(ctx, query, userID, semesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list semester courses: %w", err)
	}
	defer rows.Close()

	return collectCourses(rows)
}

// Update replaces the mutable fields of a course.
func (r *CourseRepository) Update(ctx context.Context, c *course.Course) error {
	query := `
		UPDATE courses SET
			semester_id = $1,
			name = $2,
			credit_hours = $3,
			grade_type = $4,
			scale = $5
		WHERE id = $6 AND user_id = $7
	`

	scaleJSON, err := marshalScale(c.Scale)
	if err != nil {
		return err
	}

	result, err := r.conn.Exec(ctx, query,
		nullableID(c.SemesterID),
		c.Name,
		c.CreditHours,
		string(c.GradeType),
		scaleJSON,
		c.ID,
		c.UserID,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return shared.ErrSemesterNotFound
		}
		return fmt.Errorf("failed to update course: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrCourseNotFound
	}

	return nil
}

// Delete removes the course; grade rows go with it via ON DELETE CASCADE.
func (r *CourseRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM courses WHERE id = $1 AND user_id = $2`

	result, err := r.conn.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrCourseNotFound
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Row mapping
// ─────────────────────────────────────────────────────────────────────────────

func scanCourse(row pgx.Row) (*course.Course, error) {
	var (
		c          course.Course
		semesterID *string
		scaleJSON  []byte
		gradeType  string
	)

	err := row.Scan(&c.ID, &c.UserID, &semesterID, &c.Name, &c.CreditHours, &gradeType, &scaleJSON, &c.CreatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to scan course: %w", err)
	}

	if semesterID != nil {
		c.SemesterID = *semesterID
	}
	c.GradeType = grading.GradeType(gradeType)

	if len(scaleJSON) > 0 {
		if err := json.Unmarshal(scaleJSON, &c.Scale); err != nil {
			return nil, fmt.Errorf("failed to unmarshal scale: %w", err)
		}
	}

	return &c, nil
}

func collectCourses(rows pgx.Rows) ([]*course.Course, error) {
	var out []*course.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func marshalScale(s grading.Scale) ([]byte, error) {
	if len(s) == 0 {
		return nil, nil // NULL = default scale
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scale: %w", err)
	}
	return data, nil
}

// nullableID maps an empty string to SQL NULL.
func nullableID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
