// Package postgres implements the PostgreSQL persistence layer for GradePoint.
package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE USERS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create users table
-- Version: 001

CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    email VARCHAR(255) NOT NULL UNIQUE,
    display_name VARCHAR(100) NOT NULL DEFAULT '',
    secret_hash TEXT NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
`

const migration001Down = `
DROP TABLE IF EXISTS users;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE SEMESTERS
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create semesters table
-- Version: 002
-- Invariant: at most one current semester per user, and the current one
-- is always in progress. Both are enforced here so no code path can
-- slip past them.

CREATE TABLE IF NOT EXISTS semesters (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name VARCHAR(120) NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'in_progress',
    is_current BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_semester_status CHECK (status IN ('in_progress', 'completed')),
    CONSTRAINT current_implies_in_progress CHECK (NOT is_current OR status = 'in_progress')
);

CREATE INDEX IF NOT EXISTS idx_semesters_user_id ON semesters(user_id);
CREATE INDEX IF NOT EXISTS idx_semesters_user_created ON semesters(user_id, created_at DESC);

-- Partial unique index: one current semester per user.
CREATE UNIQUE INDEX IF NOT EXISTS idx_semesters_one_current
    ON semesters(user_id) WHERE is_current;
`

const migration002Down = `
DROP TABLE IF EXISTS semesters;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: CREATE COURSES AND GRADE ITEMS
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create courses and grade_items tables
-- Version: 003
-- A course owns its grade rows; deleting a semester cascades to courses,
-- deleting a course cascades to rows. A course may be unassigned
-- (semester_id NULL).

CREATE TABLE IF NOT EXISTS courses (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    semester_id UUID REFERENCES semesters(id) ON DELETE CASCADE,
    name VARCHAR(255) NOT NULL,
    credit_hours DOUBLE PRECISION NOT NULL DEFAULT 3,
    grade_type VARCHAR(20) NOT NULL DEFAULT 'percentage',
    scale JSONB,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_grade_type CHECK (grade_type IN ('percentage', 'letters', 'points')),
    CONSTRAINT valid_credit_hours CHECK (credit_hours > 0)
);

CREATE INDEX IF NOT EXISTS idx_courses_user_id ON courses(user_id);
CREATE INDEX IF NOT EXISTS idx_courses_semester_id ON courses(semester_id) WHERE semester_id IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_courses_user_created ON courses(user_id, created_at);

CREATE TABLE IF NOT EXISTS grade_items (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    course_id UUID NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
    row_key VARCHAR(100) NOT NULL,
    assignment_name VARCHAR(255) NOT NULL DEFAULT '',
    grade_input TEXT NOT NULL DEFAULT '',
    numeric_grade DOUBLE PRECISION NOT NULL DEFAULT 0,
    weight_input TEXT NOT NULL DEFAULT '',
    weight DOUBLE PRECISION NOT NULL DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    -- The client-assigned row key is the upsert identity within a course.
    UNIQUE(course_id, row_key)
);

CREATE INDEX IF NOT EXISTS idx_grade_items_course_id ON grade_items(course_id);
CREATE INDEX IF NOT EXISTS idx_grade_items_course_created ON grade_items(course_id, created_at);
`

const migration003Down = `
DROP TABLE IF EXISTS grade_items;
DROP TABLE IF EXISTS courses;
`

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_users",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_semesters",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
		{
			Version: 3,
			Name:    "create_courses_and_grade_items",
			UpSQL:   migration003Up,
			DownSQL: migration003Down,
		},
	}
}
