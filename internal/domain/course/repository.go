package course

import "context"

// Repository is the persistence contract for courses.
//
// Implementations must scope every read by user and reject writes against
// records the acting user does not own (surfacing shared.ErrNotFound, so
// foreign IDs are indistinguishable from missing ones).
type Repository interface {
	Create(ctx context.Context, c *Course) error
	GetByID(ctx context.Context, userID, id string) (*Course, error)
	ListByUser(ctx context.Context, userID string) ([]*Course, error)
	ListBySemester(ctx context.Context, userID, semesterID string) ([]*Course, error)
	Update(ctx context.Context, c *Course) error

	// Delete removes the course and all of its grade items in one
	// transaction.
	Delete(ctx context.Context, userID, id string) error
}

// GradeItemRepository is the persistence contract for grade rows.
type GradeItemRepository interface {
	// Upsert inserts the item, or updates it in place when a row with the
	// same (course, row key) already exists. Idempotent by design: the
	// client saves on every keystroke.
	Upsert(ctx context.Context, userID string, item *GradeItem) error

	ListByCourse(ctx context.Context, userID, courseID string) ([]*GradeItem, error)
	DeleteByKey(ctx context.Context, userID, courseID, rowKey string) error
	DeleteByCourse(ctx context.Context, userID, courseID string) error
	CountByCourse(ctx context.Context, userID, courseID string) (int, error)
}
