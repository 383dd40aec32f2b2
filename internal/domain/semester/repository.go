package semester

import "context"

// Repository is the persistence contract for semesters.
//
// The exclusivity operations (Create with a current semester, SetCurrent,
// UpdateStatus to in_progress, DeleteCascade) must each be applied as a
// single atomic transaction: under concurrent requests the store must
// never observe zero or multiple current semesters for a user.
type Repository interface {
	// Create inserts the semester. When s.IsCurrent is true the
	// implementation demotes every other current/in-progress semester of
	// the user in the same transaction.
	Create(ctx context.Context, s *Semester) error

	GetByID(ctx context.Context, userID, id string) (*Semester, error)
	ListByUser(ctx context.Context, userID string) ([]*Semester, error)
	Rename(ctx context.Context, userID, id, name string) error

	// SetCurrent makes the semester the single active term, demoting all
	// others atomically.
	SetCurrent(ctx context.Context, userID, id string) error

	// UpdateStatus transitions the semester. in_progress implies becoming
	// current (with demotions); completed clears the current flag.
	UpdateStatus(ctx context.Context, userID, id string, status Status) error

	// DeleteCascade removes the semester, its courses, and their grade
	// items, then promotes a replacement current semester if the deleted
	// one was current. One transaction.
	DeleteCascade(ctx context.Context, userID, id string) error
}
