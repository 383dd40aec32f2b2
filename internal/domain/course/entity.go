// Package course contains the Course and GradeItem domain model.
// A course owns its grade items: deleting the course deletes every row.
package course

import (
	"strings"
	"time"

	"github.com/gradepoint/gradepoint/internal/domain/grading"
	"github.com/gradepoint/gradepoint/internal/domain/shared"
)

// DefaultCreditHours is assigned when a course is created without credits.
const DefaultCreditHours = 3.0

// Course is a user's course. Value semantics: edits replace fields wholesale,
// the entity never mutates behind the caller's back.
type Course struct {
	ID          string
	UserID      string
	SemesterID  string // empty = unassigned
	Name        string
	CreditHours float64
	GradeType   grading.GradeType

	// Scale is the course's custom letter scale; nil means the default
	// scale applies.
	Scale grading.Scale

	CreatedAt time.Time
}

// New creates a course with defaults applied.
func New(id, userID, name string) (*Course, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.ErrEmptyCourseName
	}
	if userID == "" {
		return nil, shared.NewDomainError("course", "Create", shared.ErrInvalidID, "user ID is required")
	}
	return &Course{
		ID:          id,
		UserID:      userID,
		Name:        name,
		CreditHours: DefaultCreditHours,
		GradeType:   grading.GradeTypePercentage,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// OwnedBy reports whether the course belongs to the given user.
func (c *Course) OwnedBy(userID string) bool {
	return c.UserID == userID
}

// Rename changes the course name.
func (c *Course) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.ErrEmptyCourseName
	}
	c.Name = name
	return nil
}

// SetCreditHours changes the credit hours; must be positive.
func (c *Course) SetCreditHours(credits float64) error {
	if credits <= 0 {
		return shared.ErrInvalidCredits
	}
	c.CreditHours = credits
	return nil
}

// SetGradeType changes how raw grade input is interpreted.
func (c *Course) SetGradeType(t grading.GradeType) error {
	if !t.IsValid() {
		return shared.ErrInvalidGradeType
	}
	c.GradeType = t
	return nil
}

// SetScale installs a custom letter scale. The scale is validated before
// the course is touched, so a bad scale leaves the prior one in place.
func (c *Course) SetScale(s grading.Scale) error {
	if err := s.Validate(); err != nil {
		return shared.WrapError("course", "SetScale", shared.ErrInvalidInput, "invalid letter scale", err)
	}
	c.Scale = s
	return nil
}

// ClearScale reverts the course to the default scale.
func (c *Course) ClearScale() {
	c.Scale = nil
}

// AssignSemester links (or with an empty id, unlinks) the course to a semester.
func (c *Course) AssignSemester(semesterID string) {
	c.SemesterID = semesterID
}

// EffectiveScale returns the custom scale when set, the default otherwise.
func (c *Course) EffectiveScale() grading.Scale {
	if len(c.Scale) > 0 {
		return c.Scale
	}
	return grading.DefaultScale()
}

// GradeItem is one graded component of a course (assignment, exam, ...).
// RowKey is assigned by the client and is the upsert key: saving the same
// row twice updates it in place instead of appending a duplicate.
type GradeItem struct {
	ID             string
	CourseID       string
	RowKey         string
	AssignmentName string

	// GradeInput and WeightInput preserve the raw text the user typed so
	// the UI can round-trip it; NumericGrade and Weight are the resolved
	// values used for anything stored-side.
	GradeInput   string
	NumericGrade float64
	WeightInput  string
	Weight       float64

	CreatedAt time.Time
}

// ScoredItems converts stored grade rows to computation-core inputs,
// preserving entry order.
func ScoredItems(items []GradeItem) []grading.ScoredItem {
	out := make([]grading.ScoredItem, 0, len(items))
	for _, it := range items {
		out = append(out, grading.ScoredItem{
			GradeInput: it.GradeInput,
			Weight:     it.Weight,
		})
	}
	return out
}
