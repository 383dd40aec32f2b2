// Package semester contains the Semester domain model and the current-term
// state machine.
//
// The invariant: per user, at most one semester is current, and the current
// one is always in progress. Completed semesters are never current. Making
// any semester current demotes every other in-progress semester to
// completed - exactly one winner.
package semester

import (
	"strings"
	"time"

	"github.com/gradepoint/gradepoint/internal/domain/shared"
)

// Status is the lifecycle state of a semester.
type Status string

const (
	// StatusInProgress - the semester is being taken now.
	StatusInProgress Status = "in_progress"

	// StatusCompleted - the semester is finished.
	StatusCompleted Status = "completed"
)

// ParseStatus validates and normalizes a raw status string.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.TrimSpace(s)) {
	case StatusInProgress:
		return StatusInProgress, nil
	case StatusCompleted:
		return StatusCompleted, nil
	}
	return "", shared.ErrInvalidSemesterStatus
}

// Semester groups courses into a term.
type Semester struct {
	ID        string
	UserID    string
	Name      string
	Status    Status
	IsCurrent bool
	CreatedAt time.Time
}

// New creates a semester. A semester created in progress (or explicitly
// requested as current) starts current; the caller is responsible for
// demoting the previous current semester in the same transaction.
func New(id, userID, name string, status Status, makeCurrent bool) (*Semester, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.ErrEmptySemesterName
	}
	if userID == "" {
		return nil, shared.NewDomainError("semester", "Create", shared.ErrInvalidID, "user ID is required")
	}
	if status != StatusInProgress && status != StatusCompleted {
		return nil, shared.ErrInvalidSemesterStatus
	}

	current := makeCurrent || status == StatusInProgress
	if current {
		status = StatusInProgress
	}

	return &Semester{
		ID:        id,
		UserID:    userID,
		Name:      name,
		Status:    status,
		IsCurrent: current,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// OwnedBy reports whether the semester belongs to the given user.
func (s *Semester) OwnedBy(userID string) bool {
	return s.UserID == userID
}

// Rename changes the semester name.
func (s *Semester) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.ErrEmptySemesterName
	}
	s.Name = name
	return nil
}

// MakeCurrent marks this semester as the single active term.
func (s *Semester) MakeCurrent() {
	s.IsCurrent = true
	s.Status = StatusInProgress
}

// Demote removes the semester from the active slot. A demoted semester is
// completed: "in progress but not current" is not a representable state.
func (s *Semester) Demote() {
	s.IsCurrent = false
	s.Status = StatusCompleted
}

// Complete marks the semester finished without electing a replacement.
func (s *Semester) Complete() {
	s.Status = StatusCompleted
	s.IsCurrent = false
}

// ContendersForDemotion returns the semesters (excluding winnerID) that
// must be demoted when winnerID becomes current: everything still current
// or in progress.
func ContendersForDemotion(all []*Semester, winnerID string) []*Semester {
	var out []*Semester
	for _, s := range all {
		if s.ID == winnerID {
			continue
		}
		if s.IsCurrent || s.Status == StatusInProgress {
			out = append(out, s)
		}
	}
	return out
}

// PromoteAfterDelete picks the replacement when the current semester is
// deleted: the most recently created remaining in-progress semester, or
// nil when none qualifies (then no semester is current).
func PromoteAfterDelete(remaining []*Semester) *Semester {
	var pick *Semester
	for _, s := range remaining {
		if s.Status != StatusInProgress {
			continue
		}
		if pick == nil || s.CreatedAt.After(pick.CreatedAt) {
			pick = s
		}
	}
	return pick
}
