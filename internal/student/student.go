package student

import (
	"context"
	"errors"
	"time"
)

// StatusPresent is the status every record starts with.
const StatusPresent = "present"

// Student is one attendance-board record. Status and reason are
// free-form strings; approved is owned by staff review and is never
// written by the scheduler.
type Student struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	Reason    string    `json:"reason"`
	Approved  bool      `json:"approved"`
	SeatID    *string   `json:"seat_id,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ErrExists is returned by Create when the id is already taken.
var ErrExists = errors.New("student already exists")

// Store is the student record store shared by the HTTP handlers and the
// scheduler's apply engine. All writes are whole-field overwrites; the
// most recent write stands.
type Store interface {
	List(ctx context.Context) ([]Student, error)
	// Get returns nil, nil when the id is unknown.
	Get(ctx context.Context, id string) (*Student, error)
	Create(ctx context.Context, st Student) (Student, error)
	// Update replaces every field of an existing record, false if unknown.
	Update(ctx context.Context, st Student) (bool, error)
	// SetStatus overwrites status and reason only; approved is untouched.
	// Used by the scheduler and staff bulk edits.
	SetStatus(ctx context.Context, id, status, reason string) (bool, error)
	// Report is a student self-report: overwrites status and reason and
	// clears approved, since a new report needs fresh review.
	Report(ctx context.Context, id, status, reason string) (bool, error)
	SetApproved(ctx context.Context, id string, approved bool) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}
