package schedule

import (
	"context"
	"errors"
	"time"
)

// NoChange is the directive status sentinel meaning "leave this student alone".
const NoChange = "no-change"

// Directive is one template line: the status and reason to apply to one
// student, or the no-change sentinel.
type Directive struct {
	StudentID string `json:"student_id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	Reason    string `json:"reason"`
}

// State is the shared key-value state the scheduler coordinates through:
// the enable flag, the saved templates, and the per-(date, slot)
// application lock. Backed by Redis in production.
type State interface {
	// Enabled reports the scheduler enable flag; absent means enabled.
	Enabled(ctx context.Context) (bool, error)
	SetEnabled(ctx context.Context, enabled bool) error

	// Template returns the saved directives for (day, slot), nil if never saved.
	Template(ctx context.Context, day Day, slot string) ([]Directive, error)
	// SaveTemplate replaces the directives for (day, slot) wholesale.
	SaveTemplate(ctx context.Context, day Day, slot string, items []Directive) error

	// AcquireLock atomically marks (date, slot) as applied. Returns false
	// when the lock is already held; the entry expires after ttl.
	AcquireLock(ctx context.Context, date, slot string, ttl time.Duration) (bool, error)
	// ReleaseLock drops the lock so a later tick in the same window may retry.
	ReleaseLock(ctx context.Context, date, slot string) error
}

var (
	// ErrDisabled is returned when an apply is requested while the
	// scheduler enable flag is off.
	ErrDisabled = errors.New("scheduler disabled")
	// ErrNoTemplate is returned when no template is saved for the
	// requested (day, slot).
	ErrNoTemplate = errors.New("no template saved")
)
