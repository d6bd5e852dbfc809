package schedule

import (
	"context"
	"fmt"
	"log"
)

// StudentWriter is the slice of the student store the engine mutates.
// SetStatus overwrites status and reason for one student, never the
// approved flag, and reports whether the student exists.
type StudentWriter interface {
	SetStatus(ctx context.Context, id, status, reason string) (bool, error)
}

// Notifier announces that student records changed; consumers re-fetch.
type Notifier interface {
	StudentsChanged(ctx context.Context) error
}

// Report counts what one template application did.
type Report struct {
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// Engine applies a saved template to the student store.
type Engine struct {
	state    State
	students StudentWriter
	notifier Notifier
}

// NewEngine creates an apply engine over the given stores.
func NewEngine(state State, students StudentWriter, notifier Notifier) *Engine {
	return &Engine{state: state, students: students, notifier: notifier}
}

// Apply overwrites student status/reason per the (day, slot) template.
// Each directive is independent and best-effort: unknown students and
// per-student store errors are counted as skipped, never fatal, and
// nothing is rolled back. One change notification fires after the batch.
func (e *Engine) Apply(ctx context.Context, day Day, slot string) (Report, error) {
	enabled, err := e.state.Enabled(ctx)
	if err != nil {
		return Report{}, err
	}
	if !enabled {
		return Report{}, ErrDisabled
	}

	items, err := e.state.Template(ctx, day, slot)
	if err != nil {
		return Report{}, err
	}
	if len(items) == 0 {
		return Report{}, fmt.Errorf("%w for %s/%s", ErrNoTemplate, day, slot)
	}

	var rep Report
	for _, d := range items {
		if d.Status == NoChange {
			continue
		}
		found, err := e.students.SetStatus(ctx, d.StudentID, d.Status, d.Reason)
		if err != nil {
			log.Printf("apply %s/%s: update student %s failed: %v", day, slot, d.StudentID, err)
			rep.Skipped++
			directivesSkipped.Inc()
			continue
		}
		if !found {
			rep.Skipped++
			directivesSkipped.Inc()
			continue
		}
		rep.Updated++
		studentsUpdated.Inc()
	}

	if rep.Updated > 0 {
		if err := e.notifier.StudentsChanged(ctx); err != nil {
			log.Printf("change notification failed: %v", err)
		}
	}
	return rep, nil
}
