package schedule

import (
	"context"
	"log"
	"time"
)

// Skip reasons reported by Tick.
const (
	SkipDisabled       = "disabled"
	SkipWeekend        = "weekend"
	SkipNotInWindow    = "not-in-window"
	SkipAlreadyApplied = "already-applied"
)

// LockTTL keeps a (date, slot) marked applied for a day.
const LockTTL = 24 * time.Hour

// Result reports what a single tick did.
type Result struct {
	Applied bool    `json:"applied"`
	Skipped string  `json:"skipped,omitempty"`
	Day     Day     `json:"day,omitempty"`
	Slot    string  `json:"slot,omitempty"`
	Report  *Report `json:"report,omitempty"`
}

// Scheduler orchestrates one tick: gate checks, the application lock,
// and the apply engine. It holds no state of its own; an external timer
// drives it roughly once per minute and concurrent ticks are resolved
// by the lock's set-if-absent.
type Scheduler struct {
	state   State
	engine  *Engine
	eval    *Evaluator
	loc     *time.Location
	lockTTL time.Duration
}

// NewScheduler wires a tick orchestrator. loc is the school's time zone.
func NewScheduler(state State, engine *Engine, eval *Evaluator, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{state: state, engine: engine, eval: eval, loc: loc, lockTTL: LockTTL}
}

// Tick runs one scheduler pass for the given instant. The lock is
// acquired before any student write, so at most one tick per (date,
// slot) ever reaches the apply engine; on apply failure the lock is
// released so a corrected template can still land inside the window.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) (Result, error) {
	now = now.In(s.loc)

	enabled, err := s.state.Enabled(ctx)
	if err != nil {
		ticksTotal.WithLabelValues("error").Inc()
		return Result{}, err
	}
	if !enabled {
		ticksTotal.WithLabelValues(SkipDisabled).Inc()
		return Result{Skipped: SkipDisabled}, nil
	}

	day, ok := DayOf(now)
	if !ok {
		ticksTotal.WithLabelValues(SkipWeekend).Inc()
		return Result{Skipped: SkipWeekend}, nil
	}

	slot, ok := s.eval.OpenSlot(now)
	if !ok {
		ticksTotal.WithLabelValues(SkipNotInWindow).Inc()
		return Result{Skipped: SkipNotInWindow}, nil
	}

	date := now.Format("2006-01-02")
	acquired, err := s.state.AcquireLock(ctx, date, slot.Name, s.lockTTL)
	if err != nil {
		ticksTotal.WithLabelValues("error").Inc()
		return Result{}, err
	}
	if !acquired {
		ticksTotal.WithLabelValues(SkipAlreadyApplied).Inc()
		return Result{Skipped: SkipAlreadyApplied}, nil
	}

	rep, err := s.engine.Apply(ctx, day, slot.Name)
	if err != nil {
		if relErr := s.state.ReleaseLock(ctx, date, slot.Name); relErr != nil {
			log.Printf("release lock after failed apply: %v", relErr)
		}
		ticksTotal.WithLabelValues("error").Inc()
		return Result{}, err
	}

	ticksTotal.WithLabelValues("applied").Inc()
	return Result{Applied: true, Day: day, Slot: slot.Name, Report: &rep}, nil
}
