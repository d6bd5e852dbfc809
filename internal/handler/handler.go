package handler

import (
	"homeroom/internal/config"
	"homeroom/internal/notify"
	"homeroom/internal/schedule"
	"homeroom/internal/staff"
	"homeroom/internal/student"
)

// Handler carries the stores and scheduler components behind the HTTP API.
type Handler struct {
	cfg      config.App
	students student.Store
	staff    staff.Store
	state    schedule.State
	engine   *schedule.Engine
	sched    *schedule.Scheduler
	eval     *schedule.Evaluator
	notifier notify.Notifier
}

// New wires a handler.
func New(cfg config.App, students student.Store, accounts staff.Store, state schedule.State,
	engine *schedule.Engine, sched *schedule.Scheduler, eval *schedule.Evaluator, notifier notify.Notifier) *Handler {
	return &Handler{
		cfg:      cfg,
		students: students,
		staff:    accounts,
		state:    state,
		engine:   engine,
		sched:    sched,
		eval:     eval,
		notifier: notifier,
	}
}
