package schedule

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ticksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "homeroom_scheduler_ticks_total",
		Help: "Scheduler tick outcomes by result.",
	}, []string{"result"})

	studentsUpdated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "homeroom_scheduler_students_updated_total",
		Help: "Student records overwritten by template application.",
	})

	directivesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "homeroom_scheduler_directives_skipped_total",
		Help: "Template directives skipped (unknown student or store error).",
	})
)
