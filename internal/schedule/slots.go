package schedule

import "time"

// Slot is one named study period with a fixed daily start time.
type Slot struct {
	Name  string
	Start int // minutes since midnight
}

// DefaultSlots is the study-hall period table. Windows must not overlap.
func DefaultSlots() []Slot {
	return []Slot{
		{Name: "morning", Start: 8*60 + 10},
		{Name: "afternoon", Start: 13*60 + 20},
		{Name: "dinner", Start: 18*60 + 10},
		{Name: "study1", Start: 19*60 + 10},
		{Name: "study2", Start: 21 * 60},
	}
}

// Day identifies a school weekday in template keys.
type Day string

const (
	Monday    Day = "mon"
	Tuesday   Day = "tue"
	Wednesday Day = "wed"
	Thursday  Day = "thu"
	Friday    Day = "fri"
)

// ParseDay validates a weekday identifier from a request.
func ParseDay(s string) (Day, bool) {
	switch Day(s) {
	case Monday, Tuesday, Wednesday, Thursday, Friday:
		return Day(s), true
	}
	return "", false
}

// DayOf maps a timestamp to its school day, false on weekends.
func DayOf(t time.Time) (Day, bool) {
	switch t.Weekday() {
	case time.Monday:
		return Monday, true
	case time.Tuesday:
		return Tuesday, true
	case time.Wednesday:
		return Wednesday, true
	case time.Thursday:
		return Thursday, true
	case time.Friday:
		return Friday, true
	}
	return "", false
}

// IsSchoolDay reports whether t falls on a Monday through Friday.
func IsSchoolDay(t time.Time) bool {
	_, ok := DayOf(t)
	return ok
}

// Evaluator resolves which slot, if any, is open at a given local time.
// A slot is open for Window minutes starting at its nominal start,
// inclusive at the start and exclusive at the end.
type Evaluator struct {
	slots  []Slot
	window time.Duration
}

// DefaultWindow is how long a slot stays open after its nominal start.
const DefaultWindow = 10 * time.Minute

// NewEvaluator builds an evaluator over the given slot table.
func NewEvaluator(slots []Slot, window time.Duration) *Evaluator {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Evaluator{slots: slots, window: window}
}

// OpenSlot returns the slot open at t, if any. t must already be in the
// school's time zone.
func (e *Evaluator) OpenSlot(t time.Time) (Slot, bool) {
	minute := t.Hour()*60 + t.Minute()
	win := int(e.window.Minutes())
	for _, s := range e.slots {
		if minute >= s.Start && minute < s.Start+win {
			return s, true
		}
	}
	return Slot{}, false
}

// HasSlot validates a slot identifier from a request.
func (e *Evaluator) HasSlot(name string) bool {
	for _, s := range e.slots {
		if s.Name == name {
			return true
		}
	}
	return false
}

// Slots returns the configured slot table in order.
func (e *Evaluator) Slots() []Slot {
	return e.slots
}
