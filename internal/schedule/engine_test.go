package schedule

import (
	"context"
	"errors"
	"testing"

	"homeroom/internal/student"
)

type countingNotifier struct {
	calls int
}

func (n *countingNotifier) StudentsChanged(ctx context.Context) error {
	n.calls++
	return nil
}

func seedStudents(t *testing.T, ids ...string) *student.Memory {
	t.Helper()
	mem := student.NewMemory()
	for _, id := range ids {
		if _, err := mem.Create(context.Background(), student.Student{ID: id, Name: "student " + id}); err != nil {
			t.Fatalf("seed student %s: %v", id, err)
		}
	}
	return mem
}

func TestApplyOverwritesStatusAndReason(t *testing.T) {
	ctx := context.Background()
	state := NewMemoryState()
	students := seedStudents(t, "11101", "11102")
	notifier := &countingNotifier{}
	engine := NewEngine(state, students, notifier)

	items := []Directive{
		{StudentID: "11101", Name: "student 11101", Status: "귀가", Reason: "하교"},
		{StudentID: "11102", Name: "student 11102", Status: NoChange},
	}
	if err := state.SaveTemplate(ctx, Wednesday, "A", items); err != nil {
		t.Fatal(err)
	}

	rep, err := engine.Apply(ctx, Wednesday, "A")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if rep.Updated != 1 || rep.Skipped != 0 {
		t.Fatalf("report = %+v, want 1 updated, 0 skipped", rep)
	}

	a, _ := students.Get(ctx, "11101")
	if a.Status != "귀가" || a.Reason != "하교" {
		t.Fatalf("student 11101 = %q/%q, want 귀가/하교", a.Status, a.Reason)
	}
	b, _ := students.Get(ctx, "11102")
	if b.Status != student.StatusPresent {
		t.Fatalf("no-change directive mutated student 11102 to %q", b.Status)
	}
	if notifier.calls != 1 {
		t.Fatalf("notifier fired %d times, want 1", notifier.calls)
	}
}

func TestApplyNeverTouchesApproved(t *testing.T) {
	ctx := context.Background()
	state := NewMemoryState()
	students := seedStudents(t, "11101")
	if _, err := students.SetApproved(ctx, "11101", true); err != nil {
		t.Fatal(err)
	}
	engine := NewEngine(state, students, &countingNotifier{})

	_ = state.SaveTemplate(ctx, Monday, "A", []Directive{{StudentID: "11101", Status: "outing", Reason: "errand"}})
	if _, err := engine.Apply(ctx, Monday, "A"); err != nil {
		t.Fatal(err)
	}

	st, _ := students.Get(ctx, "11101")
	if !st.Approved {
		t.Fatal("apply cleared the approved flag")
	}
}

func TestApplySkipsUnknownStudentsAndContinues(t *testing.T) {
	ctx := context.Background()
	state := NewMemoryState()
	students := seedStudents(t, "11102")
	engine := NewEngine(state, students, &countingNotifier{})

	_ = state.SaveTemplate(ctx, Tuesday, "A", []Directive{
		{StudentID: "99999", Status: "gone", Reason: ""},
		{StudentID: "11102", Status: "gone", Reason: "early leave"},
	})

	rep, err := engine.Apply(ctx, Tuesday, "A")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if rep.Updated != 1 || rep.Skipped != 1 {
		t.Fatalf("report = %+v, want 1 updated, 1 skipped", rep)
	}
	st, _ := students.Get(ctx, "11102")
	if st.Status != "gone" {
		t.Fatalf("directive after the unknown student was not applied, status %q", st.Status)
	}
}

func TestApplyDisabled(t *testing.T) {
	ctx := context.Background()
	state := NewMemoryState()
	students := seedStudents(t, "11101")
	engine := NewEngine(state, students, &countingNotifier{})

	_ = state.SaveTemplate(ctx, Monday, "A", []Directive{{StudentID: "11101", Status: "gone"}})
	_ = state.SetEnabled(ctx, false)

	if _, err := engine.Apply(ctx, Monday, "A"); !errors.Is(err, ErrDisabled) {
		t.Fatalf("Apply err = %v, want ErrDisabled", err)
	}
	st, _ := students.Get(ctx, "11101")
	if st.Status != student.StatusPresent {
		t.Fatalf("disabled apply still wrote status %q", st.Status)
	}
}

func TestApplyNoTemplate(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine(NewMemoryState(), seedStudents(t, "11101"), &countingNotifier{})
	if _, err := engine.Apply(ctx, Friday, "A"); !errors.Is(err, ErrNoTemplate) {
		t.Fatalf("Apply err = %v, want ErrNoTemplate", err)
	}
}
