package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"homeroom/internal/config"
	"homeroom/internal/notify"
	"homeroom/internal/schedule"
	"homeroom/internal/staff"
	"homeroom/internal/student"
)

type testEnv struct {
	router   *gin.Engine
	students *student.Memory
	state    *schedule.MemoryState
}

func newTestEnv(t *testing.T, cronSecret string) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.App{
		JWTIssuer:     "homeroom",
		JWTSigningKey: "test-key",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
		Timezone:      "UTC",
		SlotWindow:    10 * time.Minute,
		CronSecret:    cronSecret,
	}

	students := student.NewMemory()
	accounts := staff.NewMemory()
	state := schedule.NewMemoryState()
	notifier := notify.NewInMemory()
	if _, err := accounts.Create(context.Background(), "teacher1", "test password", "Ms. Park"); err != nil {
		t.Fatal(err)
	}

	eval := schedule.NewEvaluator([]schedule.Slot{{Name: "A", Start: 9 * 60}}, cfg.SlotWindow)
	engine := schedule.NewEngine(state, students, notifier)
	sched := schedule.NewScheduler(state, engine, eval, time.UTC)
	h := New(cfg, students, accounts, state, engine, sched, eval, notifier)

	r := gin.New()
	r.POST("/v1/login", h.Login)
	r.GET("/v1/students", h.ListStudents)
	r.GET("/v1/students/:id", h.GetStudent)
	r.PUT("/v1/students/:id/status", h.ReportStatus)
	r.GET("/v1/display", h.Display)
	r.POST("/v1/scheduler/tick", h.Tick)
	// Staff routes registered without auth middleware: these tests cover
	// handler behavior, middleware is covered in the auth package.
	r.POST("/v1/students", h.CreateStudent)
	r.GET("/v1/templates/:day/:slot", h.GetTemplate)
	r.PUT("/v1/templates/:day/:slot", h.SaveTemplate)
	r.PUT("/v1/scheduler/enabled", h.SetEnabled)
	r.POST("/v1/scheduler/apply", h.Apply)

	return &testEnv{router: r, students: students, state: state}
}

func (e *testEnv) do(t *testing.T, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestTemplateRejectsUnknownDayAndSlot(t *testing.T) {
	env := newTestEnv(t, "")
	if w := env.do(t, "GET", "/v1/templates/sat/A", "", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("weekend day: status %d", w.Code)
	}
	if w := env.do(t, "GET", "/v1/templates/wed/recess", "", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown slot: status %d", w.Code)
	}
	if w := env.do(t, "GET", "/v1/templates/wed/A", "", nil); w.Code != http.StatusOK {
		t.Fatalf("valid key: status %d", w.Code)
	}
}

func TestSaveTemplateValidatesDirectives(t *testing.T) {
	env := newTestEnv(t, "")
	body := `{"items":[{"student_id":"","status":"gone"}]}`
	if w := env.do(t, "PUT", "/v1/templates/wed/A", body, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("empty student_id: status %d", w.Code)
	}
	body = `{"items":[{"student_id":"11101","name":"Kim","status":"no-change"}]}`
	if w := env.do(t, "PUT", "/v1/templates/wed/A", body, nil); w.Code != http.StatusOK {
		t.Fatalf("valid save: status %d body %s", w.Code, w.Body.String())
	}
}

func TestTickRequiresConfiguredSecret(t *testing.T) {
	env := newTestEnv(t, "")
	if w := env.do(t, "POST", "/v1/scheduler/tick", "", nil); w.Code != http.StatusInternalServerError {
		t.Fatalf("unset secret: status %d", w.Code)
	}

	env = newTestEnv(t, "s3cret")
	if w := env.do(t, "POST", "/v1/scheduler/tick", "", map[string]string{"X-Cron-Secret": "wrong"}); w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong secret: status %d", w.Code)
	}
}

func TestTickEndToEnd(t *testing.T) {
	env := newTestEnv(t, "s3cret")
	ctx := context.Background()
	if _, err := env.students.Create(ctx, student.Student{ID: "11101", Name: "Kim"}); err != nil {
		t.Fatal(err)
	}
	items := []schedule.Directive{{StudentID: "11101", Name: "Kim", Status: "귀가", Reason: "하교"}}
	if err := env.state.SaveTemplate(ctx, schedule.Wednesday, "A", items); err != nil {
		t.Fatal(err)
	}

	header := map[string]string{"X-Cron-Secret": "s3cret"}
	// 2026-09-02 is a Wednesday; slot A opens 09:00.
	body := `{"now":"2026-09-02T09:03:00Z"}`

	w := env.do(t, "POST", "/v1/scheduler/tick", body, header)
	if w.Code != http.StatusOK {
		t.Fatalf("tick: status %d body %s", w.Code, w.Body.String())
	}
	var res schedule.Result
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if !res.Applied || res.Day != schedule.Wednesday || res.Slot != "A" {
		t.Fatalf("result = %+v", res)
	}
	st, _ := env.students.Get(ctx, "11101")
	if st.Status != "귀가" || st.Reason != "하교" {
		t.Fatalf("student = %q/%q", st.Status, st.Reason)
	}

	// Same window again: no-op.
	w = env.do(t, "POST", "/v1/scheduler/tick", `{"now":"2026-09-02T09:04:00Z"}`, header)
	if w.Code != http.StatusOK {
		t.Fatalf("second tick: status %d", w.Code)
	}
	res = schedule.Result{}
	_ = json.Unmarshal(w.Body.Bytes(), &res)
	if res.Applied || res.Skipped != schedule.SkipAlreadyApplied {
		t.Fatalf("second result = %+v", res)
	}
}

func TestManualApplyWhileDisabled(t *testing.T) {
	env := newTestEnv(t, "")
	if w := env.do(t, "PUT", "/v1/scheduler/enabled", `{"enabled":false}`, nil); w.Code != http.StatusOK {
		t.Fatalf("set enabled: status %d", w.Code)
	}
	w := env.do(t, "POST", "/v1/scheduler/apply", `{"day":"wed","slot":"A"}`, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("apply while disabled: status %d body %s", w.Code, w.Body.String())
	}
}

func TestReportStatusUnknownStudent(t *testing.T) {
	env := newTestEnv(t, "")
	w := env.do(t, "PUT", "/v1/students/99999/status", `{"status":"outing"}`, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status %d", w.Code)
	}
}

func TestCreateStudentConflict(t *testing.T) {
	env := newTestEnv(t, "")
	body := `{"id":"11101","name":"Kim"}`
	if w := env.do(t, "POST", "/v1/students", body, nil); w.Code != http.StatusCreated {
		t.Fatalf("create: status %d", w.Code)
	}
	if w := env.do(t, "POST", "/v1/students", body, nil); w.Code != http.StatusConflict {
		t.Fatalf("duplicate create: status %d", w.Code)
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t, "")
	w := env.do(t, "POST", "/v1/login", `{"username":"teacher1","password":"test password"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login: status %d body %s", w.Code, w.Body.String())
	}
	var res struct {
		AccessToken string `json:"access_token"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &res)
	if res.AccessToken == "" {
		t.Fatal("no access token issued")
	}

	w = env.do(t, "POST", "/v1/login", `{"username":"teacher1","password":"nope"}`, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: status %d", w.Code)
	}
}

func TestDisplayCountsAndSeats(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()
	seat := "B3"
	_, _ = env.students.Create(ctx, student.Student{ID: "11101", Name: "Kim", SeatID: &seat})
	_, _ = env.students.Create(ctx, student.Student{ID: "11102", Name: "Lee", Status: "gone"})

	w := env.do(t, "GET", "/v1/display", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("display: status %d", w.Code)
	}
	var res struct {
		Seats  []student.Student `json:"seats"`
		Counts map[string]int    `json:"counts"`
		Total  int               `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Total != 2 || len(res.Seats) != 1 || res.Seats[0].ID != "11101" {
		t.Fatalf("display = %+v", res)
	}
	if res.Counts["present"] != 1 || res.Counts["gone"] != 1 {
		t.Fatalf("counts = %v", res.Counts)
	}
}
