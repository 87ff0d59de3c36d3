package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/twelveweeks/internal/domain"
	"github.com/google/uuid"
)

// FakeAPI is an in-memory stand-in for the 12 Weeks REST API. Routes are
// named by their mux pattern, e.g. "GET /api/plans/{id}".
type FakeAPI struct {
	Server *httptest.Server

	mu     sync.Mutex
	plans  map[string]*domain.Plan
	order  []string
	users  map[string]fakeUser // by email
	tokens map[string]string   // token -> email
	hits   map[string]int
	fail   map[string]int
	delay  map[string]time.Duration

	// FlatPayloads makes handlers answer with unwrapped documents and bare
	// arrays instead of named keys.
	FlatPayloads bool

	// EmbedGoals includes goals in GET /api/plans/{id} week payloads.
	EmbedGoals bool
}

type fakeUser struct {
	user     domain.User
	password string
}

// NewFakeAPI starts the server; it is closed when the test completes.
// Clients should use URL() as their base URL.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()
	f := &FakeAPI{
		plans:  make(map[string]*domain.Plan),
		users:  make(map[string]fakeUser),
		tokens: make(map[string]string),
		hits:   make(map[string]int),
		fail:   make(map[string]int),
		delay:  make(map[string]time.Duration),
	}
	mux := http.NewServeMux()
	f.route(mux, "GET /api/plans", f.listPlans)
	f.route(mux, "POST /api/plans", f.createPlan)
	f.route(mux, "GET /api/plans/stats", f.overview)
	f.route(mux, "GET /api/plans/{id}", f.getPlan)
	f.route(mux, "PUT /api/plans/{id}", f.updatePlan)
	f.route(mux, "DELETE /api/plans/{id}", f.deletePlan)
	f.route(mux, "POST /api/plans/{id}/activate", f.activatePlan)
	f.route(mux, "GET /api/plans/{id}/weeks", f.listWeeks)
	f.route(mux, "GET /api/plans/{id}/stats", f.planStats)
	f.route(mux, "GET /api/goals/plans/{pid}/weeks/{wid}", f.listGoals)
	f.route(mux, "POST /api/goals/plans/{pid}/weeks/{wid}", f.createGoal)
	f.route(mux, "GET /api/goals/plans/{pid}/weeks/{wid}/{gid}", f.getGoal)
	f.route(mux, "PUT /api/goals/plans/{pid}/weeks/{wid}/{gid}", f.updateGoal)
	f.route(mux, "DELETE /api/goals/plans/{pid}/weeks/{wid}/{gid}", f.deleteGoal)
	f.route(mux, "PUT /api/goals/plans/{pid}/weeks/{wid}/{gid}/complete", f.completeGoal(true))
	f.route(mux, "PUT /api/goals/plans/{pid}/weeks/{wid}/{gid}/uncomplete", f.completeGoal(false))
	f.route(mux, "GET /api/tasks/plans/{pid}/weeks/{wid}/goals/{gid}", f.listTasks)
	f.route(mux, "POST /api/tasks/plans/{pid}/weeks/{wid}/goals/{gid}", f.createTask)
	f.route(mux, "GET /api/tasks/plans/{pid}/weeks/{wid}/goals/{gid}/{tid}", f.getTask)
	f.route(mux, "PUT /api/tasks/plans/{pid}/weeks/{wid}/goals/{gid}/{tid}", f.updateTask)
	f.route(mux, "DELETE /api/tasks/plans/{pid}/weeks/{wid}/goals/{gid}/{tid}", f.deleteTask)
	f.route(mux, "PUT /api/tasks/plans/{pid}/weeks/{wid}/goals/{gid}/{tid}/complete", f.completeTask(true))
	f.route(mux, "PUT /api/tasks/plans/{pid}/weeks/{wid}/goals/{gid}/{tid}/uncomplete", f.completeTask(false))
	f.route(mux, "POST /api/auth/login", f.login)
	f.route(mux, "POST /api/auth/register", f.register)
	f.route(mux, "GET /api/auth/me", f.me)
	f.route(mux, "PUT /api/auth/profile", f.profile)
	f.route(mux, "POST /api/auth/change-password", f.changePassword)
	f.route(mux, "POST /api/auth/logout", f.logout)

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)
	return f
}

// URL is the API base URL, including the /api prefix.
func (f *FakeAPI) URL() string {
	return f.Server.URL + "/api"
}

func (f *FakeAPI) route(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.hits[pattern]++
		status := f.fail[pattern]
		d := f.delay[pattern]
		f.mu.Unlock()

		if d > 0 {
			select {
			case <-time.After(d):
			case <-r.Context().Done():
				return
			}
		}
		if status != 0 {
			writeEnvelope(w, status, false, nil, "injected failure")
			return
		}
		h(w, r)
	})
}

// Hits returns how many requests reached route.
func (f *FakeAPI) Hits(route string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[route]
}

// Fail makes route answer with status until Fail(route, 0) is called.
func (f *FakeAPI) Fail(route string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if status == 0 {
		delete(f.fail, route)
		return
	}
	f.fail[route] = status
}

// Delay holds every request to route for d, or until the client gives up.
func (f *FakeAPI) Delay(route string, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delay[route] = d
}

// AddPlan stores a copy of p.
func (f *FakeAPI) AddPlan(p *domain.Plan) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := clonePlan(p)
	if _, ok := f.plans[cp.ID]; !ok {
		f.order = append(f.order, cp.ID)
	}
	f.plans[cp.ID] = cp
}

// Plan returns a copy of the stored plan.
func (f *FakeAPI) Plan(id string) (*domain.Plan, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.plans[id]
	if !ok {
		return nil, false
	}
	return clonePlan(p), true
}

// AddUser registers an account and returns a valid token for it.
func (f *FakeAPI) AddUser(u domain.User, password string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.Email] = fakeUser{user: u, password: password}
	tok := "tok-" + uuid.NewString()
	f.tokens[tok] = u.Email
	return tok
}

func clonePlan(p *domain.Plan) *domain.Plan {
	cp := *p
	cp.Tags = slices.Clone(p.Tags)
	cp.Weeks = make([]domain.Week, len(p.Weeks))
	for i, w := range p.Weeks {
		cw := w
		cw.Goals = make([]domain.Goal, len(w.Goals))
		for j, g := range w.Goals {
			cg := g
			if g.Tasks != nil {
				cg.Tasks = slices.Clone(g.Tasks)
			}
			cw.Goals[j] = cg
		}
		cp.Weeks[i] = cw
	}
	return &cp
}

// --- wire encoding ---

func writeEnvelope(w http.ResponseWriter, status int, success bool, data any, message string) {
	body := map[string]any{"success": success}
	if data != nil {
		body["data"] = data
	}
	if message != "" {
		body["message"] = message
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (f *FakeAPI) ok(w http.ResponseWriter, key string, v any) {
	if f.FlatPayloads || key == "" {
		writeEnvelope(w, http.StatusOK, true, v, "")
		return
	}
	writeEnvelope(w, http.StatusOK, true, map[string]any{key: v}, "")
}

func notFound(w http.ResponseWriter, what string) {
	writeEnvelope(w, http.StatusNotFound, false, nil, what+" not found")
}

func isoTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func isoPtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return isoTime(*t)
}

func encodeTask(t domain.Task) map[string]any {
	return map[string]any{
		"_id":         t.ID,
		"title":       t.Title,
		"description": t.Description,
		"completed":   t.Completed,
		"priority":    string(t.Priority),
		"dueDate":     isoPtr(t.DueDate),
		"completedAt": isoPtr(t.CompletedAt),
	}
}

func encodeGoal(g domain.Goal) map[string]any {
	m := map[string]any{
		"_id":         g.ID,
		"title":       g.Title,
		"description": g.Description,
		"category":    g.Category.WireValue(),
		"priority":    string(g.Priority),
		"completed":   g.Completed,
		"targetDate":  isoPtr(g.TargetDate),
	}
	if g.Tasks != nil {
		tasks := make([]any, 0, len(g.Tasks))
		for _, t := range g.Tasks {
			tasks = append(tasks, encodeTask(t))
		}
		m["tasks"] = tasks
	}
	return m
}

func encodeWeek(w domain.Week, withGoals bool) map[string]any {
	m := map[string]any{
		"_id":        w.ID,
		"planId":     w.PlanID,
		"weekNumber": w.Number,
		"startDate":  isoTime(w.StartDate),
		"endDate":    isoTime(w.EndDate),
		"notes":      w.Notes,
		"completed":  w.Completed,
	}
	if withGoals {
		goals := make([]any, 0, len(w.Goals))
		for _, g := range w.Goals {
			goals = append(goals, encodeGoal(g))
		}
		m["goals"] = goals
	}
	return m
}

func planCounters(p *domain.Plan) (tg, cg, tt, ct int) {
	if len(p.Weeks) == 0 {
		return p.TotalGoals, p.CompletedGoals, p.TotalTasks, p.CompletedTasks
	}
	for _, w := range p.Weeks {
		for _, g := range w.Goals {
			tg++
			if g.Completed {
				cg++
			}
			for _, t := range g.Tasks {
				tt++
				if t.Completed {
					ct++
				}
			}
		}
	}
	return
}

func encodePlanSummary(p *domain.Plan) map[string]any {
	tg, cg, tt, ct := planCounters(p)
	rate := 0
	if tg > 0 {
		rate = cg * 100 / tg
	}
	return map[string]any{
		"_id":            p.ID,
		"title":          p.Title,
		"description":    p.Description,
		"startDate":      isoTime(p.StartDate),
		"endDate":        isoTime(p.EndDate),
		"status":         string(p.Status),
		"year":           p.Year,
		"tags":           p.Tags,
		"totalGoals":     tg,
		"completedGoals": cg,
		"totalTasks":     tt,
		"completedTasks": ct,
		"completionRate": rate,
	}
}

// --- lookups, called with f.mu held ---

func (f *FakeAPI) week(r *http.Request) (*domain.Plan, *domain.Week, bool) {
	p, ok := f.plans[r.PathValue("pid")]
	if !ok {
		return nil, nil, false
	}
	wid := r.PathValue("wid")
	for i := range p.Weeks {
		if p.Weeks[i].ID == wid {
			return p, &p.Weeks[i], true
		}
	}
	return nil, nil, false
}

func (f *FakeAPI) goal(r *http.Request) (*domain.Plan, *domain.Week, int, bool) {
	p, w, ok := f.week(r)
	if !ok {
		return nil, nil, 0, false
	}
	gid := r.PathValue("gid")
	for i := range w.Goals {
		if w.Goals[i].ID == gid {
			return p, w, i, true
		}
	}
	return nil, nil, 0, false
}

func (f *FakeAPI) task(r *http.Request) (*domain.Goal, int, bool) {
	_, w, gi, ok := f.goal(r)
	if !ok {
		return nil, 0, false
	}
	g := &w.Goals[gi]
	tid := r.PathValue("tid")
	for i := range g.Tasks {
		if g.Tasks[i].ID == tid {
			return g, i, true
		}
	}
	return nil, 0, false
}

func decodeBody(r *http.Request) map[string]any {
	var m map[string]any
	_ = json.NewDecoder(r.Body).Decode(&m)
	if m == nil {
		m = map[string]any{}
	}
	return m
}

func str(m map[string]any, key string) (string, bool) {
	v, ok := m[key].(string)
	return v, ok
}

func parseISO(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

// --- plans ---

func (f *FakeAPI) listPlans(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	status := r.URL.Query().Get("status")
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))
	out := []any{}
	for _, id := range f.order {
		p := f.plans[id]
		if status != "" && string(p.Status) != status {
			continue
		}
		if year != 0 && p.Year != year {
			continue
		}
		out = append(out, encodePlanSummary(p))
	}
	f.ok(w, "plans", out)
}

func (f *FakeAPI) createPlan(w http.ResponseWriter, r *http.Request) {
	body := decodeBody(r)
	title, _ := str(body, "title")
	if strings.TrimSpace(title) == "" {
		writeEnvelope(w, http.StatusBadRequest, false, nil, "title is required")
		return
	}
	start, _ := str(body, "startDate")
	p := NewTestPlan(title, WithPlanStatus(domain.PlanDraft), WithStartDate(parseISO(start)))
	if desc, ok := str(body, "description"); ok {
		p.Description = desc
	}
	f.AddPlan(p)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ok(w, "plan", encodePlanSummary(f.plans[p.ID]))
}

func (f *FakeAPI) overview(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var plans, active, completed, archived, draft, tg, cg, tt, ct int
	for _, p := range f.plans {
		plans++
		switch p.Status {
		case domain.PlanActive:
			active++
		case domain.PlanCompleted:
			completed++
		case domain.PlanArchived:
			archived++
		case domain.PlanDraft:
			draft++
		}
		a, b, c, d := planCounters(p)
		tg, cg, tt, ct = tg+a, cg+b, tt+c, ct+d
	}
	writeEnvelope(w, http.StatusOK, true, map[string]any{
		"overview": map[string]any{
			"plans": map[string]any{
				"totalPlans": plans, "activePlans": active, "completedPlans": completed,
				"archivedPlans": archived, "draftPlans": draft,
			},
			"goals": map[string]any{"totalGoals": tg, "completedGoals": cg},
			"tasks": map[string]any{"totalTasks": tt, "completedTasks": ct},
		},
	}, "")
}

func (f *FakeAPI) getPlan(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.plans[r.PathValue("id")]
	if !ok {
		notFound(w, "plan")
		return
	}
	weeks := []any{}
	for _, wk := range p.Weeks {
		weeks = append(weeks, encodeWeek(wk, f.EmbedGoals))
	}
	if f.FlatPayloads {
		m := encodePlanSummary(p)
		m["weeks"] = weeks
		writeEnvelope(w, http.StatusOK, true, m, "")
		return
	}
	writeEnvelope(w, http.StatusOK, true, map[string]any{"plan": encodePlanSummary(p), "weeks": weeks}, "")
}

func (f *FakeAPI) updatePlan(w http.ResponseWriter, r *http.Request) {
	body := decodeBody(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.plans[r.PathValue("id")]
	if !ok {
		notFound(w, "plan")
		return
	}
	if v, ok := str(body, "title"); ok {
		p.Title = v
	}
	if v, ok := str(body, "description"); ok {
		p.Description = v
	}
	if v, ok := str(body, "status"); ok {
		p.Status = domain.PlanStatus(v)
		if p.Status == domain.PlanArchived {
			now := time.Now().UTC()
			p.ArchivedAt = &now
		}
	}
	f.ok(w, "plan", encodePlanSummary(p))
}

func (f *FakeAPI) deletePlan(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := r.PathValue("id")
	if _, ok := f.plans[id]; !ok {
		notFound(w, "plan")
		return
	}
	delete(f.plans, id)
	f.order = slices.DeleteFunc(f.order, func(s string) bool { return s == id })
	writeEnvelope(w, http.StatusOK, true, nil, "deleted")
}

func (f *FakeAPI) activatePlan(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.plans[r.PathValue("id")]
	if !ok {
		notFound(w, "plan")
		return
	}
	for _, other := range f.plans {
		if other.Status == domain.PlanActive {
			other.Status = domain.PlanDraft
		}
	}
	p.Status = domain.PlanActive
	f.ok(w, "plan", encodePlanSummary(p))
}

func (f *FakeAPI) listWeeks(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.plans[r.PathValue("id")]
	if !ok {
		notFound(w, "plan")
		return
	}
	weeks := []any{}
	for _, wk := range p.Weeks {
		weeks = append(weeks, encodeWeek(wk, false))
	}
	f.ok(w, "weeks", weeks)
}

func (f *FakeAPI) planStats(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.plans[r.PathValue("id")]
	if !ok {
		notFound(w, "plan")
		return
	}
	tg, cg, tt, ct := planCounters(p)
	writeEnvelope(w, http.StatusOK, true, map[string]any{
		"totalGoals": tg, "completedGoals": cg, "totalTasks": tt, "completedTasks": ct,
	}, "")
}

// --- goals ---

func (f *FakeAPI) listGoals(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, wk, ok := f.week(r)
	if !ok {
		notFound(w, "week")
		return
	}
	goals := []any{}
	for _, g := range wk.Goals {
		goals = append(goals, encodeGoal(g))
	}
	f.ok(w, "goals", goals)
}

func (f *FakeAPI) createGoal(w http.ResponseWriter, r *http.Request) {
	body := decodeBody(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	_, wk, ok := f.week(r)
	if !ok {
		notFound(w, "week")
		return
	}
	title, _ := str(body, "title")
	g := NewTestGoal(title)
	g.WeekID = wk.ID
	g.Tasks = []domain.Task{}
	if v, ok := str(body, "description"); ok {
		g.Description = v
	}
	if v, ok := str(body, "category"); ok {
		if c, err := domain.ParseCategory(v); err == nil {
			g.Category = c
		}
	}
	if v, ok := str(body, "priority"); ok {
		g.Priority = domain.Priority(v)
	}
	wk.Goals = append(wk.Goals, g)
	f.ok(w, "goal", encodeGoal(g))
}

func (f *FakeAPI) getGoal(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, wk, i, ok := f.goal(r)
	if !ok {
		notFound(w, "goal")
		return
	}
	f.ok(w, "goal", encodeGoal(wk.Goals[i]))
}

func (f *FakeAPI) updateGoal(w http.ResponseWriter, r *http.Request) {
	body := decodeBody(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	_, wk, i, ok := f.goal(r)
	if !ok {
		notFound(w, "goal")
		return
	}
	g := &wk.Goals[i]
	if v, ok := str(body, "title"); ok {
		g.Title = v
	}
	if v, ok := str(body, "description"); ok {
		g.Description = v
	}
	if v, ok := str(body, "category"); ok {
		if c, err := domain.ParseCategory(v); err == nil {
			g.Category = c
		}
	}
	if v, ok := body["completed"].(bool); ok {
		g.Completed = v
	}
	f.ok(w, "goal", encodeGoal(*g))
}

func (f *FakeAPI) deleteGoal(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, wk, i, ok := f.goal(r)
	if !ok {
		notFound(w, "goal")
		return
	}
	wk.Goals = slices.Delete(wk.Goals, i, i+1)
	writeEnvelope(w, http.StatusOK, true, nil, "deleted")
}

func (f *FakeAPI) completeGoal(done bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		_, wk, i, ok := f.goal(r)
		if !ok {
			notFound(w, "goal")
			return
		}
		wk.Goals[i].Completed = done
		f.ok(w, "goal", encodeGoal(wk.Goals[i]))
	}
}

// --- tasks ---

func (f *FakeAPI) listTasks(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, wk, i, ok := f.goal(r)
	if !ok {
		notFound(w, "goal")
		return
	}
	tasks := []any{}
	for _, t := range wk.Goals[i].Tasks {
		tasks = append(tasks, encodeTask(t))
	}
	f.ok(w, "tasks", tasks)
}

func (f *FakeAPI) createTask(w http.ResponseWriter, r *http.Request) {
	body := decodeBody(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	_, wk, i, ok := f.goal(r)
	if !ok {
		notFound(w, "goal")
		return
	}
	title, _ := str(body, "title")
	t := domain.Task{ID: uuid.NewString(), GoalID: wk.Goals[i].ID, Title: title, Priority: domain.PriorityMedium}
	if v, ok := str(body, "priority"); ok {
		t.Priority = domain.Priority(v)
	}
	wk.Goals[i].Tasks = append(wk.Goals[i].Tasks, t)
	f.ok(w, "task", encodeTask(t))
}

func (f *FakeAPI) getTask(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, i, ok := f.task(r)
	if !ok {
		notFound(w, "task")
		return
	}
	f.ok(w, "task", encodeTask(g.Tasks[i]))
}

func (f *FakeAPI) updateTask(w http.ResponseWriter, r *http.Request) {
	body := decodeBody(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	g, i, ok := f.task(r)
	if !ok {
		notFound(w, "task")
		return
	}
	t := &g.Tasks[i]
	if v, ok := str(body, "title"); ok {
		t.Title = v
	}
	if v, ok := str(body, "description"); ok {
		t.Description = v
	}
	if v, ok := str(body, "priority"); ok {
		t.Priority = domain.Priority(v)
	}
	if v, ok := body["completed"].(bool); ok {
		t.Completed = v
	}
	f.ok(w, "task", encodeTask(*t))
}

func (f *FakeAPI) deleteTask(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, i, ok := f.task(r)
	if !ok {
		notFound(w, "task")
		return
	}
	g.Tasks = slices.Delete(g.Tasks, i, i+1)
	writeEnvelope(w, http.StatusOK, true, nil, "deleted")
}

func (f *FakeAPI) completeTask(done bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		g, i, ok := f.task(r)
		if !ok {
			notFound(w, "task")
			return
		}
		g.Tasks[i].Completed = done
		f.ok(w, "task", encodeTask(g.Tasks[i]))
	}
}

// --- auth ---

func encodeUser(u domain.User) map[string]any {
	return map[string]any{"_id": u.ID, "name": u.Name, "email": u.Email}
}

func (f *FakeAPI) currentUser(r *http.Request) (fakeUser, bool) {
	tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	email, ok := f.tokens[tok]
	if !ok {
		return fakeUser{}, false
	}
	u, ok := f.users[email]
	return u, ok
}

func (f *FakeAPI) issue(w http.ResponseWriter, u domain.User) {
	tok := "tok-" + uuid.NewString()
	f.tokens[tok] = u.Email
	writeEnvelope(w, http.StatusOK, true, map[string]any{"token": tok, "user": encodeUser(u)}, "")
}

func (f *FakeAPI) login(w http.ResponseWriter, r *http.Request) {
	body := decodeBody(r)
	email, _ := str(body, "email")
	password, _ := str(body, "password")
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[email]
	if !ok || u.password != password {
		writeEnvelope(w, http.StatusUnauthorized, false, nil, "invalid credentials")
		return
	}
	f.issue(w, u.user)
}

func (f *FakeAPI) register(w http.ResponseWriter, r *http.Request) {
	body := decodeBody(r)
	name, _ := str(body, "name")
	email, _ := str(body, "email")
	password, _ := str(body, "password")
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[email]; exists {
		writeEnvelope(w, http.StatusBadRequest, false, nil, "email already registered")
		return
	}
	u := domain.User{ID: uuid.NewString(), Name: name, Email: email}
	f.users[email] = fakeUser{user: u, password: password}
	f.issue(w, u)
}

func (f *FakeAPI) me(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.currentUser(r)
	if !ok {
		writeEnvelope(w, http.StatusUnauthorized, false, nil, "invalid token")
		return
	}
	f.ok(w, "user", encodeUser(u.user))
}

func (f *FakeAPI) profile(w http.ResponseWriter, r *http.Request) {
	body := decodeBody(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.currentUser(r)
	if !ok {
		writeEnvelope(w, http.StatusUnauthorized, false, nil, "invalid token")
		return
	}
	if v, ok := str(body, "name"); ok {
		u.user.Name = v
	}
	f.users[u.user.Email] = u
	f.ok(w, "user", encodeUser(u.user))
}

func (f *FakeAPI) changePassword(w http.ResponseWriter, r *http.Request) {
	body := decodeBody(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.currentUser(r)
	if !ok {
		writeEnvelope(w, http.StatusUnauthorized, false, nil, "invalid token")
		return
	}
	current, _ := str(body, "currentPassword")
	if current != u.password {
		writeEnvelope(w, http.StatusBadRequest, false, nil, "current password is incorrect")
		return
	}
	u.password, _ = str(body, "newPassword")
	f.users[u.user.Email] = u
	writeEnvelope(w, http.StatusOK, true, nil, "password changed")
}

func (f *FakeAPI) logout(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
	writeEnvelope(w, http.StatusOK, true, nil, "logged out")
}
