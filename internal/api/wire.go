package api

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/twelveweeks/internal/domain"
	"github.com/alexanderramin/twelveweeks/internal/stats"
)

// wireTime accepts RFC 3339 timestamps, bare dates, empty strings and null.
type wireTime struct {
	time.Time
}

var wireTimeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

func (t *wireTime) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	for _, layout := range wireTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

func (t wireTime) ptr() *time.Time {
	if t.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}

// wireID covers documents that carry either "id" or "_id".
type wireID struct {
	ID      string `json:"id"`
	MongoID string `json:"_id"`
}

func (w wireID) id() string {
	return cmp.Or(w.ID, w.MongoID)
}

type wireTask struct {
	wireID
	GoalID      string   `json:"goalId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Completed   bool     `json:"completed"`
	Priority    string   `json:"priority"`
	DueDate     wireTime `json:"dueDate"`
	CompletedAt wireTime `json:"completedAt"`
	CreatedAt   wireTime `json:"createdAt"`
	UpdatedAt   wireTime `json:"updatedAt"`
}

type wireGoal struct {
	wireID
	WeekID      string     `json:"weekId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Priority    string     `json:"priority"`
	Completed   bool       `json:"completed"`
	TargetDate  wireTime   `json:"targetDate"`
	CompletedAt wireTime   `json:"completedAt"`
	Tasks       []wireTask `json:"tasks"`
	CreatedAt   wireTime   `json:"createdAt"`
	UpdatedAt   wireTime   `json:"updatedAt"`
}

type wireWeek struct {
	wireID
	PlanID     string     `json:"planId"`
	WeekNumber int        `json:"weekNumber"`
	StartDate  wireTime   `json:"startDate"`
	EndDate    wireTime   `json:"endDate"`
	Notes      string     `json:"notes"`
	Completed  bool       `json:"completed"`
	Goals      []wireGoal `json:"goals"`
}

type wirePlan struct {
	wireID
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	StartDate      wireTime   `json:"startDate"`
	EndDate        wireTime   `json:"endDate"`
	Status         string     `json:"status"`
	Year           int        `json:"year"`
	Tags           []string   `json:"tags"`
	ArchivedAt     wireTime   `json:"archivedAt"`
	CompletionRate float64    `json:"completionRate"`
	TotalGoals     int        `json:"totalGoals"`
	CompletedGoals int        `json:"completedGoals"`
	TotalTasks     int        `json:"totalTasks"`
	CompletedTasks int        `json:"completedTasks"`
	Weeks          []wireWeek `json:"weeks"`
	CreatedAt      wireTime   `json:"createdAt"`
	UpdatedAt      wireTime   `json:"updatedAt"`
}

type wireUser struct {
	wireID
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	CreatedAt wireTime `json:"createdAt"`
	UpdatedAt wireTime `json:"updatedAt"`
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, fmt.Sprintf(format, args...))
}

func (w wireTask) toDomain() (domain.Task, error) {
	id := w.id()
	if id == "" {
		return domain.Task{}, malformed("task without id")
	}
	priority, err := wirePriority(w.Priority)
	if err != nil {
		return domain.Task{}, fmt.Errorf("task %s: %w", id, err)
	}
	return domain.Task{
		ID:          id,
		GoalID:      w.GoalID,
		Title:       w.Title,
		Description: w.Description,
		Completed:   w.Completed,
		Priority:    priority,
		DueDate:     w.DueDate.ptr(),
		CompletedAt: w.CompletedAt.ptr(),
		CreatedAt:   w.CreatedAt.Time,
		UpdatedAt:   w.UpdatedAt.Time,
	}, nil
}

func (w wireGoal) toDomain() (domain.Goal, error) {
	id := w.id()
	if id == "" {
		return domain.Goal{}, malformed("goal without id")
	}
	category, err := wireCategory(w.Category)
	if err != nil {
		return domain.Goal{}, fmt.Errorf("goal %s: %w", id, err)
	}
	priority, err := wirePriority(w.Priority)
	if err != nil {
		return domain.Goal{}, fmt.Errorf("goal %s: %w", id, err)
	}
	g := domain.Goal{
		ID:          id,
		WeekID:      w.WeekID,
		Title:       w.Title,
		Description: w.Description,
		Category:    category,
		Priority:    priority,
		Completed:   w.Completed,
		TargetDate:  w.TargetDate.ptr(),
		CompletedAt: w.CompletedAt.ptr(),
		CreatedAt:   w.CreatedAt.Time,
		UpdatedAt:   w.UpdatedAt.Time,
	}
	if w.Tasks != nil {
		g.Tasks = make([]domain.Task, 0, len(w.Tasks))
		for _, wt := range w.Tasks {
			t, err := wt.toDomain()
			if err != nil {
				return domain.Goal{}, err
			}
			if t.GoalID == "" {
				t.GoalID = id
			}
			g.Tasks = append(g.Tasks, t)
		}
	}
	return g, nil
}

func (w wireWeek) toDomain() (domain.Week, error) {
	id := w.id()
	if id == "" {
		return domain.Week{}, malformed("week without id")
	}
	if w.WeekNumber < 1 || w.WeekNumber > domain.WeeksPerPlan {
		return domain.Week{}, malformed("week %s has number %d", id, w.WeekNumber)
	}
	wk := domain.Week{
		ID:        id,
		PlanID:    w.PlanID,
		Number:    w.WeekNumber,
		StartDate: w.StartDate.Time,
		EndDate:   w.EndDate.Time,
		Notes:     w.Notes,
		Completed: w.Completed,
	}
	if w.Goals == nil {
		return wk, nil
	}
	goals, err := convertGoals(w.Goals)
	if err != nil {
		return domain.Week{}, err
	}
	for i := range goals {
		if goals[i].WeekID == "" {
			goals[i].WeekID = id
		}
	}
	wk.Goals = goals
	return wk, nil
}

func (w wirePlan) toDomain() (domain.Plan, error) {
	id := w.id()
	if id == "" {
		return domain.Plan{}, malformed("plan without id")
	}
	if err := checkCounters(w.TotalGoals, w.CompletedGoals, w.TotalTasks, w.CompletedTasks); err != nil {
		return domain.Plan{}, fmt.Errorf("plan %s: %w", id, err)
	}
	if w.CompletionRate < 0 || w.CompletionRate > 100 {
		return domain.Plan{}, malformed("plan %s has completion rate %v", id, w.CompletionRate)
	}
	status, err := wireStatus(w.Status)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("plan %s: %w", id, err)
	}

	p := domain.Plan{
		ID:             id,
		Title:          w.Title,
		Description:    w.Description,
		StartDate:      w.StartDate.Time,
		EndDate:        w.EndDate.Time,
		Status:         status,
		Year:           w.Year,
		Tags:           w.Tags,
		ArchivedAt:     w.ArchivedAt.ptr(),
		TotalGoals:     w.TotalGoals,
		CompletedGoals: w.CompletedGoals,
		TotalTasks:     w.TotalTasks,
		CompletedTasks: w.CompletedTasks,
		CompletionRate: stats.CompletionRate(w.TotalGoals, w.CompletedGoals),
		CreatedAt:      w.CreatedAt.Time,
		UpdatedAt:      w.UpdatedAt.Time,
	}
	if p.Year == 0 && !p.StartDate.IsZero() {
		p.Year = p.StartDate.Year()
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	weeks, err := convertWeeks(w.Weeks)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("plan %s: %w", id, err)
	}
	for i := range weeks {
		if weeks[i].PlanID == "" {
			weeks[i].PlanID = id
		}
	}
	p.Weeks = weeks
	return p, nil
}

func (w wireUser) toDomain() (domain.User, error) {
	id := w.id()
	if id == "" {
		return domain.User{}, malformed("user without id")
	}
	return domain.User{
		ID:        id,
		Name:      w.Name,
		Email:     w.Email,
		CreatedAt: w.CreatedAt.Time,
		UpdatedAt: w.UpdatedAt.Time,
	}, nil
}

func convertWeeks(in []wireWeek) ([]domain.Week, error) {
	out := make([]domain.Week, 0, len(in))
	for _, ww := range in {
		wk, err := ww.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, wk)
	}
	return out, nil
}

func convertGoals(in []wireGoal) ([]domain.Goal, error) {
	out := make([]domain.Goal, 0, len(in))
	for _, wg := range in {
		g, err := wg.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

func convertTasks(in []wireTask) ([]domain.Task, error) {
	out := make([]domain.Task, 0, len(in))
	for _, wt := range in {
		t, err := wt.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func checkCounters(totalGoals, completedGoals, totalTasks, completedTasks int) error {
	if totalGoals < 0 || completedGoals < 0 || totalTasks < 0 || completedTasks < 0 {
		return malformed("negative counter")
	}
	if completedGoals > totalGoals {
		return malformed("%d of %d goals completed", completedGoals, totalGoals)
	}
	if completedTasks > totalTasks {
		return malformed("%d of %d tasks completed", completedTasks, totalTasks)
	}
	return nil
}

// Absent enum fields take the API defaults. Values the API never sends are
// malformed.

func wireStatus(s string) (domain.PlanStatus, error) {
	if strings.TrimSpace(s) == "" {
		return domain.PlanDraft, nil
	}
	st, err := domain.ParsePlanStatus(s)
	if err != nil {
		return "", malformed("%v", err)
	}
	return st, nil
}

func wireCategory(s string) (domain.Category, error) {
	if strings.TrimSpace(s) == "" {
		return domain.CategoryOther, nil
	}
	c, err := domain.ParseCategory(s)
	if err != nil {
		return "", malformed("%v", err)
	}
	return c, nil
}

func wirePriority(s string) (domain.Priority, error) {
	if strings.TrimSpace(s) == "" {
		return domain.PriorityMedium, nil
	}
	p, err := domain.ParsePriority(s)
	if err != nil {
		return "", malformed("%v", err)
	}
	return p, nil
}

func jsonKind(data json.RawMessage) byte {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

// decodeList reads a list payload sent either as a bare array or as an
// object holding the array under key. A null or absent payload is empty.
func decodeList[W any](data json.RawMessage, key string) ([]W, error) {
	switch jsonKind(data) {
	case 0, 'n':
		return nil, nil
	case '[':
		var out []W
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, malformed("%s: %v", key, err)
		}
		return out, nil
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil, malformed("%s: %v", key, err)
		}
		raw, ok := obj[key]
		if !ok {
			return nil, malformed("object without %q list", key)
		}
		if k := jsonKind(raw); k != '[' && k != 'n' {
			return nil, malformed("%q is not a list", key)
		}
		var out []W
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, malformed("%s: %v", key, err)
		}
		return out, nil
	default:
		return nil, malformed("unexpected %s payload", key)
	}
}

// decodeOne reads a single document sent either flat or wrapped under key.
func decodeOne[W any](data json.RawMessage, key string) (W, error) {
	var out W
	if jsonKind(data) != '{' {
		return out, malformed("expected %s object", key)
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return out, malformed("%s: %v", key, err)
	}
	if raw, ok := obj[key]; ok {
		if jsonKind(raw) != '{' {
			return out, malformed("%q is not an object", key)
		}
		data = raw
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, malformed("%s: %v", key, err)
	}
	return out, nil
}

// decodePlanDetail accepts {plan, weeks} as well as a flat plan document
// carrying its own weeks.
func decodePlanDetail(data json.RawMessage) (domain.Plan, error) {
	var wrapped struct {
		Plan  json.RawMessage `json:"plan"`
		Weeks []wireWeek      `json:"weeks"`
	}
	if jsonKind(data) != '{' {
		return domain.Plan{}, malformed("expected plan object")
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return domain.Plan{}, malformed("plan: %v", err)
	}

	var wp wirePlan
	if jsonKind(wrapped.Plan) == '{' {
		if err := json.Unmarshal(wrapped.Plan, &wp); err != nil {
			return domain.Plan{}, malformed("plan: %v", err)
		}
		if len(wp.Weeks) == 0 {
			wp.Weeks = wrapped.Weeks
		}
	} else if err := json.Unmarshal(data, &wp); err != nil {
		return domain.Plan{}, malformed("plan: %v", err)
	}
	return wp.toDomain()
}

type wireStatsOverview struct {
	Overview *struct {
		Plans struct {
			TotalPlans     int `json:"totalPlans"`
			DraftPlans     int `json:"draftPlans"`
			ActivePlans    int `json:"activePlans"`
			CompletedPlans int `json:"completedPlans"`
			ArchivedPlans  int `json:"archivedPlans"`
		} `json:"plans"`
		Goals struct {
			TotalGoals     int `json:"totalGoals"`
			CompletedGoals int `json:"completedGoals"`
		} `json:"goals"`
		Tasks struct {
			TotalTasks     int `json:"totalTasks"`
			CompletedTasks int `json:"completedTasks"`
		} `json:"tasks"`
	} `json:"overview"`
}

func decodeSummary(data json.RawMessage) (stats.Summary, error) {
	var w wireStatsOverview
	if jsonKind(data) != '{' {
		return stats.Summary{}, malformed("expected stats object")
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return stats.Summary{}, malformed("stats: %v", err)
	}
	if w.Overview == nil {
		return stats.Summary{}, malformed("stats without overview")
	}
	o := w.Overview
	if err := checkCounters(o.Goals.TotalGoals, o.Goals.CompletedGoals, o.Tasks.TotalTasks, o.Tasks.CompletedTasks); err != nil {
		return stats.Summary{}, err
	}
	s := stats.Summary{
		Totals: stats.Totals{
			TotalGoals:     o.Goals.TotalGoals,
			CompletedGoals: o.Goals.CompletedGoals,
			TotalTasks:     o.Tasks.TotalTasks,
			CompletedTasks: o.Tasks.CompletedTasks,
		},
		TotalPlans:     o.Plans.TotalPlans,
		DraftPlans:     o.Plans.DraftPlans,
		ActivePlans:    o.Plans.ActivePlans,
		CompletedPlans: o.Plans.CompletedPlans,
		ArchivedPlans:  o.Plans.ArchivedPlans,
	}
	s.GoalCompletionRate = s.GoalRate()
	s.TaskCompletionRate = s.TaskRate()
	return s, nil
}

type wireTotals struct {
	TotalGoals     int `json:"totalGoals"`
	CompletedGoals int `json:"completedGoals"`
	TotalTasks     int `json:"totalTasks"`
	CompletedTasks int `json:"completedTasks"`
}

func decodeTotals(data json.RawMessage) (stats.Totals, error) {
	w, err := decodeOne[wireTotals](data, "stats")
	if err != nil {
		return stats.Totals{}, err
	}
	if err := checkCounters(w.TotalGoals, w.CompletedGoals, w.TotalTasks, w.CompletedTasks); err != nil {
		return stats.Totals{}, err
	}
	return stats.Totals(w), nil
}
