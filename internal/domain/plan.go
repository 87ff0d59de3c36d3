package domain

import "time"

type Plan struct {
	ID          string
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	Status      PlanStatus
	Year        int
	Tags        []string
	ArchivedAt  *time.Time

	// Weeks is empty when only the plan summary was fetched.
	Weeks []Week

	// Rollups computed by the API. Used when Weeks has not been loaded.
	TotalGoals     int
	CompletedGoals int
	TotalTasks     int
	CompletedTasks int
	CompletionRate int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasDetail reports whether nested week data is present.
func (p *Plan) HasDetail() bool {
	return len(p.Weeks) > 0
}

// WeekByNumber returns the week with the given sequence number.
func (p *Plan) WeekByNumber(n int) (*Week, bool) {
	for i := range p.Weeks {
		if p.Weeks[i].Number == n {
			return &p.Weeks[i], true
		}
	}
	return nil, false
}

// TotalWeeks is the number of weeks in the plan, 12 when weeks are not loaded.
func (p *Plan) TotalWeeks() int {
	if len(p.Weeks) > 0 {
		return len(p.Weeks)
	}
	return WeeksPerPlan
}

// DisplayID returns the first 8 characters of the ID.
func (p *Plan) DisplayID() string {
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}

type Week struct {
	ID        string
	PlanID    string
	Number    int
	StartDate time.Time
	EndDate   time.Time
	Notes     string
	Goals     []Goal // nil until loaded
	Completed bool
}

type Goal struct {
	ID          string
	WeekID      string
	Title       string
	Description string
	Category    Category
	Priority    Priority
	Completed   bool
	TargetDate  *time.Time
	CompletedAt *time.Time

	// Tasks is nil when the API omitted the field.
	Tasks []Task

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Task struct {
	ID          string
	GoalID      string
	Title       string
	Description string
	Completed   bool
	Priority    Priority
	DueDate     *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
