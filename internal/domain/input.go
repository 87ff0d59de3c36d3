package domain

import "time"

// PlanInput holds the fields accepted when creating a plan.
type PlanInput struct {
	Title       string
	Description string
	StartDate   time.Time
	EndDate     *time.Time // nil means StartDate + 12 weeks
	Year        int        // 0 means the start date's year
	Tags        []string
}

// Normalize trims text fields and fills derived defaults.
func (in *PlanInput) Normalize() {
	in.Title = trim(in.Title)
	in.Description = trim(in.Description)
	if in.EndDate == nil && !in.StartDate.IsZero() {
		end := in.StartDate.AddDate(0, 0, 7*WeeksPerPlan)
		in.EndDate = &end
	}
	if in.Year == 0 && !in.StartDate.IsZero() {
		in.Year = in.StartDate.Year()
	}
}

// PlanUpdate carries partial plan changes. Nil fields are left untouched.
type PlanUpdate struct {
	Title       *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	Status      *PlanStatus
	Tags        []string
}

type GoalInput struct {
	Title       string
	Description string
	Category    Category
	Priority    Priority
	TargetDate  *time.Time
}

// Normalize trims text fields and applies default category and priority.
func (in *GoalInput) Normalize() {
	in.Title = trim(in.Title)
	in.Description = trim(in.Description)
	if in.Category == "" {
		in.Category = CategoryOther
	}
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
}

type GoalUpdate struct {
	Title       *string
	Description *string
	Category    *Category
	Priority    *Priority
	TargetDate  *time.Time
	Completed   *bool
}

type TaskInput struct {
	Title       string
	Description string
	Priority    Priority
	DueDate     *time.Time
}

// Normalize trims text fields and applies the default priority.
func (in *TaskInput) Normalize() {
	in.Title = trim(in.Title)
	in.Description = trim(in.Description)
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
}

type TaskUpdate struct {
	Title       *string
	Description *string
	Priority    *Priority
	DueDate     *time.Time
	Completed   *bool
}

type Credentials struct {
	Email    string
	Password string
}

type Registration struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

type ProfileUpdate struct {
	Name  *string
	Email *string
}

type PasswordChange struct {
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}
