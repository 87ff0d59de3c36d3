package domain

import (
	"fmt"
	"strings"
)

// WeeksPerPlan is the fixed length of a plan.
const WeeksPerPlan = 12

type PlanStatus string

const (
	PlanDraft     PlanStatus = "draft"
	PlanActive    PlanStatus = "active"
	PlanCompleted PlanStatus = "completed"
	PlanArchived  PlanStatus = "archived"
)

// ValidPlanStatuses is the canonical set of accepted plan status strings.
var ValidPlanStatuses = map[PlanStatus]bool{
	PlanDraft: true, PlanActive: true, PlanCompleted: true, PlanArchived: true,
}

type Category string

const (
	CategoryHealth        Category = "health"
	CategoryCareer        Category = "career"
	CategoryFinance       Category = "finance"
	CategoryRelationships Category = "relationships"
	CategoryHobbies       Category = "hobbies"
	CategoryOther         Category = "other"
)

// Categories lists goal categories in display order.
var Categories = []Category{
	CategoryHealth,
	CategoryCareer,
	CategoryFinance,
	CategoryRelationships,
	CategoryHobbies,
	CategoryOther,
}

// apiCategories maps the category values stored by the API to the
// canonical names used inside the client.
var apiCategories = map[string]Category{
	"saude":           CategoryHealth,
	"carreira":        CategoryCareer,
	"financas":        CategoryFinance,
	"relacionamentos": CategoryRelationships,
	"hobbies":         CategoryHobbies,
	"outros":          CategoryOther,
}

// WireValue returns the category as the API stores it.
func (c Category) WireValue() string {
	for wire, canonical := range apiCategories {
		if canonical == c {
			return wire
		}
	}
	return "outros"
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePlanStatus accepts a status name case-insensitively.
func ParsePlanStatus(s string) (PlanStatus, error) {
	st := PlanStatus(strings.ToLower(strings.TrimSpace(s)))
	if !ValidPlanStatuses[st] {
		return "", fmt.Errorf("unknown plan status %q (want draft, active, completed or archived)", s)
	}
	return st, nil
}

// ParseCategory accepts either the canonical English name or the value
// used by the API.
func ParseCategory(s string) (Category, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories {
		if string(c) == v {
			return c, nil
		}
	}
	if c, ok := apiCategories[v]; ok {
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// ParsePriority accepts low, medium or high.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	default:
		return "", fmt.Errorf("unknown priority %q (want low, medium or high)", s)
	}
}
