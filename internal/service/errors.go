package service

import "errors"

var (
	// ErrNotLoggedIn indicates no stored session exists.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrDemoPlan indicates a write against the offline demo plan.
	ErrDemoPlan = errors.New("the demo plan is read-only")

	// ErrWeekNotFound indicates a week number the plan does not have.
	ErrWeekNotFound = errors.New("week not found")
)
