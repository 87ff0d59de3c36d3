package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegistration() Registration {
	return Registration{
		Name:            "Ana",
		Email:           "ana@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}
}

func TestRegistration_Valid(t *testing.T) {
	assert.NoError(t, validRegistration().Validate())
}

func TestRegistration_PasswordMismatch(t *testing.T) {
	r := validRegistration()
	r.ConfirmPassword = "secret2"

	err := r.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "confirm_password", fe.Field)
	assert.Contains(t, err.Error(), "does not match")
}

func TestRegistration_CollectsAllFieldErrors(t *testing.T) {
	r := Registration{Name: strings.Repeat("n", MaxNameLen+1), Email: "nope", Password: "abc"}

	err := r.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "name: must be at most 100 characters")
	assert.Contains(t, msg, "email: is not a valid address")
	assert.Contains(t, msg, "password: must be at least 6 characters")
	assert.Contains(t, msg, "confirm_password: is required")
}

func TestCredentials_RequiresPassword(t *testing.T) {
	err := Credentials{Email: "ana@example.com"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password: is required")
}

func TestEmail_DisplayNameFormRejected(t *testing.T) {
	err := Credentials{Email: "Ana <ana@example.com>", Password: "x"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email")
}

func TestPasswordChange_Mismatch(t *testing.T) {
	err := PasswordChange{CurrentPassword: "old", NewPassword: "newpass", ConfirmPassword: "other"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "confirm_password: does not match")
}

func TestPlanInput_NormalizeDefaults(t *testing.T) {
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	in := PlanInput{Title: "  Q1 push  ", StartDate: start}
	in.Normalize()

	assert.Equal(t, "Q1 push", in.Title)
	require.NotNil(t, in.EndDate)
	assert.Equal(t, start.AddDate(0, 0, 84), *in.EndDate)
	assert.Equal(t, 2026, in.Year)
	assert.NoError(t, in.Validate())
}

func TestPlanInput_MissingTitleAndStart(t *testing.T) {
	err := PlanInput{Title: "   "}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title: is required")
	assert.Contains(t, err.Error(), "start_date: is required")
}

func TestPlanInput_EndBeforeStart(t *testing.T) {
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -1)
	err := PlanInput{Title: "x", StartDate: start, EndDate: &end}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "end_date")
}

func TestTaskInput_TitleTooLong(t *testing.T) {
	in := TaskInput{Title: strings.Repeat("t", MaxTitleLen+1), Priority: PriorityLow}
	err := in.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title: must be at most 200 characters")
}

func TestTaskInput_DescriptionTooLong(t *testing.T) {
	in := TaskInput{Title: "ok", Description: strings.Repeat("d", MaxDescriptionLen+1)}
	in.Normalize()
	err := in.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "description")
}

func TestGoalInput_NormalizeAppliesDefaults(t *testing.T) {
	in := GoalInput{Title: "Run 5k"}
	in.Normalize()
	assert.Equal(t, CategoryOther, in.Category)
	assert.Equal(t, PriorityMedium, in.Priority)
	assert.NoError(t, in.Validate())
}

func TestGoalUpdate_BadPriority(t *testing.T) {
	p := Priority("urgent")
	err := GoalUpdate{Priority: &p}.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}
