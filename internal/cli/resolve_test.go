package cli

import (
	"testing"

	"github.com/alexanderramin/twelveweeks/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchID(t *testing.T) {
	ids := []string{"abc123", "abd456", "abc"}

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr string
	}{
		{name: "exact beats prefix", input: "abc", want: "abc"},
		{name: "unique prefix", input: "abd", want: "abd456"},
		{name: "ambiguous prefix", input: "ab", wantErr: "ambiguous (3 matches)"},
		{name: "unknown", input: "zz", wantErr: "goal not found"},
		{name: "blank", input: "  ", wantErr: "goal ID is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := matchID("goal", ids, tt.input)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolvePlanID_NoActivePlan(t *testing.T) {
	app, fake := testApp(t)
	plan, _ := seedPlan(t, fake, "Spring sprint")
	stored, _ := fake.Plan(plan.ID)
	stored.Status = domain.PlanDraft
	fake.AddPlan(stored)

	_, err := executeCmd(t, app, "goal", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no plan selected")
}

func TestFlagValues(t *testing.T) {
	var c domain.Category
	require.NoError(t, newCategoryValue(&c).Set("Saude"))
	assert.Equal(t, domain.CategoryHealth, c)
	assert.Error(t, newCategoryValue(&c).Set("chores"))

	var p domain.Priority
	require.NoError(t, newPriorityValue(&p).Set("HIGH"))
	assert.Equal(t, domain.PriorityHigh, p)

	var s domain.PlanStatus
	require.NoError(t, newStatusValue(&s).Set("completed"))
	assert.Equal(t, domain.PlanCompleted, s)
	assert.Equal(t, "status", newStatusValue(&s).Type())
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"fitness", "work"}, splitTags(" fitness, ,work "))
	assert.Nil(t, splitTags(""))
}
