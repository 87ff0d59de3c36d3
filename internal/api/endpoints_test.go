package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/alexanderramin/twelveweeks/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func credentials(email, password string) domain.Credentials {
	return domain.Credentials{Email: email, Password: password}
}

func TestListPlans_NamedKeyAndRollups(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/plans", r.URL.Path)
		assert.Equal(t, "active", r.URL.Query().Get("status"))
		assert.Equal(t, "2025", r.URL.Query().Get("year"))
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"plans":[
			{"_id":"p1","title":"Q1","status":"active","startDate":"2025-01-06T00:00:00.000Z",
			 "totalGoals":5,"completedGoals":2,"totalTasks":10,"completedTasks":4,"completionRate":40}
		]}}`)
	})

	plans, err := client.ListPlans(context.Background(), PlanFilter{Status: domain.PlanActive, Year: 2025})
	require.NoError(t, err)
	require.Len(t, plans, 1)
	p := plans[0]
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, domain.PlanActive, p.Status)
	assert.Equal(t, 2025, p.Year)
	assert.Equal(t, 5, p.TotalGoals)
	assert.Equal(t, 4, p.CompletedTasks)
	assert.Equal(t, 40, p.CompletionRate)
	assert.False(t, p.HasDetail())
	assert.Equal(t, []string{}, p.Tags)
}

func TestListPlans_BareArrayAndDefaults(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		writeJSON(w, http.StatusOK, `{"success":true,"data":[{"id":"p2","title":"No status"}]}`)
	})

	plans, err := client.ListPlans(context.Background(), PlanFilter{})
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "p2", plans[0].ID)
	assert.Equal(t, domain.PlanDraft, plans[0].Status)
}

func TestListPlans_RejectsInconsistentCounters(t *testing.T) {
	bodies := []string{
		`{"success":true,"data":{"plans":[{"_id":"p1","totalGoals":1,"completedGoals":2}]}}`,
		`{"success":true,"data":{"plans":[{"_id":"p1","totalTasks":-1}]}}`,
		`{"success":true,"data":{"plans":[{"_id":"p1","completionRate":140}]}}`,
		`{"success":true,"data":{"plans":[{"title":"missing id"}]}}`,
		`{"success":true,"data":{"items":[]}}`,
		`{"success":true,"data":"plans"}`,
	}
	for _, body := range bodies {
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, body)
		})
		_, err := client.ListPlans(context.Background(), PlanFilter{})
		assert.ErrorIs(t, err, ErrMalformedResponse, body)
	}
}

func TestGetPlan_WrappedDetail(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/plans/p1", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"success":true,"data":{
			"plan":{"_id":"p1","title":"Q1","status":"active"},
			"weeks":[
				{"_id":"w1","weekNumber":1,"startDate":"2025-01-06","endDate":"2025-01-12"},
				{"_id":"w2","weekNumber":2}
			]}}`)
	})

	p, err := client.GetPlan(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, p.Weeks, 2)
	assert.Equal(t, "w1", p.Weeks[0].ID)
	assert.Equal(t, "p1", p.Weeks[0].PlanID)
	assert.Equal(t, time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC), p.Weeks[0].EndDate)
	assert.Empty(t, p.Weeks[1].Goals)
}

func TestGetPlan_FlatDetailWithNestedGoals(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"data":{
			"id":"p1","title":"Q1",
			"weeks":[{"id":"w1","weekNumber":1,"goals":[
				{"_id":"g1","title":"Run","category":"saude","completed":true,
				 "tasks":[{"_id":"t1","title":"5k","completed":true}]},
				{"_id":"g2","title":"Read"}
			]}]}}`)
	})

	p, err := client.GetPlan(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, p.Weeks, 1)
	goals := p.Weeks[0].Goals
	require.Len(t, goals, 2)
	assert.Equal(t, domain.CategoryHealth, goals[0].Category)
	assert.Equal(t, "w1", goals[0].WeekID)
	require.Len(t, goals[0].Tasks, 1)
	assert.Equal(t, "g1", goals[0].Tasks[0].GoalID)
	assert.Equal(t, domain.CategoryOther, goals[1].Category)
	assert.Equal(t, domain.PriorityMedium, goals[1].Priority)
	assert.Nil(t, goals[1].Tasks, "omitted tasks field stays nil")
}

func TestGetPlan_RejectsUnknownEnumValues(t *testing.T) {
	bodies := map[string]string{
		"status":   `{"success":true,"data":{"plan":{"_id":"p1","status":"paused"}}}`,
		"category": `{"success":true,"data":{"_id":"p1","weeks":[{"_id":"w1","weekNumber":1,"goals":[{"_id":"g1","category":"travel"}]}]}}`,
		"priority": `{"success":true,"data":{"_id":"p1","weeks":[{"_id":"w1","weekNumber":1,"goals":[{"_id":"g1","priority":"urgent"}]}]}}`,
		"task":     `{"success":true,"data":{"_id":"p1","weeks":[{"_id":"w1","weekNumber":1,"goals":[{"_id":"g1","tasks":[{"_id":"t1","priority":"asap"}]}]}]}}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, body)
			})
			_, err := client.GetPlan(context.Background(), "p1")
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestListPlans_CompletionRateFollowsCounters(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"rate omitted", `{"_id":"p1","totalGoals":4,"completedGoals":1}`, 25},
		{"rate disagrees", `{"_id":"p1","totalGoals":4,"completedGoals":1,"completionRate":90}`, 25},
		{"no goals", `{"_id":"p1","completionRate":60}`, 0},
		{"rounds half up", `{"_id":"p1","totalGoals":8,"completedGoals":3}`, 38},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, `{"success":true,"data":[`+tt.body+`]}`)
			})
			plans, err := client.ListPlans(context.Background(), PlanFilter{})
			require.NoError(t, err)
			require.Len(t, plans, 1)
			assert.Equal(t, tt.want, plans[0].CompletionRate)
		})
	}
}

func TestGetPlan_RejectsBadWeekNumber(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"plan":{"_id":"p1"},"weeks":[{"_id":"w1","weekNumber":13}]}}`)
	})
	_, err := client.GetPlan(context.Background(), "p1")
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestListWeeks(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/plans/p1/weeks", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"weeks":[{"_id":"w3","weekNumber":3}]}}`)
	})
	weeks, err := client.ListWeeks(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, weeks, 1)
	assert.Equal(t, 3, weeks[0].Number)
	assert.Equal(t, "p1", weeks[0].PlanID)
}

func TestCreatePlan_Body(t *testing.T) {
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Q1", body["title"])
		assert.Equal(t, "2025-01-06T00:00:00Z", body["startDate"])
		assert.Equal(t, "2025-03-31T00:00:00Z", body["endDate"])
		assert.EqualValues(t, 2025, body["year"])
		writeJSON(w, http.StatusCreated, `{"success":true,"data":{"plan":{"_id":"new","title":"Q1"}}}`)
	})

	in := domain.PlanInput{Title: " Q1 ", StartDate: start}
	in.Normalize()
	p, err := client.CreatePlan(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "new", p.ID)
}

func TestUpdatePlan_OnlySendsSetFields(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		raw, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"status":"archived"}`, string(raw))
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"plan":{"_id":"p1","status":"archived"}}}`)
	})

	st := domain.PlanArchived
	p, err := client.UpdatePlan(context.Background(), "p1", domain.PlanUpdate{Status: &st})
	require.NoError(t, err)
	assert.Equal(t, domain.PlanArchived, p.Status)
}

func TestActivatePlan(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/plans/p1/activate", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"plan":{"_id":"p1","status":"active"}}}`)
	})
	p, err := client.ActivatePlan(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, domain.PlanActive, p.Status)
}

func TestPlansSummary(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/plans/stats", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"overview":{
			"plans":{"totalPlans":3,"activePlans":1,"completedPlans":1,"archivedPlans":1},
			"goals":{"totalGoals":8,"completedGoals":1},
			"tasks":{"totalTasks":4,"completedTasks":4}}}}`)
	})

	s, err := client.PlansSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, s.TotalPlans)
	assert.Equal(t, 8, s.TotalGoals)
	assert.Equal(t, 13, s.GoalCompletionRate)
	assert.Equal(t, 100, s.TaskCompletionRate)
}

func TestPlansSummary_MissingOverview(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"summary":{}}}`)
	})
	_, err := client.PlansSummary(context.Background())
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestPlanTotals_FlatOrWrapped(t *testing.T) {
	for _, body := range []string{
		`{"success":true,"data":{"totalGoals":4,"completedGoals":2,"totalTasks":6,"completedTasks":3}}`,
		`{"success":true,"data":{"stats":{"totalGoals":4,"completedGoals":2,"totalTasks":6,"completedTasks":3}}}`,
	} {
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/plans/p1/stats", r.URL.Path)
			writeJSON(w, http.StatusOK, body)
		})
		tot, err := client.PlanTotals(context.Background(), "p1")
		require.NoError(t, err)
		assert.Equal(t, 4, tot.TotalGoals)
		assert.Equal(t, 3, tot.CompletedTasks)
	}
}

func TestGoals_Paths(t *testing.T) {
	var paths []string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, `{"success":true,"data":{"goals":[{"_id":"g1","title":"Run"}]}}`)
		case http.MethodDelete:
			writeJSON(w, http.StatusOK, `{"success":true}`)
		default:
			writeJSON(w, http.StatusOK, `{"success":true,"data":{"goal":{"_id":"g1","title":"Run","completed":true}}}`)
		}
	})
	ctx := context.Background()

	goals, err := client.ListGoals(ctx, "p1", "w1")
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, "w1", goals[0].WeekID)

	_, err = client.SetGoalCompleted(ctx, "p1", "w1", "g1", true)
	require.NoError(t, err)
	_, err = client.SetGoalCompleted(ctx, "p1", "w1", "g1", false)
	require.NoError(t, err)
	require.NoError(t, client.DeleteGoal(ctx, "p1", "w1", "g1"))

	assert.Equal(t, []string{
		"GET /api/goals/plans/p1/weeks/w1",
		"PUT /api/goals/plans/p1/weeks/w1/g1/complete",
		"PUT /api/goals/plans/p1/weeks/w1/g1/uncomplete",
		"DELETE /api/goals/plans/p1/weeks/w1/g1",
	}, paths)
}

func TestCreateGoal_SendsWireCategory(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "carreira", body["category"])
		assert.Equal(t, "high", body["priority"])
		writeJSON(w, http.StatusCreated, `{"success":true,"data":{"goal":{"_id":"g9","title":"Ship","category":"carreira"}}}`)
	})

	g, err := client.CreateGoal(context.Background(), "p1", "w1", domain.GoalInput{
		Title: "Ship", Category: domain.CategoryCareer, Priority: domain.PriorityHigh,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryCareer, g.Category)
}

func TestTasks_Paths(t *testing.T) {
	var paths []string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodGet {
			writeJSON(w, http.StatusOK, `{"success":true,"data":{"tasks":[{"_id":"t1"},{"_id":"t2","completed":true}]}}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"task":{"_id":"t1","completed":true}}}`)
	})
	ctx := context.Background()

	tasks, err := client.ListTasks(ctx, "p1", "w1", "g1")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "g1", tasks[1].GoalID)

	task, err := client.SetTaskCompleted(ctx, "p1", "w1", "g1", "t1", true)
	require.NoError(t, err)
	assert.True(t, task.Completed)

	assert.Equal(t, []string{
		"GET /api/tasks/plans/p1/weeks/w1/goals/g1",
		"PUT /api/tasks/plans/p1/weeks/w1/goals/g1/t1/complete",
	}, paths)
}

func TestMe_WrappedAndFlatUser(t *testing.T) {
	for _, body := range []string{
		`{"success":true,"data":{"user":{"_id":"u1","email":"a@b.co"}}}`,
		`{"success":true,"data":{"id":"u1","email":"a@b.co"}}`,
	} {
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, body)
		})
		u, err := client.Me(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "u1", u.ID)
	}
}

func TestLogin_WithoutTokenIsMalformed(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"user":{"_id":"u1"}}}`)
	})
	_, err := client.Login(context.Background(), credentials("a@b.co", "secret1"))
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestChangePassword_Body(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/change-password", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"currentPassword":"old123","newPassword":"new456"}`, string(raw))
		writeJSON(w, http.StatusOK, `{"success":true,"message":"ok"}`)
	})
	err := client.ChangePassword(context.Background(), domain.PasswordChange{
		CurrentPassword: "old123", NewPassword: "new456", ConfirmPassword: "new456",
	})
	require.NoError(t, err)
}
