package cli

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexanderramin/twelveweeks/internal/api"
	"github.com/alexanderramin/twelveweeks/internal/domain"
	"github.com/alexanderramin/twelveweeks/internal/repository"
	"github.com/alexanderramin/twelveweeks/internal/service"
	"github.com/alexanderramin/twelveweeks/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp wires a full App against a fake API and an in-memory DB for CLI
// integration tests.
func testApp(t *testing.T) (*App, *testutil.FakeAPI) {
	t.Helper()
	fake := testutil.NewFakeAPI(t)
	return testAppAt(t, fake.URL()), fake
}

func testAppAt(t *testing.T, baseURL string) *App {
	t.Helper()
	db := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(db)

	tokens := &service.TokenStore{}
	cfg := api.DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.Timeout = 2 * time.Second
	client := api.New(cfg, tokens, nil)
	cache := service.NewCache(service.DefaultCacheConfig())

	plans := service.NewPlanService(client, cache, service.DefaultPlanOptions())
	return &App{
		Plans:     plans,
		Goals:     service.NewGoalService(client, cache),
		Tasks:     service.NewTaskService(client, cache),
		Auth:      service.NewAuthService(client, tokens, cache, repository.NewSQLiteSessionRepo(db), uow),
		Dashboard: service.NewDashboardService(plans, client, cache, repository.NewSQLitePreferenceRepo(db)),
		Cache:     cache,
	}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

// seedPlan stores an active plan in its third week with one goal this week.
func seedPlan(t *testing.T, fake *testutil.FakeAPI, title string) (*domain.Plan, domain.Goal) {
	t.Helper()
	goal := testutil.NewTestGoal("Run 20km", testutil.WithTasks(2, 1))
	plan := testutil.NewTestPlan(title, testutil.WithGoals(3, goal))
	fake.AddPlan(plan)
	return plan, goal
}

func fakeGoal(t *testing.T, fake *testutil.FakeAPI, planID string, week int, goalID string) domain.Goal {
	t.Helper()
	p, ok := fake.Plan(planID)
	require.True(t, ok)
	w, ok := p.WeekByNumber(week)
	require.True(t, ok)
	for _, g := range w.Goals {
		if g.ID == goalID {
			return g
		}
	}
	t.Fatalf("goal %s not in week %d", goalID, week)
	return domain.Goal{}
}

// --- auth ---

func TestAuthLogin_ThenWhoami(t *testing.T) {
	app, fake := testApp(t)
	fake.AddUser(testutil.NewTestUser("ana@example.com"), "s3cret-pass")

	out, err := executeCmd(t, app, "auth", "login", "--email", "ana@example.com", "--password", "s3cret-pass")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as ana@example.com")

	out, err = executeCmd(t, app, "auth", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "ana@example.com")
	assert.Contains(t, out, "Test User")
}

func TestAuthLogin_RequiresFlagsWhenNotInteractive(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "auth", "login", "--email", "ana@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--password")
}

func TestAuthLogin_WrongPassword(t *testing.T) {
	app, fake := testApp(t)
	fake.AddUser(testutil.NewTestUser("ana@example.com"), "s3cret-pass")

	_, err := executeCmd(t, app, "auth", "login", "--email", "ana@example.com", "--password", "nope-nope")
	require.ErrorIs(t, err, api.ErrUnauthorized)
}

func TestAuthWhoami_NotLoggedIn(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "auth", "whoami")
	require.ErrorIs(t, err, service.ErrNotLoggedIn)
}

func TestAuthRegister_ThenLogout(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "auth", "register", "--name", "Bea", "--email", "bea@example.com", "--password", "long-enough")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome, Bea")

	out, err = executeCmd(t, app, "auth", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out.")

	_, err = executeCmd(t, app, "auth", "whoami")
	require.ErrorIs(t, err, service.ErrNotLoggedIn)
}

func TestAuthProfile_NothingToUpdate(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "auth", "profile")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to update")
}

// --- plans ---

func TestPlanList_MarksCurrentPlan(t *testing.T) {
	app, fake := testApp(t)
	first, _ := seedPlan(t, fake, "Spring sprint")
	second, _ := seedPlan(t, fake, "Summer sprint")

	_, err := executeCmd(t, app, "plan", "use", second.ID[:8])
	require.NoError(t, err)

	out, err := executeCmd(t, app, "plan", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Spring sprint")
	assert.Contains(t, out, "Summer sprint")
	assert.Contains(t, out, first.DisplayID())

	current, err := app.Dashboard.CurrentPlanID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, second.ID, current)
}

func TestPlanList_StatusFilter(t *testing.T) {
	app, fake := testApp(t)
	seedPlan(t, fake, "Running now")
	fake.AddPlan(testutil.NewTestPlan("Old one", testutil.WithPlanStatus(domain.PlanArchived)))

	out, err := executeCmd(t, app, "plan", "list", "--status", "archived")
	require.NoError(t, err)
	assert.Contains(t, out, "Old one")
	assert.NotContains(t, out, "Running now")
}

func TestPlanList_RejectsUnknownStatus(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "plan", "list", "--status", "paused")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown plan status")
}

func TestPlanList_ShowsDemoWhenAPIUnreachable(t *testing.T) {
	srv := httptest.NewServer(nil)
	base := srv.URL + "/api"
	srv.Close()
	app := testAppAt(t, base)

	out, err := executeCmd(t, app, "plan", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "API unreachable")
	assert.Contains(t, out, "Demo plan")
}

func TestPlanShow_DefaultsToActivePlan(t *testing.T) {
	app, fake := testApp(t)
	seedPlan(t, fake, "Spring sprint")

	out, err := executeCmd(t, app, "plan", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Spring sprint")
	assert.Contains(t, out, "Run 20km")
	assert.Contains(t, out, "this week")
}

func TestPlanShow_UnknownID(t *testing.T) {
	app, fake := testApp(t)
	seedPlan(t, fake, "Spring sprint")

	_, err := executeCmd(t, app, "plan", "show", "zzzz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plan not found")
}

func TestPlanCreate(t *testing.T) {
	app, fake := testApp(t)

	out, err := executeCmd(t, app, "plan", "create", "--title", "Autumn", "--start", "2026-09-07", "--tags", "fitness, work")
	require.NoError(t, err)
	assert.Contains(t, out, "Created plan Autumn")
	assert.Equal(t, 1, fake.Hits("POST /api/plans"))

	out, err = executeCmd(t, app, "plan", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Autumn")
}

func TestPlanCreate_RequiresTitleWhenNotInteractive(t *testing.T) {
	app, fake := testApp(t)

	_, err := executeCmd(t, app, "plan", "create")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--title")
	assert.Zero(t, fake.Hits("POST /api/plans"))
}

func TestPlanCreate_InvalidDate(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "plan", "create", "--title", "x", "--start", "07/09/2026")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}

func TestPlanArchive(t *testing.T) {
	app, fake := testApp(t)
	plan, _ := seedPlan(t, fake, "Spring sprint")

	out, err := executeCmd(t, app, "plan", "archive", plan.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Archived")

	stored, ok := fake.Plan(plan.ID)
	require.True(t, ok)
	assert.Equal(t, domain.PlanArchived, stored.Status)
}

func TestPlanUpdate_NothingToUpdate(t *testing.T) {
	app, fake := testApp(t)
	plan, _ := seedPlan(t, fake, "Spring sprint")

	_, err := executeCmd(t, app, "plan", "update", plan.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to update")
}

func TestPlanUpdate_Title(t *testing.T) {
	app, fake := testApp(t)
	plan, _ := seedPlan(t, fake, "Spring sprint")

	out, err := executeCmd(t, app, "plan", "update", plan.ID[:8], "--title", "Renamed")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated plan Renamed")
}

func TestPlanDelete_RequiresYes(t *testing.T) {
	app, fake := testApp(t)
	plan, _ := seedPlan(t, fake, "Spring sprint")

	_, err := executeCmd(t, app, "plan", "delete", plan.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")

	_, ok := fake.Plan(plan.ID)
	assert.True(t, ok)
}

func TestPlanDelete_ClearsSelection(t *testing.T) {
	app, fake := testApp(t)
	plan, _ := seedPlan(t, fake, "Spring sprint")
	_, err := executeCmd(t, app, "plan", "use", plan.ID)
	require.NoError(t, err)

	out, err := executeCmd(t, app, "plan", "delete", plan.ID, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted plan")

	_, ok := fake.Plan(plan.ID)
	assert.False(t, ok)
	current, err := app.Dashboard.CurrentPlanID(context.Background())
	require.NoError(t, err)
	assert.Empty(t, current)
}

// brokenSelection fails the plan-selection writes of a real dashboard service.
type brokenSelection struct {
	service.DashboardService
	err error
}

func (b brokenSelection) SetCurrentPlan(context.Context, string) error { return b.err }

func TestPlanDelete_ReportsSelectionFailure(t *testing.T) {
	app, fake := testApp(t)
	plan, _ := seedPlan(t, fake, "Spring sprint")
	_, err := executeCmd(t, app, "plan", "use", plan.ID)
	require.NoError(t, err)

	boom := errors.New("database is locked")
	app.Dashboard = brokenSelection{DashboardService: app.Dashboard, err: boom}

	_, err = executeCmd(t, app, "plan", "delete", plan.ID, "--yes")
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "clearing current plan")

	_, ok := fake.Plan(plan.ID)
	assert.False(t, ok, "the remote delete still happened")
}

func TestPlanDelete_KeepsOtherSelection(t *testing.T) {
	app, fake := testApp(t)
	keep, _ := seedPlan(t, fake, "Spring sprint")
	drop := testutil.NewTestPlan("Summer sprint")
	fake.AddPlan(drop)
	_, err := executeCmd(t, app, "plan", "use", keep.ID)
	require.NoError(t, err)

	_, err = executeCmd(t, app, "plan", "delete", drop.ID, "--yes")
	require.NoError(t, err)

	current, err := app.Dashboard.CurrentPlanID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, keep.ID, current)
}

func TestPlanUse_Clear(t *testing.T) {
	app, fake := testApp(t)
	plan, _ := seedPlan(t, fake, "Spring sprint")
	_, err := executeCmd(t, app, "plan", "use", plan.ID)
	require.NoError(t, err)

	out, err := executeCmd(t, app, "plan", "use", "--clear")
	require.NoError(t, err)
	assert.Contains(t, out, "cleared")
	current, err := app.Dashboard.CurrentPlanID(context.Background())
	require.NoError(t, err)
	assert.Empty(t, current)
}

// --- goals ---

func TestGoalList_DefaultsToThisWeek(t *testing.T) {
	app, fake := testApp(t)
	seedPlan(t, fake, "Spring sprint")

	out, err := executeCmd(t, app, "goal", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Week 3")
	assert.Contains(t, out, "Run 20km")
}

func TestGoalAdd_ToGivenWeek(t *testing.T) {
	app, fake := testApp(t)
	plan, _ := seedPlan(t, fake, "Spring sprint")

	out, err := executeCmd(t, app, "goal", "add", "Read two books", "--week", "5", "--category", "carreira", "--priority", "high")
	require.NoError(t, err)
	assert.Contains(t, out, "Added goal Read two books to week 5")

	stored, ok := fake.Plan(plan.ID)
	require.True(t, ok)
	w, _ := stored.WeekByNumber(5)
	require.Len(t, w.Goals, 1)
	assert.Equal(t, domain.CategoryCareer, w.Goals[0].Category)
}

func TestGoalAdd_WeekOutOfRange(t *testing.T) {
	app, fake := testApp(t)
	seedPlan(t, fake, "Spring sprint")

	_, err := executeCmd(t, app, "goal", "add", "Too late", "--week", "13")
	require.ErrorIs(t, err, service.ErrWeekNotFound)
}

func TestGoalAdd_RejectsUnknownCategory(t *testing.T) {
	app, fake := testApp(t)
	seedPlan(t, fake, "Spring sprint")

	_, err := executeCmd(t, app, "goal", "add", "x", "--category", "chores")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")
}

func TestGoalDoneAndUndo_ByPrefix(t *testing.T) {
	app, fake := testApp(t)
	plan, goal := seedPlan(t, fake, "Spring sprint")

	out, err := executeCmd(t, app, "goal", "done", goal.ID[:8])
	require.NoError(t, err)
	assert.Contains(t, out, "Run 20km")
	assert.True(t, fakeGoal(t, fake, plan.ID, 3, goal.ID).Completed)

	_, err = executeCmd(t, app, "goal", "undo", goal.ID[:8], "--plan", plan.ID[:8], "--week", "3")
	require.NoError(t, err)
	assert.False(t, fakeGoal(t, fake, plan.ID, 3, goal.ID).Completed)
}

func TestGoalUpdate_Title(t *testing.T) {
	app, fake := testApp(t)
	plan, goal := seedPlan(t, fake, "Spring sprint")

	_, err := executeCmd(t, app, "goal", "update", goal.ID, "--title", "Run 25km")
	require.NoError(t, err)
	assert.Equal(t, "Run 25km", fakeGoal(t, fake, plan.ID, 3, goal.ID).Title)
}

func TestGoalRemove(t *testing.T) {
	app, fake := testApp(t)
	plan, goal := seedPlan(t, fake, "Spring sprint")

	_, err := executeCmd(t, app, "goal", "rm", goal.ID)
	require.NoError(t, err)

	stored, _ := fake.Plan(plan.ID)
	w, _ := stored.WeekByNumber(3)
	assert.Empty(t, w.Goals)
}

// --- tasks ---

func TestTaskAddAndList(t *testing.T) {
	app, fake := testApp(t)
	_, goal := seedPlan(t, fake, "Spring sprint")

	out, err := executeCmd(t, app, "task", "add", "Buy shoes", "--goal", goal.ID[:8], "--due", "2026-10-20")
	require.NoError(t, err)
	assert.Contains(t, out, "Added task Buy shoes")

	out, err = executeCmd(t, app, "task", "list", "--goal", goal.ID[:8])
	require.NoError(t, err)
	assert.Contains(t, out, "Buy shoes")
	assert.Contains(t, out, "Run 20km task 1")
}

func TestTaskList_RequiresGoal(t *testing.T) {
	app, fake := testApp(t)
	seedPlan(t, fake, "Spring sprint")

	_, err := executeCmd(t, app, "task", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "goal")
}

func TestTaskDone(t *testing.T) {
	app, fake := testApp(t)
	plan, goal := seedPlan(t, fake, "Spring sprint")
	open := goal.Tasks[1]

	_, err := executeCmd(t, app, "task", "done", open.ID[:8], "--goal", goal.ID[:8])
	require.NoError(t, err)

	g := fakeGoal(t, fake, plan.ID, 3, goal.ID)
	for _, task := range g.Tasks {
		assert.True(t, task.Completed, task.Title)
	}
}

func TestTaskUpdate(t *testing.T) {
	app, fake := testApp(t)
	plan, goal := seedPlan(t, fake, "Spring sprint")
	task := goal.Tasks[0]

	out, err := executeCmd(t, app, "task", "update", task.ID[:8], "--goal", goal.ID[:8], "--title", "Run 25km", "--priority", "high")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated task Run 25km")

	g := fakeGoal(t, fake, plan.ID, 3, goal.ID)
	assert.Equal(t, "Run 25km", g.Tasks[0].Title)
	assert.Equal(t, domain.PriorityHigh, g.Tasks[0].Priority)
}

func TestTaskUpdate_NothingToUpdate(t *testing.T) {
	app, fake := testApp(t)
	_, goal := seedPlan(t, fake, "Spring sprint")

	_, err := executeCmd(t, app, "task", "update", goal.Tasks[0].ID[:8], "--goal", goal.ID[:8])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to update")
}

// --- stats and dashboard ---

func TestStats_Overview(t *testing.T) {
	app, fake := testApp(t)
	seedPlan(t, fake, "Spring sprint")

	out, err := executeCmd(t, app, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Overview")
	assert.Contains(t, out, "Spring sprint")
	assert.Contains(t, out, "1/2")
}

func TestStats_SinglePlan(t *testing.T) {
	app, fake := testApp(t)
	plan, _ := seedPlan(t, fake, "Spring sprint")

	out, err := executeCmd(t, app, "stats", "--plan", plan.ID[:8])
	require.NoError(t, err)
	assert.Contains(t, out, "Spring sprint")
	assert.NotContains(t, out, "Overview")
}

func TestDashboard_StaticWhenNotInteractive(t *testing.T) {
	app, fake := testApp(t)
	seedPlan(t, fake, "Spring sprint")

	out, err := executeCmd(t, app, "dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "Week 3 of 12")
	assert.Contains(t, out, "Run 20km")
}

func TestDashboard_NoPlans(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "No plans yet")
}

func TestVerboseFlag_LowersLogLevel(t *testing.T) {
	app, _ := testApp(t)
	app.LogLevel = new(slog.LevelVar)

	_, err := executeCmd(t, app, "-v", "plan", "list")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, app.LogLevel.Level())
}
