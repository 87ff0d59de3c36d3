package service

import (
	"database/sql"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/twelveweeks/internal/api"
	"github.com/alexanderramin/twelveweeks/internal/db"
	"github.com/alexanderramin/twelveweeks/internal/repository"
	"github.com/alexanderramin/twelveweeks/internal/testutil"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Now().UTC()}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// harness wires every service against a fake API and an in-memory database.
type harness struct {
	fake   *testutil.FakeAPI
	client *api.Client
	tokens *TokenStore
	cache  *Cache
	clock  *fakeClock
	db     *sql.DB
	uow    db.UnitOfWork

	sessions repository.SessionRepo
	prefs    repository.PreferenceRepo

	plans     PlanService
	goals     GoalService
	tasks     TaskService
	auth      AuthService
	dashboard DashboardService
}

type harnessOption func(*harnessConfig)

type harnessConfig struct {
	baseURL string
	plan    PlanOptions
	uow     func(*sql.DB) db.UnitOfWork
}

func withBaseURL(u string) harnessOption {
	return func(c *harnessConfig) { c.baseURL = u }
}

func withPlanOptions(o PlanOptions) harnessOption {
	return func(c *harnessConfig) { c.plan = o }
}

func withUoW(f func(*sql.DB) db.UnitOfWork) harnessOption {
	return func(c *harnessConfig) { c.uow = f }
}

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()
	fake := testutil.NewFakeAPI(t)
	cfg := harnessConfig{baseURL: fake.URL(), plan: DefaultPlanOptions()}
	for _, opt := range opts {
		opt(&cfg)
	}

	h := &harness{fake: fake, tokens: &TokenStore{}, clock: newFakeClock()}
	apiCfg := api.DefaultConfig()
	apiCfg.BaseURL = cfg.baseURL
	apiCfg.Timeout = 2 * time.Second
	h.client = api.New(apiCfg, h.tokens, nil)
	h.cache = NewCache(CacheConfig{ListTTL: 15 * time.Minute, DetailTTL: 5 * time.Minute, Clock: h.clock.Now})

	h.db = testutil.NewTestDB(t)
	h.uow = testutil.NewTestUoW(h.db)
	if cfg.uow != nil {
		h.uow = cfg.uow(h.db)
	}
	h.sessions = repository.NewSQLiteSessionRepo(h.db)
	h.prefs = repository.NewSQLitePreferenceRepo(h.db)

	cfg.plan.Clock = h.clock.Now
	h.plans = NewPlanService(h.client, h.cache, cfg.plan)
	h.goals = NewGoalService(h.client, h.cache)
	h.tasks = NewTaskService(h.client, h.cache)
	h.auth = NewAuthService(h.client, h.tokens, h.cache, h.sessions, h.uow)
	h.dashboard = NewDashboardService(h.plans, h.client, h.cache, h.prefs)
	return h
}

// unreachableURL returns the address of a server that has been shut down.
func unreachableURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(nil)
	u := srv.URL + "/api"
	srv.Close()
	return u
}
