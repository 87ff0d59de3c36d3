package service

import (
	"context"
	"net/url"
	"time"

	"github.com/alexanderramin/twelveweeks/internal/api"
	"github.com/alexanderramin/twelveweeks/internal/cache"
	"github.com/alexanderramin/twelveweeks/internal/domain"
	"github.com/alexanderramin/twelveweeks/internal/stats"
)

// CacheConfig sets the time-to-live per resource kind.
type CacheConfig struct {
	ListTTL   time.Duration
	DetailTTL time.Duration
	Clock     cache.Clock
}

// DefaultCacheConfig caches lists for 15 minutes and everything else for 5.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{ListTTL: 15 * time.Minute, DetailTTL: 5 * time.Minute}
}

// Cache holds one loader per resource kind. It is shared by all services so
// that a write through one service invalidates what the others read.
type Cache struct {
	lists   *cache.Loader[[]domain.Plan]
	plans   *cache.Loader[domain.Plan]
	weeks   *cache.Loader[[]domain.Week]
	goals   *cache.Loader[[]domain.Goal]
	tasks   *cache.Loader[[]domain.Task]
	totals  *cache.Loader[stats.Totals]
	summary *cache.Loader[stats.Summary]

	sweepers []func() int
	clearers []func()
}

func NewCache(cfg CacheConfig) *Cache {
	def := DefaultCacheConfig()
	if cfg.ListTTL <= 0 {
		cfg.ListTTL = def.ListTTL
	}
	if cfg.DetailTTL <= 0 {
		cfg.DetailTTL = def.DetailTTL
	}
	c := &Cache{
		lists:   cache.NewLoader(cache.NewStore[[]domain.Plan](cfg.ListTTL, cfg.Clock)),
		plans:   cache.NewLoader(cache.NewStore[domain.Plan](cfg.DetailTTL, cfg.Clock)),
		weeks:   cache.NewLoader(cache.NewStore[[]domain.Week](cfg.DetailTTL, cfg.Clock)),
		goals:   cache.NewLoader(cache.NewStore[[]domain.Goal](cfg.DetailTTL, cfg.Clock)),
		tasks:   cache.NewLoader(cache.NewStore[[]domain.Task](cfg.DetailTTL, cfg.Clock)),
		totals:  cache.NewLoader(cache.NewStore[stats.Totals](cfg.DetailTTL, cfg.Clock)),
		summary: cache.NewLoader(cache.NewStore[stats.Summary](cfg.DetailTTL, cfg.Clock)),
	}
	c.sweepers = []func() int{
		c.lists.Store().Sweep, c.plans.Store().Sweep, c.weeks.Store().Sweep, c.goals.Store().Sweep,
		c.tasks.Store().Sweep, c.totals.Store().Sweep, c.summary.Store().Sweep,
	}
	c.clearers = []func(){
		c.lists.Store().Clear, c.plans.Store().Clear, c.weeks.Store().Clear, c.goals.Store().Clear,
		c.tasks.Store().Clear, c.totals.Store().Clear, c.summary.Store().Clear,
	}
	return c
}

const (
	listsIdentity   = "plans"
	summaryIdentity = "stats"
)

func listKey(f api.PlanFilter) string {
	if q := f.Query(); q != "" {
		return listsIdentity + "?" + q
	}
	return listsIdentity
}

func planKey(id string) string {
	return "plans/" + url.PathEscape(id)
}

func weeksKey(planID string) string {
	return planKey(planID) + "/weeks"
}

func goalsKey(planID, weekID string) string {
	return weeksKey(planID) + "/" + url.PathEscape(weekID) + "/goals"
}

func tasksKey(planID, weekID, goalID string) string {
	return goalsKey(planID, weekID) + "/" + url.PathEscape(goalID) + "/tasks"
}

func totalsKey(planID string) string {
	return planKey(planID) + "/stats"
}

// invalidateLists drops every cached plan list and the global stats.
func (c *Cache) invalidateLists() {
	c.lists.Store().InvalidatePrefix(listsIdentity)
	c.summary.Store().InvalidatePrefix(summaryIdentity)
}

// invalidatePlan drops the lists, the global stats and everything cached
// under the plan: detail, weeks, goals, tasks and per-plan stats.
func (c *Cache) invalidatePlan(id string) {
	c.invalidateLists()
	identity := planKey(id)
	c.plans.Store().InvalidatePrefix(identity)
	c.weeks.Store().InvalidatePrefix(identity)
	c.goals.Store().InvalidatePrefix(identity)
	c.tasks.Store().InvalidatePrefix(identity)
	c.totals.Store().InvalidatePrefix(identity)
}

// Clear drops everything, e.g. when the logged-in user changes.
func (c *Cache) Clear() {
	for _, fn := range c.clearers {
		fn()
	}
}

// Sweep removes expired entries from every store.
func (c *Cache) Sweep() int {
	n := 0
	for _, sweep := range c.sweepers {
		n += sweep()
	}
	return n
}

// RunJanitor sweeps every interval until ctx is done.
func (c *Cache) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}
