package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/alexanderramin/twelveweeks/internal/domain"
	"github.com/alexanderramin/twelveweeks/internal/stats"
)

// PlanFilter narrows GET /plans. Zero values are not sent.
type PlanFilter struct {
	Status domain.PlanStatus
	Year   int
}

// Query returns the filter as a URL query string, "" when empty.
func (f PlanFilter) Query() string {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Year != 0 {
		q.Set("year", strconv.Itoa(f.Year))
	}
	return q.Encode()
}

func plansPath(f PlanFilter) string {
	if q := f.Query(); q != "" {
		return "plans?" + q
	}
	return "plans"
}

func planPath(id string) string {
	return "plans/" + url.PathEscape(id)
}

type planBody struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Year        int        `json:"year,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
}

type planPatch struct {
	Title       *string            `json:"title,omitempty"`
	Description *string            `json:"description,omitempty"`
	StartDate   *time.Time         `json:"startDate,omitempty"`
	EndDate     *time.Time         `json:"endDate,omitempty"`
	Status      *domain.PlanStatus `json:"status,omitempty"`
	Tags        []string           `json:"tags,omitempty"`
}

// ListPlans fetches plan summaries. Weeks are never populated.
func (c *Client) ListPlans(ctx context.Context, f PlanFilter) ([]domain.Plan, error) {
	data, err := c.get(ctx, plansPath(f))
	if err != nil {
		return nil, err
	}
	wire, err := decodeList[wirePlan](data, "plans")
	if err != nil {
		return nil, err
	}
	out := make([]domain.Plan, 0, len(wire))
	for _, wp := range wire {
		wp.Weeks = nil
		p, err := wp.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// GetPlan fetches one plan with whatever weeks the detail payload carries.
func (c *Client) GetPlan(ctx context.Context, id string) (domain.Plan, error) {
	data, err := c.get(ctx, planPath(id))
	if err != nil {
		return domain.Plan{}, err
	}
	return decodePlanDetail(data)
}

// ListWeeks fetches the weeks of a plan.
func (c *Client) ListWeeks(ctx context.Context, planID string) ([]domain.Week, error) {
	data, err := c.get(ctx, planPath(planID)+"/weeks")
	if err != nil {
		return nil, err
	}
	wire, err := decodeList[wireWeek](data, "weeks")
	if err != nil {
		return nil, err
	}
	weeks, err := convertWeeks(wire)
	if err != nil {
		return nil, err
	}
	for i := range weeks {
		if weeks[i].PlanID == "" {
			weeks[i].PlanID = planID
		}
	}
	return weeks, nil
}

func (c *Client) CreatePlan(ctx context.Context, in domain.PlanInput) (domain.Plan, error) {
	body := planBody{
		Title:       in.Title,
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Year:        in.Year,
		Tags:        in.Tags,
	}
	data, err := c.do(ctx, http.MethodPost, "plans", body)
	if err != nil {
		return domain.Plan{}, err
	}
	return decodePlanDetail(data)
}

func (c *Client) UpdatePlan(ctx context.Context, id string, u domain.PlanUpdate) (domain.Plan, error) {
	body := planPatch{
		Title:       u.Title,
		Description: u.Description,
		StartDate:   u.StartDate,
		EndDate:     u.EndDate,
		Status:      u.Status,
		Tags:        u.Tags,
	}
	data, err := c.do(ctx, http.MethodPut, planPath(id), body)
	if err != nil {
		return domain.Plan{}, err
	}
	return decodePlanDetail(data)
}

// ActivatePlan makes the plan the active one.
func (c *Client) ActivatePlan(ctx context.Context, id string) (domain.Plan, error) {
	data, err := c.do(ctx, http.MethodPost, planPath(id)+"/activate", nil)
	if err != nil {
		return domain.Plan{}, err
	}
	return decodePlanDetail(data)
}

func (c *Client) DeletePlan(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, planPath(id), nil)
	return err
}

// PlansSummary fetches the server-side stats over all plans.
func (c *Client) PlansSummary(ctx context.Context) (stats.Summary, error) {
	data, err := c.get(ctx, "plans/stats")
	if err != nil {
		return stats.Summary{}, err
	}
	return decodeSummary(data)
}

// PlanTotals fetches the server-side counters of one plan.
func (c *Client) PlanTotals(ctx context.Context, id string) (stats.Totals, error) {
	data, err := c.get(ctx, planPath(id)+"/stats")
	if err != nil {
		return stats.Totals{}, err
	}
	return decodeTotals(data)
}
