package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/alexanderramin/twelveweeks/internal/domain"
)

func goalsPath(planID, weekID string) string {
	return "goals/plans/" + url.PathEscape(planID) + "/weeks/" + url.PathEscape(weekID)
}

func goalPath(planID, weekID, goalID string) string {
	return goalsPath(planID, weekID) + "/" + url.PathEscape(goalID)
}

type goalBody struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category"`
	Priority    string     `json:"priority"`
	TargetDate  *time.Time `json:"targetDate,omitempty"`
}

type goalPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Category    *string    `json:"category,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	TargetDate  *time.Time `json:"targetDate,omitempty"`
	Completed   *bool      `json:"completed,omitempty"`
}

func (c *Client) ListGoals(ctx context.Context, planID, weekID string) ([]domain.Goal, error) {
	data, err := c.get(ctx, goalsPath(planID, weekID))
	if err != nil {
		return nil, err
	}
	wire, err := decodeList[wireGoal](data, "goals")
	if err != nil {
		return nil, err
	}
	goals, err := convertGoals(wire)
	if err != nil {
		return nil, err
	}
	for i := range goals {
		if goals[i].WeekID == "" {
			goals[i].WeekID = weekID
		}
	}
	return goals, nil
}

func (c *Client) GetGoal(ctx context.Context, planID, weekID, goalID string) (domain.Goal, error) {
	data, err := c.get(ctx, goalPath(planID, weekID, goalID))
	if err != nil {
		return domain.Goal{}, err
	}
	return decodeGoal(data)
}

func (c *Client) CreateGoal(ctx context.Context, planID, weekID string, in domain.GoalInput) (domain.Goal, error) {
	body := goalBody{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category.WireValue(),
		Priority:    string(in.Priority),
		TargetDate:  in.TargetDate,
	}
	data, err := c.do(ctx, http.MethodPost, goalsPath(planID, weekID), body)
	if err != nil {
		return domain.Goal{}, err
	}
	return decodeGoal(data)
}

func (c *Client) UpdateGoal(ctx context.Context, planID, weekID, goalID string, u domain.GoalUpdate) (domain.Goal, error) {
	body := goalPatch{
		Title:       u.Title,
		Description: u.Description,
		TargetDate:  u.TargetDate,
		Completed:   u.Completed,
	}
	if u.Category != nil {
		wire := u.Category.WireValue()
		body.Category = &wire
	}
	if u.Priority != nil {
		p := string(*u.Priority)
		body.Priority = &p
	}
	data, err := c.do(ctx, http.MethodPut, goalPath(planID, weekID, goalID), body)
	if err != nil {
		return domain.Goal{}, err
	}
	return decodeGoal(data)
}

// SetGoalCompleted calls the complete or uncomplete endpoint.
func (c *Client) SetGoalCompleted(ctx context.Context, planID, weekID, goalID string, done bool) (domain.Goal, error) {
	path := goalPath(planID, weekID, goalID) + completionSuffix(done)
	data, err := c.do(ctx, http.MethodPut, path, nil)
	if err != nil {
		return domain.Goal{}, err
	}
	return decodeGoal(data)
}

func (c *Client) DeleteGoal(ctx context.Context, planID, weekID, goalID string) error {
	_, err := c.do(ctx, http.MethodDelete, goalPath(planID, weekID, goalID), nil)
	return err
}

func decodeGoal(data []byte) (domain.Goal, error) {
	w, err := decodeOne[wireGoal](data, "goal")
	if err != nil {
		return domain.Goal{}, err
	}
	return w.toDomain()
}

func completionSuffix(done bool) string {
	if done {
		return "/complete"
	}
	return "/uncomplete"
}
