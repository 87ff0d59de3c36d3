package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/alexanderramin/twelveweeks/internal/domain"
)

func tasksPath(planID, weekID, goalID string) string {
	return "tasks/plans/" + url.PathEscape(planID) + "/weeks/" + url.PathEscape(weekID) + "/goals/" + url.PathEscape(goalID)
}

func taskPath(planID, weekID, goalID, taskID string) string {
	return tasksPath(planID, weekID, goalID) + "/" + url.PathEscape(taskID)
}

type taskBody struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

type taskPatch struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Priority    *domain.Priority `json:"priority,omitempty"`
	DueDate     *time.Time       `json:"dueDate,omitempty"`
	Completed   *bool            `json:"completed,omitempty"`
}

func (c *Client) ListTasks(ctx context.Context, planID, weekID, goalID string) ([]domain.Task, error) {
	data, err := c.get(ctx, tasksPath(planID, weekID, goalID))
	if err != nil {
		return nil, err
	}
	wire, err := decodeList[wireTask](data, "tasks")
	if err != nil {
		return nil, err
	}
	tasks, err := convertTasks(wire)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].GoalID == "" {
			tasks[i].GoalID = goalID
		}
	}
	return tasks, nil
}

func (c *Client) GetTask(ctx context.Context, planID, weekID, goalID, taskID string) (domain.Task, error) {
	data, err := c.get(ctx, taskPath(planID, weekID, goalID, taskID))
	if err != nil {
		return domain.Task{}, err
	}
	return decodeTask(data)
}

func (c *Client) CreateTask(ctx context.Context, planID, weekID, goalID string, in domain.TaskInput) (domain.Task, error) {
	body := taskBody{
		Title:       in.Title,
		Description: in.Description,
		Priority:    string(in.Priority),
		DueDate:     in.DueDate,
	}
	data, err := c.do(ctx, http.MethodPost, tasksPath(planID, weekID, goalID), body)
	if err != nil {
		return domain.Task{}, err
	}
	return decodeTask(data)
}

func (c *Client) UpdateTask(ctx context.Context, planID, weekID, goalID, taskID string, u domain.TaskUpdate) (domain.Task, error) {
	body := taskPatch{
		Title:       u.Title,
		Description: u.Description,
		Priority:    u.Priority,
		DueDate:     u.DueDate,
		Completed:   u.Completed,
	}
	data, err := c.do(ctx, http.MethodPut, taskPath(planID, weekID, goalID, taskID), body)
	if err != nil {
		return domain.Task{}, err
	}
	return decodeTask(data)
}

func (c *Client) SetTaskCompleted(ctx context.Context, planID, weekID, goalID, taskID string, done bool) (domain.Task, error) {
	path := taskPath(planID, weekID, goalID, taskID) + completionSuffix(done)
	data, err := c.do(ctx, http.MethodPut, path, nil)
	if err != nil {
		return domain.Task{}, err
	}
	return decodeTask(data)
}

func (c *Client) DeleteTask(ctx context.Context, planID, weekID, goalID, taskID string) error {
	_, err := c.do(ctx, http.MethodDelete, taskPath(planID, weekID, goalID, taskID), nil)
	return err
}

func decodeTask(data []byte) (domain.Task, error) {
	w, err := decodeOne[wireTask](data, "task")
	if err != nil {
		return domain.Task{}, err
	}
	return w.toDomain()
}
