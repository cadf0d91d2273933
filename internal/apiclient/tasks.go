package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"assistant-client/internal/models"
)

type tasksResponse struct {
	Status int           `json:"status"`
	Tasks  []models.Task `json:"tasks"`
}

type taskResponse struct {
	Status int         `json:"status"`
	Task   models.Task `json:"task"`
}

// GetTasks fetches all tasks. hours_remaining is derived, so it is
// recomputed here on every fetch rather than trusted from the wire.
func (c *Client) GetTasks(ctx context.Context) ([]models.Task, error) {
	var out tasksResponse
	if err := c.get(ctx, "/api/tasks", &out); err != nil {
		return nil, err
	}
	if err := checkStatus("get tasks", out.Status); err != nil {
		return nil, err
	}
	now := time.Now()
	for i := range out.Tasks {
		out.Tasks[i].RefreshHoursRemaining(now)
	}
	return out.Tasks, nil
}

// GetTask fetches one task by ID.
func (c *Client) GetTask(ctx context.Context, id string) (models.Task, error) {
	var out taskResponse
	if err := c.get(ctx, "/api/tasks/"+id, &out); err != nil {
		return models.Task{}, err
	}
	if err := checkStatus("get task", out.Status); err != nil {
		return models.Task{}, err
	}
	out.Task.RefreshHoursRemaining(time.Now())
	return out.Task, nil
}

// CreateTask creates a task and returns the stored resource.
func (c *Client) CreateTask(ctx context.Context, req models.Task) (models.Task, error) {
	var out taskResponse
	if err := c.do(ctx, http.MethodPost, "/api/tasks", req, &out); err != nil {
		return models.Task{}, err
	}
	if err := checkStatus("create task", out.Status); err != nil {
		return models.Task{}, err
	}
	out.Task.RefreshHoursRemaining(time.Now())
	return out.Task, nil
}

// DeleteTask removes a task by ID.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	var out statusResponse
	if err := c.do(ctx, http.MethodDelete, "/api/tasks/"+id, nil, &out); err != nil {
		return err
	}
	return checkStatus("delete task", out.Status)
}

// ToggleSubTaskStatus flips a subtask between pending and done.
func (c *Client) ToggleSubTaskStatus(ctx context.Context, taskID, subTaskID string) error {
	path := fmt.Sprintf("/api/tasks/%s/subtasks/%s/status", taskID, subTaskID)
	var out statusResponse
	if err := c.do(ctx, http.MethodPatch, path, nil, &out); err != nil {
		return err
	}
	return checkStatus("toggle subtask status", out.Status)
}

// DeleteSubTask removes one subtask from its parent.
func (c *Client) DeleteSubTask(ctx context.Context, taskID, subTaskID string) error {
	path := fmt.Sprintf("/api/tasks/%s/subtasks/%s", taskID, subTaskID)
	var out statusResponse
	if err := c.do(ctx, http.MethodDelete, path, nil, &out); err != nil {
		return err
	}
	return checkStatus("delete subtask", out.Status)
}
