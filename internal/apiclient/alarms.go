package apiclient

import (
	"context"
	"net/http"

	"assistant-client/internal/models"
)

type alarmsResponse struct {
	Status int            `json:"status"`
	Alarms []models.Alarm `json:"alarms"`
}

type newAlarmResponse struct {
	Status   int          `json:"status"`
	NewAlarm models.Alarm `json:"newAlarm"`
}

// GetAlarms fetches the full alarm list.
func (c *Client) GetAlarms(ctx context.Context) ([]models.Alarm, error) {
	var out alarmsResponse
	if err := c.get(ctx, "/api/alarms", &out); err != nil {
		return nil, err
	}
	if err := checkStatus("get alarms", out.Status); err != nil {
		return nil, err
	}
	return out.Alarms, nil
}

// CreateAlarm creates an alarm and returns the stored resource.
func (c *Client) CreateAlarm(ctx context.Context, req models.AlarmCreate) (models.Alarm, error) {
	var out newAlarmResponse
	if err := c.do(ctx, http.MethodPost, "/api/alarms", req, &out); err != nil {
		return models.Alarm{}, err
	}
	if err := checkStatus("create alarm", out.Status); err != nil {
		return models.Alarm{}, err
	}
	return out.NewAlarm, nil
}

// DeleteAlarm removes an alarm by ID.
func (c *Client) DeleteAlarm(ctx context.Context, id string) error {
	var out statusResponse
	if err := c.do(ctx, http.MethodDelete, "/api/alarms/"+id, nil, &out); err != nil {
		return err
	}
	return checkStatus("delete alarm", out.Status)
}

// ToggleAlarm flips an alarm's active flag server-side.
func (c *Client) ToggleAlarm(ctx context.Context, id string) error {
	var out statusResponse
	if err := c.do(ctx, http.MethodPatch, "/api/alarms/"+id+"/toggle", nil, &out); err != nil {
		return err
	}
	return checkStatus("toggle alarm", out.Status)
}
