package models

import "encoding/json"

// Inbound websocket event types.
const (
	EventAIResponse        = "ai_response"
	EventError             = "error"
	EventAlarmNotification = "alarm_notification"
	EventTaskNotification  = "task_notification"
)

// Event is the envelope of an inbound frame. Chat replies carry Message;
// notification events carry a type-specific Data payload.
type Event struct {
	Type    string          `json:"type"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// AlarmEvent is the payload of an alarm_notification frame.
type AlarmEvent struct {
	AlarmID       string `json:"alarm_id"`
	Description   string `json:"description"`
	Time          string `json:"time"`
	NextAlarmTime string `json:"next_alarm_time,omitempty"`
}

// TaskEventSubTask is the optional nested subtask of a task_notification.
type TaskEventSubTask struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	DueDate        string `json:"due_date"`
	Priority       string `json:"priority"`
	HoursRemaining int    `json:"hours_remaining"`
}

// TaskEvent is the payload of a task_notification frame.
type TaskEvent struct {
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	DueDate        string            `json:"due_date"`
	Priority       string            `json:"priority"`
	HoursRemaining int               `json:"hours_remaining"`
	SubTask        *TaskEventSubTask `json:"subtask,omitempty"`
}
