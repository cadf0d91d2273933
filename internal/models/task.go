package models

import "time"

// SubTask is an item owned by a Task. Order within the parent list is
// significant for display only.
type SubTask struct {
	ID             string `json:"_id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	DueDate        string `json:"due_date"`
	Priority       string `json:"priority"` // low, medium, high
	Status         string `json:"status"`
	HoursRemaining int    `json:"hours_remaining"`
}

// Task is a backend task with its subtasks.
type Task struct {
	ID             string    `json:"_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	DueDate        string    `json:"due_date"`
	Priority       string    `json:"priority"`
	Status         string    `json:"status"`
	HoursRemaining int       `json:"hours_remaining"`
	Tags           []string  `json:"tags"`
	SubTasks       []SubTask `json:"subtasks"`
}

// HoursRemaining computes whole hours until due, floored at zero. A due
// date that fails to parse yields zero.
func HoursRemaining(dueDate string, now time.Time) int {
	due, err := parseFlexibleTime(dueDate)
	if err != nil {
		return 0
	}
	diff := due.Sub(now)
	if diff <= 0 {
		return 0
	}
	hours := int(diff / time.Hour)
	if diff%time.Hour != 0 {
		hours++
	}
	return hours
}

// RefreshHoursRemaining recomputes the derived hours_remaining field on the
// task and all its subtasks. Wire and cached values are never trusted.
func (t *Task) RefreshHoursRemaining(now time.Time) {
	t.HoursRemaining = HoursRemaining(t.DueDate, now)
	for i := range t.SubTasks {
		t.SubTasks[i].HoursRemaining = HoursRemaining(t.SubTasks[i].DueDate, now)
	}
}

func parseFlexibleTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02T15:04:05", s)
}
