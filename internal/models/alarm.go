package models

// Alarm mirrors the backend alarm resource. ID is unique within a list.
type Alarm struct {
	ID            string   `json:"_id"`
	Description   string   `json:"description"`
	RepeatPattern string   `json:"repeat_pattern"` // none, daily, weekly, monthly
	Priority      string   `json:"priority"`       // normal, medium, high
	AlarmTime     string   `json:"alarm_time"`
	IsActive      bool     `json:"is_active"`
	Tags          []string `json:"tags"`
	CreatedAt     string   `json:"created_at"`
}

// AlarmCreate is the request body for creating an alarm.
type AlarmCreate struct {
	AlarmTime     string `json:"alarm_time" binding:"required"`
	Description   string `json:"description" binding:"required"`
	RepeatPattern string `json:"repeat_pattern"`
	Priority      string `json:"priority"`
}
