package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"assistant-client/internal/models"
	"assistant-client/internal/socket"
	"assistant-client/internal/timefmt"
)

// TaskListener reacts to task_notification frames. It only notifies; task
// state is refreshed on fetch, so no store reconciliation happens here.
type TaskListener struct {
	notifier     Notifier
	format       *timefmt.Formatter
	logger       *logrus.Logger
	appName      string
	dashboardURL string
}

func NewTaskListener(notifier Notifier, format *timefmt.Formatter, logger *logrus.Logger, appName, dashboardURL string) *TaskListener {
	return &TaskListener{
		notifier:     notifier,
		format:       format,
		logger:       logger,
		appName:      appName,
		dashboardURL: dashboardURL,
	}
}

// Attach subscribes the listener to the frame stream and returns the
// unsubscribe func.
func (l *TaskListener) Attach(d *socket.Dispatcher) func() {
	return d.Subscribe(l.handleFrame)
}

func (l *TaskListener) handleFrame(frame []byte) {
	var env models.Event
	if err := json.Unmarshal(frame, &env); err != nil {
		l.logger.Errorf("Task listener: malformed frame dropped: %v", err)
		return
	}
	if env.Type != models.EventTaskNotification {
		return
	}

	var ev models.TaskEvent
	if err := json.Unmarshal(env.Data, &ev); err != nil {
		l.logger.Errorf("Task listener: malformed payload dropped: %v", err)
		return
	}

	if l.notifier == nil {
		return
	}
	err := l.notifier.Notify(context.Background(), Notification{
		Title:     l.appName,
		Body:      l.formatBody(ev),
		TargetURL: l.dashboardURL,
	})
	if err != nil {
		l.logger.Errorf("Task notification failed: %v", err)
	}
}

// formatBody emphasizes the nested subtask when present, otherwise the
// parent task's own fields.
func (l *TaskListener) formatBody(ev models.TaskEvent) string {
	if ev.SubTask != nil {
		return fmt.Sprintf(
			"Task Notification:\nTitle: %s\nSub-Task:\n\tTitle: %s\n\tDue-Date: %s\n\tPriority: %s\n\tHours-Remaining: %d",
			ev.Title,
			ev.SubTask.Title,
			l.format.Relative(ev.SubTask.DueDate),
			ev.SubTask.Priority,
			ev.SubTask.HoursRemaining,
		)
	}
	return fmt.Sprintf(
		"Task Notification:\nTitle: %s\nDue-Date: %s\nPriority: %s\nHours-Remaining: %d",
		ev.Title,
		l.format.Relative(ev.DueDate),
		ev.Priority,
		ev.HoursRemaining,
	)
}
