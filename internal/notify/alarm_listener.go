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

// AlarmListener reacts to alarm_notification frames: it hands the payload
// to the reconcile callback so the store can advance or deactivate the
// alarm, then raises an OS notification.
type AlarmListener struct {
	notifier     Notifier
	format       *timefmt.Formatter
	logger       *logrus.Logger
	appName      string
	dashboardURL string
	reconcile    func(models.AlarmEvent)
}

func NewAlarmListener(notifier Notifier, format *timefmt.Formatter, logger *logrus.Logger, appName, dashboardURL string, reconcile func(models.AlarmEvent)) *AlarmListener {
	return &AlarmListener{
		notifier:     notifier,
		format:       format,
		logger:       logger,
		appName:      appName,
		dashboardURL: dashboardURL,
		reconcile:    reconcile,
	}
}

// Attach subscribes the listener to the frame stream and returns the
// unsubscribe func.
func (l *AlarmListener) Attach(d *socket.Dispatcher) func() {
	return d.Subscribe(l.handleFrame)
}

func (l *AlarmListener) handleFrame(frame []byte) {
	var env models.Event
	if err := json.Unmarshal(frame, &env); err != nil {
		l.logger.Errorf("Alarm listener: malformed frame dropped: %v", err)
		return
	}
	if env.Type != models.EventAlarmNotification {
		return
	}

	var ev models.AlarmEvent
	if err := json.Unmarshal(env.Data, &ev); err != nil {
		l.logger.Errorf("Alarm listener: malformed payload dropped: %v", err)
		return
	}

	if l.reconcile != nil {
		l.reconcile(ev)
	}

	if l.notifier == nil {
		return
	}
	body := fmt.Sprintf("Alarm:\nDescription: %s\nTime: %s", ev.Description, l.format.Relative(ev.Time))
	err := l.notifier.Notify(context.Background(), Notification{
		Title:     l.appName,
		Body:      body,
		TargetURL: l.dashboardURL,
	})
	if err != nil {
		l.logger.Errorf("Alarm notification failed: %v", err)
	}
}
