// Package notify delivers OS-level notifications for server-pushed alarm
// and task events.
package notify

import (
	"context"

	"github.com/gen2brain/beeep"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Notification is one user-facing popup. TargetURL is where a click should
// land; adapters without click actions may drop it.
type Notification struct {
	Title     string
	Body      string
	TargetURL string
}

// Notifier is the OS notification capability. A failing or absent notifier
// degrades features to no-ops, never crashes a listener.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Desktop sends notifications through the platform notification service.
type Desktop struct{}

func (Desktop) Notify(_ context.Context, n Notification) error {
	return beeep.Notify(n.Title, n.Body, "")
}

// RateLimited drops notifications beyond the configured rate so an event
// storm cannot stall the socket read loop.
type RateLimited struct {
	inner   Notifier
	limiter *rate.Limiter
	logger  *logrus.Logger
}

func NewRateLimited(inner Notifier, perSecond, burst int, logger *logrus.Logger) *RateLimited {
	return &RateLimited{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(float64(perSecond)), burst),
		logger:  logger,
	}
}

func (r *RateLimited) Notify(ctx context.Context, n Notification) error {
	if !r.limiter.Allow() {
		r.logger.Warnf("Notification rate limit exceeded, dropping: %s", n.Title)
		return nil
	}
	return r.inner.Notify(ctx, n)
}
