package socket

import "time"

// DialPolicy decides how many dial attempts the Manager makes and how long
// it waits between them. It applies to dialing only; a dropped connection
// is never redialed until the next auth transition.
type DialPolicy interface {
	Attempts() int
	Backoff(attempt int) time.Duration
}

// NoRetry is the default policy: one attempt, no redial.
type NoRetry struct{}

func (NoRetry) Attempts() int             { return 1 }
func (NoRetry) Backoff(int) time.Duration { return 0 }

// ExponentialBackoff doubles the delay after each failed attempt, capped at
// Max.
type ExponentialBackoff struct {
	MaxAttempts int
	Base        time.Duration
	Max         time.Duration
}

func (p ExponentialBackoff) Attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

func (p ExponentialBackoff) Backoff(attempt int) time.Duration {
	d := p.Base
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= p.Max {
			return p.Max
		}
	}
	if p.Max > 0 && d > p.Max {
		return p.Max
	}
	return d
}
