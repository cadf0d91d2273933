package speech

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Recognizer accumulates dictated text for the compose box. Finalized
// transcript segments are appended permanently; the latest interim segment
// is exposed transiently until it finalizes or changes.
type Recognizer struct {
	engine Engine
	logger *logrus.Logger

	mu        sync.Mutex
	listening bool
	composed  string
	interim   string
	stop      context.CancelFunc
}

func NewRecognizer(engine Engine, logger *logrus.Logger) *Recognizer {
	return &Recognizer{engine: engine, logger: logger}
}

// SetListening starts or stops capture. A capture that cannot start (no
// permission, no device) leaves the toggle off and returns the error.
func (r *Recognizer) SetListening(on bool) error {
	r.mu.Lock()
	if on == r.listening {
		r.mu.Unlock()
		return nil
	}

	if !on {
		stop := r.stop
		r.listening = false
		r.stop = nil
		r.interim = ""
		r.mu.Unlock()
		if stop != nil {
			stop()
		}
		r.engine.StopCapture()
		return nil
	}
	r.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := r.engine.StartCapture(ctx)
	if err != nil {
		cancel()
		r.logger.Errorf("Microphone capture unavailable: %v", err)
		return err
	}

	r.mu.Lock()
	r.listening = true
	r.stop = cancel
	r.mu.Unlock()

	go r.consume(ch)
	return nil
}

// Listening reports the capture toggle.
func (r *Recognizer) Listening() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listening
}

// Compose returns the composed text with the interim segment appended.
func (r *Recognizer) Compose() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.composed + r.interim
}

// Reset clears the compose text, typically after a send.
func (r *Recognizer) Reset() {
	r.mu.Lock()
	r.composed = ""
	r.interim = ""
	r.mu.Unlock()
}

// Close always stops capture.
func (r *Recognizer) Close() {
	_ = r.SetListening(false)
}

// consume drains transcripts until the engine closes the channel; an
// engine-side end of capture forces the toggle off.
func (r *Recognizer) consume(ch <-chan Transcript) {
	for t := range ch {
		r.mu.Lock()
		if t.Final {
			r.composed += t.Text
			r.interim = ""
		} else {
			r.interim = t.Text
		}
		r.mu.Unlock()
	}

	r.mu.Lock()
	r.listening = false
	r.interim = ""
	r.stop = nil
	r.mu.Unlock()
}
