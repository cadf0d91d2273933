package speech

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"assistant-client/internal/models"
	"assistant-client/internal/store"
)

// Speaker reads new assistant messages aloud while the speaker toggle is
// on. A new message cancels whatever is playing and starts over; chunks of
// one message play strictly in sequence.
type Speaker struct {
	engine Engine
	store  *store.Store
	logger *logrus.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewSpeaker(engine Engine, st *store.Store, logger *logrus.Logger) *Speaker {
	return &Speaker{engine: engine, store: st, logger: logger}
}

// Bind registers the speaker as a store message observer.
func (s *Speaker) Bind() {
	s.store.OnMessage(s.onMessage)
}

// Toggle flips the speaker setting; turning it off cancels any in-flight
// playback immediately.
func (s *Speaker) Toggle(on bool) {
	if !on {
		s.Cancel()
	}
	s.store.SetSpeaker(on)
}

// Cancel stops the current utterance sequence, if any.
func (s *Speaker) Cancel() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()
	s.engine.CancelSpeech()
}

// Close releases the speaker.
func (s *Speaker) Close() {
	s.Cancel()
}

func (s *Speaker) onMessage(m models.Message) {
	if m.Sender != models.SenderAI || !s.store.SpeakerOn() {
		return
	}

	s.Cancel()

	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	go s.speak(ctx, m.Content)
}

// speak plays the sanitized chunks one after another; chunk N+1 starts
// only after chunk N's playback completes.
func (s *Speaker) speak(ctx context.Context, text string) {
	for _, chunk := range Chunk(Sanitize(text)) {
		if ctx.Err() != nil {
			return
		}
		if err := s.engine.Speak(ctx, chunk); err != nil {
			if ctx.Err() == nil {
				s.logger.Errorf("Speech synthesis failed: %v", err)
			}
			return
		}
	}
}
