package speech

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"assistant-client/internal/models"
	"assistant-client/internal/store"
)

type fakeEngine struct {
	mu     sync.Mutex
	spoken []string
	block  chan struct{} // when set, Speak waits for it (or ctx)

	captureCh  chan Transcript
	captureErr error
}

func (f *fakeEngine) Speak(ctx context.Context, text string) error {
	f.mu.Lock()
	f.spoken = append(f.spoken, text)
	block := f.block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (f *fakeEngine) CancelSpeech() {}

func (f *fakeEngine) StartCapture(context.Context) (<-chan Transcript, error) {
	if f.captureErr != nil {
		return nil, f.captureErr
	}
	return f.captureCh, nil
}

func (f *fakeEngine) StopCapture() {}

func (f *fakeEngine) spokenChunks() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.spoken...)
}

func newBoundSpeaker(t *testing.T, engine *fakeEngine) (*Speaker, *store.Store) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	st, err := store.New(nil, nil)
	require.NoError(t, err)

	s := NewSpeaker(engine, st, logger)
	s.Bind()
	t.Cleanup(s.Close)
	return s, st
}

func aiMessage(content string) models.Message {
	return models.NewMessage(content, models.SenderAI, time.Now())
}

func TestSpeakerPlaysChunksInSequence(t *testing.T) {
	engine := &fakeEngine{}
	_, st := newBoundSpeaker(t, engine)
	st.SetSpeaker(true)

	st.AppendMessage(aiMessage("One done. Two done. Three?"))

	require.Eventually(t, func() bool {
		return len(engine.spokenChunks()) == 3
	}, time.Second, 5*time.Millisecond)
	require.Equal(t, []string{"One done.", " Two done.", " Three?"}, engine.spokenChunks())
}

func TestSpeakerCancelStopsBeforeNextChunk(t *testing.T) {
	engine := &fakeEngine{block: make(chan struct{})}
	s, st := newBoundSpeaker(t, engine)
	st.SetSpeaker(true)

	st.AppendMessage(aiMessage("First part. Second part."))

	require.Eventually(t, func() bool {
		return len(engine.spokenChunks()) == 1
	}, time.Second, 5*time.Millisecond)

	s.Cancel()
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, []string{"First part."}, engine.spokenChunks(), "cancel during chunk one must suppress chunk two")
}

func TestNewMessageRestartsPlayback(t *testing.T) {
	block := make(chan struct{})
	engine := &fakeEngine{block: block}
	_, st := newBoundSpeaker(t, engine)
	st.SetSpeaker(true)

	st.AppendMessage(aiMessage("Old reply. Still going."))
	require.Eventually(t, func() bool {
		return len(engine.spokenChunks()) == 1
	}, time.Second, 5*time.Millisecond)

	st.AppendMessage(aiMessage("New reply."))
	require.Eventually(t, func() bool {
		chunks := engine.spokenChunks()
		return len(chunks) == 2 && chunks[1] == "New reply."
	}, time.Second, 5*time.Millisecond)

	close(block)
	time.Sleep(50 * time.Millisecond)
	require.Len(t, engine.spokenChunks(), 2, "the cancelled message must not resume")
}

func TestSpeakerStaysSilentWhenOff(t *testing.T) {
	engine := &fakeEngine{}
	_, st := newBoundSpeaker(t, engine)

	st.AppendMessage(aiMessage("Nobody hears this."))

	time.Sleep(50 * time.Millisecond)
	require.Empty(t, engine.spokenChunks())
}

func TestSpeakerIgnoresUserMessages(t *testing.T) {
	engine := &fakeEngine{}
	_, st := newBoundSpeaker(t, engine)
	st.SetSpeaker(true)

	st.AppendMessage(models.NewMessage("typed, not spoken", models.SenderUser, time.Now()))

	time.Sleep(50 * time.Millisecond)
	require.Empty(t, engine.spokenChunks())
}

func TestToggleOffCancelsPlayback(t *testing.T) {
	engine := &fakeEngine{block: make(chan struct{})}
	s, st := newBoundSpeaker(t, engine)
	st.SetSpeaker(true)

	st.AppendMessage(aiMessage("Going once. Going twice."))
	require.Eventually(t, func() bool {
		return len(engine.spokenChunks()) == 1
	}, time.Second, 5*time.Millisecond)

	s.Toggle(false)
	require.False(t, st.SpeakerOn())

	time.Sleep(50 * time.Millisecond)
	require.Len(t, engine.spokenChunks(), 1)
}
