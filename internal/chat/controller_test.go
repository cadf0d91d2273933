package chat

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"assistant-client/internal/models"
	"assistant-client/internal/socket"
	"assistant-client/internal/store"
)

type fakeSender struct {
	sent []string
	err  error
}

func (f *fakeSender) Send(text string) error {
	f.sent = append(f.sent, text)
	return f.err
}

func newTestController(t *testing.T, sender *fakeSender, cfg Config) (*Controller, *store.Store) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	st, err := store.New(nil, nil)
	require.NoError(t, err)
	return NewController(st, sender, logger, cfg), st
}

func eventFrame(t *testing.T, typ, msg string) []byte {
	t.Helper()
	frame, err := json.Marshal(models.Event{Type: typ, Message: msg})
	require.NoError(t, err)
	return frame
}

func TestSendMessageAppendsExactlyOneUserTurn(t *testing.T) {
	sender := &fakeSender{}
	c, st := newTestController(t, sender, Config{})

	require.NoError(t, c.SendMessage("  hello  "))

	history := st.Chat().ChatHistory
	require.Len(t, history, 1)
	require.Equal(t, models.SenderUser, history[0].Sender)
	require.Equal(t, "hello", history[0].Content)
	// The frame carries the raw content, no envelope.
	require.Equal(t, []string{"  hello  "}, sender.sent)
}

func TestSendMessageRejectsInvalidContent(t *testing.T) {
	sender := &fakeSender{}
	c, st := newTestController(t, sender, Config{})

	require.ErrorIs(t, c.SendMessage("   "), ErrInvalidMessage)
	require.ErrorIs(t, c.SendMessage(strings.Repeat("a", 2001)), ErrInvalidMessage)

	require.Empty(t, st.Chat().ChatHistory)
	require.Empty(t, sender.sent)
	require.False(t, c.Busy())
}

func TestSecondSendWhilePendingIsRejected(t *testing.T) {
	sender := &fakeSender{}
	c, st := newTestController(t, sender, Config{})

	require.NoError(t, c.SendMessage("first"))
	require.True(t, c.Busy())
	require.ErrorIs(t, c.SendMessage("second"), ErrBusy)

	require.Len(t, st.Chat().ChatHistory, 1)
	require.Equal(t, []string{"first"}, sender.sent)
}

func TestAIResponseResolvesPendingTurn(t *testing.T) {
	sender := &fakeSender{}
	c, st := newTestController(t, sender, Config{})

	d := socket.NewDispatcher()
	c.Attach(d)

	require.NoError(t, c.SendMessage("hello"))
	d.Publish(eventFrame(t, models.EventAIResponse, "hi there"))

	history := st.Chat().ChatHistory
	require.Len(t, history, 2)
	require.Equal(t, models.SenderAI, history[1].Sender)
	require.Equal(t, "hi there", history[1].Content)
	require.False(t, c.Busy())

	// The turn is over; a new send is allowed again.
	require.NoError(t, c.SendMessage("next"))
}

func TestErrorEventResolvesWithPrefix(t *testing.T) {
	sender := &fakeSender{}
	c, st := newTestController(t, sender, Config{})

	d := socket.NewDispatcher()
	c.Attach(d)

	require.NoError(t, c.SendMessage("hello"))
	d.Publish(eventFrame(t, models.EventError, "backend exploded"))

	history := st.Chat().ChatHistory
	require.Equal(t, "Error: backend exploded", history[1].Content)
	require.False(t, c.Busy())
}

func TestTransportFailureResolvesImmediately(t *testing.T) {
	sender := &fakeSender{err: errors.New("boom")}
	c, st := newTestController(t, sender, Config{})

	err := c.SendMessage("hello")
	require.Error(t, err)

	history := st.Chat().ChatHistory
	require.Len(t, history, 2, "the user turn stays, the failure becomes the reply")
	require.Equal(t, "Error sending message", history[1].Content)
	require.False(t, c.Busy())
}

func TestResponseTimeout(t *testing.T) {
	sender := &fakeSender{}
	c, st := newTestController(t, sender, Config{ResponseTimeout: 20 * time.Millisecond})

	require.NoError(t, c.SendMessage("hello"))

	require.Eventually(t, func() bool {
		return !c.Busy()
	}, time.Second, 5*time.Millisecond)

	history := st.Chat().ChatHistory
	require.Len(t, history, 2)
	require.Equal(t, "Error: response timed out", history[1].Content)
}

func TestTimeoutDoesNotFireAfterResolution(t *testing.T) {
	sender := &fakeSender{}
	c, st := newTestController(t, sender, Config{ResponseTimeout: 20 * time.Millisecond})

	d := socket.NewDispatcher()
	c.Attach(d)

	require.NoError(t, c.SendMessage("hello"))
	d.Publish(eventFrame(t, models.EventAIResponse, "hi"))

	time.Sleep(60 * time.Millisecond)
	require.Len(t, st.Chat().ChatHistory, 2, "a resolved turn must not gain a timeout message")
}

func TestMalformedAndForeignFramesAreIgnored(t *testing.T) {
	sender := &fakeSender{}
	c, st := newTestController(t, sender, Config{})

	d := socket.NewDispatcher()
	c.Attach(d)

	require.NoError(t, c.SendMessage("hello"))
	d.Publish([]byte("{not json"))
	d.Publish(eventFrame(t, models.EventAlarmNotification, ""))
	d.Publish(eventFrame(t, "something_else", "x"))

	require.True(t, c.Busy(), "non-chat frames must not resolve the turn")
	require.Len(t, st.Chat().ChatHistory, 1)
}
