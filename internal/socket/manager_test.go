package socket_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"assistant-client/internal/models"
	"assistant-client/internal/socket"
	"assistant-client/internal/stubserver"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newStub(t *testing.T) (*stubserver.Server, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv := stubserver.New(quietLogger())
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return srv, "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func awaitFrame(t *testing.T, frames <-chan []byte) models.Event {
	t.Helper()
	select {
	case frame := <-frames:
		var ev models.Event
		require.NoError(t, json.Unmarshal(frame, &ev))
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("no frame arrived")
		return models.Event{}
	}
}

func TestManagerConnectSendReceive(t *testing.T) {
	_, wsURL := newStub(t)

	m := socket.NewManager(wsURL, nil, quietLogger())
	defer m.Close()

	frames := make(chan []byte, 8)
	m.Dispatcher().Subscribe(func(f []byte) {
		frames <- append([]byte(nil), f...)
	})

	require.NoError(t, m.SetAuth(true, "tok"))
	require.True(t, m.Connected())

	require.NoError(t, m.Send("hi"))
	ev := awaitFrame(t, frames)
	require.Equal(t, models.EventAIResponse, ev.Type)
	require.Equal(t, "You said: hi", ev.Message)
}

func TestManagerLogoutClosesConnection(t *testing.T) {
	_, wsURL := newStub(t)

	m := socket.NewManager(wsURL, nil, quietLogger())
	require.NoError(t, m.SetAuth(true, "tok"))
	require.True(t, m.Connected())

	require.NoError(t, m.SetAuth(false, ""))
	require.False(t, m.Connected())
	require.ErrorIs(t, m.Send("hi"), socket.ErrNotConnected)
}

func TestManagerEmptyTokenDoesNotDial(t *testing.T) {
	_, wsURL := newStub(t)

	m := socket.NewManager(wsURL, nil, quietLogger())
	require.NoError(t, m.SetAuth(true, ""))
	require.False(t, m.Connected())
}

func TestManagerSendWithoutConnection(t *testing.T) {
	m := socket.NewManager("ws://127.0.0.1:1/ws", nil, quietLogger())
	require.ErrorIs(t, m.Send("hi"), socket.ErrNotConnected)
}

func TestManagerDialFailureSurfacesError(t *testing.T) {
	policy := socket.ExponentialBackoff{MaxAttempts: 2, Base: time.Millisecond}
	m := socket.NewManager("ws://127.0.0.1:1/ws", policy, quietLogger())

	err := m.SetAuth(true, "tok")
	require.Error(t, err)
	require.False(t, m.Connected())
}

func TestManagerDeliversServerPush(t *testing.T) {
	srv, wsURL := newStub(t)

	m := socket.NewManager(wsURL, nil, quietLogger())
	defer m.Close()

	frames := make(chan []byte, 8)
	m.Dispatcher().Subscribe(func(f []byte) {
		frames <- append([]byte(nil), f...)
	})
	require.NoError(t, m.SetAuth(true, "tok"))

	data, err := json.Marshal(models.AlarmEvent{
		AlarmID:     "a1",
		Description: "stand up",
		Time:        "2024-06-10T14:00:00Z",
	})
	require.NoError(t, err)
	frame, err := json.Marshal(models.Event{Type: models.EventAlarmNotification, Data: data})
	require.NoError(t, err)
	srv.Hub().SendToToken("tok", frame)

	ev := awaitFrame(t, frames)
	require.Equal(t, models.EventAlarmNotification, ev.Type)

	var got models.AlarmEvent
	require.NoError(t, json.Unmarshal(ev.Data, &got))
	require.Equal(t, "a1", got.AlarmID)
}
