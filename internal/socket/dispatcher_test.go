package socket

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDispatcherFansOutToAllSubscribers(t *testing.T) {
	d := NewDispatcher()

	var a, b [][]byte
	d.Subscribe(func(f []byte) { a = append(a, f) })
	d.Subscribe(func(f []byte) { b = append(b, f) })

	d.Publish([]byte("one"))
	d.Publish([]byte("two"))

	require.Len(t, a, 2, "registering a second handler must not displace the first")
	require.Len(t, b, 2)
	require.Equal(t, "one", string(a[0]))
	require.Equal(t, "one", string(b[0]))
}

func TestDispatcherUnsubscribeStopsDelivery(t *testing.T) {
	d := NewDispatcher()

	var got int
	unsub := d.Subscribe(func([]byte) { got++ })

	d.Publish([]byte("x"))
	unsub()
	d.Publish([]byte("y"))

	require.Equal(t, 1, got)
}

func TestDispatcherPublishWithoutSubscribers(t *testing.T) {
	d := NewDispatcher()
	require.NotPanics(t, func() { d.Publish([]byte("x")) })
}
