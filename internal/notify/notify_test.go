package notify

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotify_ShowsAndExpires(t *testing.T) {
	c := NewChannel(50 * time.Millisecond)
	defer c.Close()

	c.Notify("Uploading and registering dataset...", Info)

	n, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, "Uploading and registering dataset...", n.Message)
	assert.Equal(t, Info, n.Severity)
	assert.Equal(t, 50*time.Millisecond, n.ExpiresAt.Sub(n.CreatedAt))

	assert.Eventually(t, func() bool {
		_, ok := c.Current()
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestNotify_ReplaceCancelsPreviousTimer(t *testing.T) {
	c := NewChannel(80 * time.Millisecond)
	defer c.Close()

	c.Notify("first", Info)
	time.Sleep(50 * time.Millisecond)
	c.Notify("second", Error)

	// The first message's timer would fire at ~80ms; the second must survive it.
	time.Sleep(50 * time.Millisecond)
	n, ok := c.Current()
	require.True(t, ok, "newer notification was hidden by a stale timer")
	assert.Equal(t, "second", n.Message)
	assert.Equal(t, Error, n.Severity)

	assert.Eventually(t, func() bool {
		_, ok := c.Current()
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestNotify_StaleExpireIsIgnored(t *testing.T) {
	c := NewChannel(time.Hour)
	defer c.Close()

	c.Notify("first", Info)
	c.Notify("second", Info)

	// Simulate the first timer firing after losing the race with Stop.
	c.expire(1)

	n, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, "second", n.Message)
}

func TestNotify_UnknownSeverityIsInfo(t *testing.T) {
	c := NewChannel(time.Hour)
	defer c.Close()

	c.Notify("x", Severity("warning"))
	n, _ := c.Current()
	assert.Equal(t, Info, n.Severity)
}

func TestClear(t *testing.T) {
	c := NewChannel(time.Hour)
	defer c.Close()

	c.Notify("x", Error)
	c.Clear()

	_, ok := c.Current()
	assert.False(t, ok)
}

func TestSubscribe(t *testing.T) {
	c := NewChannel(30 * time.Millisecond)
	defer c.Close()

	events, cancel := c.Subscribe()
	defer cancel()

	c.Notify("hello", Info)

	select {
	case ev := <-events:
		assert.True(t, ev.Visible)
		assert.Equal(t, "hello", ev.Notification.Message)
	case <-time.After(time.Second):
		t.Fatal("no show event")
	}

	select {
	case ev := <-events:
		assert.False(t, ev.Visible)
		assert.Equal(t, "hello", ev.Notification.Message)
	case <-time.After(time.Second):
		t.Fatal("no dismiss event")
	}
}

func TestSubscribe_CancelAfterClose(t *testing.T) {
	c := NewChannel(time.Hour)
	events, cancel := c.Subscribe()

	c.Close()
	_, open := <-events
	assert.False(t, open)

	assert.NotPanics(t, cancel)
}

func TestEvent_SeverityOnTheWire(t *testing.T) {
	data, err := json.Marshal(Event{Visible: true, Notification: Notification{Message: "m", Severity: Info}})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"severity":"informational"`)
}
