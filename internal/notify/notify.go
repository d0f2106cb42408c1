// Package notify implements a transient, auto-expiring user notification.
//
// A Channel shows at most one message at a time. A new message replaces the
// current one immediately, and each message dismisses itself after the
// channel's duration unless it was replaced first. The channel owns its
// dismissal timer: every replacement or Clear stops the pending timer, and
// a generation counter keeps a timer that already fired from hiding a newer
// message.
package notify

import (
	"sync"
	"time"
)

// DefaultDuration is how long a notification stays visible.
const DefaultDuration = 3 * time.Second

// Severity selects the accent of a notification.
type Severity string

const (
	Info  Severity = "informational"
	Error Severity = "error"
)

// Notification is a single user-visible message.
type Notification struct {
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Event is published to subscribers on every show or dismissal.
type Event struct {
	Visible      bool         `json:"visible"`
	Notification Notification `json:"notification"`
}

// Notifier is the write side of a Channel.
type Notifier interface {
	Notify(message string, severity Severity)
}

// Channel holds the current notification.
type Channel struct {
	duration time.Duration

	mu          sync.Mutex
	current     *Notification
	timer       *time.Timer
	generation  uint64
	subscribers map[uint64]chan Event
	nextSubID   uint64
}

// NewChannel creates a channel whose notifications last duration.
// A non-positive duration falls back to DefaultDuration.
func NewChannel(duration time.Duration) *Channel {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Channel{
		duration:    duration,
		subscribers: make(map[uint64]chan Event),
	}
}

// Notify shows message, replacing any current notification.
func (c *Channel) Notify(message string, severity Severity) {
	if severity != Error {
		severity = Info
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopTimerLocked()

	now := time.Now()
	n := Notification{
		Message:   message,
		Severity:  severity,
		CreatedAt: now,
		ExpiresAt: now.Add(c.duration),
	}
	c.current = &n
	c.generation++

	gen := c.generation
	c.timer = time.AfterFunc(c.duration, func() { c.expire(gen) })

	c.publishLocked(Event{Visible: true, Notification: n})
}

// Current returns the visible notification, if any.
func (c *Channel) Current() (Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return Notification{}, false
	}
	return *c.current, true
}

// Clear dismisses the current notification and cancels its timer.
func (c *Channel) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopTimerLocked()
	c.generation++
	c.dismissLocked()
}

// Subscribe returns a channel of show/dismiss events and a function that
// ends the subscription. Events are dropped for subscribers that fall behind.
func (c *Channel) Subscribe() (<-chan Event, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSubID
	c.nextSubID++

	ch := make(chan Event, 8)
	c.subscribers[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if _, ok := c.subscribers[id]; ok {
				delete(c.subscribers, id)
				close(ch)
			}
		})
	}
	return ch, cancel
}

// Close stops any pending timer and ends all subscriptions.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopTimerLocked()
	c.generation++
	c.current = nil
	for id, ch := range c.subscribers {
		delete(c.subscribers, id)
		close(ch)
	}
}

func (c *Channel) expire(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// A replaced notification's timer may fire after Stop lost the race.
	if gen != c.generation {
		return
	}
	c.timer = nil
	c.dismissLocked()
}

func (c *Channel) dismissLocked() {
	if c.current == nil {
		return
	}
	n := *c.current
	c.current = nil
	c.publishLocked(Event{Visible: false, Notification: n})
}

func (c *Channel) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Channel) publishLocked(ev Event) {
	for _, ch := range c.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}
