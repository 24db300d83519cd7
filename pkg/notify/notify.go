// Package notify holds the single transient notification shown after cart changes.
package notify

import (
	"time"

	"github.com/google/uuid"

	"github.com/stebinsabu13/fastlane/pkg/watch"
)

const DefaultDelay = 3 * time.Second

type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
	Warning Kind = "warning"
	Info    Kind = "info"
)

type Notification struct {
	ID      uuid.UUID `json:"id"`
	Message string    `json:"message"`
	Kind    Kind      `json:"type"`
	Visible bool      `json:"show"`
}

// Timer is the handle returned by a Scheduler.
type Timer interface {
	Stop() bool
}

// Scheduler runs fn after d. time.AfterFunc satisfies it via AfterFunc.
type Scheduler func(d time.Duration, fn func()) Timer

func AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// Notifier owns the notification slot. The pending timer is only touched
// inside current.Update, which serializes it with the slot contents.
type Notifier struct {
	current  *watch.Value[Notification]
	pending  Timer
	delay    time.Duration
	schedule Scheduler
}

type Option func(*Notifier)

func WithDelay(d time.Duration) Option {
	return func(n *Notifier) { n.delay = d }
}

func WithScheduler(s Scheduler) Option {
	return func(n *Notifier) { n.schedule = s }
}

func New(opts ...Option) *Notifier {
	n := &Notifier{
		current:  watch.New(Notification{}),
		delay:    DefaultDelay,
		schedule: AfterFunc,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Show replaces the live notification and restarts the auto-clear timer.
func (n *Notifier) Show(kind Kind, message string) Notification {
	note := Notification{ID: uuid.New(), Message: message, Kind: kind, Visible: true}
	n.current.Update(func(Notification) (Notification, bool) {
		if n.pending != nil {
			n.pending.Stop()
		}
		n.pending = n.schedule(n.delay, func() { n.expire(note.ID) })
		return note, true
	})
	return note
}

// Dismiss hides the live notification immediately.
func (n *Notifier) Dismiss() {
	n.current.Update(func(cur Notification) (Notification, bool) {
		if n.pending != nil {
			n.pending.Stop()
			n.pending = nil
		}
		return hide(cur)
	})
}

func (n *Notifier) Current() Notification {
	return n.current.Get()
}

func (n *Notifier) Value() watch.Readable[Notification] {
	return n.current
}

// expire only hides the notification it was scheduled for; a timer that
// fired while a newer Show was replacing it is a no-op.
func (n *Notifier) expire(id uuid.UUID) {
	n.current.Update(func(cur Notification) (Notification, bool) {
		if cur.ID != id {
			return cur, false
		}
		n.pending = nil
		return hide(cur)
	})
}

func hide(note Notification) (Notification, bool) {
	if !note.Visible {
		return note, false
	}
	note.Visible = false
	return note, true
}
