package client

import (
	"errors"
	"sync"
)

var (
	// ErrTogglePending is returned by Begin while a toggle is in flight.
	ErrTogglePending = errors.New("like toggle already in flight")
	// ErrNotPending is returned by Succeed and Fail outside a toggle.
	ErrNotPending = errors.New("no like toggle in flight")
)

type State int

const (
	Idle State = iota
	Pending
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Control is the state of one like button. It shows the optimistic status
// while a toggle is pending and rolls back to the snapshot taken by Begin
// when the toggle fails. Safe for concurrent use.
type Control struct {
	mu       sync.Mutex
	state    State
	shown    Status
	snapshot Status
	err      error
}

func NewControl(initial Status) *Control {
	return &Control{state: Idle, shown: initial}
}

// Begin flips the shown status and enters Pending.
func (c *Control) Begin() (Status, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Pending {
		return c.shown, ErrTogglePending
	}

	c.snapshot = c.shown
	c.shown = c.shown.Flipped()
	c.state = Pending
	c.err = nil
	return c.shown, nil
}

// Succeed replaces the optimistic status with the one the server committed.
func (c *Control) Succeed(committed Status) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Pending {
		return ErrNotPending
	}
	c.shown = committed
	c.state = Succeeded
	return nil
}

// Fail restores the status shown before Begin.
func (c *Control) Fail(err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Pending {
		return ErrNotPending
	}
	c.shown = c.snapshot
	c.state = Failed
	c.err = err
	return nil
}

// Refresh shows a freshly resolved status. It is ignored while a toggle is
// pending so a stale read cannot overwrite the optimistic flip.
func (c *Control) Refresh(s Status) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Pending {
		return false
	}
	c.shown = s
	return true
}

func (c *Control) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Control) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shown
}

// Err is the error of the last failed toggle, nil otherwise.
func (c *Control) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Enabled reports whether the button accepts a click.
func (c *Control) Enabled() bool {
	return c.State() != Pending
}
