package game

import (
	"fmt"
	"strings"

	"github.com/pixil98/go-errors"
)

// Closure defines an openable/closeable barrier on an exit or item.
// A Closure without a Lock is closeable but not lockable.
// Name is required for exit closures but optional for item closures,
// where it falls back to the item's name.
type Closure struct {
	// Name is the display label for the barrier (e.g., "door", "gate", "lid").
	Name string `json:"name,omitempty"`

	// Closed is whether the barrier starts closed. Default: open (false).
	Closed bool `json:"closed,omitempty"`

	// Lock optionally makes this closure lockable with a key.
	Lock *Lock `json:"lock,omitempty"`
}

// Validate checks that any lock is valid and consistent with the closure state.
func (c *Closure) Validate() error {
	el := errors.NewErrorList()
	if c.Lock != nil {
		el.Add(c.Lock.Validate())
		if c.Lock.Locked && !c.Closed {
			el.Add(fmt.Errorf("locked closure must also be closed"))
		}
	}
	return el.Err()
}

// Lock defines a key-based lock on a Closure.
type Lock struct {
	// Key is a name or keyword the key item must answer to.
	Key string `json:"key"`

	// Locked is whether the lock starts locked. Default: unlocked (false).
	Locked bool `json:"locked,omitempty"`
}

// Validate checks that the key reference is set.
func (l *Lock) Validate() error {
	if l.Key == "" {
		return fmt.Errorf("lock key is required")
	}
	return nil
}

// Fits reports whether the item can operate this lock.
func (l *Lock) Fits(it *Item) bool {
	if strings.EqualFold(it.Name, l.Key) {
		return true
	}
	for _, kw := range it.Keywords {
		if strings.EqualFold(kw, l.Key) {
			return true
		}
	}
	return false
}

// ClosureState is the runtime open/locked state of a Closure.
type ClosureState struct {
	Closed bool `json:"closed,omitempty"`
	Locked bool `json:"locked,omitempty"`
}

// ClosureAction is one of the four things that can be done to a closure.
type ClosureAction int

const (
	ActionOpen ClosureAction = iota
	ActionClose
	ActionLock
	ActionUnlock
)

func (a ClosureAction) String() string {
	switch a {
	case ActionOpen:
		return "open"
	case ActionClose:
		return "close"
	case ActionLock:
		return "lock"
	case ActionUnlock:
		return "unlock"
	default:
		return "unknown"
	}
}

// apply transitions st according to action. hasKey is consulted only for
// lock and unlock.
func (st *ClosureState) apply(c *Closure, action ClosureAction, hasKey func(*Lock) bool) error {
	switch action {
	case ActionOpen:
		if st.Locked {
			return ErrLocked
		}
		if !st.Closed {
			return ErrAlreadyOpen
		}
		st.Closed = false

	case ActionClose:
		if st.Closed {
			return ErrAlreadyClosed
		}
		st.Closed = true

	case ActionLock:
		if c.Lock == nil {
			return ErrNoLock
		}
		if !st.Closed {
			return ErrMustClose
		}
		if st.Locked {
			return ErrAlreadyLocked
		}
		if !hasKey(c.Lock) {
			return ErrNoKey
		}
		st.Locked = true

	case ActionUnlock:
		if c.Lock == nil {
			return ErrNoLock
		}
		if !st.Locked {
			return ErrNotLocked
		}
		if !hasKey(c.Lock) {
			return ErrNoKey
		}
		st.Locked = false

	default:
		return ErrUnknownClosure
	}
	return nil
}

func initialState(c *Closure) ClosureState {
	if c == nil {
		return ClosureState{}
	}
	st := ClosureState{Closed: c.Closed}
	if c.Lock != nil {
		st.Locked = c.Lock.Locked
	}
	return st
}
