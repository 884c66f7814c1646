package game

import "errors"

var (
	ErrActorNotFound = errors.New("actor not found")
	ErrActorExists   = errors.New("actor already exists")
	ErrRoomNotFound  = errors.New("room not found")
	ErrItemNotFound  = errors.New("item not found")
	ErrExitNotFound  = errors.New("exit not found")
	ErrNotHere       = errors.New("not in the same room")
	ErrNotSpawned    = errors.New("actor is not spawned")

	// Closure state errors
	ErrNotCloseable   = errors.New("nothing to open or close")
	ErrLocked         = errors.New("closure is locked")
	ErrAlreadyOpen    = errors.New("closure is already open")
	ErrAlreadyClosed  = errors.New("closure is already closed")
	ErrMustClose      = errors.New("closure must be closed first")
	ErrAlreadyLocked  = errors.New("closure is already locked")
	ErrNotLocked      = errors.New("closure is not locked")
	ErrNoLock         = errors.New("closure has no lock")
	ErrNoKey          = errors.New("key not carried")
	ErrExitClosed     = errors.New("exit is closed")
	ErrUnknownClosure = errors.New("unknown closure action")
)
