package session

// State is where an actor's session is in its lifecycle.
type State int32

const (
	// Detached sessions have no connection and no presence in the world.
	Detached State = iota
	// Attached sessions have a live output channel.
	Attached
	// Linkdead sessions lost their connection. The actor stays in the world
	// until the grace period runs out, and output is buffered for replay.
	Linkdead
)

func (s State) String() string {
	switch s {
	case Attached:
		return "attached"
	case Linkdead:
		return "linkdead"
	default:
		return "detached"
	}
}
