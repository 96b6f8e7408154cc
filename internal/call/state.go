package call

// State is the connection state of a Controller.
type State string

const (
	StateIdle       State = "idle"
	StateConnecting State = "connecting"
	StateConnected  State = "connected"
	StateLeaving    State = "leaving"
	StateError      State = "error"
)

// transitions lists the moves a controller makes on its own.  Destroy is
// not in the table: it resets any state to idle.
var transitions = map[State][]State{
	StateIdle:       {StateConnecting},
	StateConnecting: {StateConnected, StateError, StateLeaving},
	StateConnected:  {StateLeaving, StateError},
	StateLeaving:    {StateIdle},
	StateError:      {StateLeaving, StateIdle},
}

// CanTransition reports whether the table allows s -> to.
func (s State) CanTransition(to State) bool {
	for _, t := range transitions[s] {
		if t == to {
			return true
		}
	}
	return false
}
