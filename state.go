package relink

// State is the readiness state of a connection. It gates which operations
// are allowed: Send writes only while StateOpen, the keep-alive emitter
// ticks only while StateOpen, and the retry machinery runs only while
// StateClosed.
type State int32

const (
	// StateClosed means no usable connection exists. It is the zero value
	// and the terminal state after Disconnect or an exhausted retry budget.
	StateClosed State = iota
	// StateConnecting means a dial is in flight.
	StateConnecting
	// StateOpen means the connection is established and writable.
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
