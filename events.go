package relink

type (
	// EventType discriminates lifecycle notifications delivered to
	// callbacks registered through the With* options.
	EventType int

	// CloseInfo describes how a connection ended.
	CloseInfo struct {
		// Code is the websocket close code when one was received, or
		// 1006 when the connection dropped without a close frame.
		Code int
		// Reason is the optional close frame text.
		Reason string
		// Clean reports whether the closure was requested locally via
		// Disconnect or Reconnect. Remote closures, even polite ones,
		// are not clean and remain eligible for reconnection.
		Clean bool
	}

	// Event is the payload delivered to lifecycle callbacks.
	Event struct {
		Type   EventType
		Client Client
		// Err is set for EventError.
		Err error
		// Close is set for EventClose and EventDisconnect.
		Close CloseInfo
		// Attempt is the 1-based reconnection attempt for
		// EventReconnecting, and the attempt that succeeded for
		// EventOpen and EventConnect, zero when the connection came
		// from a user call rather than a retry.
		Attempt int
	}
)

const (
	// EventOpen fires once per established connection, right after the
	// handshake completes.
	EventOpen EventType = iota + 1
	// EventConnect mirrors EventOpen, firing immediately after it.
	EventConnect
	// EventError fires when a dial attempt fails or the transport
	// reports a non-close read error.
	EventError
	// EventClose fires whenever a connection ends, including dial
	// attempts that never opened.
	EventClose
	// EventDisconnect mirrors EventClose, firing immediately after it.
	// Retry exhaustion is not signaled separately: the client simply
	// stays closed, with no EventReconnecting following the close.
	EventDisconnect
	// EventReconnecting fires when a reconnection attempt is scheduled,
	// before the retry delay elapses.
	EventReconnecting
)

func (t EventType) String() string {
	switch t {
	case EventOpen:
		return "open"
	case EventConnect:
		return "connect"
	case EventError:
		return "error"
	case EventClose:
		return "close"
	case EventDisconnect:
		return "disconnect"
	case EventReconnecting:
		return "reconnecting"
	default:
		return "unknown"
	}
}
