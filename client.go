package relink

type (
	// Client manages a single websocket connection that survives outages.
	// All methods are safe for concurrent use, return immediately and
	// never panic; outcomes are reported through the registered callbacks
	// and the Notifier rather than returned.
	Client interface {
		// Connect dials the configured address. Safe to call in any
		// state: a live handle is closed cleanly and replaced.
		Connect()
		// Disconnect closes the connection for good, cancelling any
		// pending reconnection. No further attempt happens until
		// Connect or Reconnect is called again. Idempotent.
		Disconnect()
		// Reconnect tears down whatever connection exists and, after
		// a brief pause, dials again with a fresh retry budget.
		Reconnect()
		// Send writes payload as a text frame. Strings and byte slices
		// pass through verbatim, anything else is JSON encoded. When
		// the connection is not open the payload is dropped with a
		// warning.
		Send(payload any)
		// State reports the current connection state.
		State() State
		// Retries reports how many reconnection attempts the current
		// outage has consumed. Disconnect pegs the counter at the
		// retry limit, which is what keeps automatic retries off.
		Retries() int
	}

	// MessageHandler processes inbound data frames. It runs on the read
	// goroutine, one frame at a time.
	MessageHandler func(Client, Message)

	// EventHandler observes lifecycle events registered through the
	// WithOn* options.
	EventHandler func(Event)
)
