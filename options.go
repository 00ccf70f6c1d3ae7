package relink

import "net/http"

// Option customizes a Client at construction time.
type Option func(*managedClient)

// HeaderProvider supplies the handshake headers for one dial attempt.
type HeaderProvider func() (http.Header, error)

// WithLogger installs a logger. By default the client is silent.
func WithLogger(logger Logger) Option {
	return func(c *managedClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithNotifier installs the sink for user-facing notices.
func WithNotifier(notifier Notifier) Option {
	return func(c *managedClient) {
		if notifier != nil {
			c.notifier = notifier
		}
	}
}

// WithDialer replaces the websocket dialer, mainly for tests.
func WithDialer(dialer Dialer) Option {
	return func(c *managedClient) {
		c.dialer = dialer
	}
}

// WithHeaderProvider resolves handshake headers right before every dial
// instead of reusing Config.Header, so short-lived credentials stay fresh
// across reconnections. A provider failure counts as a failed dial.
func WithHeaderProvider(provider HeaderProvider) Option {
	return func(c *managedClient) {
		c.headers = provider
	}
}

// WithOnMessage installs the handler for inbound data frames.
func WithOnMessage(handler MessageHandler) Option {
	return func(c *managedClient) {
		c.messageHandler = handler
	}
}

// WithOnEvent registers a lifecycle callback for one event type. Callbacks
// for the same event run in registration order, on the goroutine that
// produced the event.
func WithOnEvent(event EventType, handler EventHandler) Option {
	return func(c *managedClient) {
		if handler == nil {
			return
		}
		c.emitter.On(event, func(ev Event) {
			handler(ev)
		})
	}
}

// WithOnOpen runs handler once per established connection.
func WithOnOpen(handler EventHandler) Option {
	return WithOnEvent(EventOpen, handler)
}

// WithOnConnect mirrors WithOnOpen for dial-oriented callers.
func WithOnConnect(handler EventHandler) Option {
	return WithOnEvent(EventConnect, handler)
}

// WithOnError runs handler on dial failures and transport errors.
func WithOnError(handler EventHandler) Option {
	return WithOnEvent(EventError, handler)
}

// WithOnClose runs handler whenever an established connection ends.
func WithOnClose(handler EventHandler) Option {
	return WithOnEvent(EventClose, handler)
}

// WithOnDisconnect mirrors WithOnClose, running right after it for each
// closure.
func WithOnDisconnect(handler EventHandler) Option {
	return WithOnEvent(EventDisconnect, handler)
}

// WithOnReconnecting runs handler every time a retry gets scheduled.
func WithOnReconnecting(handler EventHandler) Option {
	return WithOnEvent(EventReconnecting, handler)
}
