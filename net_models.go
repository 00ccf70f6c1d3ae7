package relink

type (
	// Conn is a single established websocket connection. Reads and writes
	// may run on different goroutines; implementations serialize writes
	// internally.
	Conn interface {
		// ReadMessage blocks until the next data frame arrives. Control
		// frames are absorbed by the transport. A close frame surfaces
		// as a *websocket.CloseError.
		ReadMessage() (MessageType, []byte, error)
		// WriteMessage writes a single frame.
		WriteMessage(mt MessageType, data []byte) error
		// CloseNormal performs a polite shutdown, sending a normal
		// closure frame before releasing the socket.
		CloseNormal() error
		// Close releases the socket without the closing handshake.
		Close() error
	}

	// Dialer establishes connections. The default implementation speaks
	// websocket; tests plug fakes through WithDialer.
	Dialer interface {
		Dial(cfg Config) (Conn, error)
	}
)
