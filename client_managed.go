package relink

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// reconnectKickDelay is the short pause Reconnect takes before dialing
// again, giving the closing handshake a moment to finish.
const reconnectKickDelay = 100 * time.Millisecond

// managedClient is the Client implementation. A single mutex serializes
// every lifecycle transition; callbacks always run outside of it. Each
// transition that invalidates in-flight work (a dial, a read loop or a
// pending timer) bumps gen, and stale work compares its captured gen
// before touching the client again.
type managedClient struct {
	cfg Config

	logger   Logger
	notifier Notifier
	dialer   Dialer
	headers  HeaderProvider

	emitter        *EventEmitter[EventType, Event]
	messageHandler MessageHandler

	mu      sync.Mutex
	gen     uint64
	state   State
	conn    Conn
	retries int

	reconnectTimer *time.Timer
	heartbeatTimer *time.Timer
	refreshTimer   *time.Timer
}

// New builds a Client for cfg. The only failure mode is an invalid
// configuration; everything that can go wrong afterwards is reported
// through the registered callbacks and the Notifier instead of being
// returned.
func New(cfg Config, opts ...Option) (Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	c := &managedClient{
		cfg:      cfg.withDefaults(),
		logger:   noopLogger{},
		notifier: NewNoopNotifier(),
		emitter:  NewEventEmitter[EventType, Event](),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.logger = c.logger.WithField("type", "managed_client")

	if c.dialer == nil {
		c.dialer = NewWebsocketDialer(c.logger)
	}

	return c, nil
}

func (c *managedClient) Connect() {
	c.mu.Lock()
	c.stopReconnectLocked()
	c.stopHeartbeatLocked()
	c.stopRefreshLocked()
	conn := c.conn
	c.gen++
	gen := c.gen
	c.conn = nil
	c.state = StateConnecting
	c.mu.Unlock()

	if conn != nil {
		c.logger.Infoln("connect called on a live connection, replacing it")
		c.closeCleanly(conn)
	}

	go c.dial(gen, 0)
}

func (c *managedClient) Disconnect() {
	c.mu.Lock()
	c.stopReconnectLocked()
	c.stopHeartbeatLocked()
	c.stopRefreshLocked()
	conn := c.conn
	c.gen++
	c.conn = nil
	c.state = StateClosed
	if c.cfg.RetryLimit > 0 {
		// Peg the counter at the limit so close processing that raced
		// us cannot schedule another attempt.
		c.retries = c.cfg.RetryLimit
	}
	c.mu.Unlock()

	if conn == nil {
		c.logger.Debugln("disconnect with no live connection")
		return
	}

	c.logger.Infoln("disconnecting")
	c.closeCleanly(conn)
}

func (c *managedClient) Reconnect() {
	c.mu.Lock()
	c.stopReconnectLocked()
	c.stopHeartbeatLocked()
	c.stopRefreshLocked()
	conn := c.conn
	c.gen++
	gen := c.gen
	c.conn = nil
	c.state = StateClosed
	c.retries = 0
	c.scheduleReconnectLocked(gen, reconnectKickDelay)
	c.mu.Unlock()

	c.logger.Infoln("reconnecting on request")

	if conn != nil {
		c.closeCleanly(conn)
	}
}

// closeCleanly shuts a handle down on the user's behalf and announces the
// clean closure.
func (c *managedClient) closeCleanly(conn Conn) {
	_ = conn.CloseNormal()

	info := CloseInfo{Code: websocket.CloseNormalClosure, Clean: true}
	c.emitter.Emit(EventClose, Event{Type: EventClose, Client: c, Close: info})
	c.emitter.Emit(EventDisconnect, Event{Type: EventDisconnect, Client: c, Close: info})
}

func (c *managedClient) Send(payload any) {
	data, err := encodePayload(payload)
	if err != nil {
		c.logger.Errorf("dropping outbound message: %s", err)
		c.notifier.Error("message could not be encoded and was dropped")
		return
	}

	c.mu.Lock()
	conn := c.conn
	open := c.state == StateOpen
	c.mu.Unlock()

	if !open || conn == nil {
		c.logger.Warnf("dropping outbound message: %s", ErrNotOpen)
		c.notifier.Warn("connection is not open, message was dropped")
		return
	}

	c.logger.Debugf("=> [DATA] %s", data)
	if err := conn.WriteMessage(DataMessage, data); err != nil {
		c.logger.Errorf("write failed: %s", err)
	}
}

func (c *managedClient) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *managedClient) Retries() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.retries
}

// dial runs off the caller's goroutine. attempt is the retry number this
// dial consumes, zero for a user-initiated connect.
func (c *managedClient) dial(gen uint64, attempt int) {
	log := c.logger.WithField("session", uuid.NewString())
	if attempt > 0 {
		log.Infof("dialing %s (retry %d/%d)", c.cfg.URL, attempt, c.cfg.RetryLimit)
	} else {
		log.Infof("dialing %s", c.cfg.URL)
	}

	cfg := c.cfg
	if c.headers != nil {
		hdr, err := c.headers()
		if err != nil {
			log.Errorf("cannot fetch handshake headers: %s", err)
			c.handleDialFailure(gen, errors.Wrap(ErrCannotConnect, err.Error()))
			return
		}
		cfg.Header = hdr
	}

	conn, err := c.dialer.Dial(cfg)
	if err != nil {
		log.Errorf("dial failed: %s", err)
		c.handleDialFailure(gen, err)
		return
	}

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		_ = conn.Close()
		log.Debugln("connection discarded, client moved on while dialing")
		return
	}
	c.conn = conn
	c.state = StateOpen
	c.retries = 0
	c.startHeartbeatLocked(gen)
	c.startRefreshLocked(gen)
	c.mu.Unlock()

	log.Infoln("connection open")

	c.emitter.Emit(EventOpen, Event{Type: EventOpen, Client: c, Attempt: attempt})
	c.emitter.Emit(EventConnect, Event{Type: EventConnect, Client: c, Attempt: attempt})

	// The read loop starts last so no inbound frame gets ahead of the
	// open callbacks.
	go c.readLoop(gen, conn)
}

// readLoop pumps inbound frames until the connection dies, then hands the
// read error to handleClosed. It is the only close detector for an
// established connection; write failures elsewhere just wait for the read
// side to notice.
func (c *managedClient) readLoop(gen uint64, conn Conn) {
	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			c.handleClosed(gen, conn, err)
			return
		}

		if !mt.IsData() && !mt.IsBinary() {
			continue
		}

		c.logger.Debugf("<= [DATA] %s", data)

		if c.messageHandler != nil {
			c.messageHandler(c, NewMessage(mt, data))
		}
	}
}

// handleClosed tears down after a read failure and decides between retrying
// and giving up. Stale invocations, from a connection the client already
// replaced or discarded, return without side effects.
func (c *managedClient) handleClosed(gen uint64, conn Conn, readErr error) {
	info, cause := closeInfoFromRead(readErr)

	c.mu.Lock()
	if gen != c.gen || conn != c.conn {
		c.mu.Unlock()
		return
	}
	c.stopHeartbeatLocked()
	c.stopRefreshLocked()
	c.conn = nil
	c.state = StateClosed
	retry, attempt := c.planRetryLocked(gen)
	c.mu.Unlock()

	_ = conn.Close()

	if cause != nil {
		c.logger.Errorf("connection lost: %s", cause)
		c.notifier.Error("connection lost unexpectedly")
		c.emitter.Emit(EventError, Event{Type: EventError, Client: c, Err: cause})
	} else {
		c.logger.Infof("connection closed by peer: %d %s", info.Code, info.Reason)
	}

	c.emitter.Emit(EventClose, Event{Type: EventClose, Client: c, Close: info})
	c.emitter.Emit(EventDisconnect, Event{Type: EventDisconnect, Client: c, Close: info})

	c.afterClose(retry, attempt)
}

// handleDialFailure mirrors handleClosed for connections that never opened.
func (c *managedClient) handleDialFailure(gen uint64, dialErr error) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.state = StateClosed
	retry, attempt := c.planRetryLocked(gen)
	c.mu.Unlock()

	info := CloseInfo{Code: websocket.CloseAbnormalClosure}

	c.notifier.Error("connection attempt failed")
	c.emitter.Emit(EventError, Event{Type: EventError, Client: c, Err: dialErr})
	c.emitter.Emit(EventClose, Event{Type: EventClose, Client: c, Close: info})
	c.emitter.Emit(EventDisconnect, Event{Type: EventDisconnect, Client: c, Close: info})

	c.afterClose(retry, attempt)
}

// afterClose announces the retry decision made under the lock. Giving up is
// deliberately quiet on the callback surface: the client just stays closed,
// and only the notifier hears about it.
func (c *managedClient) afterClose(retry bool, attempt int) {
	if retry {
		c.logger.Infof("retrying to connect in %s (attempt %d/%d)",
			c.cfg.RetryDelay, attempt, c.cfg.RetryLimit)
		c.emitter.Emit(EventReconnecting,
			Event{Type: EventReconnecting, Client: c, Attempt: attempt})
		return
	}

	c.logger.Warnln("connection lost, not retrying")
	c.notifier.Error("connection lost and could not be reestablished")
}

// planRetryLocked consumes one retry from the budget and schedules the next
// attempt. It reports whether an attempt was scheduled and its number.
func (c *managedClient) planRetryLocked(gen uint64) (bool, int) {
	if !c.cfg.retryEnabled() || c.retries >= c.cfg.RetryLimit {
		return false, c.retries
	}
	c.retries++
	c.scheduleReconnectLocked(gen, c.cfg.RetryDelay)
	return true, c.retries
}

func (c *managedClient) scheduleReconnectLocked(gen uint64, delay time.Duration) {
	c.stopReconnectLocked()
	c.reconnectTimer = time.AfterFunc(delay, func() {
		c.reconnectFire(gen)
	})
}

func (c *managedClient) stopReconnectLocked() bool {
	if c.reconnectTimer == nil {
		return false
	}
	c.reconnectTimer.Stop()
	c.reconnectTimer = nil
	return true
}

// reconnectFire runs when the retry delay elapses. The captured gen keeps
// attempts that were cancelled mid-flight, by Disconnect or by a newer
// Connect, from dialing anyway.
func (c *managedClient) reconnectFire(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || c.state != StateClosed {
		c.mu.Unlock()
		return
	}
	c.reconnectTimer = nil
	c.state = StateConnecting
	attempt := c.retries
	c.mu.Unlock()

	c.dial(gen, attempt)
}

// closeInfoFromRead maps a read error to the close information delivered to
// callbacks. An orderly close frame is not an error, anything else is.
func closeInfoFromRead(err error) (CloseInfo, error) {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		return CloseInfo{Code: ce.Code, Reason: ce.Text}, nil
	}
	return CloseInfo{Code: websocket.CloseAbnormalClosure},
		errors.Wrap(ErrConnectionClosed, err.Error())
}

// encodePayload renders an outbound payload as a text frame body. Strings
// and byte slices pass through verbatim, anything else is JSON encoded.
func encodePayload(payload any) ([]byte, error) {
	switch v := payload.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, errors.Wrap(err, "encode payload")
		}
		return data, nil
	}
}
