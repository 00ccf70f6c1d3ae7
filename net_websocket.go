package relink

import (
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/pkg/errors"
)

const (
	// writeTimeout bounds every frame write so a stalled peer cannot
	// wedge the caller.
	writeTimeout = 5 * time.Second
	// closeGracePeriod bounds the polite closing handshake.
	closeGracePeriod = time.Second
)

type (
	// wsDialer is the production Dialer backed by fasthttp/websocket.
	wsDialer struct {
		logger Logger
	}

	// wsConn wraps a live *websocket.Conn behind the Conn interface.
	wsConn struct {
		conn    *websocket.Conn
		logger  Logger
		writeMu sync.Mutex
	}
)

// NewWebsocketDialer returns the default websocket Dialer. Handshake
// timeout, subprotocols and headers come from the Config passed to Dial.
func NewWebsocketDialer(logger Logger) Dialer {
	if logger == nil {
		logger = noopLogger{}
	}
	return &wsDialer{logger: logger}
}

func (d *wsDialer) Dial(cfg Config) (Conn, error) {
	dialer := &websocket.Dialer{
		HandshakeTimeout: cfg.HandshakeTimeout,
		Subprotocols:     cfg.Subprotocols,
	}

	conn, resp, err := dialer.Dial(cfg.URL, cfg.Header)
	if err != nil {
		return nil, dialError(resp, err)
	}

	w := &wsConn{
		conn:   conn,
		logger: d.logger.WithField("net", "ws_connection"),
	}

	// Override control message handlers to gain full control over
	// 'control' frames, as some servers rate-limit their reception.
	conn.SetPingHandler(func(appData string) error {
		w.logger.Debugln("<= [PING]")
		err := conn.WriteControl(websocket.PongMessage,
			[]byte(appData), time.Now().Add(writeTimeout))
		if err == websocket.ErrCloseSent {
			return nil
		}
		if e, ok := err.(net.Error); ok && e.Temporary() {
			return nil
		}
		return err
	})

	conn.SetPongHandler(func(string) error {
		w.logger.Debugln("<= [PONG]")
		return nil
	})

	return w, nil
}

// dialError maps a failed handshake to one of the package errors, keeping
// whatever detail the response body carried.
func dialError(resp *http.Response, err error) error {
	var msg string

	if resp != nil {
		if resp.Body != nil {
			bts, readErr := io.ReadAll(resp.Body)
			if readErr == nil && len(bts) > 0 {
				msg = string(bts)
			}
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			return errors.Wrap(ErrRateLimit, msg)
		}
	}

	return errors.Wrap(ErrCannotConnect, err.Error())
}

func (w *wsConn) ReadMessage() (MessageType, []byte, error) {
	mt, bts, err := w.conn.ReadMessage()
	if err != nil {
		return 0, nil, err
	}
	return MessageType(mt), bts, nil
}

func (w *wsConn) WriteMessage(mt MessageType, data []byte) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	_ = w.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return w.conn.WriteMessage(int(mt), data)
}

func (w *wsConn) CloseNormal() error {
	deadline := time.Now().Add(closeGracePeriod)
	err := w.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		deadline)
	if err != nil && err != websocket.ErrCloseSent {
		w.logger.Debugf("close frame not delivered: %s", err)
	}
	return w.conn.Close()
}

func (w *wsConn) Close() error {
	return w.conn.Close()
}
