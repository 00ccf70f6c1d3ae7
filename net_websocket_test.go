package relink

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// mockWSServer creates a test websocket server around handler.
func mockWSServer(t *testing.T, handler func(*websocket.Conn)) *httptest.Server {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade error: %v", err)
			return
		}
		defer conn.Close()
		handler(conn)
	}))

	return server
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestWebsocketConnectSendReceive(t *testing.T) {
	closeCodes := make(chan int, 1)

	server := mockWSServer(t, func(conn *websocket.Conn) {
		for {
			mt, msg, err := conn.ReadMessage()
			if err != nil {
				var ce *websocket.CloseError
				if errors.As(err, &ce) {
					closeCodes <- ce.Code
				}
				return
			}
			if err := conn.WriteMessage(mt, msg); err != nil {
				return
			}
		}
	})
	defer server.Close()

	var mu sync.Mutex
	var got []string

	rec := &eventRecorder{}
	cli := newTestClient(t,
		Config{URL: wsURL(server), HeartbeatInterval: -1},
		rec,
		WithLogger(NewWriterLogger(io.Discard)),
		WithOnMessage(func(_ Client, m Message) {
			mu.Lock()
			got = append(got, string(m.Data()))
			mu.Unlock()
		}))

	cli.Connect()
	require.Eventually(t, func() bool { return cli.State() == StateOpen }, waitFor, tick)

	cli.Send("hello over the wire")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, waitFor, tick)

	mu.Lock()
	require.Equal(t, "hello over the wire", got[0])
	mu.Unlock()

	cli.Disconnect()

	// The server receives an orderly goodbye, not a dropped socket.
	select {
	case code := <-closeCodes:
		require.Equal(t, websocket.CloseNormalClosure, code)
	case <-time.After(waitFor):
		t.Fatal("server never saw a close frame")
	}
}

func TestWebsocketServerDropTriggersRetry(t *testing.T) {
	var upgrades atomic.Int32

	server := mockWSServer(t, func(conn *websocket.Conn) {
		if upgrades.Add(1) == 1 {
			// First connection dies without ceremony.
			return
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer server.Close()

	rec := &eventRecorder{}
	cli := newTestClient(t,
		Config{URL: wsURL(server), RetryLimit: 3, RetryDelay: 50 * time.Millisecond, HeartbeatInterval: -1},
		rec,
		WithLogger(NewWriterLogger(io.Discard)))

	cli.Connect()

	require.Eventually(t, func() bool {
		return upgrades.Load() >= 2 && cli.State() == StateOpen
	}, waitFor, tick)

	require.GreaterOrEqual(t, rec.count(EventReconnecting), 1)
	require.GreaterOrEqual(t, rec.count(EventOpen), 2)
	require.Equal(t, 0, cli.Retries())
}

func TestWebsocketHandshakeMetadata(t *testing.T) {
	type handshake struct {
		apiKey    string
		protocols []string
	}
	handshakes := make(chan handshake, 1)

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handshakes <- handshake{
			apiKey:    r.Header.Get("X-Api-Key"),
			protocols: websocket.Subprotocols(r),
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	header := http.Header{}
	header.Set("X-Api-Key", "sekrit")

	rec := &eventRecorder{}
	cli := newTestClient(t,
		Config{
			URL:               wsURL(server),
			Subprotocols:      []string{"chat.v1", "chat.v2"},
			Header:            header,
			HeartbeatInterval: -1,
		},
		rec,
		WithLogger(NewWriterLogger(io.Discard)))

	cli.Connect()
	require.Eventually(t, func() bool { return cli.State() == StateOpen }, waitFor, tick)

	hs := <-handshakes
	require.Equal(t, "sekrit", hs.apiKey)
	require.Equal(t, []string{"chat.v1", "chat.v2"}, hs.protocols)
}

func TestWebsocketHeartbeatOnWire(t *testing.T) {
	payloads := make(chan string, 16)

	server := mockWSServer(t, func(conn *websocket.Conn) {
		for {
			mt, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if mt == websocket.TextMessage {
				payloads <- string(msg)
			}
		}
	})
	defer server.Close()

	rec := &eventRecorder{}
	cli := newTestClient(t,
		Config{URL: wsURL(server), RetryLimit: -1, HeartbeatInterval: 40 * time.Millisecond},
		rec,
		WithLogger(NewWriterLogger(io.Discard)))

	cli.Connect()
	require.Eventually(t, func() bool { return cli.State() == StateOpen }, waitFor, tick)

	// Keep-alives travel as ordinary text frames.
	for i := 0; i < 2; i++ {
		select {
		case payload := <-payloads:
			require.Equal(t, DefaultHeartbeatPayload, payload)
		case <-time.After(waitFor):
			t.Fatal("no keep-alive frame reached the server")
		}
	}
}

func TestWebsocketDialFailure(t *testing.T) {
	server := mockWSServer(t, func(*websocket.Conn) {})
	url := wsURL(server)
	server.Close()

	rec := &eventRecorder{}
	cli := newTestClient(t,
		Config{URL: url, RetryLimit: -1, HandshakeTimeout: time.Second},
		rec,
		WithLogger(NewWriterLogger(io.Discard)))

	cli.Connect()

	require.Eventually(t, func() bool {
		return rec.count(EventDisconnect) == 1
	}, waitFor, tick)

	errEv, ok := rec.last(EventError)
	require.True(t, ok)
	require.True(t, errors.Is(errEv.Err, ErrCannotConnect))

	closeEv, ok := rec.last(EventClose)
	require.True(t, ok)
	require.False(t, closeEv.Close.Clean)
	require.Equal(t, websocket.CloseAbnormalClosure, closeEv.Close.Code)
	require.Equal(t, StateClosed, cli.State())
}
