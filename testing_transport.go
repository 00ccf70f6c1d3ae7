package relink

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/mock"
)

type fakeFrame struct {
	mt   MessageType
	data []byte
}

// fakeConn is a scriptable Conn. Reads block until the test pushes a frame
// or kills the connection; writes are recorded for inspection.
type fakeConn struct {
	inbound chan fakeFrame
	dead    chan error

	mu          sync.Mutex
	writes      []fakeFrame
	writeErr    error
	closed      bool
	normalClose bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		inbound: make(chan fakeFrame, 16),
		dead:    make(chan error, 1),
	}
}

func (f *fakeConn) ReadMessage() (MessageType, []byte, error) {
	select {
	case fr := <-f.inbound:
		return fr.mt, fr.data, nil
	case err := <-f.dead:
		f.dead <- err
		return 0, nil, err
	}
}

func (f *fakeConn) WriteMessage(mt MessageType, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes = append(f.writes, fakeFrame{mt: mt, data: append([]byte(nil), data...)})
	return nil
}

func (f *fakeConn) CloseNormal() error {
	f.mu.Lock()
	f.normalClose = true
	f.mu.Unlock()
	return f.Close()
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		select {
		case f.dead <- errors.Wrap(ErrConnectionClosed, "use of closed connection"):
		default:
		}
	}
	return nil
}

// push delivers an inbound frame to the read loop.
func (f *fakeConn) push(mt MessageType, data string) {
	f.inbound <- fakeFrame{mt: mt, data: []byte(data)}
}

// fail makes the next read return err, simulating a dropped connection.
func (f *fakeConn) fail(err error) {
	select {
	case f.dead <- err:
	default:
	}
}

func (f *fakeConn) setWriteErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeErr = err
}

func (f *fakeConn) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.writes)
}

func (f *fakeConn) writtenPayloads() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.writes))
	for _, w := range f.writes {
		out = append(out, string(w.data))
	}
	return out
}

func (f *fakeConn) wasClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeConn) closedNormally() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.normalClose
}

// fakeDialer is a scriptable Dialer counting its invocations.
type fakeDialer struct {
	DialFunc func(cfg Config) (Conn, error)

	mu    sync.Mutex
	calls int
}

func (d *fakeDialer) Dial(cfg Config) (Conn, error) {
	d.mu.Lock()
	d.calls++
	d.mu.Unlock()
	return d.DialFunc(cfg)
}

func (d *fakeDialer) dials() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

// newFakeDialer returns a dialer whose every attempt succeeds with a fresh
// fakeConn, delivered on the returned channel.
func newFakeDialer() (*fakeDialer, chan *fakeConn) {
	conns := make(chan *fakeConn, 16)
	d := &fakeDialer{}
	d.DialFunc = func(Config) (Conn, error) {
		fc := newFakeConn()
		conns <- fc
		return fc, nil
	}
	return d, conns
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Warn(msg string) {
	m.Called(msg)
}

func (m *mockNotifier) Error(msg string) {
	m.Called(msg)
}

// eventRecorder collects lifecycle events for assertions.
type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *eventRecorder) record(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *eventRecorder) count(t EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

func (r *eventRecorder) last(t EventType) (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Type == t {
			return r.events[i], true
		}
	}
	return Event{}, false
}

func (r *eventRecorder) types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventType, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}

// options registers the recorder for every lifecycle event type.
func (r *eventRecorder) options() []Option {
	return []Option{
		WithOnOpen(r.record),
		WithOnConnect(r.record),
		WithOnError(r.record),
		WithOnClose(r.record),
		WithOnDisconnect(r.record),
		WithOnReconnecting(r.record),
	}
}
