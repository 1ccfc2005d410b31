package gstc

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"strconv"
	"sync"
	"time"
)

// responseTerminator ends every response gstd writes on its TCP socket.
const responseTerminator = '\x00'

// TCPTransport speaks gstd's TCP protocol: the command is written as-is
// and the response is read up to a NUL byte or end of stream.
//
// With keepOpen one connection is held across calls. A call that finds it
// busy, for example behind a pending bus read, dials its own connection
// instead of waiting. Without keepOpen every call dials its own connection.
// Close releases every connection, failing reads still in progress.
type TCPTransport struct {
	addr     string
	timeout  time.Duration
	keepOpen bool

	// mu guards the fields below and is never held across network I/O.
	mu     sync.Mutex
	conn   net.Conn
	reader *bufio.Reader
	busy   bool
	closed bool
	active map[net.Conn]struct{}

	dial func(ctx context.Context, network, addr string) (net.Conn, error)
}

// NewTCPTransport creates a transport for address:port. timeout bounds
// connection establishment; zero means no bound. With keepOpen the
// connection is established immediately so an unreachable daemon is
// reported here.
func NewTCPTransport(address string, port int, timeout time.Duration, keepOpen bool) (*TCPTransport, error) {
	if address == "" {
		return nil, nullArgument("address")
	}
	dialer := &net.Dialer{Timeout: timeout}
	t := &TCPTransport{
		addr:     net.JoinHostPort(address, strconv.Itoa(port)),
		timeout:  timeout,
		keepOpen: keepOpen,
		active:   make(map[net.Conn]struct{}),
		dial:     dialer.DialContext,
	}
	if keepOpen {
		if err := t.connect(context.Background()); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Addr returns the daemon address.
func (t *TCPTransport) Addr() string {
	return t.addr
}

func (t *TCPTransport) connect(ctx context.Context) error {
	conn, err := t.dial(ctx, "tcp", t.addr)
	if err != nil {
		return classifyDialError(err)
	}
	t.conn = conn
	t.reader = bufio.NewReader(conn)
	return nil
}

// Send writes request and returns the daemon's response.
func (t *TCPTransport) Send(ctx context.Context, request string) (string, error) {
	if t.keepOpen {
		conn, reader, ok, err := t.acquire(ctx)
		if err != nil {
			return "", err
		}
		if ok {
			resp, err := roundTrip(ctx, conn, reader, request)
			t.release(conn, err)
			return resp, err
		}
	}
	return t.sendOnce(ctx, request)
}

// acquire claims the held connection, dialing it if needed. ok is false
// when another call is using it.
func (t *TCPTransport) acquire(ctx context.Context) (net.Conn, *bufio.Reader, bool, error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil, nil, false, ErrClosed
	}
	if t.busy {
		t.mu.Unlock()
		return nil, nil, false, nil
	}
	t.busy = true
	if t.conn != nil {
		conn, reader := t.conn, t.reader
		t.mu.Unlock()
		return conn, reader, true, nil
	}
	t.mu.Unlock()

	conn, err := t.dial(ctx, "tcp", t.addr)

	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.busy = false
		return nil, nil, false, classifyDialError(err)
	}
	if t.closed {
		t.busy = false
		conn.Close()
		return nil, nil, false, ErrClosed
	}
	t.conn = conn
	t.reader = bufio.NewReader(conn)
	return t.conn, t.reader, true, nil
}

// release hands the held connection back after a round trip.
func (t *TCPTransport) release(conn net.Conn, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.busy = false
	if err != nil && t.conn == conn {
		// The stream position is unknown after a failure; start over next time.
		conn.Close()
		t.conn = nil
		t.reader = nil
	}
}

// sendOnce runs one round trip on a connection of its own.
func (t *TCPTransport) sendOnce(ctx context.Context, request string) (string, error) {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return "", ErrClosed
	}

	conn, err := t.dial(ctx, "tcp", t.addr)
	if err != nil {
		return "", classifyDialError(err)
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		conn.Close()
		return "", ErrClosed
	}
	t.active[conn] = struct{}{}
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		delete(t.active, conn)
		t.mu.Unlock()
		conn.Close()
	}()
	return roundTrip(ctx, conn, bufio.NewReader(conn), request)
}

func roundTrip(ctx context.Context, conn net.Conn, r *bufio.Reader, request string) (string, error) {
	deadline, _ := ctx.Deadline()
	if err := conn.SetDeadline(deadline); err != nil {
		return "", newError(StatusSocketError, "send", err)
	}

	stop := context.AfterFunc(ctx, func() {
		conn.SetDeadline(time.Now())
	})
	defer stop()

	if _, err := io.WriteString(conn, request); err != nil {
		return "", classifyIOError("send", StatusSendError, err)
	}

	resp, err := r.ReadString(responseTerminator)
	if err != nil {
		if errors.Is(err, io.EOF) && resp != "" {
			return resp, nil
		}
		return "", classifyIOError("receive", StatusRecvError, err)
	}
	return resp[:len(resp)-1], nil
}

// Close releases the held connection and any connection with a round trip
// in progress. Pending reads fail with a receive error.
func (t *TCPTransport) Close() error {
	t.mu.Lock()
	t.closed = true
	held := t.conn
	t.conn = nil
	t.reader = nil
	active := make([]net.Conn, 0, len(t.active))
	for conn := range t.active {
		active = append(active, conn)
	}
	t.mu.Unlock()

	for _, conn := range active {
		conn.Close()
	}
	if held == nil {
		return nil
	}
	return held.Close()
}
