package gstc

import (
	"context"
	"errors"
	"net"
	"os"
	"strings"
	"syscall"
)

// Transport owns the connection to the daemon. Send performs one blocking
// request/response round trip.
//
// The client does not serialize access to its transport: bus waits issue
// Send from their own goroutines while other calls are in flight, so
// implementations must be safe for concurrent use.
type Transport interface {
	Send(ctx context.Context, request string) (string, error)
	Close() error
}

// classifyDialError maps a connect failure onto a transport status.
func classifyDialError(err error) *Error {
	if isTimeout(err) {
		return newError(StatusTimeout, "connect", err)
	}
	if isConnectionRefused(err) {
		return newError(StatusUnreachable, "connect", err)
	}
	return newError(StatusSocketError, "connect", err)
}

// classifyIOError maps a send or receive failure onto a transport status,
// using fallback when the failure is not a timeout.
func classifyIOError(op string, fallback Status, err error) *Error {
	if isTimeout(err) {
		return newError(StatusTimeout, op, err)
	}
	return newError(fallback, op, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// isConnectionRefused checks if the error is a connection refused error.
func isConnectionRefused(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ENOENT) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "connection refused") ||
		(strings.Contains(errStr, "dial tcp") && strings.Contains(errStr, "refused"))
}
