package gstc

import (
	"errors"
	"fmt"
)

// Status is the integer outcome of an operation. StatusOK means success.
// Negative values are library-local failures that never reach the wire;
// positive values are codes reported by the daemon.
type Status int

const (
	StatusOK           Status = 0
	StatusNullArgument Status = -1
	StatusUnreachable  Status = -2
	StatusTimeout      Status = -3
	StatusOutOfMemory  Status = -4
	StatusTypeError    Status = -5
	StatusMalformed    Status = -6
	StatusNotFound     Status = -7
	StatusSendError    Status = -8
	StatusRecvError    Status = -9
	StatusSocketError  Status = -10
)

var statusNames = map[Status]string{
	StatusOK:           "ok",
	StatusNullArgument: "null argument",
	StatusUnreachable:  "daemon unreachable",
	StatusTimeout:      "timeout",
	StatusOutOfMemory:  "out of memory",
	StatusTypeError:    "type error",
	StatusMalformed:    "malformed response",
	StatusNotFound:     "field not found",
	StatusSendError:    "send error",
	StatusRecvError:    "receive error",
	StatusSocketError:  "socket error",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	if s > 0 {
		return fmt.Sprintf("daemon code %d", int(s))
	}
	return fmt.Sprintf("status %d", int(s))
}

func (s Status) isTransport() bool {
	switch s {
	case StatusUnreachable, StatusTimeout, StatusSendError, StatusRecvError, StatusSocketError:
		return true
	}
	return false
}

func (s Status) isDecode() bool {
	switch s {
	case StatusMalformed, StatusNotFound, StatusTypeError:
		return true
	}
	return false
}

// Error is a library-local failure. It never carries a daemon code.
type Error struct {
	Status Status
	Op     string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Status.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error with the same status, and the ErrTransport and
// ErrDecode class sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrTransport:
		return e.Status.isTransport()
	case ErrDecode:
		return e.Status.isDecode()
	}
	var other *Error
	if errors.As(target, &other) {
		return other.Status == e.Status && other.Op == "" && other.Err == nil
	}
	return false
}

// Sentinel errors, comparable with errors.Is.
var (
	ErrNullArgument  = &Error{Status: StatusNullArgument}
	ErrOutOfMemory   = &Error{Status: StatusOutOfMemory}
	ErrUnreachable   = &Error{Status: StatusUnreachable}
	ErrTimeout       = &Error{Status: StatusTimeout}
	ErrMalformed     = &Error{Status: StatusMalformed}
	ErrFieldNotFound = &Error{Status: StatusNotFound}
	ErrTypeError     = &Error{Status: StatusTypeError}

	// ErrClosed is returned by operations on a client after Close.
	ErrClosed = &Error{Status: StatusNullArgument, Op: "client", Err: errors.New("client is closed")}

	// ErrUnsupported is returned when the configured decoder cannot extract
	// response payloads.
	ErrUnsupported = errors.New("decoder does not support payload extraction")

	// ErrTransport matches every connect, send and receive failure.
	ErrTransport = errors.New("transport failure")
	// ErrDecode matches every failure to extract a field from a response.
	ErrDecode = errors.New("decode failure")
)

// DaemonError is a command the daemon rejected. Code is the daemon's own
// status code, passed through unchanged.
type DaemonError struct {
	Code        int
	Description string
	Request     string
}

func (e *DaemonError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("daemon returned code %d (%s) for %q", e.Code, e.Description, e.Request)
	}
	return fmt.Sprintf("daemon returned code %d for %q", e.Code, e.Request)
}

// StatusOf returns the status an error represents. A nil error is StatusOK;
// a daemon failure is its daemon code. Errors not produced by this package
// report StatusSocketError.
func StatusOf(err error) Status {
	if err == nil {
		return StatusOK
	}
	var daemonErr *DaemonError
	if errors.As(err, &daemonErr) {
		return Status(daemonErr.Code)
	}
	var libErr *Error
	if errors.As(err, &libErr) {
		return libErr.Status
	}
	return StatusSocketError
}

// IsNullArgument reports whether a required argument was missing.
func IsNullArgument(err error) bool {
	return StatusOf(err) == StatusNullArgument
}

// IsTransportFailure reports whether the round trip itself failed.
func IsTransportFailure(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsUnreachable reports whether the daemon could not be connected to.
func IsUnreachable(err error) bool {
	return errors.Is(err, ErrUnreachable)
}

// IsDecodeFailure reports whether the response lacked a well-formed field.
func IsDecodeFailure(err error) bool {
	return errors.Is(err, ErrDecode)
}

// IsDaemonFailure reports whether the daemon rejected the command.
func IsDaemonFailure(err error) bool {
	var daemonErr *DaemonError
	return errors.As(err, &daemonErr)
}

func newError(status Status, op string, err error) *Error {
	return &Error{Status: status, Op: op, Err: err}
}

func nullArgument(name string) *Error {
	return &Error{Status: StatusNullArgument, Op: name, Err: errors.New("argument is required")}
}
