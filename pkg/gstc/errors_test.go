package gstc

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorHelpers(t *testing.T) {
	daemonErr := &DaemonError{Code: 5, Description: "No pipeline", Request: "delete /pipelines p"}

	tests := []struct {
		name    string
		err     error
		checker func(error) bool
		want    bool
	}{
		// NullArgument
		{
			name:    "IsNullArgument with null argument",
			err:     nullArgument("pipeline"),
			checker: IsNullArgument,
			want:    true,
		},
		{
			name:    "IsNullArgument with closed client",
			err:     ErrClosed,
			checker: IsNullArgument,
			want:    true,
		},
		{
			name:    "IsNullArgument with nil",
			err:     nil,
			checker: IsNullArgument,
			want:    false,
		},

		// Transport
		{
			name:    "IsTransportFailure with timeout",
			err:     newError(StatusTimeout, "receive", errors.New("i/o timeout")),
			checker: IsTransportFailure,
			want:    true,
		},
		{
			name:    "IsTransportFailure with recv error",
			err:     newError(StatusRecvError, "receive", errors.New("reset")),
			checker: IsTransportFailure,
			want:    true,
		},
		{
			name:    "IsTransportFailure with decode error",
			err:     newError(StatusMalformed, "decode", errors.New("bad")),
			checker: IsTransportFailure,
			want:    false,
		},
		{
			name:    "IsTransportFailure with daemon error",
			err:     daemonErr,
			checker: IsTransportFailure,
			want:    false,
		},

		// Unreachable
		{
			name:    "IsUnreachable with wrapped unreachable",
			err:     fmt.Errorf("ping: %w", newError(StatusUnreachable, "connect", errors.New("refused"))),
			checker: IsUnreachable,
			want:    true,
		},
		{
			name:    "IsUnreachable with send error",
			err:     newError(StatusSendError, "send", errors.New("broken pipe")),
			checker: IsUnreachable,
			want:    false,
		},

		// Decode
		{
			name:    "IsDecodeFailure with missing field",
			err:     newError(StatusNotFound, "decode", errors.New("missing")),
			checker: IsDecodeFailure,
			want:    true,
		},
		{
			name:    "IsDecodeFailure with type error",
			err:     newError(StatusTypeError, "decode", errors.New("not int")),
			checker: IsDecodeFailure,
			want:    true,
		},
		{
			name:    "IsDecodeFailure with socket error",
			err:     newError(StatusSocketError, "connect", errors.New("x")),
			checker: IsDecodeFailure,
			want:    false,
		},

		// Daemon
		{
			name:    "IsDaemonFailure with daemon error",
			err:     fmt.Errorf("delete: %w", daemonErr),
			checker: IsDaemonFailure,
			want:    true,
		},
		{
			name:    "IsDaemonFailure with library error",
			err:     ErrTimeout,
			checker: IsDaemonFailure,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.checker(tt.err); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Status
	}{
		{"nil", nil, StatusOK},
		{"library error", newError(StatusMalformed, "decode", errors.New("bad")), StatusMalformed},
		{"wrapped library error", fmt.Errorf("x: %w", ErrUnreachable), StatusUnreachable},
		{"daemon code", &DaemonError{Code: 13}, Status(13)},
		{"foreign error", errors.New("boom"), StatusSocketError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusOf(tt.err); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	err := newError(StatusTimeout, "receive", errors.New("deadline"))

	if !errors.Is(err, ErrTimeout) {
		t.Error("expected timeout error to match ErrTimeout")
	}
	if errors.Is(err, ErrUnreachable) {
		t.Error("timeout error should not match ErrUnreachable")
	}
	if !errors.Is(ErrClosed, ErrNullArgument) {
		t.Error("expected ErrClosed to match ErrNullArgument")
	}
	if errors.Is(ErrNullArgument, ErrClosed) {
		t.Error("a plain null argument is not ErrClosed")
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "op and cause",
			err:  newError(StatusUnreachable, "connect", errors.New("connection refused")),
			want: "connect: daemon unreachable: connection refused",
		},
		{
			name: "sentinel",
			err:  ErrMalformed,
			want: "malformed response",
		},
		{
			name: "daemon with description",
			err:  &DaemonError{Code: 5, Description: "No pipeline", Request: "delete /pipelines p"},
			want: `daemon returned code 5 (No pipeline) for "delete /pipelines p"`,
		},
		{
			name: "daemon without description",
			err:  &DaemonError{Code: 5, Request: "read /"},
			want: `daemon returned code 5 for "read /"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestStatusString(t *testing.T) {
	tests := map[Status]string{
		StatusOK:          "ok",
		StatusSocketError: "socket error",
		Status(3):         "daemon code 3",
		Status(-42):       "status -42",
	}
	for status, want := range tests {
		if got := status.String(); got != want {
			t.Errorf("Status(%d).String(): expected %q, got %q", int(status), want, got)
		}
	}
}
