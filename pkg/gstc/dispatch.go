package gstc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gstc/gstc/internal/telemetry"
)

// codeField names the response field holding the command's status.
const codeField = "code"

// send dispatches request and reports its outcome. Every operation funnels
// through here.
func (c *Client) send(ctx context.Context, request string) error {
	_, err := c.exchange(ctx, request)
	return err
}

// exchange dispatches request and, when the daemon reports success, returns
// the full response for callers that read its payload.
func (c *Client) exchange(ctx context.Context, request string) (string, error) {
	if c == nil {
		return "", ErrNullArgument
	}
	if request == "" {
		return "", nullArgument("request")
	}
	if c.closed.Load() {
		return "", ErrClosed
	}

	verb := verbOf(request)
	ctx, span := telemetry.StartDispatch(ctx, c.tracer, verb, request)
	start := time.Now()

	resp, err := c.roundTrip(ctx, request)

	elapsed := time.Since(start)
	status := StatusOf(err)
	c.metrics.ObserveDispatch(verb, resultLabel(err), elapsed)
	telemetry.EndDispatch(span, int(status), err)

	event := c.logger.Debug()
	if err != nil && !IsDaemonFailure(err) {
		event = c.logger.Warn()
	}
	event.Str("request", request).
		Int("status", int(status)).
		Dur("elapsed", elapsed).
		Err(err).
		Msg("dispatch")

	return resp, err
}

func (c *Client) roundTrip(ctx context.Context, request string) (string, error) {
	resp, err := c.transport.Send(ctx, request)
	if err != nil {
		var libErr *Error
		if !errors.As(err, &libErr) {
			err = newError(StatusSocketError, "send", err)
		}
		return "", err
	}

	code, err := c.decoder.Int(resp, codeField)
	if err != nil {
		if !errors.Is(err, ErrDecode) {
			err = newError(StatusMalformed, "decode", err)
		}
		return "", err
	}

	// Daemon codes are non-negative; a negative one would read as a library
	// status.
	if code < 0 {
		return "", newError(StatusMalformed, "decode", fmt.Errorf("negative daemon code %d", code))
	}

	if code != int(StatusOK) {
		daemonErr := &DaemonError{Code: code, Request: request}
		if pd, ok := c.decoder.(PayloadDecoder); ok {
			daemonErr.Description, _ = pd.String(resp, "description")
		}
		return "", daemonErr
	}

	return resp, nil
}

// resultLabel classifies an outcome for metrics.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsDaemonFailure(err):
		return "daemon_error"
	case IsDecodeFailure(err):
		return "decode_error"
	case IsTransportFailure(err):
		return "transport_error"
	default:
		return "error"
	}
}
