package gstc

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/gstc/gstc/internal/telemetry"
)

// Client controls a GStreamer Daemon. It owns exactly one Transport, which
// Close releases. A Client is safe for concurrent use to the extent its
// Transport is.
type Client struct {
	transport Transport
	decoder   Decoder
	logger    zerolog.Logger
	metrics   *telemetry.DispatchMetrics
	tracer    trace.Tracer
	closed    atomic.Bool
}

// NewClient creates a new gstd client.
//
// Options:
//   - WithAddress: daemon host (default: 127.0.0.1)
//   - WithPort: daemon port (default: 5000)
//   - WithConnectTimeout: connect bound (default: 5s)
//   - WithKeepOpen: hold one connection across calls (default: false)
//   - WithHTTP: use the HTTP API instead of TCP
//
// Example:
//
//	client, err := gstc.NewClient(
//	    gstc.WithAddress("127.0.0.1"),
//	    gstc.WithPort(5000),
//	)
func NewClient(opts ...ClientOption) (*Client, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	transport := cfg.transport
	if transport == nil {
		if cfg.address == "" {
			return nil, nullArgument("address")
		}
		var err error
		if cfg.useHTTP {
			transport, err = NewHTTPTransport(cfg.address, cfg.port, cfg.connectTimeout)
		} else {
			transport, err = NewTCPTransport(cfg.address, cfg.port, cfg.connectTimeout, cfg.keepOpen)
		}
		if err != nil {
			return nil, err
		}
	}

	metrics, err := telemetry.NewDispatchMetrics(cfg.registerer)
	if err != nil {
		transport.Close()
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	decoder := cfg.decoder
	if decoder == nil {
		decoder = JSONDecoder{}
	}

	return &Client{
		transport: transport,
		decoder:   decoder,
		logger:    cfg.logger.With().Str("component", "gstc").Logger(),
		metrics:   metrics,
		tracer:    telemetry.Tracer(cfg.tracerProvider),
	}, nil
}

// Close releases the transport. The client must not be used afterwards;
// calls made after Close fail with ErrClosed.
func (c *Client) Close() error {
	if c == nil {
		return ErrNullArgument
	}
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.transport.Close()
}

// Ping checks that the daemon is reachable and answering.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil {
		return ErrNullArgument
	}
	return c.send(ctx, buildRead(rootPath))
}

// Describe reads an arbitrary resource and returns the raw response.
func (c *Client) Describe(ctx context.Context, path string) (string, error) {
	if c == nil {
		return "", ErrNullArgument
	}
	if path == "" {
		return "", nullArgument("path")
	}
	return c.exchange(ctx, buildRead(path))
}
