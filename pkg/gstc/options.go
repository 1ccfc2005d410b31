package gstc

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// ClientOption configures a Client.
type ClientOption func(*clientConfig)

// clientConfig holds the configuration for a Client.
type clientConfig struct {
	address        string
	port           int
	connectTimeout time.Duration
	keepOpen       bool
	useHTTP        bool

	transport Transport
	decoder   Decoder

	logger         zerolog.Logger
	registerer     prometheus.Registerer
	tracerProvider trace.TracerProvider
}

// Defaults match gstd's TCP listener.
const (
	DefaultAddress        = "127.0.0.1"
	DefaultPort           = 5000
	DefaultConnectTimeout = 5 * time.Second
)

// defaultConfig returns the default client configuration.
func defaultConfig() *clientConfig {
	return &clientConfig{
		address:        DefaultAddress,
		port:           DefaultPort,
		connectTimeout: DefaultConnectTimeout,
		logger:         zerolog.Nop(),
	}
}

// WithAddress sets the daemon host or IP address.
func WithAddress(address string) ClientOption {
	return func(c *clientConfig) {
		c.address = address
	}
}

// WithPort sets the daemon port.
func WithPort(port int) ClientOption {
	return func(c *clientConfig) {
		c.port = port
	}
}

// WithConnectTimeout bounds connection establishment.
func WithConnectTimeout(timeout time.Duration) ClientOption {
	return func(c *clientConfig) {
		c.connectTimeout = timeout
	}
}

// WithKeepOpen holds one TCP connection across calls instead of dialing
// per call.
func WithKeepOpen(keepOpen bool) ClientOption {
	return func(c *clientConfig) {
		c.keepOpen = keepOpen
	}
}

// WithHTTP selects gstd's HTTP API instead of its TCP protocol.
func WithHTTP(useHTTP bool) ClientOption {
	return func(c *clientConfig) {
		c.useHTTP = useHTTP
	}
}

// WithTransport replaces the built-in transports. The client takes
// ownership and closes it on Close.
func WithTransport(t Transport) ClientOption {
	return func(c *clientConfig) {
		c.transport = t
	}
}

// WithDecoder replaces the JSON response decoder.
func WithDecoder(d Decoder) ClientOption {
	return func(c *clientConfig) {
		c.decoder = d
	}
}

// WithLogger sets the logger used for dispatch and bus-wait diagnostics.
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithMetrics registers dispatch metrics with reg.
func WithMetrics(reg prometheus.Registerer) ClientOption {
	return func(c *clientConfig) {
		c.registerer = reg
	}
}

// WithTracerProvider emits one span per dispatch through tp.
func WithTracerProvider(tp trace.TracerProvider) ClientOption {
	return func(c *clientConfig) {
		c.tracerProvider = tp
	}
}
