// Package server runs the fake daemon: the textual command protocol over
// TCP and the resource tree over HTTP, both backed by one engine.
package server

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/gstc/gstc/internal/api"
	"github.com/gstc/gstc/internal/api/response"
	"github.com/gstc/gstc/internal/domain"
	"github.com/gstc/gstc/internal/service"
	"github.com/gstc/gstc/internal/telemetry"
)

const (
	// DefaultTCPAddress is where gstd listens for TCP commands.
	DefaultTCPAddress = "localhost:5000"
	// DefaultHTTPAddress is where gstd serves its HTTP API.
	DefaultHTTPAddress = "localhost:5001"
	// DefaultShutdownTimeout is the default timeout for graceful shutdown.
	DefaultShutdownTimeout = 30 * time.Second

	// maxCommandSize bounds a single TCP command.
	maxCommandSize = 1 << 20
	// readChunk is the per-connection read buffer size.
	readChunk = 4 << 10
	// continuationWait bounds the wait for the rest of a command that
	// filled a whole chunk.
	continuationWait = 20 * time.Millisecond
)

// ErrNoListener is returned by New when neither protocol is enabled.
var ErrNoListener = errors.New("no listener configured")

// Config describes which protocols to serve and where.
type Config struct {
	// TCPAddr enables the TCP protocol when not empty.
	TCPAddr string
	// HTTPAddr enables the HTTP protocol when not empty.
	HTTPAddr string
	Logger   zerolog.Logger
	// Registry receives the command metrics and is exposed at /metrics.
	// Optional.
	Registry *prometheus.Registry
}

// Server manages the listeners and their connections.
type Server struct {
	engine     *service.Engine
	httpServer *http.Server
	metrics    *telemetry.CommandMetrics
	logger     zerolog.Logger

	tcpAddr      string
	httpAddr     string
	tcpListener  net.Listener
	httpListener net.Listener

	// ctx is the parent of every command context; Shutdown cancels it so
	// blocked bus reads return.
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	started bool
	closing atomic.Bool
	conns   map[net.Conn]struct{}
	wg      sync.WaitGroup
}

// New creates a Server with a fresh engine.
func New(cfg Config) (*Server, error) {
	if cfg.TCPAddr == "" && cfg.HTTPAddr == "" {
		return nil, ErrNoListener
	}

	var (
		metrics  *telemetry.CommandMetrics
		gatherer prometheus.Gatherer
	)
	if cfg.Registry != nil {
		var err error
		metrics, err = telemetry.NewCommandMetrics(cfg.Registry)
		if err != nil {
			return nil, err
		}
		gatherer = cfg.Registry
	}

	engine := service.NewEngine(
		service.WithLogger(cfg.Logger),
		service.WithMetrics(metrics),
	)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		engine:   engine,
		metrics:  metrics,
		logger:   cfg.Logger,
		tcpAddr:  cfg.TCPAddr,
		httpAddr: cfg.HTTPAddr,
		ctx:      ctx,
		cancel:   cancel,
		conns:    make(map[net.Conn]struct{}),
	}

	if cfg.HTTPAddr != "" {
		router := api.NewRouter(api.RouterConfig{
			Engine:   engine,
			Logger:   cfg.Logger,
			Metrics:  metrics,
			Gatherer: gatherer,
		})
		// No write timeout: bus message reads may block indefinitely.
		s.httpServer = &http.Server{
			Addr:        cfg.HTTPAddr,
			Handler:     router,
			ReadTimeout: 15 * time.Second,
			IdleTimeout: 60 * time.Second,
			BaseContext: func(net.Listener) context.Context { return ctx },
		}
	}

	return s, nil
}

// Engine returns the engine behind both protocols.
func (s *Server) Engine() *service.Engine {
	return s.engine
}

// Start opens the listeners and blocks until the server is shut down.
// It returns http.ErrServerClosed when the server is gracefully shut down.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}

	// Create listeners first so we know the actual addresses (for port 0 case)
	if s.tcpAddr != "" {
		ln, err := net.Listen("tcp", s.tcpAddr)
		if err != nil {
			s.mu.Unlock()
			return err
		}
		s.tcpListener = ln
	}
	if s.httpServer != nil {
		ln, err := net.Listen("tcp", s.httpAddr)
		if err != nil {
			if s.tcpListener != nil {
				s.tcpListener.Close()
				s.tcpListener = nil
			}
			s.mu.Unlock()
			return err
		}
		s.httpListener = ln
	}
	s.started = true
	tcpLn, httpLn := s.tcpListener, s.httpListener
	s.mu.Unlock()

	errs := make(chan error, 2)
	if tcpLn != nil {
		s.logger.Info().Str("addr", tcpLn.Addr().String()).Msg("tcp listening")
		go func() { errs <- s.serveTCP(tcpLn) }()
	}
	if httpLn != nil {
		s.logger.Info().Str("addr", httpLn.Addr().String()).Msg("http listening")
		go func() { errs <- s.httpServer.Serve(httpLn) }()
	}

	return <-errs
}

func (s *Server) serveTCP(ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.closing.Load() {
				return http.ErrServerClosed
			}
			return err
		}

		s.mu.Lock()
		s.conns[conn] = struct{}{}
		s.wg.Add(1)
		s.mu.Unlock()

		go s.handleConn(conn)
	}
}

// handleConn answers commands until the peer hangs up. Each write from the
// peer carries one command; the reply is the response envelope followed by
// a NUL byte.
func (s *Server) handleConn(conn net.Conn) {
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		conn.Close()
		s.wg.Done()
	}()

	remote := conn.RemoteAddr().String()
	s.logger.Debug().Str("remote", remote).Msg("tcp connection opened")

	r := bufio.NewReaderSize(conn, readChunk)
	chunk := make([]byte, readChunk)
	var cmd []byte
	for {
		var err error
		cmd, err = readCommand(conn, r, chunk, cmd[:0])
		if len(cmd) > 0 {
			line := strings.Trim(string(cmd), "\x00\r\n ")
			if werr := s.reply(conn, remote, line); werr != nil {
				s.logger.Debug().Err(werr).Str("remote", remote).Msg("tcp write failed")
				return
			}
		}
		if err != nil {
			s.logger.Debug().Str("remote", remote).Msg("tcp connection closed")
			return
		}
	}
}

// readCommand appends one command to cmd. A command is what the peer wrote
// in one go: once a read fills chunk, input is collected until the peer
// pauses or maxCommandSize is reached.
func readCommand(conn net.Conn, r *bufio.Reader, chunk, cmd []byte) ([]byte, error) {
	n, err := r.Read(chunk)
	cmd = append(cmd, chunk[:n]...)
	if err != nil || n < len(chunk) {
		return cmd, err
	}

	defer conn.SetReadDeadline(time.Time{})
	for len(cmd) < maxCommandSize {
		if err := conn.SetReadDeadline(time.Now().Add(continuationWait)); err != nil {
			return cmd, err
		}
		limit := min(len(chunk), maxCommandSize-len(cmd))
		n, err = r.Read(chunk[:limit])
		cmd = append(cmd, chunk[:n]...)
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return cmd, nil
		}
		if err != nil {
			return cmd, err
		}
	}
	return cmd, nil
}

func (s *Server) reply(conn net.Conn, remote, line string) error {
	id := uuid.NewString()
	start := time.Now()

	payload, err := s.engine.Execute(s.ctx, line)
	code := domain.CodeOf(err)
	s.metrics.ObserveCommand("tcp", verbLabel(line), int(code))

	s.logger.Info().
		Str("request_id", id).
		Str("remote", remote).
		Str("command", line).
		Int("code", int(code)).
		Dur("duration", time.Since(start)).
		Msg("tcp command")

	data, encErr := response.Encode(payload, err)
	if encErr != nil {
		s.logger.Error().Err(encErr).Str("request_id", id).Msg("failed to encode response")
		data, _ = response.Encode(nil, &domain.DomainError{Code: domain.CodeIPCError, Message: "internal error"})
	}
	_, werr := conn.Write(append(data, 0))
	return werr
}

// verbLabel keeps the metrics label set bounded.
func verbLabel(line string) string {
	verb, _, _ := strings.Cut(line, " ")
	switch verb {
	case service.VerbCreate, service.VerbRead, service.VerbUpdate, service.VerbDelete:
		return verb
	}
	return "invalid"
}

// Shutdown stops accepting connections, releases blocked commands and
// waits for connections to finish or until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	s.logger.Info().Msg("shutting down server")

	s.closing.Store(true)
	s.cancel()

	if s.tcpListener != nil {
		s.tcpListener.Close()
	}

	// Idle keep-open connections sit in Read; closing them ends the handler.
	s.mu.Lock()
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return err
		}
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.logger.Info().Msg("server stopped")
	return nil
}

// Addr returns the TCP address the server is listening on.
// Returns empty string if TCP is disabled or the server hasn't started yet.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tcpListener != nil {
		return s.tcpListener.Addr().String()
	}
	return ""
}

// HTTPAddr returns the HTTP address the server is listening on.
// Returns empty string if HTTP is disabled or the server hasn't started yet.
func (s *Server) HTTPAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.httpListener != nil {
		return s.httpListener.Addr().String()
	}
	return ""
}

// ListenAndServe starts the server with signal handling for graceful shutdown.
// It handles SIGINT and SIGTERM signals.
func (s *Server) ListenAndServe() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		s.logger.Info().Str("signal", sig.String()).Msg("received signal")
	}

	ctx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()

	return s.Shutdown(ctx)
}
