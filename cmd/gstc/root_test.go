package main

import (
	"bytes"
	"context"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/gstc/gstc/internal/config"
	"github.com/gstc/gstc/internal/server"
	"github.com/gstc/gstc/pkg/gstc"
)

func TestRootCmd_Use(t *testing.T) {
	if rootCmd.Use != "gstc" {
		t.Errorf("rootCmd.Use = %s, expected gstc", rootCmd.Use)
	}
}

func TestRootCmd_Flags(t *testing.T) {
	for _, name := range []string{"json", "host", "port", "http", "keep-open", "connect-timeout", "log-level"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("rootCmd should have --%s flag", name)
		}
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	want := map[string][]string{
		"pipeline": {"create", "delete", "play", "pause", "stop", "eos", "list", "flush-start", "flush-stop", "state"},
		"element":  {"set", "get"},
		"bus":      {"wait"},
	}

	for parent, children := range want {
		cmd, _, err := rootCmd.Find([]string{parent})
		if err != nil || cmd.Name() != parent {
			t.Errorf("missing %s command", parent)
			continue
		}
		for _, child := range children {
			if sub, _, err := cmd.Find([]string{child}); err != nil || sub.Name() != child {
				t.Errorf("missing %s %s command", parent, child)
			}
		}
	}
}

func TestBusWaitCmd_Defaults(t *testing.T) {
	if f := busWaitCmd.Flags().Lookup("timeout"); f == nil || f.DefValue != "-1" {
		t.Errorf("expected --timeout default -1, got %v", f)
	}
	if f := busWaitCmd.Flags().Lookup("filter"); f == nil || f.DefValue != "eos" {
		t.Errorf("expected --filter default eos, got %v", f)
	}
}

func TestRootCmd_Help(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"--help"})
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("help failed: %v", err)
	}
	if !strings.Contains(buf.String(), "pipeline") {
		t.Errorf("expected pipeline command in help, got %q", buf.String())
	}
}

// newDaemonClient starts a fake daemon and returns a client for it.
func newDaemonClient(t *testing.T, useHTTP bool) *gstc.Client {
	t.Helper()

	cfg := server.Config{Logger: zerolog.Nop()}
	if useHTTP {
		cfg.HTTPAddr = "127.0.0.1:0"
	} else {
		cfg.TCPAddr = "127.0.0.1:0"
	}
	srv, err := server.New(cfg)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	go srv.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	})

	addr := ""
	for deadline := time.Now().Add(5 * time.Second); addr == "" && time.Now().Before(deadline); {
		if useHTTP {
			addr = srv.HTTPAddr()
		} else {
			addr = srv.Addr()
		}
		time.Sleep(10 * time.Millisecond)
	}
	if addr == "" {
		t.Fatal("server did not start listening")
	}

	host, portStr, _ := net.SplitHostPort(addr)
	port, _ := strconv.Atoi(portStr)

	resolved := config.Defaults()
	resolved.ServerHost = host
	resolved.ServerPort = port
	resolved.HTTP = useHTTP

	c, err := newClient(resolved, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCommands_EndToEnd(t *testing.T) {
	for _, transport := range []string{"tcp", "http"} {
		t.Run(transport, func(t *testing.T) {
			c := newDaemonClient(t, transport == "http")
			ctx := context.Background()
			var out bytes.Buffer

			if err := runPing(ctx, c, &out); err != nil {
				t.Fatalf("ping: %v", err)
			}
			if err := runPipelineCreate(ctx, c, &out, "p0", "videotestsrc name=src ! fakesink"); err != nil {
				t.Fatalf("create: %v", err)
			}
			if err := runPipelineCreate(ctx, c, &out, "p0", "videotestsrc ! fakesink"); mapErrorToExitCode(err) != ExitConflict {
				t.Errorf("duplicate create: expected conflict, got %v", err)
			}

			for _, action := range pipelineActions[1:] {
				if err := runPipelineAction(ctx, c, &out, "p0", action); err != nil {
					t.Errorf("%s: %v", action.use, err)
				}
			}
			if err := runPipelineAction(ctx, c, &out, "p0", flushStopAction(false)); err != nil {
				t.Errorf("flush-stop: %v", err)
			}
			if err := runPipelineSetState(ctx, c, &out, "p0", "sideways"); mapErrorToExitCode(err) != ExitInvalidArgument {
				t.Errorf("bad state: expected invalid argument, got %v", err)
			}

			if err := runElementSet(ctx, c, &out, "p0", "src", "pattern", "snow"); err != nil {
				t.Fatalf("element set: %v", err)
			}
			out.Reset()
			if err := runElementGet(ctx, c, &out, "p0", "src", "pattern"); err != nil {
				t.Fatalf("element get: %v", err)
			}
			if !strings.Contains(out.String(), "snow") {
				t.Errorf("expected property value in output, got %q", out.String())
			}

			out.Reset()
			if err := runPipelineList(ctx, c, &out); err != nil {
				t.Fatalf("list: %v", err)
			}
			if out.String() != "p0\n" {
				t.Errorf("expected p0 listed, got %q", out.String())
			}

			if err := runBusWait(ctx, c, &out, "p0", "eos", 0); err != nil {
				t.Errorf("bus wait with zero timeout: %v", err)
			}

			out.Reset()
			if err := runDescribe(ctx, c, &out, "/pipelines/p0/state"); err != nil {
				t.Fatalf("describe: %v", err)
			}
			if !strings.Contains(out.String(), "\"code\"") {
				t.Errorf("expected raw envelope, got %q", out.String())
			}

			if err := runPipelineAction(ctx, c, &out, "p0", pipelineActions[0]); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if err := runPipelineAction(ctx, c, &out, "p0", pipelineActions[0]); mapErrorToExitCode(err) != ExitNotFound {
				t.Errorf("second delete: expected not found, got %v", err)
			}
		})
	}
}

func TestCommands_DaemonNotRunning(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	cfg := config.Defaults()
	cfg.ServerPort = port
	cfg.Timeout = time.Second

	c, err := newClient(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	defer c.Close()

	err = runPing(context.Background(), c, &bytes.Buffer{})
	if mapErrorToExitCode(err) != ExitServerNotRunning {
		t.Errorf("expected exit code %d, got %d (%v)", ExitServerNotRunning, mapErrorToExitCode(err), err)
	}
}
