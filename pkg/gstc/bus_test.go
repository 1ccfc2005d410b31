package gstc

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

const busMessageRequest = "read /pipelines/pipe/bus/message"

type busCall struct {
	client   *Client
	pipeline string
	filter   string
	timeout  int64
	userData any
}

func TestBusWaitAsyncReturnsBeforeRead(t *testing.T) {
	release := make(chan struct{})
	client, mock := newTestClient(t)
	mock.respond = func(request string) (string, error) {
		if request == busMessageRequest {
			<-release
		}
		return okResponse, nil
	}

	calls := make(chan busCall, 1)
	cb := func(c *Client, pipeline, filter string, timeout int64, userData any) {
		calls <- busCall{c, pipeline, filter, timeout, userData}
	}

	returned := make(chan error, 1)
	go func() {
		returned <- client.PipelineBusWaitAsync(context.Background(), "pipe", "eos", WaitForever, cb, "ctx-value")
	}()

	select {
	case err := <-returned:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("PipelineBusWaitAsync blocked on the bus read")
	}

	select {
	case <-calls:
		t.Fatal("callback fired before the bus read returned")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)

	select {
	case call := <-calls:
		if call.client != client {
			t.Error("expected callback to receive the client")
		}
		if call.pipeline != "pipe" || call.filter != "eos" || call.timeout != WaitForever {
			t.Errorf("unexpected callback arguments: %+v", call)
		}
		if call.userData != "ctx-value" {
			t.Errorf("expected user data ctx-value, got %v", call.userData)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("callback never fired")
	}

	want := []string{
		"update /pipelines/pipe/bus/types eos",
		"update /pipelines/pipe/bus/timeout -1",
		busMessageRequest,
	}
	sent := mock.sent()
	if len(sent) != len(want) {
		t.Fatalf("expected %d requests, got %q", len(want), sent)
	}
	for i := range want {
		if sent[i] != want[i] {
			t.Errorf("request %d: expected %q, got %q", i, want[i], sent[i])
		}
	}
}

func TestBusWaitAsyncSetupFailureNotSurfaced(t *testing.T) {
	client, mock := newTestClient(t)
	mock.respond = func(string) (string, error) {
		return `{"code": 5, "description": "No pipeline"}`, nil
	}

	done := make(chan struct{})
	err := client.PipelineBusWaitAsync(context.Background(), "pipe", "error", 0,
		func(*Client, string, string, int64, any) { close(done) }, nil)
	if err != nil {
		t.Fatalf("expected setup to report success, got %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("callback never fired")
	}
	if n := len(mock.sent()); n != 3 {
		t.Errorf("expected 3 dispatches, got %d", n)
	}
}

func TestBusWaitAsyncTimeoutVerbatim(t *testing.T) {
	client, mock := newTestClient(t)

	done := make(chan struct{})
	err := client.PipelineBusWaitAsync(context.Background(), "pipe", "eos", 1500000000,
		func(*Client, string, string, int64, any) { close(done) }, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	<-done

	if sent := mock.sent(); sent[1] != "update /pipelines/pipe/bus/timeout 1500000000" {
		t.Errorf("unexpected timeout request %q", sent[1])
	}
}

func TestBusWaitAsyncNullArguments(t *testing.T) {
	noop := func(*Client, string, string, int64, any) {}
	tests := []struct {
		name     string
		pipeline string
		filter   string
		cb       BusWaitFunc
	}{
		{"pipeline", "", "eos", noop},
		{"filter", "pipe", "", noop},
		{"callback", "pipe", "eos", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, mock := newTestClient(t)

			err := client.PipelineBusWaitAsync(context.Background(), tt.pipeline, tt.filter, WaitForever, tt.cb, nil)
			if !IsNullArgument(err) {
				t.Errorf("expected null argument, got %v", err)
			}
			if n := len(mock.sent()); n != 0 {
				t.Errorf("expected zero sends, got %d", n)
			}
		})
	}
}

// ctxTransport hands the context of the bus read to the test and blocks
// the read until release is closed.
type ctxTransport struct {
	mockTransport
	readCtx chan context.Context
	release chan struct{}
}

func (c *ctxTransport) Send(ctx context.Context, request string) (string, error) {
	if request == busMessageRequest {
		c.readCtx <- ctx
		<-c.release
	}
	return c.mockTransport.Send(ctx, request)
}

func TestBusWaitAsyncIgnoresCancellation(t *testing.T) {
	transport := &ctxTransport{
		readCtx: make(chan context.Context, 1),
		release: make(chan struct{}),
	}
	client, err := NewClient(WithTransport(transport))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	err = client.PipelineBusWaitAsync(ctx, "pipe", "eos", WaitForever,
		func(*Client, string, string, int64, any) { close(done) }, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	readCtx := <-transport.readCtx
	cancel()
	if readCtx.Err() != nil {
		t.Errorf("expected bus read context to survive cancellation, got %v", readCtx.Err())
	}
	close(transport.release)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("callback never fired after cancellation")
	}
}

func TestBusWaitAsyncConcurrent(t *testing.T) {
	client, _ := newTestClient(t)

	const waits = 16
	var (
		wg    sync.WaitGroup
		count atomic.Int32
	)
	wg.Add(waits)
	for i := 0; i < waits; i++ {
		err := client.PipelineBusWaitAsync(context.Background(), "pipe", "eos", 0,
			func(*Client, string, string, int64, any) {
				count.Add(1)
				wg.Done()
			}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	finished := make(chan struct{})
	go func() {
		wg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("not every wait delivered its callback")
	}
	if got := count.Load(); got != waits {
		t.Errorf("expected %d callbacks, got %d", waits, got)
	}
}

func TestBusWaitBlocksUntilReadReturns(t *testing.T) {
	const delay = 150 * time.Millisecond
	client, mock := newTestClient(t)
	mock.respond = func(request string) (string, error) {
		if request == busMessageRequest {
			time.Sleep(delay)
		}
		return okResponse, nil
	}

	start := time.Now()
	err := client.PipelineBusWait(context.Background(), "pipe", "eos", WaitForever)
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed < delay {
		t.Errorf("PipelineBusWait returned after %v, before the %v read completed", elapsed, delay)
	}
	if sent := mock.sent(); len(sent) != 3 || sent[2] != busMessageRequest {
		t.Errorf("unexpected requests %q", sent)
	}
}

func TestBusWaitImmediateCompletion(t *testing.T) {
	client, _ := newTestClient(t)

	done := make(chan error, 1)
	go func() {
		done <- client.PipelineBusWait(context.Background(), "pipe", "eos", WaitForever)
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("PipelineBusWait deadlocked")
	}
}

func TestBusWaitSetupErrorReturnsImmediately(t *testing.T) {
	client, mock := newTestClient(t)

	if err := client.PipelineBusWait(context.Background(), "pipe", "", WaitForever); !IsNullArgument(err) {
		t.Errorf("expected null argument, got %v", err)
	}
	if n := len(mock.sent()); n != 0 {
		t.Errorf("expected zero sends, got %d", n)
	}
}
