package gstc

import (
	"context"
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// WaitForever makes a bus wait block until a matching message arrives.
// A timeout of 0 polls without blocking. Positive values are passed to the
// daemon unchanged and interpreted in its own clock units.
const WaitForever int64 = -1

// BusWaitFunc is invoked once per asynchronous bus wait, on the wait's own
// goroutine, after the daemon answered the bus read. userData is the value
// given to PipelineBusWaitAsync.
type BusWaitFunc func(c *Client, pipeline, filter string, timeout int64, userData any)

// waitTask describes one outstanding asynchronous wait. It is handed to
// exactly one worker and dropped once the callback returns.
type waitTask struct {
	id       string
	client   *Client
	pipeline string
	filter   string
	timeout  int64
	callback BusWaitFunc
	userData any
}

// PipelineBusWaitAsync configures the pipeline's bus filter and timeout,
// then reads the next matching bus message on a new goroutine and calls
// callback when the read returns, whether a message arrived or the timeout
// elapsed. It returns as soon as the goroutine has been started.
//
// The filter and timeout are applied with two separate updates. Their
// outcomes are logged but not returned, and a failed timeout update leaves
// the new filter in place. The worker's read outcome is not reported to
// callback either. There is no way to cancel a wait once started; ctx
// cancellation does not reach the worker.
func (c *Client) PipelineBusWaitAsync(ctx context.Context, pipeline, filter string, timeout int64,
	callback BusWaitFunc, userData any) error {
	if c == nil {
		return ErrNullArgument
	}
	if pipeline == "" {
		return nullArgument("pipeline name")
	}
	if filter == "" {
		return nullArgument("message filter")
	}
	if callback == nil {
		return nullArgument("callback")
	}
	if c.closed.Load() {
		return ErrClosed
	}

	task := &waitTask{
		id:       uuid.NewString(),
		client:   c,
		pipeline: pipeline,
		filter:   filter,
		timeout:  timeout,
		callback: callback,
		userData: userData,
	}
	log := c.logger.With().Str("wait", task.id).Str("pipeline", pipeline).Logger()

	if err := c.send(ctx, buildUpdate(busPath(pipeline, "types"), filter)); err != nil {
		log.Warn().Err(err).Str("filter", filter).Msg("bus filter not applied")
	}
	if err := c.send(ctx, buildUpdate(busPath(pipeline, "timeout"), strconv.FormatInt(timeout, 10))); err != nil {
		log.Warn().Err(err).Int64("timeout", timeout).Msg("bus timeout not applied")
	}

	c.metrics.WaitStarted()
	go task.run(context.WithoutCancel(ctx))

	log.Debug().Str("filter", filter).Int64("timeout", timeout).Msg("bus wait started")
	return nil
}

// run performs the blocking bus read and delivers the callback.
func (t *waitTask) run(ctx context.Context) {
	c := t.client
	defer c.metrics.WaitDone()

	err := c.send(ctx, buildRead(busPath(t.pipeline, "message")))
	c.logger.Debug().
		Str("wait", t.id).
		Str("pipeline", t.pipeline).
		Err(err).
		Msg("bus read returned")

	t.callback(c, t.pipeline, t.filter, t.timeout, t.userData)
}

// syncWait is the coordination state for one PipelineBusWait call.
type syncWait struct {
	mu      sync.Mutex
	cond    *sync.Cond
	waiting bool
}

func busWaitDone(_ *Client, _, _ string, _ int64, userData any) {
	w := userData.(*syncWait)

	w.mu.Lock()
	w.waiting = false
	w.cond.Signal()
	w.mu.Unlock()
}

// PipelineBusWait is PipelineBusWaitAsync that blocks until the bus read
// returns. It returns the setup result only; if setup fails nothing was
// started and it returns at once. ctx cancellation does not interrupt the
// wait.
func (c *Client) PipelineBusWait(ctx context.Context, pipeline, filter string, timeout int64) error {
	w := &syncWait{waiting: true}
	w.cond = sync.NewCond(&w.mu)

	if err := c.PipelineBusWaitAsync(ctx, pipeline, filter, timeout, busWaitDone, w); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for w.waiting {
		w.cond.Wait()
	}
	return nil
}
