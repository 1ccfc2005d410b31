package service

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gstc/gstc/internal/domain"
)

// maxQueued bounds the messages a bus keeps for readers that have not
// arrived yet. The oldest message is dropped first.
const maxQueued = 256

// bus holds a pipeline's pending messages and its read filter.
type bus struct {
	mu      sync.Mutex
	types   string
	timeout int64
	queue   []domain.Message
	wake    chan struct{}
	closed  bool
}

func newBus() *bus {
	return &bus{timeout: -1, wake: make(chan struct{})}
}

func (b *bus) post(m domain.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	if len(b.queue) == maxQueued {
		b.queue = b.queue[1:]
	}
	b.queue = append(b.queue, m)
	close(b.wake)
	b.wake = make(chan struct{})
}

func (b *bus) close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	close(b.wake)
}

// popLocked removes and returns the first queued message matching types.
func (b *bus) popLocked(types string) (domain.Message, bool) {
	for i, m := range b.queue {
		if matchesTypes(types, m.Type) {
			b.queue = append(b.queue[:i], b.queue[i+1:]...)
			return m, true
		}
	}
	return domain.Message{}, false
}

// matchesTypes reports whether msgType is selected by a "+"-separated
// filter. An empty filter selects everything.
func matchesTypes(types, msgType string) bool {
	if types == "" {
		return true
	}
	for _, t := range strings.Split(types, "+") {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "any" || t == msgType {
			return true
		}
	}
	return false
}

// BusTypes returns the message filter of name.
func (e *Engine) BusTypes(name string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ent, err := e.lookup(name)
	if err != nil {
		return "", err
	}
	ent.bus.mu.Lock()
	defer ent.bus.mu.Unlock()
	return ent.bus.types, nil
}

// SetBusTypes sets the message filter used by later bus reads.
func (e *Engine) SetBusTypes(name, types string) error {
	if types == "" {
		return domain.NewMissingArgumentError("bus types")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ent, err := e.lookup(name)
	if err != nil {
		return err
	}
	ent.bus.mu.Lock()
	ent.bus.types = strings.ToLower(types)
	ent.bus.mu.Unlock()
	return nil
}

// BusTimeout returns the read timeout of name in nanoseconds.
func (e *Engine) BusTimeout(name string) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ent, err := e.lookup(name)
	if err != nil {
		return 0, err
	}
	ent.bus.mu.Lock()
	defer ent.bus.mu.Unlock()
	return ent.bus.timeout, nil
}

// SetBusTimeout sets the read timeout in nanoseconds. -1 waits forever.
func (e *Engine) SetBusTimeout(name, timeout string) error {
	ns, err := strconv.ParseInt(strings.TrimSpace(timeout), 10, 64)
	if err != nil || ns < -1 {
		return domain.NewBadValueError("bus timeout", timeout)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ent, lerr := e.lookup(name)
	if lerr != nil {
		return lerr
	}
	ent.bus.mu.Lock()
	ent.bus.timeout = ns
	ent.bus.mu.Unlock()
	return nil
}

// ReadBusMessage blocks until a message matching the bus filter is posted
// or the bus timeout expires. A timeout returns a nil message and no error.
func (e *Engine) ReadBusMessage(ctx context.Context, name string) (*domain.Message, error) {
	e.mu.Lock()
	ent, err := e.lookup(name)
	e.mu.Unlock()
	if err != nil {
		return nil, err
	}
	b := ent.bus

	b.mu.Lock()
	types, timeout := b.types, b.timeout
	b.mu.Unlock()

	var expired <-chan time.Time
	if timeout >= 0 {
		timer := time.NewTimer(time.Duration(timeout))
		defer timer.Stop()
		expired = timer.C
	}

	blocked := false
	defer func() {
		if blocked {
			e.metrics.ReadUnblocked()
		}
	}()

	for {
		b.mu.Lock()
		if b.closed {
			b.mu.Unlock()
			return nil, domain.NewNoPipelineError(name)
		}
		if m, ok := b.popLocked(types); ok {
			b.mu.Unlock()
			return &m, nil
		}
		wake := b.wake
		b.mu.Unlock()

		if !blocked {
			blocked = true
			e.metrics.ReadBlocked()
		}

		select {
		case <-wake:
		case <-expired:
			e.logger.Debug().Str("pipeline", name).Int64("timeout", timeout).Msg("bus read timed out")
			return nil, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
