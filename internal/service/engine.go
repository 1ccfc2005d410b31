// Package service implements the fake daemon's resource tree: pipelines,
// their elements and properties, events and the bus.
package service

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/gstc/gstc/internal/domain"
	"github.com/gstc/gstc/internal/telemetry"
)

// Engine owns every pipeline. It is safe for concurrent use.
type Engine struct {
	mu        sync.Mutex
	pipelines map[string]*entry
	order     []string

	seq     atomic.Uint64
	logger  zerolog.Logger
	metrics *telemetry.CommandMetrics
}

type entry struct {
	pipeline *domain.Pipeline
	bus      *bus
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics records blocked bus reads in m.
func WithMetrics(m *telemetry.CommandMetrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// NewEngine creates an engine with no pipelines.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		pipelines: make(map[string]*entry),
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) lookup(name string) (*entry, error) {
	ent, ok := e.pipelines[name]
	if !ok {
		return nil, domain.NewNoPipelineError(name)
	}
	return ent, nil
}

// CreatePipeline parses description and registers it as name.
func (e *Engine) CreatePipeline(name, description string) error {
	p, err := domain.NewPipeline(name, description)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.pipelines[name]; exists {
		return domain.NewExistingNameError(name)
	}
	e.pipelines[name] = &entry{pipeline: p, bus: newBus()}
	e.order = append(e.order, name)

	e.logger.Info().Str("pipeline", name).Str("description", description).Msg("pipeline created")
	return nil
}

// DeletePipeline removes name. Bus reads blocked on it fail with
// CodeNoPipeline.
func (e *Engine) DeletePipeline(name string) error {
	if name == "" {
		return domain.NewMissingArgumentError("pipeline name")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ent, err := e.lookup(name)
	if err != nil {
		return err
	}
	ent.bus.close()
	delete(e.pipelines, name)
	for i, n := range e.order {
		if n == name {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}

	e.logger.Info().Str("pipeline", name).Msg("pipeline deleted")
	return nil
}

// ListPipelines returns pipeline names in creation order.
func (e *Engine) ListPipelines() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

// State returns the state of name.
func (e *Engine) State(name string) (domain.PipelineState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ent, err := e.lookup(name)
	if err != nil {
		return "", err
	}
	return ent.pipeline.State, nil
}

// SetState moves name to state and posts a state_changed message.
func (e *Engine) SetState(name, state string) error {
	s := domain.PipelineState(strings.ToLower(strings.TrimSpace(state)))
	if !s.IsValid() {
		return domain.NewBadValueError("state", state)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ent, err := e.lookup(name)
	if err != nil {
		return err
	}
	old := ent.pipeline.State
	ent.pipeline.State = s
	if old != s {
		e.post(ent, domain.MessageStateChanged)
	}

	e.logger.Debug().Str("pipeline", name).Str("from", string(old)).Str("to", string(s)).Msg("state changed")
	return nil
}

// InjectEvent sends event into name. event is the event type optionally
// followed by its argument, as in "flush_stop true".
func (e *Engine) InjectEvent(name, event string) error {
	fields := strings.Fields(event)
	if len(fields) == 0 {
		return domain.NewMissingArgumentError("event type")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ent, err := e.lookup(name)
	if err != nil {
		return err
	}

	switch fields[0] {
	case "eos":
		e.post(ent, domain.MessageEOS)
	case "flush_start":
	case "flush_stop":
		if len(fields) > 1 {
			if _, err := strconv.ParseBool(fields[1]); err != nil {
				return domain.NewBadValueError("flush_stop reset", fields[1])
			}
		}
	default:
		return domain.NewEventError(fields[0])
	}

	e.logger.Debug().Str("pipeline", name).Str("event", fields[0]).Msg("event injected")
	return nil
}

// Elements returns the element names of name.
func (e *Engine) Elements(name string) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ent, err := e.lookup(name)
	if err != nil {
		return nil, err
	}
	return ent.pipeline.ElementNames(), nil
}

func (e *Engine) element(pipeline, element string) (*domain.Element, error) {
	ent, err := e.lookup(pipeline)
	if err != nil {
		return nil, err
	}
	el := ent.pipeline.Element(element)
	if el == nil {
		return nil, domain.NewNoResourceError(fmt.Sprintf("/pipelines/%s/elements/%s", pipeline, element))
	}
	return el, nil
}

// Properties returns the sorted property names of an element. Every
// element has a name property.
func (e *Engine) Properties(pipeline, element string) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	el, err := e.element(pipeline, element)
	if err != nil {
		return nil, err
	}
	names := []string{"name"}
	for k := range el.Properties {
		if k != "name" {
			names = append(names, k)
		}
	}
	sort.Strings(names[1:])
	return names, nil
}

// Property returns the value of an element property.
func (e *Engine) Property(pipeline, element, property string) (*domain.Node, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	el, err := e.element(pipeline, element)
	if err != nil {
		return nil, err
	}

	var value string
	if property == "name" {
		value = el.Name
	} else {
		v, ok := el.Properties[property]
		if !ok {
			return nil, domain.NewNoResourceError(fmt.Sprintf("/pipelines/%s/elements/%s/properties/%s", pipeline, element, property))
		}
		value = v
	}

	typed, typeName := propertyValue(value)
	node := domain.NewValueNode(property, typed)
	node.Param = &domain.Param{
		Description: fmt.Sprintf("%s property of %s", property, el.Factory),
		Type:        typeName,
		Access:      "((GstdParamFlags) READ | WRITE)",
	}
	return node, nil
}

// SetProperty sets an element property. Properties not present in the
// description are created.
func (e *Engine) SetProperty(pipeline, element, property, value string) error {
	if value == "" {
		return domain.NewMissingArgumentError("property value")
	}
	if property == "name" {
		return domain.NewNoUpdateError(fmt.Sprintf("/pipelines/%s/elements/%s/properties/name", pipeline, element))
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	el, err := e.element(pipeline, element)
	if err != nil {
		return err
	}
	el.Properties[property] = value

	e.logger.Debug().Str("pipeline", pipeline).Str("element", element).Str("property", property).Str("value", value).Msg("property set")
	return nil
}

// propertyValue renders a stored property as the JSON type gstd would
// report for it.
func propertyValue(s string) (any, string) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, "gint64"
	}
	if s == "true" || s == "false" {
		return s == "true", "gboolean"
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, "gdouble"
	}
	return s, "gchararray"
}

// post queues a bus message from ent's pipeline. e.mu must be held.
func (e *Engine) post(ent *entry, msgType string) {
	ent.bus.post(domain.Message{
		Type:      msgType,
		Source:    ent.pipeline.Name,
		Timestamp: time.Now().UTC(),
		Seqnum:    e.seq.Add(1),
	})
}
