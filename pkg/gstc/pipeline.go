package gstc

import (
	"context"
	"strconv"
)

// State is a pipeline state the daemon can be asked to enter.
type State string

const (
	StatePlaying State = "playing"
	StatePaused  State = "paused"
	StateNull    State = "null"
)

// Pipeline events injectable with create on /pipelines/<name>/event.
const (
	eventEOS        = "eos"
	eventFlushStart = "flush_start"
	eventFlushStop  = "flush_stop"
)

// PipelineCreate creates a pipeline from a gst-launch description.
func (c *Client) PipelineCreate(ctx context.Context, name, description string) error {
	if c == nil {
		return ErrNullArgument
	}
	if name == "" {
		return nullArgument("pipeline name")
	}
	if description == "" {
		return nullArgument("pipeline description")
	}

	return c.send(ctx, buildCreate(pipelinesPath, name+" "+description))
}

// PipelineDelete deletes a pipeline.
func (c *Client) PipelineDelete(ctx context.Context, name string) error {
	if c == nil {
		return ErrNullArgument
	}
	if name == "" {
		return nullArgument("pipeline name")
	}

	return c.send(ctx, buildDelete(pipelinesPath, name))
}

// PipelineSetState asks the daemon to move a pipeline to state. The current
// state is not checked locally.
func (c *Client) PipelineSetState(ctx context.Context, name string, state State) error {
	if c == nil {
		return ErrNullArgument
	}
	if name == "" {
		return nullArgument("pipeline name")
	}
	if state == "" {
		return nullArgument("state")
	}

	return c.send(ctx, buildUpdate(statePath(name), string(state)))
}

// PipelinePlay sets a pipeline to playing.
func (c *Client) PipelinePlay(ctx context.Context, name string) error {
	return c.PipelineSetState(ctx, name, StatePlaying)
}

// PipelinePause sets a pipeline to paused.
func (c *Client) PipelinePause(ctx context.Context, name string) error {
	return c.PipelineSetState(ctx, name, StatePaused)
}

// PipelineStop sets a pipeline to null.
func (c *Client) PipelineStop(ctx context.Context, name string) error {
	return c.PipelineSetState(ctx, name, StateNull)
}

// PipelineInjectEOS sends an end-of-stream event into a pipeline.
func (c *Client) PipelineInjectEOS(ctx context.Context, name string) error {
	return c.injectEvent(ctx, name, eventEOS)
}

// PipelineFlushStart sends a flush-start event into a pipeline.
func (c *Client) PipelineFlushStart(ctx context.Context, name string) error {
	return c.injectEvent(ctx, name, eventFlushStart)
}

// PipelineFlushStop sends a flush-stop event into a pipeline. With reset
// the pipeline's running time is reset.
func (c *Client) PipelineFlushStop(ctx context.Context, name string, reset bool) error {
	return c.injectEvent(ctx, name, eventFlushStop+" "+strconv.FormatBool(reset))
}

func (c *Client) injectEvent(ctx context.Context, name, event string) error {
	if c == nil {
		return ErrNullArgument
	}
	if name == "" {
		return nullArgument("pipeline name")
	}

	return c.send(ctx, buildCreate(eventPath(name), event))
}

// PipelineList returns the names of the pipelines the daemon holds.
func (c *Client) PipelineList(ctx context.Context) ([]string, error) {
	if c == nil {
		return nil, ErrNullArgument
	}
	pd, ok := c.decoder.(PayloadDecoder)
	if !ok {
		return nil, ErrUnsupported
	}

	resp, err := c.exchange(ctx, buildRead(pipelinesPath))
	if err != nil {
		return nil, err
	}
	return pd.Nodes(resp)
}
