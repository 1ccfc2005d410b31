package service

import (
	"context"
	"strings"

	"github.com/gstc/gstc/internal/domain"
)

// Command verbs understood by Execute.
const (
	VerbCreate = "create"
	VerbRead   = "read"
	VerbUpdate = "update"
	VerbDelete = "delete"
)

// Command is a parsed "<verb> <path> [<argument>]" line.
type Command struct {
	Verb string
	Path string
	Arg  string
}

// ParseCommand splits line into verb, resource path and argument. The
// argument is everything after the path, spaces included.
func ParseCommand(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{}, domain.NewBadCommandError("")
	}
	verb, rest, _ := strings.Cut(line, " ")
	path, arg, _ := strings.Cut(strings.TrimSpace(rest), " ")

	switch verb {
	case VerbCreate, VerbRead, VerbUpdate, VerbDelete:
	default:
		return Command{}, domain.NewBadCommandError(verb)
	}
	if path == "" {
		return Command{}, domain.NewMissingArgumentError("resource path")
	}
	return Command{Verb: verb, Path: path, Arg: strings.TrimSpace(arg)}, nil
}

// Execute runs a textual command and returns the response payload, which
// is nil for commands that only report a code.
func (e *Engine) Execute(ctx context.Context, line string) (any, error) {
	cmd, err := ParseCommand(line)
	if err != nil {
		return nil, err
	}
	return e.Do(ctx, cmd)
}

// Do runs a parsed command.
func (e *Engine) Do(ctx context.Context, cmd Command) (any, error) {
	switch cmd.Verb {
	case VerbCreate:
		return nil, e.create(cmd.Path, cmd.Arg)
	case VerbRead:
		return e.read(ctx, cmd.Path)
	case VerbUpdate:
		return nil, e.update(cmd.Path, cmd.Arg)
	case VerbDelete:
		return nil, e.remove(cmd.Path, cmd.Arg)
	}
	return nil, domain.NewBadCommandError(cmd.Verb)
}

func segments(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func (e *Engine) create(path, arg string) error {
	seg := segments(path)
	switch {
	case len(seg) == 1 && seg[0] == "pipelines":
		name, description, _ := strings.Cut(arg, " ")
		if name == "" {
			return domain.NewMissingArgumentError("pipeline name")
		}
		return e.CreatePipeline(name, strings.TrimSpace(description))
	case len(seg) == 3 && seg[0] == "pipelines" && seg[2] == "event":
		return e.InjectEvent(seg[1], arg)
	}
	return domain.NewNoCreateError(path)
}

func (e *Engine) remove(path, arg string) error {
	seg := segments(path)
	if len(seg) == 1 && seg[0] == "pipelines" {
		return e.DeletePipeline(arg)
	}
	return domain.NewNoResourceError(path)
}

func (e *Engine) update(path, arg string) error {
	seg := segments(path)
	if len(seg) < 3 || seg[0] != "pipelines" {
		return domain.NewNoUpdateError(path)
	}
	if arg == "" {
		return domain.NewMissingArgumentError("value")
	}
	name := seg[1]

	switch {
	case len(seg) == 3 && seg[2] == "state":
		return e.SetState(name, arg)
	case len(seg) == 4 && seg[2] == "bus" && seg[3] == "types":
		return e.SetBusTypes(name, arg)
	case len(seg) == 4 && seg[2] == "bus" && seg[3] == "timeout":
		return e.SetBusTimeout(name, arg)
	case len(seg) == 6 && seg[2] == "elements" && seg[4] == "properties":
		return e.SetProperty(name, seg[3], seg[5], arg)
	}
	return domain.NewNoUpdateError(path)
}

func (e *Engine) read(ctx context.Context, path string) (any, error) {
	seg := segments(path)
	switch {
	case len(seg) == 0:
		return domain.NewListNode("", []string{"pipelines"}), nil
	case seg[0] != "pipelines":
		return nil, domain.NewNoResourceError(path)
	case len(seg) == 1:
		return domain.NewListNode("pipelines", e.ListPipelines()), nil
	}

	name := seg[1]
	switch {
	case len(seg) == 2:
		return e.PipelineNode(name)
	case len(seg) == 3 && seg[2] == "state":
		state, err := e.State(name)
		if err != nil {
			return nil, err
		}
		return domain.NewValueNode("state", string(state)), nil
	case len(seg) == 3 && seg[2] == "elements":
		names, err := e.Elements(name)
		if err != nil {
			return nil, err
		}
		return domain.NewListNode("elements", names), nil
	case len(seg) == 3 && seg[2] == "event":
		return nil, domain.NewNoReadError(path)
	case len(seg) == 3 && seg[2] == "bus":
		if _, err := e.State(name); err != nil {
			return nil, err
		}
		return domain.NewListNode("bus", []string{"message", "timeout", "types"}), nil
	case len(seg) == 4 && seg[2] == "bus":
		return e.readBus(ctx, name, seg[3], path)
	case len(seg) == 4 && seg[2] == "elements":
		if _, err := e.Properties(name, seg[3]); err != nil {
			return nil, err
		}
		return domain.NewListNode(seg[3], []string{"properties"}), nil
	case len(seg) == 5 && seg[2] == "elements" && seg[4] == "properties":
		props, err := e.Properties(name, seg[3])
		if err != nil {
			return nil, err
		}
		return domain.NewListNode("properties", props), nil
	case len(seg) == 6 && seg[2] == "elements" && seg[4] == "properties":
		return e.Property(name, seg[3], seg[5])
	}
	return nil, domain.NewNoResourceError(path)
}

func (e *Engine) readBus(ctx context.Context, name, what, path string) (any, error) {
	switch what {
	case "message":
		msg, err := e.ReadBusMessage(ctx, name)
		if err != nil || msg == nil {
			return nil, err
		}
		return msg, nil
	case "types":
		types, err := e.BusTypes(name)
		if err != nil {
			return nil, err
		}
		return domain.NewValueNode("types", types), nil
	case "timeout":
		timeout, err := e.BusTimeout(name)
		if err != nil {
			return nil, err
		}
		return domain.NewValueNode("timeout", timeout), nil
	}
	return nil, domain.NewNoResourceError(path)
}

// PipelineNode describes a pipeline and lists its child resources.
func (e *Engine) PipelineNode(name string) (*domain.Node, error) {
	state, err := e.State(name)
	if err != nil {
		return nil, err
	}
	node := domain.NewListNode(name, []string{"bus", "elements", "event", "state"})
	node.Value = string(state)
	return node, nil
}
