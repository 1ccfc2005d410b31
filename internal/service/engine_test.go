package service

import (
	"testing"

	"github.com/gstc/gstc/internal/domain"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e := NewEngine()
	if err := e.CreatePipeline("p0", "videotestsrc pattern=ball num-buffers=10 ! fakesink name=sink sync=false"); err != nil {
		t.Fatalf("failed to create pipeline: %v", err)
	}
	return e
}

func TestEngine_CreateAndList(t *testing.T) {
	e := newTestEngine(t)

	if err := e.CreatePipeline("p1", "fakesrc ! fakesink"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names := e.ListPipelines()
	if len(names) != 2 || names[0] != "p0" || names[1] != "p1" {
		t.Errorf("ListPipelines() = %v, want [p0 p1]", names)
	}

	if err := e.CreatePipeline("p0", "fakesrc ! fakesink"); domain.CodeOf(err) != domain.CodeExistingName {
		t.Errorf("expected existing name, got %v", err)
	}
	if err := e.CreatePipeline("p2", ""); domain.CodeOf(err) != domain.CodeBadDescription {
		t.Errorf("expected bad description, got %v", err)
	}
}

func TestEngine_Delete(t *testing.T) {
	e := newTestEngine(t)

	if err := e.DeletePipeline("p0"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if names := e.ListPipelines(); len(names) != 0 {
		t.Errorf("expected no pipelines, got %v", names)
	}
	if err := e.DeletePipeline("p0"); domain.CodeOf(err) != domain.CodeNoPipeline {
		t.Errorf("expected no pipeline, got %v", err)
	}
	if err := e.DeletePipeline(""); domain.CodeOf(err) != domain.CodeMissingArgument {
		t.Errorf("expected missing argument, got %v", err)
	}
}

func TestEngine_SetState(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name     string
		pipeline string
		state    string
		wantCode domain.ErrorCode
	}{
		{"playing", "p0", "playing", domain.CodeOK},
		{"paused upper case", "p0", "PAUSED", domain.CodeOK},
		{"null", "p0", "null", domain.CodeOK},
		{"bad value", "p0", "flying", domain.CodeBadValue},
		{"unknown pipeline", "ghost", "playing", domain.CodeNoPipeline},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := e.SetState(tt.pipeline, tt.state)
			if got := domain.CodeOf(err); got != tt.wantCode {
				t.Errorf("code = %v, want %v", got, tt.wantCode)
			}
		})
	}

	if err := e.SetState("p0", "playing"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	state, err := e.State("p0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state != domain.StatePlaying {
		t.Errorf("State() = %v, want playing", state)
	}
}

func TestEngine_InjectEvent(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		event    string
		wantCode domain.ErrorCode
	}{
		{"eos", domain.CodeOK},
		{"flush_start", domain.CodeOK},
		{"flush_stop", domain.CodeOK},
		{"flush_stop true", domain.CodeOK},
		{"flush_stop maybe", domain.CodeBadValue},
		{"seek", domain.CodeEventError},
		{"", domain.CodeMissingArgument},
	}

	for _, tt := range tests {
		t.Run(tt.event, func(t *testing.T) {
			if got := domain.CodeOf(e.InjectEvent("p0", tt.event)); got != tt.wantCode {
				t.Errorf("code = %v, want %v", got, tt.wantCode)
			}
		})
	}
}

func TestEngine_Properties(t *testing.T) {
	e := newTestEngine(t)

	props, err := e.Properties("p0", "videotestsrc0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"name", "num-buffers", "pattern"}
	if len(props) != len(want) {
		t.Fatalf("Properties() = %v, want %v", props, want)
	}
	for i := range want {
		if props[i] != want[i] {
			t.Errorf("property %d = %q, want %q", i, props[i], want[i])
		}
	}

	node, err := e.Property("p0", "videotestsrc0", "num-buffers")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if node.Value != int64(10) {
		t.Errorf("num-buffers = %#v, want int64(10)", node.Value)
	}

	node, err = e.Property("p0", "sink", "sync")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if node.Value != false {
		t.Errorf("sync = %#v, want false", node.Value)
	}

	node, err = e.Property("p0", "sink", "name")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if node.Value != "sink" {
		t.Errorf("name = %#v, want sink", node.Value)
	}

	if _, err := e.Property("p0", "sink", "missing"); domain.CodeOf(err) != domain.CodeNoResource {
		t.Errorf("expected no resource, got %v", err)
	}
	if _, err := e.Property("p0", "nothing", "sync"); domain.CodeOf(err) != domain.CodeNoResource {
		t.Errorf("expected no resource, got %v", err)
	}
}

func TestEngine_SetProperty(t *testing.T) {
	e := newTestEngine(t)

	if err := e.SetProperty("p0", "videotestsrc0", "pattern", "snow"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	node, err := e.Property("p0", "videotestsrc0", "pattern")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if node.Value != "snow" {
		t.Errorf("pattern = %#v, want snow", node.Value)
	}

	tests := []struct {
		name     string
		element  string
		property string
		value    string
		wantCode domain.ErrorCode
	}{
		{"new property", "sink", "qos", "true", domain.CodeOK},
		{"empty value", "sink", "qos", "", domain.CodeMissingArgument},
		{"rename", "sink", "name", "other", domain.CodeNoUpdate},
		{"unknown element", "nothing", "qos", "true", domain.CodeNoResource},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := e.SetProperty("p0", tt.element, tt.property, tt.value)
			if got := domain.CodeOf(err); got != tt.wantCode {
				t.Errorf("code = %v, want %v", got, tt.wantCode)
			}
		})
	}
}
