package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestDomainError_Error(t *testing.T) {
	err := &DomainError{Code: CodeNoPipeline, Message: "Test message"}

	if err.Error() != "Test message" {
		t.Errorf("DomainError.Error() = %v, want %v", err.Error(), "Test message")
	}
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *DomainError
		wantCode ErrorCode
		contains string
	}{
		{"no pipeline", NewNoPipelineError("p0"), CodeNoPipeline, "p0"},
		{"existing name", NewExistingNameError("p0"), CodeExistingName, "p0"},
		{"no resource", NewNoResourceError("/pipelines/p0/x"), CodeNoResource, "/pipelines/p0/x"},
		{"bad description", NewBadDescriptionError("empty"), CodeBadDescription, "empty"},
		{"bad value", NewBadValueError("state", "flying"), CodeBadValue, "flying"},
		{"bad command", NewBadCommandError("frobnicate"), CodeBadCommand, "frobnicate"},
		{"missing argument", NewMissingArgumentError("value"), CodeMissingArgument, "value"},
		{"no create", NewNoCreateError("/"), CodeNoCreate, "/"},
		{"no read", NewNoReadError("/x"), CodeNoRead, "/x"},
		{"no update", NewNoUpdateError("/x"), CodeNoUpdate, "/x"},
		{"event", NewEventError("seek"), CodeEventError, "seek"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %v, want %v", tt.err.Code, tt.wantCode)
			}
			if !strings.Contains(tt.err.Message, tt.contains) {
				t.Errorf("Message should contain %q, got: %v", tt.contains, tt.err.Message)
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(nil); got != CodeOK {
		t.Errorf("CodeOf(nil) = %v, want %v", got, CodeOK)
	}
	if got := CodeOf(NewNoPipelineError("p")); got != CodeNoPipeline {
		t.Errorf("CodeOf(no pipeline) = %v, want %v", got, CodeNoPipeline)
	}
	if got := CodeOf(errors.New("boom")); got != CodeIPCError {
		t.Errorf("CodeOf(foreign) = %v, want %v", got, CodeIPCError)
	}
}

func TestErrorCode_Description(t *testing.T) {
	tests := map[ErrorCode]string{
		CodeOK:         "Success",
		CodeNoPipeline: "No such pipeline",
		CodeBadValue:   "Bad value",
		ErrorCode(99):  "Unknown error",
	}
	for code, want := range tests {
		if got := code.Description(); got != want {
			t.Errorf("ErrorCode(%d).Description() = %q, want %q", int(code), got, want)
		}
	}
}
