// Package domain holds the resources served by the fake daemon and the
// return codes it answers with.
package domain

import "fmt"

// ErrorCode is a gstd return code. It travels in the "code" field of every
// response.
type ErrorCode int

const (
	CodeOK                    ErrorCode = 0
	CodeNullArgument          ErrorCode = 1
	CodeBadDescription        ErrorCode = 2
	CodeExistingName          ErrorCode = 3
	CodeMissingInitialization ErrorCode = 4
	CodeNoPipeline            ErrorCode = 5
	CodeNoResource            ErrorCode = 6
	CodeNoCreate              ErrorCode = 7
	CodeExistingResource      ErrorCode = 8
	CodeNoUpdate              ErrorCode = 9
	CodeBadCommand            ErrorCode = 10
	CodeNoRead                ErrorCode = 11
	CodeNoConnection          ErrorCode = 12
	CodeBadValue              ErrorCode = 13
	CodeStateError            ErrorCode = 14
	CodeIPCError              ErrorCode = 15
	CodeEventError            ErrorCode = 16
	CodeMissingArgument       ErrorCode = 17
	CodeMissingName           ErrorCode = 18
)

var codeDescriptions = map[ErrorCode]string{
	CodeOK:                    "Success",
	CodeNullArgument:          "Required argument is NULL",
	CodeBadDescription:        "Bad pipeline description",
	CodeExistingName:          "Existing name",
	CodeMissingInitialization: "Missing initialization",
	CodeNoPipeline:            "No such pipeline",
	CodeNoResource:            "No such resource",
	CodeNoCreate:              "Cannot create",
	CodeExistingResource:      "Existing resource",
	CodeNoUpdate:              "Cannot update",
	CodeBadCommand:            "Bad command",
	CodeNoRead:                "Cannot read",
	CodeNoConnection:          "No connection",
	CodeBadValue:              "Bad value",
	CodeStateError:            "Failed to change state",
	CodeIPCError:              "IPC error",
	CodeEventError:            "Event error",
	CodeMissingArgument:       "Missing argument",
	CodeMissingName:           "Missing name",
}

// Description returns the text gstd sends next to the code.
func (c ErrorCode) Description() string {
	if d, ok := codeDescriptions[c]; ok {
		return d
	}
	return "Unknown error"
}

// DomainError is a failed command. Message is logged by the daemon; only
// the code and its description go on the wire.
type DomainError struct {
	Code    ErrorCode
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// CodeOf returns the return code for err. Errors that are not a
// *DomainError map to CodeIPCError.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	if de, ok := err.(*DomainError); ok {
		return de.Code
	}
	return CodeIPCError
}

// NewNoPipelineError creates a pipeline not found error.
func NewNoPipelineError(name string) *DomainError {
	return &DomainError{
		Code:    CodeNoPipeline,
		Message: fmt.Sprintf("Pipeline %s not found", name),
	}
}

// NewExistingNameError creates a duplicate pipeline error.
func NewExistingNameError(name string) *DomainError {
	return &DomainError{
		Code:    CodeExistingName,
		Message: fmt.Sprintf("Pipeline %s already exists", name),
	}
}

// NewNoResourceError creates a missing resource error.
func NewNoResourceError(path string) *DomainError {
	return &DomainError{
		Code:    CodeNoResource,
		Message: fmt.Sprintf("Resource %s not found", path),
	}
}

// NewBadDescriptionError creates an unparseable pipeline description error.
func NewBadDescriptionError(reason string) *DomainError {
	return &DomainError{
		Code:    CodeBadDescription,
		Message: "Bad pipeline description: " + reason,
	}
}

// NewBadValueError creates an invalid value error.
func NewBadValueError(what, value string) *DomainError {
	return &DomainError{
		Code:    CodeBadValue,
		Message: fmt.Sprintf("Invalid %s %q", what, value),
	}
}

// NewBadCommandError creates an unknown command error.
func NewBadCommandError(command string) *DomainError {
	return &DomainError{
		Code:    CodeBadCommand,
		Message: fmt.Sprintf("Unknown command %q", command),
	}
}

// NewMissingArgumentError creates a missing argument error.
func NewMissingArgumentError(what string) *DomainError {
	return &DomainError{
		Code:    CodeMissingArgument,
		Message: fmt.Sprintf("Missing %s", what),
	}
}

// NewNoCreateError is returned for create on a resource that does not
// support it.
func NewNoCreateError(path string) *DomainError {
	return &DomainError{
		Code:    CodeNoCreate,
		Message: fmt.Sprintf("Cannot create on %s", path),
	}
}

// NewNoReadError is returned for read on a write-only resource.
func NewNoReadError(path string) *DomainError {
	return &DomainError{
		Code:    CodeNoRead,
		Message: fmt.Sprintf("Cannot read %s", path),
	}
}

// NewNoUpdateError is returned for update on a read-only resource.
func NewNoUpdateError(path string) *DomainError {
	return &DomainError{
		Code:    CodeNoUpdate,
		Message: fmt.Sprintf("Cannot update %s", path),
	}
}

// NewEventError creates an unknown event error.
func NewEventError(event string) *DomainError {
	return &DomainError{
		Code:    CodeEventError,
		Message: fmt.Sprintf("Unknown event %q", event),
	}
}
