// Package response writes gstd response envelopes.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/gstc/gstc/internal/domain"
)

// Envelope is the body of every daemon response.
type Envelope struct {
	Code        int    `json:"code"`
	Description string `json:"description"`
	Response    any    `json:"response"`
}

// New builds the envelope for a command outcome. The payload is dropped
// when err is set.
func New(payload any, err error) Envelope {
	code := domain.CodeOf(err)
	env := Envelope{
		Code:        int(code),
		Description: code.Description(),
	}
	if err == nil {
		env.Response = payload
	}
	return env
}

// Encode renders the envelope for a command outcome as indented JSON.
func Encode(payload any, err error) ([]byte, error) {
	return json.MarshalIndent(New(payload, err), "", "  ")
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Write sends the envelope for a command outcome.
func Write(w http.ResponseWriter, payload any, err error) {
	env := New(payload, err)
	JSON(w, StatusFor(domain.ErrorCode(env.Code)), env)
}

// StatusFor maps a return code onto an HTTP status. The body carries the
// code either way.
func StatusFor(code domain.ErrorCode) int {
	switch code {
	case domain.CodeOK:
		return http.StatusOK
	case domain.CodeNoPipeline, domain.CodeNoResource:
		return http.StatusNotFound
	case domain.CodeExistingName, domain.CodeExistingResource:
		return http.StatusConflict
	case domain.CodeBadCommand:
		return http.StatusMethodNotAllowed
	case domain.CodeIPCError:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
