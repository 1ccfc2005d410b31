package handler

import (
	"net/http"

	"github.com/gstc/gstc/internal/api/response"
	"github.com/gstc/gstc/internal/domain"
	"github.com/gstc/gstc/internal/service"
	"github.com/gstc/gstc/internal/telemetry"
)

// SystemHandler handles the root resource and unknown routes.
type SystemHandler struct {
	base
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(engine *service.Engine, metrics *telemetry.CommandMetrics) *SystemHandler {
	return &SystemHandler{base{engine: engine, metrics: metrics}}
}

// Root handles GET /.
func (h *SystemHandler) Root(w http.ResponseWriter, r *http.Request) {
	h.respond(w, service.VerbRead, domain.NewListNode("", []string{"pipelines"}), nil)
}

// NotFound answers requests for resources that do not exist.
func (h *SystemHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	response.Write(w, nil, domain.NewNoResourceError(r.URL.Path))
}

// MethodNotAllowed answers verbs a resource does not support.
func (h *SystemHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	response.Write(w, nil, domain.NewBadCommandError(r.Method+" "+r.URL.Path))
}
