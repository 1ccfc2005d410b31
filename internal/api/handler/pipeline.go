package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gstc/gstc/internal/domain"
	"github.com/gstc/gstc/internal/service"
	"github.com/gstc/gstc/internal/telemetry"
)

// PipelineHandler handles pipeline creation, deletion, state and events.
type PipelineHandler struct {
	base
}

// NewPipelineHandler creates a new PipelineHandler.
func NewPipelineHandler(engine *service.Engine, metrics *telemetry.CommandMetrics) *PipelineHandler {
	return &PipelineHandler{base{engine: engine, metrics: metrics}}
}

// ListPipelines handles GET /pipelines.
func (h *PipelineHandler) ListPipelines(w http.ResponseWriter, r *http.Request) {
	h.respond(w, service.VerbRead, domain.NewListNode("pipelines", h.engine.ListPipelines()), nil)
}

// CreatePipeline handles POST /pipelines?name=&description=.
func (h *PipelineHandler) CreatePipeline(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	pipeline := query.Get("name")
	if pipeline == "" {
		h.respond(w, service.VerbCreate, nil, domain.NewMissingArgumentError("pipeline name"))
		return
	}
	err := h.engine.CreatePipeline(pipeline, strings.TrimSpace(query.Get("description")))
	h.respond(w, service.VerbCreate, nil, err)
}

// DeletePipeline handles DELETE /pipelines?name=.
func (h *PipelineHandler) DeletePipeline(w http.ResponseWriter, r *http.Request) {
	h.respond(w, service.VerbDelete, nil, h.engine.DeletePipeline(name(r)))
}

// GetPipeline handles GET /pipelines/{pipeline}.
func (h *PipelineHandler) GetPipeline(w http.ResponseWriter, r *http.Request) {
	node, err := h.engine.PipelineNode(chi.URLParam(r, "pipeline"))
	h.respond(w, service.VerbRead, node, err)
}

// GetState handles GET /pipelines/{pipeline}/state.
func (h *PipelineHandler) GetState(w http.ResponseWriter, r *http.Request) {
	state, err := h.engine.State(chi.URLParam(r, "pipeline"))
	h.respond(w, service.VerbRead, domain.NewValueNode("state", string(state)), err)
}

// SetState handles PUT /pipelines/{pipeline}/state?name=.
func (h *PipelineHandler) SetState(w http.ResponseWriter, r *http.Request) {
	h.respond(w, service.VerbUpdate, nil, h.engine.SetState(chi.URLParam(r, "pipeline"), name(r)))
}

// InjectEvent handles POST /pipelines/{pipeline}/event?name=.
func (h *PipelineHandler) InjectEvent(w http.ResponseWriter, r *http.Request) {
	h.respond(w, service.VerbCreate, nil, h.engine.InjectEvent(chi.URLParam(r, "pipeline"), name(r)))
}
