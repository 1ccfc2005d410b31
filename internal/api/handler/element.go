package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gstc/gstc/internal/domain"
	"github.com/gstc/gstc/internal/service"
	"github.com/gstc/gstc/internal/telemetry"
)

// ElementHandler handles elements and their properties.
type ElementHandler struct {
	base
}

// NewElementHandler creates a new ElementHandler.
func NewElementHandler(engine *service.Engine, metrics *telemetry.CommandMetrics) *ElementHandler {
	return &ElementHandler{base{engine: engine, metrics: metrics}}
}

// ListElements handles GET /pipelines/{pipeline}/elements.
func (h *ElementHandler) ListElements(w http.ResponseWriter, r *http.Request) {
	names, err := h.engine.Elements(chi.URLParam(r, "pipeline"))
	h.respond(w, service.VerbRead, domain.NewListNode("elements", names), err)
}

// GetElement handles GET /pipelines/{pipeline}/elements/{element}.
func (h *ElementHandler) GetElement(w http.ResponseWriter, r *http.Request) {
	element := chi.URLParam(r, "element")
	_, err := h.engine.Properties(chi.URLParam(r, "pipeline"), element)
	h.respond(w, service.VerbRead, domain.NewListNode(element, []string{"properties"}), err)
}

// ListProperties handles GET /pipelines/{pipeline}/elements/{element}/properties.
func (h *ElementHandler) ListProperties(w http.ResponseWriter, r *http.Request) {
	props, err := h.engine.Properties(chi.URLParam(r, "pipeline"), chi.URLParam(r, "element"))
	h.respond(w, service.VerbRead, domain.NewListNode("properties", props), err)
}

// GetProperty handles GET /pipelines/{pipeline}/elements/{element}/properties/{property}.
func (h *ElementHandler) GetProperty(w http.ResponseWriter, r *http.Request) {
	node, err := h.engine.Property(chi.URLParam(r, "pipeline"), chi.URLParam(r, "element"), chi.URLParam(r, "property"))
	h.respond(w, service.VerbRead, node, err)
}

// SetProperty handles PUT /pipelines/{pipeline}/elements/{element}/properties/{property}?name=.
func (h *ElementHandler) SetProperty(w http.ResponseWriter, r *http.Request) {
	err := h.engine.SetProperty(chi.URLParam(r, "pipeline"), chi.URLParam(r, "element"), chi.URLParam(r, "property"), name(r))
	h.respond(w, service.VerbUpdate, nil, err)
}
