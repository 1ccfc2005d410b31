package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gstc/gstc/internal/domain"
	"github.com/gstc/gstc/internal/service"
	"github.com/gstc/gstc/internal/telemetry"
)

// BusHandler handles bus filters and message reads.
type BusHandler struct {
	base
}

// NewBusHandler creates a new BusHandler.
func NewBusHandler(engine *service.Engine, metrics *telemetry.CommandMetrics) *BusHandler {
	return &BusHandler{base{engine: engine, metrics: metrics}}
}

// GetBus handles GET /pipelines/{pipeline}/bus.
func (h *BusHandler) GetBus(w http.ResponseWriter, r *http.Request) {
	_, err := h.engine.State(chi.URLParam(r, "pipeline"))
	h.respond(w, service.VerbRead, domain.NewListNode("bus", []string{"message", "timeout", "types"}), err)
}

// ReadMessage handles GET /pipelines/{pipeline}/bus/message. It blocks
// until a message arrives, the bus timeout expires or the client goes away.
func (h *BusHandler) ReadMessage(w http.ResponseWriter, r *http.Request) {
	msg, err := h.engine.ReadBusMessage(r.Context(), chi.URLParam(r, "pipeline"))
	h.respond(w, service.VerbRead, msg, err)
}

// GetTypes handles GET /pipelines/{pipeline}/bus/types.
func (h *BusHandler) GetTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.engine.BusTypes(chi.URLParam(r, "pipeline"))
	h.respond(w, service.VerbRead, domain.NewValueNode("types", types), err)
}

// SetTypes handles PUT /pipelines/{pipeline}/bus/types?name=.
func (h *BusHandler) SetTypes(w http.ResponseWriter, r *http.Request) {
	h.respond(w, service.VerbUpdate, nil, h.engine.SetBusTypes(chi.URLParam(r, "pipeline"), name(r)))
}

// GetTimeout handles GET /pipelines/{pipeline}/bus/timeout.
func (h *BusHandler) GetTimeout(w http.ResponseWriter, r *http.Request) {
	timeout, err := h.engine.BusTimeout(chi.URLParam(r, "pipeline"))
	h.respond(w, service.VerbRead, domain.NewValueNode("timeout", timeout), err)
}

// SetTimeout handles PUT /pipelines/{pipeline}/bus/timeout?name=.
func (h *BusHandler) SetTimeout(w http.ResponseWriter, r *http.Request) {
	h.respond(w, service.VerbUpdate, nil, h.engine.SetBusTimeout(chi.URLParam(r, "pipeline"), name(r)))
}
