// Package handler serves the daemon resource tree over HTTP.
package handler

import (
	"net/http"

	"github.com/gstc/gstc/internal/api/response"
	"github.com/gstc/gstc/internal/domain"
	"github.com/gstc/gstc/internal/service"
	"github.com/gstc/gstc/internal/telemetry"
)

// base carries what every handler needs.
type base struct {
	engine  *service.Engine
	metrics *telemetry.CommandMetrics
}

// respond writes the envelope and records the served command.
func (b base) respond(w http.ResponseWriter, verb string, payload any, err error) {
	b.metrics.ObserveCommand("http", verb, int(domain.CodeOf(err)))
	response.Write(w, payload, err)
}

// name returns the "name" query parameter, which carries the argument of
// create, update and delete requests.
func name(r *http.Request) string {
	return r.URL.Query().Get("name")
}
