package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-push-reactor/internal/application/registry"
	"github.com/go-push-reactor/internal/domain"
	"github.com/go-push-reactor/internal/pkg/validate"
)

// EventHandler ingests change events over HTTP. It is the webhook alternative
// to the stream consumer: external systems that observe document mutations
// themselves can post them here and have the same handlers react.
type EventHandler struct {
	registry *registry.Registry
}

func NewEventHandler(reg *registry.Registry) *EventHandler {
	return &EventHandler{registry: reg}
}

func (h *EventHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var ev domain.ChangeEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validate.Struct(ev); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	outcome, err := h.registry.Dispatch(r.Context(), ev)
	if err != nil {
		if errors.Is(err, domain.ErrBadRequest) {
			httpError(w, err)
			return
		}
		// Hand the host's retry signal back to the caller.
		writeJSON(w, http.StatusInternalServerError, EventEnvelope{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusAccepted, EventEnvelope{Outcome: outcome})
}
