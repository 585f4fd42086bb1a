package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/bizmate/automation/internal/engine"
	"github.com/bizmate/automation/internal/models"
	"github.com/bizmate/automation/pkg/logger"
)

// EventHandler handles event-related HTTP requests
type EventHandler struct {
	logger *logger.Logger
	engine *engine.Engine
}

// NewEventHandler creates a new event handler
func NewEventHandler(log *logger.Logger, eng *engine.Engine) *EventHandler {
	return &EventHandler{
		logger: log,
		engine: eng,
	}
}

// CreateEvent handles POST /api/v1/events. Dispatch is fire-and-forget: the
// request is accepted once the event is handed to the engine, before any rule
// runs.
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req models.TriggerEventRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Errorf("Failed to decode request: %v", err)
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Event == "" {
		respondError(w, http.StatusBadRequest, "event is required")
		return
	}
	if !req.Event.Valid() {
		respondError(w, http.StatusBadRequest, "unknown event type")
		return
	}
	if req.Payload == nil {
		respondError(w, http.StatusBadRequest, "payload is required")
		return
	}
	if req.TriggeredBy == "" {
		req.TriggeredBy = "api"
	}

	h.engine.Trigger(req.Event, req.Payload, req.TriggeredBy)

	respondJSON(w, http.StatusAccepted, map[string]string{
		"status": "accepted",
		"event":  string(req.Event),
	})
}
