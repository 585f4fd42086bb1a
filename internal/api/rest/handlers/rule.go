package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bizmate/automation/internal/engine"
	"github.com/bizmate/automation/internal/models"
	"github.com/bizmate/automation/pkg/logger"
	"github.com/bizmate/automation/pkg/validator"
)

// RuleHandler handles rule-related HTTP requests
type RuleHandler struct {
	logger    *logger.Logger
	engine    *engine.Engine
	validator *validator.Validator
}

// NewRuleHandler creates a new rule handler
func NewRuleHandler(log *logger.Logger, eng *engine.Engine, v *validator.Validator) *RuleHandler {
	return &RuleHandler{
		logger:    log,
		engine:    eng,
		validator: v,
	}
}

// List retrieves all registered rules. Pass active=true to filter to active
// rules only.
func (h *RuleHandler) List(w http.ResponseWriter, r *http.Request) {
	var rules []*models.Rule
	if active, _ := strconv.ParseBool(r.URL.Query().Get("active")); active {
		rules = h.engine.GetActiveRules()
	} else {
		rules = h.engine.GetRules()
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"rules": rules,
		"total": len(rules),
	})
}

// Get retrieves a rule by ID
func (h *RuleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rule, ok := h.engine.GetRule(id)
	if !ok {
		respondError(w, http.StatusNotFound, "Rule not found")
		return
	}

	respondJSON(w, http.StatusOK, rule)
}

// Create registers a new rule
func (h *RuleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var rule models.Rule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}

	if err := h.validator.Validate(&rule); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.engine.SetRule(&rule); err != nil {
		h.logger.Error("Failed to register rule", logger.Err(err))
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, rule)
}

// Update replaces an existing rule in place
func (h *RuleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, ok := h.engine.GetRule(id); !ok {
		respondError(w, http.StatusNotFound, "Rule not found")
		return
	}

	var rule models.Rule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	rule.ID = id

	if err := h.validator.Validate(&rule); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.engine.SetRule(&rule); err != nil {
		h.logger.Error("Failed to update rule", logger.Err(err))
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, rule)
}

// Delete removes a rule
func (h *RuleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if !h.engine.RemoveRule(id) {
		respondError(w, http.StatusNotFound, "Rule not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
