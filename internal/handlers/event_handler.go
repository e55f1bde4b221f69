package handlers

import (
	"errors"
	"net/http"
	"time"

	"starcoach/internal/service"
)

type EventHandler struct {
	tracking *service.TrackingService
}

func NewEventHandler(tracking *service.TrackingService) *EventHandler {
	return &EventHandler{tracking: tracking}
}

type logEventRequest struct {
	BehaviorID   string     `json:"behaviorId"`
	OccurredAt   *time.Time `json:"occurredAt,omitempty"`
	StarsDelta   int        `json:"starsDelta,omitempty"`
	LinkedGoalID string     `json:"linkedGoalId,omitempty"`
	CaregiverID  string     `json:"caregiverId,omitempty"`
}

func (h *EventHandler) LogEvent(w http.ResponseWriter, r *http.Request) {
	var req logEventRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "Failed to decode event request", err)
		return
	}

	occurredAt := time.Time{}
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}

	event, err := h.tracking.LogEvent(r.PathValue("id"), req.BehaviorID, occurredAt, req.StarsDelta, req.LinkedGoalID, req.CaregiverID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChildNotFound):
			respondWithError(w, http.StatusNotFound, "Child not found", "", nil)
		case errors.Is(err, service.ErrBehaviorNotFound):
			respondWithError(w, http.StatusBadRequest, "Unknown behavior", "", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to log event", "LogEvent failed", err)
		}
		return
	}

	respondJSON(w, http.StatusCreated, event)
}

func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.tracking.ListEvents(r.PathValue("id"))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list events", "ListEvents failed", err)
		return
	}

	respondJSON(w, http.StatusOK, events)
}
