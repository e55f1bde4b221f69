package handlers

import (
	"errors"
	"net/http"
	"time"

	"starcoach/internal/service"
)

type GoalHandler struct {
	tracking *service.TrackingService
}

func NewGoalHandler(tracking *service.TrackingService) *GoalHandler {
	return &GoalHandler{tracking: tracking}
}

type createGoalRequest struct {
	Name         string     `json:"name"`
	TargetPoints int        `json:"targetPoints"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
}

func (h *GoalHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "Failed to decode goal request", err)
		return
	}

	goal, err := h.tracking.CreateGoal(r.PathValue("id"), req.Name, req.TargetPoints, req.DueDate)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChildNotFound):
			respondWithError(w, http.StatusNotFound, "Child not found", "", nil)
		case errors.Is(err, service.ErrInvalidName), errors.Is(err, service.ErrInvalidTarget):
			respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to create goal", "CreateGoal failed", err)
		}
		return
	}

	respondJSON(w, http.StatusCreated, goal)
}

func (h *GoalHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.tracking.ListGoals(r.PathValue("id"))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list goals", "ListGoals failed", err)
		return
	}

	respondJSON(w, http.StatusOK, goals)
}
