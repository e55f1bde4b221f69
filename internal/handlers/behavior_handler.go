package handlers

import (
	"errors"
	"net/http"

	"starcoach/internal/models"
	"starcoach/internal/service"
)

type BehaviorHandler struct {
	tracking *service.TrackingService
}

func NewBehaviorHandler(tracking *service.TrackingService) *BehaviorHandler {
	return &BehaviorHandler{tracking: tracking}
}

type createBehaviorRequest struct {
	Name          string `json:"name"`
	Category      string `json:"category"`
	DefaultPoints int    `json:"defaultPoints"`
}

func (h *BehaviorHandler) CreateBehavior(w http.ResponseWriter, r *http.Request) {
	var req createBehaviorRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "Failed to decode behavior request", err)
		return
	}

	behavior, err := h.tracking.CreateBehavior(req.Name, models.EventCategory(req.Category), req.DefaultPoints)
	if err != nil {
		if errors.Is(err, service.ErrInvalidName) || errors.Is(err, service.ErrInvalidCategory) {
			respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to create behavior", "CreateBehavior failed", err)
		return
	}

	respondJSON(w, http.StatusCreated, behavior)
}

func (h *BehaviorHandler) ListBehaviors(w http.ResponseWriter, r *http.Request) {
	behaviors, err := h.tracking.ListBehaviors()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list behaviors", "ListBehaviors failed", err)
		return
	}

	respondJSON(w, http.StatusOK, behaviors)
}
