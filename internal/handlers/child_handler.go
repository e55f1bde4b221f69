package handlers

import (
	"errors"
	"net/http"

	"starcoach/internal/service"
)

type ChildHandler struct {
	tracking *service.TrackingService
}

func NewChildHandler(tracking *service.TrackingService) *ChildHandler {
	return &ChildHandler{tracking: tracking}
}

type createChildRequest struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

func (h *ChildHandler) CreateChild(w http.ResponseWriter, r *http.Request) {
	var req createChildRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "Failed to decode child request", err)
		return
	}

	child, err := h.tracking.CreateChild(req.Name, req.Age)
	if err != nil {
		if errors.Is(err, service.ErrInvalidName) {
			respondWithError(w, http.StatusBadRequest, "Child name is required", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to create child", "CreateChild failed", err)
		return
	}

	respondJSON(w, http.StatusCreated, child)
}

func (h *ChildHandler) GetChild(w http.ResponseWriter, r *http.Request) {
	child, err := h.tracking.GetChild(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrChildNotFound) {
			respondWithError(w, http.StatusNotFound, "Child not found", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to load child", "GetChild failed", err)
		return
	}

	respondJSON(w, http.StatusOK, child)
}

func (h *ChildHandler) ListChildren(w http.ResponseWriter, r *http.Request) {
	children, err := h.tracking.ListChildren()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list children", "ListChildren failed", err)
		return
	}

	respondJSON(w, http.StatusOK, children)
}
