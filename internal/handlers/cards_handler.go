package handlers

import (
	"errors"
	"net/http"
	"time"

	"starcoach/internal/insights"
	"starcoach/internal/service"
)

type CardsHandler struct {
	coach *service.CoachService
	now   func() time.Time
}

func NewCardsHandler(coach *service.CoachService) *CardsHandler {
	return &CardsHandler{coach: coach, now: time.Now}
}

// GetCards returns the current coaching cards for a child
func (h *CardsHandler) GetCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.coach.GenerateCards(r.PathValue("id"), h.now())
	if err != nil {
		if errors.Is(err, service.ErrChildNotFound) {
			respondWithError(w, http.StatusNotFound, "Child not found", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to generate cards", "GenerateCards failed", err)
		return
	}

	respondJSON(w, http.StatusOK, cards)
}

type displayedRequest struct {
	TemplateIDs []string `json:"templateIds"`
}

// RecordDisplayed marks cards as shown so their templates enter cooldown
func (h *CardsHandler) RecordDisplayed(w http.ResponseWriter, r *http.Request) {
	var req displayedRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "Failed to decode displayed request", err)
		return
	}
	if len(req.TemplateIDs) == 0 {
		respondWithError(w, http.StatusBadRequest, "templateIds is required", "", nil)
		return
	}

	childID := r.PathValue("id")
	cards := make([]insights.CoachCard, 0, len(req.TemplateIDs))
	for _, tmplID := range req.TemplateIDs {
		signal := insights.SignalType(tmplID)
		if _, ok := insights.TemplateFor(signal); !ok {
			respondWithError(w, http.StatusBadRequest, "Unknown template id: "+tmplID, "", nil)
			return
		}
		cards = append(cards, insights.CoachCard{TemplateID: signal, ChildID: childID})
	}

	if err := h.coach.RecordCardsDisplayed(cards, h.now()); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to record displayed cards", "RecordCardsDisplayed failed", err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// DebugReport exposes the full generation trace. Pass ?format=text for
// the plain-text rendering.
func (h *CardsHandler) DebugReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.coach.DebugReport(r.PathValue("id"), h.now())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to build debug report", "DebugReport failed", err)
		return
	}

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(report.RenderText()))
		return
	}

	respondJSON(w, http.StatusOK, report)
}
