package service

import (
	"sync"
	"time"

	"starcoach/internal/insights"
)

// CoachService is the facade handlers use to reach the coaching engine.
// Generation is pure; only RecordCardsDisplayed writes, serialized so
// concurrent requests for the same child cannot race the cooldown blob's
// load/save pair.
type CoachService struct {
	engine *insights.Engine

	mu sync.Mutex
}

// NewCoachService creates a coach service over a data provider and
// cooldown store
func NewCoachService(provider insights.DataProvider, cooldowns *insights.CooldownStore) *CoachService {
	return &CoachService{
		engine: insights.NewEngine(provider, cooldowns),
	}
}

// GenerateCards returns the ranked coaching cards for a child. The child
// must exist; a zero-card result is an empty slice, not nil.
func (s *CoachService) GenerateCards(childID string, now time.Time) ([]insights.CoachCard, error) {
	report, err := s.engine.DebugReport(childID, now)
	if err != nil {
		return nil, err
	}
	if report.State == "noChild" {
		return nil, ErrChildNotFound
	}
	if report.Cards == nil {
		return []insights.CoachCard{}, nil
	}
	return report.Cards, nil
}

// RecordCardsDisplayed marks cards as shown, starting their cooldowns
func (s *CoachService) RecordCardsDisplayed(cards []insights.CoachCard, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.RecordCardsDisplayed(cards, at)
}

// DebugReport returns the full pipeline trace for a child
func (s *CoachService) DebugReport(childID string, now time.Time) (*insights.DebugReport, error) {
	return s.engine.DebugReport(childID, now)
}
