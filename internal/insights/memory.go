package insights

import (
	"sync"

	"starcoach/internal/models"
)

// MemoryProvider is an in-memory DataProvider used by tests and local
// experimentation. Populate the fields directly.
type MemoryProvider struct {
	Children  []models.Child
	EventLog  []models.Event
	GoalList  []models.Goal
	Behaviors []models.Behavior
}

// Child returns the matching child, or nil
func (p *MemoryProvider) Child(id string) (*models.Child, error) {
	for i := range p.Children {
		if p.Children[i].ID == id {
			return &p.Children[i], nil
		}
	}
	return nil, nil
}

// Events returns the child's events
func (p *MemoryProvider) Events(childID string) ([]models.Event, error) {
	var events []models.Event
	for _, e := range p.EventLog {
		if e.ChildID == childID {
			events = append(events, e)
		}
	}
	return events, nil
}

// Goals returns the child's goals
func (p *MemoryProvider) Goals(childID string) ([]models.Goal, error) {
	var goals []models.Goal
	for _, g := range p.GoalList {
		if g.ChildID == childID {
			goals = append(goals, g)
		}
	}
	return goals, nil
}

// RoutineBehaviors returns active routinePositive behaviors
func (p *MemoryProvider) RoutineBehaviors() ([]models.Behavior, error) {
	var routines []models.Behavior
	for _, b := range p.Behaviors {
		if b.IsActive && b.IsRoutine() {
			routines = append(routines, b)
		}
	}
	return routines, nil
}

// AllBehaviors returns the full catalogue
func (p *MemoryProvider) AllBehaviors() ([]models.Behavior, error) {
	return p.Behaviors, nil
}

// MemorySettings is an in-memory SettingsStore for tests
type MemorySettings struct {
	mu     sync.Mutex
	values map[string]string
}

// GetSetting returns the stored value, or empty string
func (s *MemorySettings) GetSetting(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key], nil
}

// SetSetting stores a value
func (s *MemorySettings) SetSetting(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		s.values = make(map[string]string)
	}
	s.values[key] = value
	return nil
}
