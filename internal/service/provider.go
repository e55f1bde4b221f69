package service

import (
	"fmt"

	"starcoach/internal/models"
	"starcoach/internal/repository"
)

// SQLProvider is the production insights.DataProvider, loading canonical
// snapshots from the repositories. All reads complete before the engine
// starts detecting.
type SQLProvider struct {
	childRepo    *repository.ChildRepository
	eventRepo    *repository.EventRepository
	goalRepo     *repository.GoalRepository
	behaviorRepo *repository.BehaviorRepository
}

// NewSQLProvider creates a provider over the repositories
func NewSQLProvider(
	childRepo *repository.ChildRepository,
	eventRepo *repository.EventRepository,
	goalRepo *repository.GoalRepository,
	behaviorRepo *repository.BehaviorRepository,
) *SQLProvider {
	return &SQLProvider{
		childRepo:    childRepo,
		eventRepo:    eventRepo,
		goalRepo:     goalRepo,
		behaviorRepo: behaviorRepo,
	}
}

// Child returns the child, or nil if unknown
func (p *SQLProvider) Child(id string) (*models.Child, error) {
	child, err := p.childRepo.GetChildByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load child %s: %w", id, err)
	}
	return child, nil
}

// Events returns every logged event for the child
func (p *SQLProvider) Events(childID string) ([]models.Event, error) {
	return p.eventRepo.GetEventsForChild(childID)
}

// Goals returns every goal for the child
func (p *SQLProvider) Goals(childID string) ([]models.Goal, error) {
	return p.goalRepo.GetGoalsForChild(childID)
}

// RoutineBehaviors returns active routinePositive behavior types
func (p *SQLProvider) RoutineBehaviors() ([]models.Behavior, error) {
	return p.behaviorRepo.ListRoutineBehaviors()
}

// AllBehaviors returns the full behavior catalogue
func (p *SQLProvider) AllBehaviors() ([]models.Behavior, error) {
	return p.behaviorRepo.ListBehaviors()
}
