package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"starcoach/internal/database"
	"starcoach/internal/models"
	"starcoach/internal/repository"
)

var (
	ErrChildNotFound    = errors.New("child not found")
	ErrBehaviorNotFound = errors.New("behavior not found")
	ErrInvalidName      = errors.New("name is required")
	ErrInvalidTarget    = errors.New("target points must be positive")
	ErrInvalidCategory  = errors.New("unknown behavior category")
)

// TrackingService handles the logging surface: children, behavior events
// and goals. These writes are what the coaching engine later reads.
type TrackingService struct {
	db           *database.DB
	childRepo    *repository.ChildRepository
	eventRepo    *repository.EventRepository
	goalRepo     *repository.GoalRepository
	behaviorRepo *repository.BehaviorRepository
}

// NewTrackingService creates a new tracking service
func NewTrackingService(
	db *database.DB,
	childRepo *repository.ChildRepository,
	eventRepo *repository.EventRepository,
	goalRepo *repository.GoalRepository,
	behaviorRepo *repository.BehaviorRepository,
) *TrackingService {
	return &TrackingService{
		db:           db,
		childRepo:    childRepo,
		eventRepo:    eventRepo,
		goalRepo:     goalRepo,
		behaviorRepo: behaviorRepo,
	}
}

// CreateChild registers a new child
func (s *TrackingService) CreateChild(name string, age int) (*models.Child, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}

	child := &models.Child{
		ID:   uuid.New().String(),
		Name: name,
		Age:  age,
	}
	if err := s.childRepo.CreateChild(child); err != nil {
		return nil, fmt.Errorf("failed to create child: %w", err)
	}
	return child, nil
}

// GetChild retrieves a child by id
func (s *TrackingService) GetChild(childID string) (*models.Child, error) {
	child, err := s.childRepo.GetChildByID(childID)
	if err != nil {
		return nil, err
	}
	if child == nil {
		return nil, ErrChildNotFound
	}
	return child, nil
}

// ListChildren retrieves all children
func (s *TrackingService) ListChildren() ([]models.Child, error) {
	return s.childRepo.ListChildren()
}

// LogEvent records a behavior occurrence for a child. Category and star
// value default from the behavior catalogue; starsDelta overrides when
// non-zero. A zero timestamp means "now".
func (s *TrackingService) LogEvent(childID, behaviorID string, occurredAt time.Time, starsDelta int, linkedGoalID, caregiverID string) (*models.Event, error) {
	child, err := s.childRepo.GetChildByID(childID)
	if err != nil {
		return nil, err
	}
	if child == nil {
		return nil, ErrChildNotFound
	}

	behaviors, err := s.behaviorRepo.ListBehaviors()
	if err != nil {
		return nil, fmt.Errorf("failed to load behavior catalogue: %w", err)
	}
	var behavior *models.Behavior
	for i := range behaviors {
		if behaviors[i].ID == behaviorID {
			behavior = &behaviors[i]
			break
		}
	}
	if behavior == nil {
		return nil, ErrBehaviorNotFound
	}

	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}
	if starsDelta == 0 {
		starsDelta = behavior.DefaultPoints
	}

	event := &models.Event{
		ID:             uuid.New().String(),
		ChildID:        childID,
		Timestamp:      occurredAt,
		Category:       behavior.Category,
		StarsDelta:     starsDelta,
		BehaviorTypeID: behavior.ID,
		BehaviorName:   behavior.Name,
		LinkedGoalID:   linkedGoalID,
		CaregiverID:    caregiverID,
	}
	if err := s.eventRepo.CreateEvent(event); err != nil {
		return nil, fmt.Errorf("failed to record event: %w", err)
	}

	// Positive stars linked to a goal advance its progress
	if linkedGoalID != "" && starsDelta > 0 {
		if err := s.advanceGoal(linkedGoalID, starsDelta); err != nil {
			return nil, err
		}
	}

	return event, nil
}

// advanceGoal adds earned stars to a goal's progress
func (s *TrackingService) advanceGoal(goalID string, stars int) error {
	goal, err := s.goalRepo.GetGoalByID(goalID)
	if err != nil {
		return fmt.Errorf("failed to load goal: %w", err)
	}
	if goal == nil || !goal.IsActive() {
		return nil
	}
	return s.goalRepo.UpdateProgress(goalID, goal.CurrentPoints+stars)
}

// ListEvents retrieves all logged events for a child
func (s *TrackingService) ListEvents(childID string) ([]models.Event, error) {
	return s.eventRepo.GetEventsForChild(childID)
}

// CreateGoal creates a reward goal for a child
func (s *TrackingService) CreateGoal(childID, name string, targetPoints int, dueDate *time.Time) (*models.Goal, error) {
	child, err := s.childRepo.GetChildByID(childID)
	if err != nil {
		return nil, err
	}
	if child == nil {
		return nil, ErrChildNotFound
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if targetPoints <= 0 {
		return nil, ErrInvalidTarget
	}

	goal := &models.Goal{
		ID:           uuid.New().String(),
		ChildID:      childID,
		Name:         name,
		TargetPoints: targetPoints,
		CreatedDate:  time.Now(),
		DueDate:      dueDate,
	}
	// The goal insert and active-goal switch land together or not at all
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.goalRepo.CreateGoalIn(tx, goal); err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}
	if err := s.childRepo.UpdateActiveGoalIn(tx, childID, goal.ID); err != nil {
		return nil, fmt.Errorf("failed to set active goal: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit goal creation: %w", err)
	}

	return goal, nil
}

// ListGoals retrieves all goals for a child
func (s *TrackingService) ListGoals(childID string) ([]models.Goal, error) {
	return s.goalRepo.GetGoalsForChild(childID)
}

// ListBehaviors retrieves the behavior catalogue
func (s *TrackingService) ListBehaviors() ([]models.Behavior, error) {
	return s.behaviorRepo.ListBehaviors()
}

// CreateBehavior adds a custom behavior type to the catalogue
func (s *TrackingService) CreateBehavior(name string, category models.EventCategory, defaultPoints int) (*models.Behavior, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}

	switch category {
	case models.CategoryPositive, models.CategoryRoutinePositive, models.CategoryNegative:
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidCategory, category)
	}

	behavior := &models.Behavior{
		ID:            uuid.New().String(),
		Name:          name,
		Category:      category,
		DefaultPoints: defaultPoints,
		IsActive:      true,
	}
	if err := s.behaviorRepo.CreateBehavior(behavior); err != nil {
		return nil, fmt.Errorf("failed to create behavior: %w", err)
	}
	return behavior, nil
}
