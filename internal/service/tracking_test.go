package service

import (
	"errors"
	"os"
	"testing"
	"time"

	"starcoach/internal/database"
	"starcoach/internal/models"
	"starcoach/internal/repository"
)

func newTestService(t *testing.T) *TrackingService {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := "test_tracking.db"
	t.Cleanup(func() { os.Remove(dbPath) })

	db, err := database.Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	if err := db.SeedDefaultBehaviors(); err != nil {
		t.Fatalf("Failed to seed behaviors: %v", err)
	}

	return NewTrackingService(
		db,
		repository.NewChildRepository(db),
		repository.NewEventRepository(db),
		repository.NewGoalRepository(db),
		repository.NewBehaviorRepository(db),
	)
}

func TestTrackingLifecycle(t *testing.T) {
	svc := newTestService(t)

	child, err := svc.CreateChild("Mia", 7)
	if err != nil {
		t.Fatalf("CreateChild() error: %v", err)
	}
	if child.ID == "" {
		t.Fatal("CreateChild() returned empty id")
	}

	// Goal creation switches the child's active goal
	due := time.Now().AddDate(0, 0, 14)
	goal, err := svc.CreateGoal(child.ID, "New bike", 50, &due)
	if err != nil {
		t.Fatalf("CreateGoal() error: %v", err)
	}
	reloaded, err := svc.GetChild(child.ID)
	if err != nil {
		t.Fatalf("GetChild() error: %v", err)
	}
	if reloaded.ActiveGoalID != goal.ID {
		t.Errorf("ActiveGoalID = %q, want %q", reloaded.ActiveGoalID, goal.ID)
	}

	// Logging a linked positive event advances the goal
	behaviors, err := svc.ListBehaviors()
	if err != nil {
		t.Fatalf("ListBehaviors() error: %v", err)
	}
	var routine *models.Behavior
	for i := range behaviors {
		if behaviors[i].Category == models.CategoryRoutinePositive {
			routine = &behaviors[i]
			break
		}
	}
	if routine == nil {
		t.Fatal("seeded catalogue has no routine behavior")
	}

	event, err := svc.LogEvent(child.ID, routine.ID, time.Time{}, 0, goal.ID, "")
	if err != nil {
		t.Fatalf("LogEvent() error: %v", err)
	}
	if event.StarsDelta != routine.DefaultPoints {
		t.Errorf("StarsDelta = %d, want behavior default %d", event.StarsDelta, routine.DefaultPoints)
	}

	goals, err := svc.ListGoals(child.ID)
	if err != nil {
		t.Fatalf("ListGoals() error: %v", err)
	}
	if len(goals) != 1 {
		t.Fatalf("ListGoals() = %d goals, want 1", len(goals))
	}
	if goals[0].CurrentPoints != routine.DefaultPoints {
		t.Errorf("CurrentPoints = %d, want %d after linked event", goals[0].CurrentPoints, routine.DefaultPoints)
	}
}

func TestTrackingValidation(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.CreateChild("  ", 5); !errors.Is(err, ErrInvalidName) {
		t.Errorf("CreateChild(blank) error = %v, want ErrInvalidName", err)
	}

	child, err := svc.CreateChild("Leo", 5)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.CreateGoal(child.ID, "Zero target", 0, nil); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("CreateGoal(target 0) error = %v, want ErrInvalidTarget", err)
	}
	if _, err := svc.CreateGoal("ghost", "Goal", 10, nil); !errors.Is(err, ErrChildNotFound) {
		t.Errorf("CreateGoal(unknown child) error = %v, want ErrChildNotFound", err)
	}
	if _, err := svc.LogEvent(child.ID, "no-such-behavior", time.Time{}, 0, "", ""); !errors.Is(err, ErrBehaviorNotFound) {
		t.Errorf("LogEvent(unknown behavior) error = %v, want ErrBehaviorNotFound", err)
	}
	if _, err := svc.CreateBehavior("Yelling", "sideways", 1); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("CreateBehavior(bad category) error = %v, want ErrInvalidCategory", err)
	}
}
