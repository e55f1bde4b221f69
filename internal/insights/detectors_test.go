package insights

import (
	"testing"
	"time"

	"starcoach/internal/models"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func evt(id string, daysAgo float64, category models.EventCategory, stars int, behaviorID string) models.Event {
	return models.Event{
		ID:             id,
		ChildID:        "child-1",
		Timestamp:      testNow.Add(-time.Duration(daysAgo * 24 * float64(time.Hour))),
		Category:       category,
		StarsDelta:     stars,
		BehaviorTypeID: behaviorID,
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestDetectGoalAtRisk(t *testing.T) {
	t.Run("slow pace triggers with high confidence", func(t *testing.T) {
		goal := &models.Goal{
			ID:           "goal-1",
			ChildID:      "child-1",
			Name:         "New bike",
			TargetPoints:  100,
			CurrentPoints: 20,
			DueDate:      timePtr(testNow.AddDate(0, 0, 5)),
		}
		pf := NewPrefilter([]models.Event{
			evt("e1", 2, models.CategoryPositive, 3, ""),
			evt("e2", 4, models.CategoryPositive, 2, ""),
		}, testNow)

		result := DetectGoalAtRisk(goal, pf)
		if !result.Triggered {
			t.Fatalf("expected trigger, got: %s", result.Explanation)
		}
		if result.Confidence <= 0.9 {
			t.Errorf("Confidence = %.3f, want > 0.9", result.Confidence)
		}
		if result.DaysRemaining != 5 {
			t.Errorf("DaysRemaining = %d, want 5", result.DaysRemaining)
		}
		if result.Evidence.WindowDays != 7 {
			t.Errorf("Evidence.WindowDays = %d, want 7", result.Evidence.WindowDays)
		}
		if result.Evidence.Count != 2 {
			t.Errorf("Evidence.Count = %d, want 2", result.Evidence.Count)
		}
		if result.ProgressPercent != 20 {
			t.Errorf("ProgressPercent = %d, want 20", result.ProgressPercent)
		}
	})

	t.Run("on-track pace does not trigger", func(t *testing.T) {
		goal := &models.Goal{
			ID:           "goal-1",
			Name:         "New bike",
			TargetPoints:  20,
			CurrentPoints: 15,
			DueDate:      timePtr(testNow.AddDate(0, 0, 10)),
		}
		pf := NewPrefilter([]models.Event{
			evt("e1", 1, models.CategoryPositive, 5, ""),
			evt("e2", 2, models.CategoryPositive, 5, ""),
		}, testNow)

		result := DetectGoalAtRisk(goal, pf)
		if result.Triggered {
			t.Fatalf("expected no trigger, got confidence %.2f", result.Confidence)
		}
	})

	t.Run("no deadline does not trigger", func(t *testing.T) {
		goal := &models.Goal{ID: "goal-1", Name: "Open-ended", TargetPoints: 50}
		pf := NewPrefilter(nil, testNow)

		result := DetectGoalAtRisk(goal, pf)
		assertUntriggered(t, result)
	})

	t.Run("redeemed goal does not trigger", func(t *testing.T) {
		goal := &models.Goal{
			ID:           "goal-1",
			TargetPoints: 50,
			IsRedeemed:   true,
			DueDate:      timePtr(testNow.AddDate(0, 0, 5)),
		}
		pf := NewPrefilter(nil, testNow)

		assertUntriggered(t, DetectGoalAtRisk(goal, pf))
	})

	t.Run("too few positive events does not trigger", func(t *testing.T) {
		goal := &models.Goal{
			ID:           "goal-1",
			TargetPoints: 100,
			DueDate:      timePtr(testNow.AddDate(0, 0, 5)),
		}
		pf := NewPrefilter([]models.Event{
			evt("e1", 2, models.CategoryPositive, 1, ""),
		}, testNow)

		assertUntriggered(t, DetectGoalAtRisk(goal, pf))
	})
}

func TestDetectGoalStalled(t *testing.T) {
	goal := &models.Goal{ID: "goal-1", ChildID: "child-1", Name: "New bike", TargetPoints: 50}

	t.Run("streak followed by silence triggers", func(t *testing.T) {
		pf := NewPrefilter([]models.Event{
			evt("e1", 13, models.CategoryPositive, 1, ""),
			evt("e2", 10, models.CategoryPositive, 1, ""),
			evt("e3", 6, models.CategoryPositive, 1, ""),
		}, testNow)

		result := DetectGoalStalled(goal, pf)
		if !result.Triggered {
			t.Fatalf("expected trigger, got: %s", result.Explanation)
		}
		if result.Confidence != 0.6 {
			t.Errorf("Confidence = %.2f, want 0.60 (6 days / 10)", result.Confidence)
		}
		if result.Evidence.WindowDays != 14 {
			t.Errorf("Evidence.WindowDays = %d, want 14", result.Evidence.WindowDays)
		}
	})

	t.Run("recent positive event does not trigger", func(t *testing.T) {
		pf := NewPrefilter([]models.Event{
			evt("e1", 12, models.CategoryPositive, 1, ""),
			evt("e2", 8, models.CategoryPositive, 1, ""),
			evt("e3", 2, models.CategoryPositive, 1, ""),
		}, testNow)

		assertUntriggered(t, DetectGoalStalled(goal, pf))
	})

	t.Run("no established streak does not trigger", func(t *testing.T) {
		pf := NewPrefilter([]models.Event{
			evt("e1", 10, models.CategoryPositive, 1, ""),
			evt("e2", 9, models.CategoryPositive, 1, ""),
		}, testNow)

		assertUntriggered(t, DetectGoalStalled(goal, pf))
	})
}

func TestDetectRoutineForming(t *testing.T) {
	routine := &models.Behavior{
		ID:       "b-teeth",
		Name:     "Brush teeth",
		Category: models.CategoryRoutinePositive,
		IsActive: true,
	}

	t.Run("consistent week triggers", func(t *testing.T) {
		pf := NewPrefilter([]models.Event{
			evt("e1", 1, models.CategoryRoutinePositive, 1, "b-teeth"),
			evt("e2", 2, models.CategoryRoutinePositive, 1, "b-teeth"),
			evt("e3", 3, models.CategoryRoutinePositive, 1, "b-teeth"),
			evt("e4", 4, models.CategoryRoutinePositive, 1, "b-teeth"),
		}, testNow)

		result := DetectRoutineForming(routine, pf)
		if !result.Triggered {
			t.Fatalf("expected trigger, got: %s", result.Explanation)
		}
		want := 4.0 / 7.0
		if diff := result.Confidence - want; diff > 0.001 || diff < -0.001 {
			t.Errorf("Confidence = %.3f, want %.3f", result.Confidence, want)
		}
		if result.Evidence.Count != 4 {
			t.Errorf("Evidence.Count = %d, want 4", result.Evidence.Count)
		}
	})

	t.Run("clustered on too few days does not trigger", func(t *testing.T) {
		pf := NewPrefilter([]models.Event{
			evt("e1", 1.1, models.CategoryRoutinePositive, 1, "b-teeth"),
			evt("e2", 1.2, models.CategoryRoutinePositive, 1, "b-teeth"),
			evt("e3", 2.1, models.CategoryRoutinePositive, 1, "b-teeth"),
			evt("e4", 2.2, models.CategoryRoutinePositive, 1, "b-teeth"),
		}, testNow)

		assertUntriggered(t, DetectRoutineForming(routine, pf))
	})

	t.Run("non-routine behavior does not trigger", func(t *testing.T) {
		oneOff := &models.Behavior{ID: "b-kind", Name: "Kindness", Category: models.CategoryPositive}
		pf := NewPrefilter(nil, testNow)

		assertUntriggered(t, DetectRoutineForming(oneOff, pf))
	})
}

func TestDetectRoutineSlipping(t *testing.T) {
	routine := &models.Behavior{
		ID:       "b-bed",
		Name:     "Make the bed",
		Category: models.CategoryRoutinePositive,
		IsActive: true,
	}

	t.Run("dropped-off routine triggers", func(t *testing.T) {
		pf := NewPrefilter([]models.Event{
			evt("e1", 13, models.CategoryRoutinePositive, 1, "b-bed"),
			evt("e2", 11, models.CategoryRoutinePositive, 1, "b-bed"),
			evt("e3", 9, models.CategoryRoutinePositive, 1, "b-bed"),
			evt("e4", 8, models.CategoryRoutinePositive, 1, "b-bed"),
			evt("e5", 4, models.CategoryRoutinePositive, 1, "b-bed"),
		}, testNow)

		result := DetectRoutineSlipping(routine, pf)
		if !result.Triggered {
			t.Fatalf("expected trigger, got: %s", result.Explanation)
		}
		want := 4.0 / 7.0
		if diff := result.Confidence - want; diff > 0.001 || diff < -0.001 {
			t.Errorf("Confidence = %.3f, want %.3f", result.Confidence, want)
		}
		if result.Evidence.Count != 5 {
			t.Errorf("Evidence.Count = %d, want 5", result.Evidence.Count)
		}
	})

	t.Run("steady routine does not trigger", func(t *testing.T) {
		pf := NewPrefilter([]models.Event{
			evt("e1", 12, models.CategoryRoutinePositive, 1, "b-bed"),
			evt("e2", 10, models.CategoryRoutinePositive, 1, "b-bed"),
			evt("e3", 8, models.CategoryRoutinePositive, 1, "b-bed"),
			evt("e4", 5, models.CategoryRoutinePositive, 1, "b-bed"),
			evt("e5", 2, models.CategoryRoutinePositive, 1, "b-bed"),
		}, testNow)

		assertUntriggered(t, DetectRoutineSlipping(routine, pf))
	})

	t.Run("recent event closes the gap", func(t *testing.T) {
		pf := NewPrefilter([]models.Event{
			evt("e1", 13, models.CategoryRoutinePositive, 1, "b-bed"),
			evt("e2", 11, models.CategoryRoutinePositive, 1, "b-bed"),
			evt("e3", 9, models.CategoryRoutinePositive, 1, "b-bed"),
			evt("e4", 8, models.CategoryRoutinePositive, 1, "b-bed"),
			evt("e5", 1, models.CategoryRoutinePositive, 1, "b-bed"),
		}, testNow)

		assertUntriggered(t, DetectRoutineSlipping(routine, pf))
	})
}

func TestDetectHighChallengeWeek(t *testing.T) {
	t.Run("challenges outnumbering positives triggers at full confidence", func(t *testing.T) {
		events := []models.Event{
			evt("c1", 1, models.CategoryNegative, -1, ""),
			evt("c2", 2, models.CategoryNegative, -1, ""),
			evt("c3", 3, models.CategoryNegative, -1, ""),
			evt("c4", 4, models.CategoryNegative, -1, ""),
			evt("c5", 5, models.CategoryNegative, -1, ""),
			evt("c6", 6, models.CategoryNegative, -1, ""),
			evt("p1", 2, models.CategoryPositive, 1, ""),
			evt("p2", 5, models.CategoryPositive, 1, ""),
		}
		result := DetectHighChallengeWeek(NewPrefilter(events, testNow))
		if !result.Triggered {
			t.Fatalf("expected trigger, got: %s", result.Explanation)
		}
		if result.Confidence != 1 {
			t.Errorf("Confidence = %.2f, want 1.00 (ratio 3.0 capped)", result.Confidence)
		}
		if result.Evidence.Count != 8 {
			t.Errorf("Evidence.Count = %d, want 8", result.Evidence.Count)
		}
	})

	t.Run("all challenges and no positives is maximum confidence", func(t *testing.T) {
		events := []models.Event{
			evt("c1", 1, models.CategoryNegative, -1, ""),
			evt("c2", 2, models.CategoryNegative, -1, ""),
			evt("c3", 3, models.CategoryNegative, -1, ""),
		}
		result := DetectHighChallengeWeek(NewPrefilter(events, testNow))
		if !result.Triggered || result.Confidence != 1 {
			t.Errorf("Triggered = %v, Confidence = %.2f, want trigger at 1.00", result.Triggered, result.Confidence)
		}
	})

	t.Run("equal counts trigger at half confidence", func(t *testing.T) {
		events := []models.Event{
			evt("c1", 1, models.CategoryNegative, -1, ""),
			evt("c2", 2, models.CategoryNegative, -1, ""),
			evt("p1", 3, models.CategoryPositive, 1, ""),
			evt("p2", 4, models.CategoryPositive, 1, ""),
		}
		result := DetectHighChallengeWeek(NewPrefilter(events, testNow))
		if !result.Triggered {
			t.Fatalf("expected trigger, got: %s", result.Explanation)
		}
		if result.Confidence != 0.5 {
			t.Errorf("Confidence = %.2f, want 0.50", result.Confidence)
		}
	})

	t.Run("mostly positive week does not trigger", func(t *testing.T) {
		events := []models.Event{
			evt("p1", 1, models.CategoryPositive, 1, ""),
			evt("p2", 2, models.CategoryPositive, 1, ""),
			evt("p3", 3, models.CategoryPositive, 1, ""),
			evt("c1", 4, models.CategoryNegative, -1, ""),
		}
		assertUntriggered(t, DetectHighChallengeWeek(NewPrefilter(events, testNow)))
	})

	t.Run("too few events does not trigger", func(t *testing.T) {
		events := []models.Event{
			evt("c1", 1, models.CategoryNegative, -1, ""),
			evt("c2", 2, models.CategoryNegative, -1, ""),
		}
		assertUntriggered(t, DetectHighChallengeWeek(NewPrefilter(events, testNow)))
	})
}

// assertUntriggered checks the contract every untriggered result must hold:
// zero confidence, empty evidence, and a reason in the explanation.
func assertUntriggered(t *testing.T, result SignalResult) {
	t.Helper()
	if result.Triggered {
		t.Fatalf("expected no trigger for %s", result.Type)
	}
	if result.Confidence != 0 {
		t.Errorf("untriggered %s has Confidence = %.2f, want 0", result.Type, result.Confidence)
	}
	if len(result.Evidence.EventIDs) != 0 {
		t.Errorf("untriggered %s has %d evidence ids, want 0", result.Type, len(result.Evidence.EventIDs))
	}
	if result.Explanation == "" {
		t.Errorf("untriggered %s has no explanation", result.Type)
	}
}
