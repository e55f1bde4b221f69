package insights

import (
	"testing"

	"starcoach/internal/models"
)

func TestNewPrefilter(t *testing.T) {
	events := []models.Event{
		evt("e1", 1, models.CategoryPositive, 1, "b-1"),
		evt("e2", 6, models.CategoryRoutinePositive, 1, "b-1"),
		evt("e3", 8, models.CategoryPositive, 1, "b-2"),
		evt("e4", 13, models.CategoryNegative, -1, ""),
		evt("e5", 20, models.CategoryPositive, 1, "b-1"),
		evt("e6", 3, models.CategoryNegative, -1, "b-3"),
	}

	pf := NewPrefilter(events, testNow)

	if len(pf.All) != 6 {
		t.Errorf("All = %d events, want 6", len(pf.All))
	}
	if len(pf.Last14) != 5 {
		t.Errorf("Last14 = %d events, want 5", len(pf.Last14))
	}
	if len(pf.Last7) != 3 {
		t.Errorf("Last7 = %d events, want 3", len(pf.Last7))
	}
	if len(pf.Positive14) != 3 {
		t.Errorf("Positive14 = %d events, want 3 (routinePositive counts)", len(pf.Positive14))
	}
	if len(pf.Positive7) != 2 {
		t.Errorf("Positive7 = %d events, want 2", len(pf.Positive7))
	}
	if len(pf.Challenge7) != 1 {
		t.Errorf("Challenge7 = %d events, want 1", len(pf.Challenge7))
	}

	if len(pf.ByBehavior["b-1"]) != 3 {
		t.Errorf("ByBehavior[b-1] = %d events, want 3 (all time)", len(pf.ByBehavior["b-1"]))
	}
	if len(pf.ByBehavior14["b-1"]) != 2 {
		t.Errorf("ByBehavior14[b-1] = %d events, want 2", len(pf.ByBehavior14["b-1"]))
	}
	if len(pf.ByBehavior7["b-1"]) != 2 {
		t.Errorf("ByBehavior7[b-1] = %d events, want 2", len(pf.ByBehavior7["b-1"]))
	}

	for _, e := range events {
		if !pf.EventIDSet[e.ID] {
			t.Errorf("EventIDSet missing %s", e.ID)
		}
	}
}

func TestCategoryCounts(t *testing.T) {
	events := []models.Event{
		evt("e1", 1, models.CategoryPositive, 1, ""),
		evt("e2", 2, models.CategoryPositive, 1, ""),
		evt("e3", 3, models.CategoryNegative, -1, ""),
	}

	counts := CategoryCounts(events)
	if counts["positive"] != 2 || counts["negative"] != 1 {
		t.Errorf("CategoryCounts = %v, want positive=2 negative=1", counts)
	}
}
