package insights

import (
	"time"

	"starcoach/internal/models"
)

// Prefilter holds the derived event views every detector reads from. It is
// built once per request so all five detectors share one O(n) scan and one
// consistent "now".
type Prefilter struct {
	Now time.Time

	All    []models.Event
	Last7  []models.Event
	Last14 []models.Event

	Positive7  []models.Event
	Positive14 []models.Event
	Challenge7 []models.Event

	ByBehavior   map[string][]models.Event
	ByBehavior7  map[string][]models.Event
	ByBehavior14 map[string][]models.Event

	// EventIDSet is the canonical id set used by evidence validation
	EventIDSet map[string]bool
}

// NewPrefilter builds the index from the full event list for one child
func NewPrefilter(events []models.Event, now time.Time) *Prefilter {
	pf := &Prefilter{
		Now:          now,
		All:          events,
		ByBehavior:   make(map[string][]models.Event),
		ByBehavior7:  make(map[string][]models.Event),
		ByBehavior14: make(map[string][]models.Event),
		EventIDSet:   make(map[string]bool, len(events)),
	}

	window7 := models.WindowEndingAt(now, 7)
	window14 := models.WindowEndingAt(now, 14)

	for _, e := range events {
		pf.EventIDSet[e.ID] = true

		if e.BehaviorTypeID != "" {
			pf.ByBehavior[e.BehaviorTypeID] = append(pf.ByBehavior[e.BehaviorTypeID], e)
		}

		if !window14.Contains(e.Timestamp) {
			continue
		}
		pf.Last14 = append(pf.Last14, e)
		if e.Category.IsPositive() {
			pf.Positive14 = append(pf.Positive14, e)
		}
		if e.BehaviorTypeID != "" {
			pf.ByBehavior14[e.BehaviorTypeID] = append(pf.ByBehavior14[e.BehaviorTypeID], e)
		}

		if !window7.Contains(e.Timestamp) {
			continue
		}
		pf.Last7 = append(pf.Last7, e)
		if e.Category.IsPositive() {
			pf.Positive7 = append(pf.Positive7, e)
		}
		if e.Category.IsChallenge() {
			pf.Challenge7 = append(pf.Challenge7, e)
		}
		if e.BehaviorTypeID != "" {
			pf.ByBehavior7[e.BehaviorTypeID] = append(pf.ByBehavior7[e.BehaviorTypeID], e)
		}
	}

	return pf
}

// CategoryCounts tallies events per category for a window
func CategoryCounts(events []models.Event) map[string]int {
	counts := make(map[string]int)
	for _, e := range events {
		counts[string(e.Category)]++
	}
	return counts
}
