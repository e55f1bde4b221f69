package insights

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DropReason names why a card was removed from the pipeline
type DropReason string

const (
	DropEvidenceInvalid       DropReason = "evidenceInvalid"
	DropCooldownActive        DropReason = "cooldownActive"
	DropSafetyRailRisk        DropReason = "safetyRailRisk"
	DropSafetyRailImprovement DropReason = "safetyRailImprovement"
	DropRankingCutoff         DropReason = "rankingCutoff"
)

// DroppedCard records one drop decision with enough detail to answer
// "why didn't I get this card?"
type DroppedCard struct {
	Card    CoachCard  `json:"card"`
	Reason  DropReason `json:"reason"`
	Details string     `json:"details"`
}

// DebugReport is the full pipeline trace for one generation request
type DebugReport struct {
	ChildID     string    `json:"childId"`
	GeneratedAt time.Time `json:"generatedAt"`

	// State is the terminal pipeline state: noChild, insufficientData or done
	State string `json:"state"`

	EventsIn14Days   int            `json:"eventsIn14Days"`
	EventsIn7Days    int            `json:"eventsIn7Days"`
	CategoryCounts14 map[string]int `json:"categoryCounts14"`
	CategoryCounts7  map[string]int `json:"categoryCounts7"`
	ActiveGoalCount  int            `json:"activeGoalCount"`
	RoutineBehaviors int            `json:"routineBehaviors"`

	// Signals holds every detector result, triggered or not
	Signals []SignalResult `json:"signals"`

	BuiltCards      int              `json:"builtCards"`
	Dropped         []DroppedCard    `json:"dropped"`
	ActiveCooldowns []CooldownRecord `json:"activeCooldowns"`

	Cards []CoachCard `json:"cards"`
}

// RenderText produces a render-ready plain-text summary of the trace
func (r *DebugReport) RenderText() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Coaching debug report for child %s at %s\n", r.ChildID, r.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "State: %s\n", r.State)
	fmt.Fprintf(&b, "Events: %d in 14 days, %d in 7 days\n", r.EventsIn14Days, r.EventsIn7Days)
	fmt.Fprintf(&b, "  14-day by category: %s\n", formatCounts(r.CategoryCounts14))
	fmt.Fprintf(&b, "  7-day by category:  %s\n", formatCounts(r.CategoryCounts7))
	fmt.Fprintf(&b, "Active goals: %d, routine behaviors: %d\n", r.ActiveGoalCount, r.RoutineBehaviors)

	b.WriteString("\nSignals:\n")
	if len(r.Signals) == 0 {
		b.WriteString("  (none evaluated)\n")
	}
	for _, s := range r.Signals {
		status := "no"
		if s.Triggered {
			status = fmt.Sprintf("YES confidence=%.2f evidence=%d", s.Confidence, s.Evidence.Count)
		}
		entity := ""
		if s.EntityName != "" {
			entity = fmt.Sprintf(" [%s]", s.EntityName)
		}
		fmt.Fprintf(&b, "  %s%s: %s - %s\n", s.Type, entity, status, s.Explanation)
	}

	fmt.Fprintf(&b, "\nCards built: %d\n", r.BuiltCards)

	b.WriteString("Dropped:\n")
	if len(r.Dropped) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, d := range r.Dropped {
		fmt.Fprintf(&b, "  %s: %s - %s\n", d.Card.ID, d.Reason, d.Details)
	}

	b.WriteString("Active cooldowns:\n")
	if len(r.ActiveCooldowns) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, c := range r.ActiveCooldowns {
		fmt.Fprintf(&b, "  %s last shown %s\n", c.TemplateID, c.LastShownAt.Format(time.RFC3339))
	}

	fmt.Fprintf(&b, "\nFinal cards (%d):\n", len(r.Cards))
	for i, card := range r.Cards {
		fmt.Fprintf(&b, "  %d. [p%d] %s - %s\n", i+1, card.Priority, card.ID, card.Title)
	}

	return b.String()
}

// formatCounts renders a category count map in stable key order
func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "(none)"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, counts[k])
	}
	return strings.Join(parts, " ")
}
