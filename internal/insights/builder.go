package insights

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"
)

// stableKey builds the unhashed identity tuple for a card. It depends only
// on template, child, primary entity and evidence window, so it survives
// rebuilds where priority, evidence or copy differ.
func stableKey(templateID SignalType, childID, entityID string, windowDays int) string {
	entity := entityID
	if entity == "" {
		entity = "none"
	}
	return fmt.Sprintf("%s:%s:%s:%d", templateID, childID, entity, windowDays)
}

// stableHash reduces a stable key to an 8-hex-digit value. FNV-1a over the
// UTF-8 bytes with unsigned arithmetic, rendered from the low 32 bits.
func stableHash(key string) string {
	h := fnv.New64a()
	h.Write([]byte(key))
	return fmt.Sprintf("%08x", uint32(h.Sum64()))
}

// BuildCard renders a triggered signal and its template into a displayable
// card. The same signal/template/variables always produce the same ID and
// StableKey; only InstanceID differs between builds.
func BuildCard(signal SignalResult, tmpl CardTemplate, vars TemplateVariables, childID string, now time.Time) CoachCard {
	key := stableKey(tmpl.ID, childID, signal.EntityID, signal.Evidence.WindowDays)

	steps := make([]string, len(tmpl.Steps))
	for i, step := range tmpl.Steps {
		steps[i] = vars.Interpolate(step)
	}

	evidenceIDs := make([]string, len(signal.Evidence.EventIDs))
	copy(evidenceIDs, signal.Evidence.EventIDs)

	card := CoachCard{
		ID:         fmt.Sprintf("%s-%s", tmpl.ID, stableHash(key)),
		InstanceID: uuid.New().String(),
		ChildID:    childID,

		Title:      vars.Interpolate(tmpl.Title),
		OneLiner:   vars.Interpolate(tmpl.OneLiner),
		Steps:      steps,
		WhySummary: vars.Interpolate(tmpl.WhySummary),

		EvidenceEventIDs: evidenceIDs,
		CTA:              tmpl.CTA,
		ExpiresAt:        now.AddDate(0, 0, cooldownDays),
		TemplateID:       tmpl.ID,
		EvidenceWindow:   signal.Evidence.WindowDays,
		PrimaryEntityID:  signal.EntityID,
		StableKey:        key,
		Confidence:       signal.Confidence,

		Localized: LocalizedContent{
			TitleKey:      fmt.Sprintf("insights.%s.title", tmpl.ID),
			OneLinerKey:   fmt.Sprintf("insights.%s.oneLiner", tmpl.ID),
			StepsKey:      fmt.Sprintf("insights.%s.steps", tmpl.ID),
			WhySummaryKey: fmt.Sprintf("insights.%s.whySummary", tmpl.ID),
			Args:          vars.Args(),
		},
	}

	card.Priority = cardPriority(tmpl, signal)

	return card
}

// cardPriority computes the final priority: the template's base tier plus
// urgency and freshness bumps, capped at criticalTier
func cardPriority(tmpl CardTemplate, signal SignalResult) int {
	priority := tmpl.BaseTier

	if signal.Type == SignalGoalAtRisk && signal.DaysRemaining > 0 {
		if signal.DaysRemaining <= 3 {
			priority += 2
		} else if signal.DaysRemaining <= 7 {
			priority++
		}
	}

	if signal.Confidence > 0.8 {
		priority++
	}

	if signal.Evidence.WindowDays == 7 {
		priority++
	}

	if tmpl.CTA.Kind.IsQuickAction() {
		priority++
	}

	if priority > criticalTier {
		priority = criticalTier
	}

	return priority
}
