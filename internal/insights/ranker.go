package insights

import (
	"fmt"
	"sort"
	"time"
)

// cardCategory classifies templates for safety-rail purposes
type cardCategory int

const (
	categoryNeither cardCategory = iota
	categoryRisk
	categoryImprovement
)

// categoryOf classifies a template as risk, improvement, or neither. The
// switch is exhaustive over SignalType so adding a signal type forces a
// decision here.
func categoryOf(templateID SignalType) cardCategory {
	switch templateID {
	case SignalGoalAtRisk, SignalHighChallengeWeek:
		return categoryRisk
	case SignalGoalStalled, SignalRoutineForming, SignalRoutineSlipping:
		return categoryImprovement
	case SignalInsufficientData:
		return categoryNeither
	}
	return categoryNeither
}

// RankCards sorts cards into their final deterministic order: priority
// descending, then shorter evidence window (fresher), then more evidence,
// then template id, then stable key as the last resort for cards built from
// the same template. The ordering is total, so output never depends on
// input order.
func RankCards(cards []CoachCard) []CoachCard {
	ranked := make([]CoachCard, len(cards))
	copy(ranked, cards)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if a.EvidenceWindow != b.EvidenceWindow {
			return a.EvidenceWindow < b.EvidenceWindow
		}
		if len(a.EvidenceEventIDs) != len(b.EvidenceEventIDs) {
			return len(a.EvidenceEventIDs) > len(b.EvidenceEventIDs)
		}
		if a.TemplateID != b.TemplateID {
			return a.TemplateID < b.TemplateID
		}
		return a.StableKey < b.StableKey
	})

	return ranked
}

// FilterCooldowns removes cards whose template is still cooling down for
// their child, reporting each drop
func FilterCooldowns(cards []CoachCard, cooldowns *CooldownStore, now time.Time) ([]CoachCard, []DroppedCard) {
	var kept []CoachCard
	var dropped []DroppedCard
	for _, card := range cards {
		if cooldowns.IsOnCooldown(card.TemplateID, card.ChildID, now) {
			dropped = append(dropped, DroppedCard{
				Card:    card,
				Reason:  DropCooldownActive,
				Details: fmt.Sprintf("template %s shown within the last %d days", card.TemplateID, cooldownDays),
			})
			continue
		}
		kept = append(kept, card)
	}
	return kept, dropped
}

// ApplySafetyRails walks ranked cards in priority order, keeping at most
// maxRiskCards risk cards and maxImprovementCards improvement cards. Cards
// of neither category always pass through.
func ApplySafetyRails(ranked []CoachCard) ([]CoachCard, []DroppedCard) {
	var kept []CoachCard
	var dropped []DroppedCard
	riskCount := 0
	improvementCount := 0

	for _, card := range ranked {
		switch categoryOf(card.TemplateID) {
		case categoryRisk:
			if riskCount >= maxRiskCards {
				dropped = append(dropped, DroppedCard{
					Card:    card,
					Reason:  DropSafetyRailRisk,
					Details: fmt.Sprintf("risk card cap of %d reached", maxRiskCards),
				})
				continue
			}
			riskCount++
		case categoryImprovement:
			if improvementCount >= maxImprovementCards {
				dropped = append(dropped, DroppedCard{
					Card:    card,
					Reason:  DropSafetyRailImprovement,
					Details: fmt.Sprintf("improvement card cap of %d reached", maxImprovementCards),
				})
				continue
			}
			improvementCount++
		}
		kept = append(kept, card)
	}

	return kept, dropped
}

// TruncateCards keeps the top maxCardsOutput cards, reporting the cutoff
func TruncateCards(ranked []CoachCard) ([]CoachCard, []DroppedCard) {
	if len(ranked) <= maxCardsOutput {
		return ranked, nil
	}

	var dropped []DroppedCard
	for _, card := range ranked[maxCardsOutput:] {
		dropped = append(dropped, DroppedCard{
			Card:    card,
			Reason:  DropRankingCutoff,
			Details: fmt.Sprintf("ranked below the top %d", maxCardsOutput),
		})
	}
	return ranked[:maxCardsOutput], dropped
}
