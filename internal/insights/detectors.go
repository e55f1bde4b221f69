package insights

import (
	"fmt"
	"math"

	"starcoach/internal/models"
)

// Detectors are pure functions: absence of a trigger is expressed as
// Triggered=false with a human-readable explanation, never as an error.

func notTriggered(signal SignalType, entityID, entityName, reason string) SignalResult {
	return SignalResult{
		Type:        signal,
		Triggered:   false,
		Confidence:  0,
		Evidence:    Evidence{},
		Explanation: reason,
		EntityID:    entityID,
		EntityName:  entityName,
	}
}

// DetectGoalAtRisk checks whether the child's earning pace over the last
// week is too slow to reach the goal target by its due date.
func DetectGoalAtRisk(goal *models.Goal, pf *Prefilter) SignalResult {
	if goal.DueDate == nil {
		return notTriggered(SignalGoalAtRisk, goal.ID, goal.Name, "goal has no deadline")
	}
	if !goal.IsActive() {
		return notTriggered(SignalGoalAtRisk, goal.ID, goal.Name, "goal already redeemed or expired")
	}

	daysRemaining := goal.DaysRemaining(pf.Now)
	if daysRemaining <= 0 {
		return notTriggered(SignalGoalAtRisk, goal.ID, goal.Name, "goal deadline has passed")
	}

	if len(pf.Positive14) < 2 {
		return notTriggered(SignalGoalAtRisk, goal.ID, goal.Name,
			fmt.Sprintf("only %d positive events in 14 days, need 2", len(pf.Positive14)))
	}

	paceNeeded := float64(goal.TargetPoints-goal.CurrentPoints) / float64(daysRemaining)
	if paceNeeded <= 0 {
		return notTriggered(SignalGoalAtRisk, goal.ID, goal.Name, "goal target already reached")
	}

	currentPace := float64(models.SumStars(pf.Positive7)) / 7

	if currentPace >= paceRiskFactor*paceNeeded {
		return notTriggered(SignalGoalAtRisk, goal.ID, goal.Name,
			fmt.Sprintf("pace %.2f/day is on track for needed %.2f/day", currentPace, paceNeeded))
	}

	confidence := clamp01(1 - currentPace/paceNeeded)

	return SignalResult{
		Type:       SignalGoalAtRisk,
		Triggered:  true,
		Confidence: confidence,
		Evidence: Evidence{
			EventIDs:   models.EventIDs(pf.Positive7),
			WindowDays: 7,
			Count:      len(pf.Positive7),
		},
		Explanation: fmt.Sprintf("earning %.2f stars/day but needs %.2f/day to reach %d by the deadline",
			currentPace, paceNeeded, goal.TargetPoints),
		EntityID:        goal.ID,
		EntityName:      goal.Name,
		DaysRemaining:   daysRemaining,
		ProgressPercent: int(math.Round(goal.Progress() * 100)),
	}
}

// DetectGoalStalled checks whether earning toward an active goal has
// recently stopped after an established run of positive events.
func DetectGoalStalled(goal *models.Goal, pf *Prefilter) SignalResult {
	if !goal.IsActive() {
		return notTriggered(SignalGoalStalled, goal.ID, goal.Name, "goal already redeemed or expired")
	}

	if len(pf.Positive14) < 3 {
		return notTriggered(SignalGoalStalled, goal.ID, goal.Name,
			fmt.Sprintf("only %d positive events in 14 days, need 3", len(pf.Positive14)))
	}

	recentWindow := models.WindowEndingAt(pf.Now, goalStalledDays)
	for _, e := range pf.Positive14 {
		if recentWindow.Contains(e.Timestamp) {
			return notTriggered(SignalGoalStalled, goal.ID, goal.Name,
				fmt.Sprintf("positive events logged within the last %d days", goalStalledDays))
		}
	}

	daysSinceLast := models.DaysSince(models.LatestTimestamp(pf.Positive14), pf.Now)
	confidence := math.Min(1, daysSinceLast/10)

	return SignalResult{
		Type:       SignalGoalStalled,
		Triggered:  true,
		Confidence: confidence,
		Evidence: Evidence{
			EventIDs:   models.EventIDs(pf.Positive14),
			WindowDays: 14,
			Count:      len(pf.Positive14),
		},
		Explanation: fmt.Sprintf("no positive events for %.1f days after an active streak", daysSinceLast),
		EntityID:    goal.ID,
		EntityName:  goal.Name,
		ProgressPercent: int(math.Round(goal.Progress() * 100)),
	}
}

// DetectRoutineForming checks whether a routine behavior is being logged
// consistently enough to celebrate as a forming habit.
func DetectRoutineForming(behavior *models.Behavior, pf *Prefilter) SignalResult {
	if !behavior.IsRoutine() {
		return notTriggered(SignalRoutineForming, behavior.ID, behavior.Name, "not a routine behavior")
	}

	events14 := pf.ByBehavior14[behavior.ID]
	if len(events14) < 3 {
		return notTriggered(SignalRoutineForming, behavior.ID, behavior.Name,
			fmt.Sprintf("only %d events in 14 days, need 3", len(events14)))
	}

	events7 := pf.ByBehavior7[behavior.ID]
	if len(events7) < routineFormingThreshold {
		return notTriggered(SignalRoutineForming, behavior.ID, behavior.Name,
			fmt.Sprintf("only %d events in 7 days, need %d", len(events7), routineFormingThreshold))
	}

	if days := models.DistinctDays(events7); days < 3 {
		return notTriggered(SignalRoutineForming, behavior.ID, behavior.Name,
			fmt.Sprintf("events span only %d distinct days, need 3", days))
	}

	confidence := math.Min(1, float64(len(events7))/7)

	return SignalResult{
		Type:       SignalRoutineForming,
		Triggered:  true,
		Confidence: confidence,
		Evidence: Evidence{
			EventIDs:   models.EventIDs(events7),
			WindowDays: 7,
			Count:      len(events7),
		},
		Explanation: fmt.Sprintf("%s logged %d times across %d days this week",
			behavior.Name, len(events7), models.DistinctDays(events7)),
		EntityID:   behavior.ID,
		EntityName: behavior.Name,
	}
}

// DetectRoutineSlipping checks whether an established routine behavior has
// dropped off in the recent week compared to the week before.
func DetectRoutineSlipping(behavior *models.Behavior, pf *Prefilter) SignalResult {
	if !behavior.IsRoutine() {
		return notTriggered(SignalRoutineSlipping, behavior.ID, behavior.Name, "not a routine behavior")
	}

	events14 := pf.ByBehavior14[behavior.ID]
	if len(events14) < 3 {
		return notTriggered(SignalRoutineSlipping, behavior.ID, behavior.Name,
			fmt.Sprintf("only %d events in 14 days, need 3", len(events14)))
	}

	// Split the 14-day window: recent half is days 0-7 ago, older half 7-14
	recentCount := len(pf.ByBehavior7[behavior.ID])
	olderCount := len(events14) - recentCount

	if olderCount < 3 {
		return notTriggered(SignalRoutineSlipping, behavior.ID, behavior.Name,
			fmt.Sprintf("only %d events in the prior week, pattern not established", olderCount))
	}

	if float64(recentCount) >= slippingRateFactor*float64(olderCount) {
		return notTriggered(SignalRoutineSlipping, behavior.ID, behavior.Name,
			fmt.Sprintf("recent rate (%d) has not dropped below half the prior week's (%d)", recentCount, olderCount))
	}

	daysSinceLast := models.DaysSince(models.LatestTimestamp(events14), pf.Now)
	if daysSinceLast < routineSlippingGapDays {
		return notTriggered(SignalRoutineSlipping, behavior.ID, behavior.Name,
			fmt.Sprintf("last event only %.1f days ago, need a %d-day gap", daysSinceLast, routineSlippingGapDays))
	}

	confidence := math.Min(1, daysSinceLast/7)

	return SignalResult{
		Type:       SignalRoutineSlipping,
		Triggered:  true,
		Confidence: confidence,
		Evidence: Evidence{
			EventIDs:   models.EventIDs(events14),
			WindowDays: 14,
			Count:      len(events14),
		},
		Explanation: fmt.Sprintf("%s dropped from %d to %d per week, last logged %.1f days ago",
			behavior.Name, olderCount, recentCount, daysSinceLast),
		EntityID:   behavior.ID,
		EntityName: behavior.Name,
	}
}

// DetectHighChallengeWeek checks whether challenging behaviors match or
// outnumber positive ones over the trailing week.
func DetectHighChallengeWeek(pf *Prefilter) SignalResult {
	challengeCount := len(pf.Challenge7)
	positiveCount := len(pf.Positive7)
	total := challengeCount + positiveCount

	if total < 3 {
		return notTriggered(SignalHighChallengeWeek, "", "",
			fmt.Sprintf("only %d events this week, need 3", total))
	}

	evidence := Evidence{
		EventIDs:   append(models.EventIDs(pf.Challenge7), models.EventIDs(pf.Positive7)...),
		WindowDays: 7,
		Count:      total,
	}

	if positiveCount == 0 {
		// All challenges, no positives: maximum-confidence trigger
		return SignalResult{
			Type:        SignalHighChallengeWeek,
			Triggered:   true,
			Confidence:  1,
			Evidence:    evidence,
			Explanation: fmt.Sprintf("%d challenging behaviors and no positive ones this week", challengeCount),
		}
	}

	ratio := float64(challengeCount) / float64(positiveCount)
	if ratio < 1 {
		return notTriggered(SignalHighChallengeWeek, "", "",
			fmt.Sprintf("challenge/positive ratio %.2f is below 1.0", ratio))
	}

	return SignalResult{
		Type:       SignalHighChallengeWeek,
		Triggered:  true,
		Confidence: math.Min(1, ratio/2),
		Evidence:   evidence,
		Explanation: fmt.Sprintf("%d challenging vs %d positive behaviors this week (ratio %.1f)",
			challengeCount, positiveCount, ratio),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
