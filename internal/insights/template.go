package insights

import (
	"strconv"
	"strings"
)

// CardTemplate maps a signal type to renderable copy. Placeholders use
// {name} tokens substituted by TemplateVariables.Interpolate.
type CardTemplate struct {
	ID          SignalType
	Title       string
	OneLiner    string
	Steps       []string
	WhySummary  string
	BaseTier    int
	CTA         CTA
	MinEvidence int
}

// TemplateFor returns the template registered for a signal type. The switch
// is exhaustive over SignalType; an unknown value returns ok=false, which
// callers treat as a programming-contract violation (the card is not built).
func TemplateFor(signal SignalType) (CardTemplate, bool) {
	switch signal {
	case SignalGoalAtRisk:
		return CardTemplate{
			ID:       SignalGoalAtRisk,
			Title:    "{goalName} needs a boost",
			OneLiner: "{childName} is {progress}% of the way there with {daysRemaining} days left.",
			Steps: []string{
				"Pick one star behavior to focus on today",
				"Remind {childName} what they're working toward",
				"Celebrate every star between now and the deadline",
			},
			WhySummary:  "The current earning pace won't reach the target before the due date.",
			BaseTier:    7,
			CTA:         CTA{Kind: CTAOpenGoalDetail},
			MinEvidence: 2,
		}, true
	case SignalGoalStalled:
		return CardTemplate{
			ID:       SignalGoalStalled,
			Title:    "Progress on {goalName} has paused",
			OneLiner: "No stars toward {goalName} in the last few days.",
			Steps: []string{
				"Log a moment together to restart the streak",
				"Ask {childName} if the goal still excites them",
			},
			WhySummary:  "A steady run of positive moments stopped recently.",
			BaseTier:    5,
			CTA:         CTA{Kind: CTAOpenAddMoment},
			MinEvidence: 3,
		}, true
	case SignalRoutineForming:
		return CardTemplate{
			ID:       SignalRoutineForming,
			Title:    "{behaviorName} is becoming a habit",
			OneLiner: "{childName} did it {count} times this week.",
			Steps: []string{
				"Tell {childName} you noticed the streak",
				"Keep the same time of day to lock it in",
			},
			WhySummary:  "Consistent repetition across several days is how routines stick.",
			BaseTier:    4,
			CTA:         CTA{Kind: CTAOpenAddMoment},
			MinEvidence: 3,
		}, true
	case SignalRoutineSlipping:
		return CardTemplate{
			ID:       SignalRoutineSlipping,
			Title:    "{behaviorName} is slipping",
			OneLiner: "The routine dropped off compared to last week.",
			Steps: []string{
				"Revisit the routine at a calm moment",
				"Make the first step smaller and easier",
				"Log it as soon as it happens again",
			},
			WhySummary:  "An established routine lost momentum over the past week.",
			BaseTier:    5,
			CTA:         CTA{Kind: CTAOpenHistory, HistoryFilter: "routine"},
			MinEvidence: 3,
		}, true
	case SignalHighChallengeWeek:
		return CardTemplate{
			ID:       SignalHighChallengeWeek,
			Title:    "A tough week for {childName}",
			OneLiner: "Challenging moments kept pace with positive ones this week.",
			Steps: []string{
				"Look for patterns in when challenges happen",
				"Catch {childName} doing something right today",
				"Consider adjusting which behaviors you track",
			},
			WhySummary:  "When challenges match or outnumber wins, a reset helps everyone.",
			BaseTier:    6,
			CTA:         CTA{Kind: CTAOpenManageBehaviors},
			MinEvidence: 3,
		}, true
	case SignalInsufficientData:
		return CardTemplate{
			ID:       SignalInsufficientData,
			Title:    "Let's get to know {childName}",
			OneLiner: "Log a few more moments and coaching tips will appear here.",
			Steps: []string{
				"Log one positive moment today",
				"Add a goal {childName} cares about",
			},
			WhySummary:  "Coaching needs at least a few logged moments to spot patterns.",
			BaseTier:    3,
			CTA:         CTA{Kind: CTAOpenAddMoment},
			MinEvidence: 0,
		}, true
	}
	return CardTemplate{}, false
}

// TemplateVariables carries the values substituted into template copy
type TemplateVariables struct {
	ChildName     string
	GoalName      string
	GoalID        string
	BehaviorName  string
	BehaviorID    string
	Count         int
	WindowDays    int
	DaysRemaining int
	Progress      int
}

// Interpolate performs literal substring substitution for every placeholder
// the variables can fill. Optional variables that are absent leave their
// {placeholder} token untouched.
func (v TemplateVariables) Interpolate(s string) string {
	pairs := []string{
		"{count}", strconv.Itoa(v.Count),
		"{windowDays}", strconv.Itoa(v.WindowDays),
		"{daysRemaining}", strconv.Itoa(v.DaysRemaining),
		"{progress}", strconv.Itoa(v.Progress),
	}
	if v.ChildName != "" {
		pairs = append(pairs, "{childName}", v.ChildName)
	}
	if v.GoalName != "" {
		pairs = append(pairs, "{goalName}", v.GoalName)
	}
	if v.BehaviorName != "" {
		pairs = append(pairs, "{behaviorName}", v.BehaviorName)
	}
	return strings.NewReplacer(pairs...).Replace(s)
}

// Args returns the variable values as the string map shipped alongside
// i18n keys in LocalizedContent
func (v TemplateVariables) Args() map[string]string {
	args := map[string]string{
		"count":         strconv.Itoa(v.Count),
		"windowDays":    strconv.Itoa(v.WindowDays),
		"daysRemaining": strconv.Itoa(v.DaysRemaining),
		"progress":      strconv.Itoa(v.Progress),
	}
	if v.ChildName != "" {
		args["childName"] = v.ChildName
	}
	if v.GoalName != "" {
		args["goalName"] = v.GoalName
	}
	if v.BehaviorName != "" {
		args["behaviorName"] = v.BehaviorName
	}
	return args
}
