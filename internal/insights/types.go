package insights

import (
	"time"
)

// SignalType identifies one behavioral pattern the engine can detect.
// The raw values double as template ids and as the persisted cooldown keys.
type SignalType string

const (
	SignalGoalAtRisk        SignalType = "goal_at_risk"
	SignalGoalStalled       SignalType = "goal_stalled"
	SignalRoutineForming    SignalType = "routine_forming"
	SignalRoutineSlipping   SignalType = "routine_slipping"
	SignalHighChallengeWeek SignalType = "high_challenge_week"
	SignalInsufficientData  SignalType = "insufficient_data"
)

// Tunables for detection and output shaping
const (
	// minimum events in the 14-day window before any detection runs
	minEventsForDetection = 3

	// goal at risk triggers when current pace falls below this fraction of
	// the pace needed to hit the target by the due date
	paceRiskFactor = 0.7

	// goal stalled requires zero positive events in this trailing window
	goalStalledDays = 5

	// routine forming requires at least this many events in the 7-day window
	routineFormingThreshold = 4

	// routine slipping requires at least this many days since the last event
	routineSlippingGapDays = 3

	// routine slipping triggers when the recent-half rate drops below this
	// fraction of the older-half rate
	slippingRateFactor = 0.5

	// priority cap
	criticalTier = 10

	// safety rails
	maxRiskCards        = 1
	maxImprovementCards = 2
	maxCardsOutput      = 6

	// cooldown window and record retention
	cooldownDays      = 7
	cooldownPruneDays = 30
)

// Evidence is the proof set behind a signal: the specific event ids cited
// and the time window they were drawn from
type Evidence struct {
	EventIDs   []string `json:"eventIds"`
	WindowDays int      `json:"windowDays"`
	Count      int      `json:"count"`
}

// SignalResult is the outcome of one detector run. Untriggered results carry
// confidence 0 and empty evidence; the explanation says why in either case.
type SignalResult struct {
	Type        SignalType `json:"type"`
	Triggered   bool       `json:"triggered"`
	Confidence  float64    `json:"confidence"`
	Evidence    Evidence   `json:"evidence"`
	Explanation string     `json:"explanation"`
	// GoalID or BehaviorID of the entity the signal is about, empty for
	// child-wide signals
	EntityID string `json:"entityId,omitempty"`
	// EntityName is the display name used when rendering the card
	EntityName string `json:"entityName,omitempty"`
	// DaysRemaining is only meaningful for goal_at_risk
	DaysRemaining int `json:"daysRemaining,omitempty"`
	// ProgressPercent is only meaningful for goal signals
	ProgressPercent int `json:"progressPercent,omitempty"`
}

// CTAKind discriminates the call-to-action attached to a card
type CTAKind string

const (
	CTAOpenAddMoment       CTAKind = "openAddMoment"
	CTAOpenGoalDetail      CTAKind = "openGoalDetail"
	CTAOpenGoalsPicker     CTAKind = "openGoalsPicker"
	CTAOpenHistory         CTAKind = "openHistory"
	CTAOpenManageBehaviors CTAKind = "openManageBehaviors"
)

// IsQuickAction reports whether the CTA is a one-tap action, which earns the
// card a priority bump
func (k CTAKind) IsQuickAction() bool {
	return k == CTAOpenAddMoment
}

// CTA is the action a card invites the caregiver to take
type CTA struct {
	Kind CTAKind `json:"kind"`
	// HistoryFilter narrows the history screen for CTAOpenHistory
	HistoryFilter string `json:"historyFilter,omitempty"`
}

// LocalizedContent carries stable i18n keys plus the variable values used to
// render them, so a consumer can re-render a card in any language without
// re-running detection
type LocalizedContent struct {
	TitleKey      string            `json:"titleKey"`
	OneLinerKey   string            `json:"oneLinerKey"`
	StepsKey      string            `json:"stepsKey"`
	WhySummaryKey string            `json:"whySummaryKey"`
	Args          map[string]string `json:"args"`
}

// CoachCard is one renderable coaching suggestion
type CoachCard struct {
	// ID is the displayed id: "{templateID}-{stableHash}". It is invariant
	// across rebuilds with identical template/child/entity/window.
	ID string `json:"id"`
	// InstanceID is unique per build and carries no identity semantics
	InstanceID string `json:"instanceId"`
	ChildID    string `json:"childId"`
	Priority   int    `json:"priority"`

	Title      string   `json:"title"`
	OneLiner   string   `json:"oneLiner"`
	Steps      []string `json:"steps"`
	WhySummary string   `json:"whySummary"`

	EvidenceEventIDs []string         `json:"evidenceEventIds"`
	CTA              CTA              `json:"cta"`
	ExpiresAt        time.Time        `json:"expiresAt"`
	TemplateID       SignalType       `json:"templateId"`
	EvidenceWindow   int              `json:"evidenceWindow"`
	PrimaryEntityID  string           `json:"primaryEntityId,omitempty"`
	Localized        LocalizedContent `json:"localized"`

	// StableKey is the unhashed identity tuple backing ID, used for
	// deduplication and cooldown bookkeeping
	StableKey string `json:"stableKey"`

	// Confidence of the detector run that produced the card
	Confidence float64 `json:"confidence"`
}
