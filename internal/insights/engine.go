package insights

import (
	"fmt"
	"time"

	"starcoach/internal/models"
)

// DataProvider supplies the canonical snapshot the engine detects against.
// Implementations must finish any I/O before returning: the engine evaluates
// a fully-loaded in-memory batch, never a stream.
type DataProvider interface {
	// Child returns the child, or nil if unknown
	Child(id string) (*models.Child, error)
	// Events returns every logged event for the child
	Events(childID string) ([]models.Event, error)
	// Goals returns every goal for the child
	Goals(childID string) ([]models.Goal, error)
	// RoutineBehaviors returns active routinePositive behavior types
	RoutineBehaviors() ([]models.Behavior, error)
	// AllBehaviors returns the full behavior catalogue
	AllBehaviors() ([]models.Behavior, error)
}

// Engine composes detection, card building, validation, cooldown filtering
// and ranking. GenerateCards and DebugReport are pure with respect to
// persisted state; only RecordCardsDisplayed writes.
type Engine struct {
	provider  DataProvider
	cooldowns *CooldownStore
}

// NewEngine creates an engine over a data provider and cooldown store
func NewEngine(provider DataProvider, cooldowns *CooldownStore) *Engine {
	return &Engine{provider: provider, cooldowns: cooldowns}
}

// GenerateCards runs the full pipeline for one child and returns at most
// maxCardsOutput cards in final rank order. It never writes cooldown state:
// repeat calls with identical inputs return identical output.
func (e *Engine) GenerateCards(childID string, now time.Time) ([]CoachCard, error) {
	report, err := e.run(childID, now)
	if err != nil {
		return nil, err
	}
	return report.Cards, nil
}

// DebugReport runs the identical pipeline and returns the full trace
func (e *Engine) DebugReport(childID string, now time.Time) (*DebugReport, error) {
	return e.run(childID, now)
}

// RecordCardsDisplayed persists "last shown" facts for cards that were
// actually presented to the user. Upserts make the call idempotent for
// identical cards and timestamp.
func (e *Engine) RecordCardsDisplayed(cards []CoachCard, at time.Time) error {
	for _, card := range cards {
		if err := e.cooldowns.RecordShown(card.TemplateID, card.ChildID, at); err != nil {
			return fmt.Errorf("failed to record card %s shown: %w", card.ID, err)
		}
	}
	return nil
}

// run executes the generation pipeline, accumulating the trace as it goes
func (e *Engine) run(childID string, now time.Time) (*DebugReport, error) {
	report := &DebugReport{
		ChildID:          childID,
		GeneratedAt:      now,
		CategoryCounts14: map[string]int{},
		CategoryCounts7:  map[string]int{},
	}

	child, err := e.provider.Child(childID)
	if err != nil {
		return nil, fmt.Errorf("failed to load child: %w", err)
	}
	if child == nil {
		report.State = "noChild"
		return report, nil
	}

	events, err := e.provider.Events(childID)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	pf := NewPrefilter(events, now)
	report.EventsIn14Days = len(pf.Last14)
	report.EventsIn7Days = len(pf.Last7)
	report.CategoryCounts14 = CategoryCounts(pf.Last14)
	report.CategoryCounts7 = CategoryCounts(pf.Last7)
	report.ActiveCooldowns = e.cooldowns.ActiveCooldowns(childID, now)

	if len(pf.Last14) < minEventsForDetection {
		report.State = "insufficientData"
		report.Cards = []CoachCard{e.buildInsufficientDataCard(child, pf, now)}
		report.BuiltCards = 1
		return report, nil
	}

	goals, err := e.provider.Goals(childID)
	if err != nil {
		return nil, fmt.Errorf("failed to load goals: %w", err)
	}
	routines, err := e.provider.RoutineBehaviors()
	if err != nil {
		return nil, fmt.Errorf("failed to load routine behaviors: %w", err)
	}

	// Detecting
	var signals []SignalResult
	for i := range goals {
		goal := &goals[i]
		if !goal.IsActive() {
			continue
		}
		report.ActiveGoalCount++
		signals = append(signals, DetectGoalAtRisk(goal, pf))
		signals = append(signals, DetectGoalStalled(goal, pf))
	}
	for i := range routines {
		signals = append(signals, DetectRoutineForming(&routines[i], pf))
		signals = append(signals, DetectRoutineSlipping(&routines[i], pf))
	}
	signals = append(signals, DetectHighChallengeWeek(pf))
	report.Signals = signals
	report.RoutineBehaviors = len(routines)

	// Building
	var built []CoachCard
	var templates = map[string]CardTemplate{}
	for _, signal := range signals {
		if !signal.Triggered {
			continue
		}
		tmpl, ok := TemplateFor(signal.Type)
		if !ok {
			// No template registered: the card is simply not built
			continue
		}
		templates[string(tmpl.ID)] = tmpl
		built = append(built, BuildCard(signal, tmpl, e.templateVariables(child, signal), childID, now))
	}
	report.BuiltCards = len(built)

	// Validating
	validator := NewEvidenceValidator(pf.EventIDSet)
	var valid []CoachCard
	for _, card := range built {
		minEvidence := templates[string(card.TemplateID)].MinEvidence
		ok, reason := validator.Validate(card, minEvidence)
		if !ok {
			report.Dropped = append(report.Dropped, DroppedCard{
				Card:    card,
				Reason:  DropEvidenceInvalid,
				Details: reason,
			})
			continue
		}
		valid = append(valid, card)
	}

	// Cooldown filtering
	offCooldown, dropped := FilterCooldowns(valid, e.cooldowns, now)
	report.Dropped = append(report.Dropped, dropped...)

	// Ranking, then safety rails walk the ranked order
	ranked := RankCards(offCooldown)
	railed, dropped := ApplySafetyRails(ranked)
	report.Dropped = append(report.Dropped, dropped...)

	final, dropped := TruncateCards(railed)
	report.Dropped = append(report.Dropped, dropped...)

	report.State = "done"
	report.Cards = final
	return report, nil
}

// buildInsufficientDataCard produces the single special card returned when
// the child has too few recent events for detection
func (e *Engine) buildInsufficientDataCard(child *models.Child, pf *Prefilter, now time.Time) CoachCard {
	signal := SignalResult{
		Type:        SignalInsufficientData,
		Triggered:   true,
		Confidence:  1,
		Evidence:    Evidence{WindowDays: 14},
		Explanation: fmt.Sprintf("only %d events in 14 days, detection needs %d", len(pf.Last14), minEventsForDetection),
	}
	tmpl, _ := TemplateFor(SignalInsufficientData)
	vars := TemplateVariables{
		ChildName:  child.Name,
		Count:      len(pf.Last14),
		WindowDays: 14,
	}
	return BuildCard(signal, tmpl, vars, child.ID, now)
}

// templateVariables assembles interpolation variables for a signal
func (e *Engine) templateVariables(child *models.Child, signal SignalResult) TemplateVariables {
	vars := TemplateVariables{
		ChildName:     child.Name,
		Count:         signal.Evidence.Count,
		WindowDays:    signal.Evidence.WindowDays,
		DaysRemaining: signal.DaysRemaining,
		Progress:      signal.ProgressPercent,
	}

	switch signal.Type {
	case SignalGoalAtRisk, SignalGoalStalled:
		vars.GoalID = signal.EntityID
		vars.GoalName = signal.EntityName
	case SignalRoutineForming, SignalRoutineSlipping:
		vars.BehaviorID = signal.EntityID
		vars.BehaviorName = signal.EntityName
	}

	return vars
}
