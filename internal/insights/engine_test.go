package insights

import (
	"encoding/json"
	"testing"

	"starcoach/internal/models"
)

// busyProvider builds a child with enough activity to trip several detectors
// at once: a slow goal, a stalled goal, forming and slipping routines, and a
// challenge-heavy week.
func busyProvider() *MemoryProvider {
	events := []models.Event{
		// Forming routine: brushing teeth daily
		evt("t1", 1, models.CategoryRoutinePositive, 1, "b-teeth"),
		evt("t2", 2, models.CategoryRoutinePositive, 1, "b-teeth"),
		evt("t3", 3, models.CategoryRoutinePositive, 1, "b-teeth"),
		evt("t4", 4, models.CategoryRoutinePositive, 1, "b-teeth"),
		// Slipping routine: bed-making died off
		evt("m1", 13, models.CategoryRoutinePositive, 1, "b-bed"),
		evt("m2", 11, models.CategoryRoutinePositive, 1, "b-bed"),
		evt("m3", 9, models.CategoryRoutinePositive, 1, "b-bed"),
		evt("m4", 8, models.CategoryRoutinePositive, 1, "b-bed"),
		evt("m5", 4, models.CategoryRoutinePositive, 1, "b-bed"),
		// Challenges dominating the week
		evt("c1", 1, models.CategoryNegative, -1, ""),
		evt("c2", 2, models.CategoryNegative, -1, ""),
		evt("c3", 3, models.CategoryNegative, -1, ""),
		evt("c4", 4, models.CategoryNegative, -1, ""),
		evt("c5", 5, models.CategoryNegative, -1, ""),
		evt("c6", 5.5, models.CategoryNegative, -1, ""),
		evt("c7", 6, models.CategoryNegative, -1, ""),
		evt("c8", 6.5, models.CategoryNegative, -1, ""),
		evt("c9", 6.7, models.CategoryNegative, -1, ""),
	}
	return &MemoryProvider{
		Children: []models.Child{{ID: "child-1", Name: "Mia", Age: 7}},
		EventLog: events,
		GoalList: []models.Goal{
			{
				ID:            "goal-1",
				ChildID:       "child-1",
				Name:          "New bike",
				TargetPoints:  100,
				CurrentPoints: 20,
				DueDate:       timePtr(testNow.AddDate(0, 0, 5)),
			},
		},
		Behaviors: []models.Behavior{
			{ID: "b-teeth", Name: "Brush teeth", Category: models.CategoryRoutinePositive, IsActive: true},
			{ID: "b-bed", Name: "Make the bed", Category: models.CategoryRoutinePositive, IsActive: true},
		},
	}
}

func TestGenerateCardsDeterminism(t *testing.T) {
	engine := NewEngine(busyProvider(), NewCooldownStore(&MemorySettings{}))

	first, err := engine.GenerateCards("child-1", testNow)
	if err != nil {
		t.Fatalf("GenerateCards() error: %v", err)
	}
	second, err := engine.GenerateCards("child-1", testNow)
	if err != nil {
		t.Fatalf("GenerateCards() error: %v", err)
	}

	if len(first) == 0 {
		t.Fatal("expected cards from a busy child")
	}
	if len(first) != len(second) {
		t.Fatalf("card counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		// InstanceID is the only field allowed to differ between runs
		a, b := first[i], second[i]
		a.InstanceID, b.InstanceID = "", ""
		aJSON, _ := json.Marshal(a)
		bJSON, _ := json.Marshal(b)
		if string(aJSON) != string(bJSON) {
			t.Errorf("card %d differs between identical calls:\n%s\n%s", i, aJSON, bJSON)
		}
	}
}

func TestGenerateCardsIsPure(t *testing.T) {
	settings := &MemorySettings{}
	engine := NewEngine(busyProvider(), NewCooldownStore(settings))

	for i := 0; i < 5; i++ {
		if _, err := engine.GenerateCards("child-1", testNow); err != nil {
			t.Fatalf("GenerateCards() error: %v", err)
		}
	}

	raw, _ := settings.GetSetting("insights.cooldowns")
	if raw != "" {
		t.Errorf("generation wrote cooldown state: %q", raw)
	}
}

func TestGenerateCardsOutputShape(t *testing.T) {
	engine := NewEngine(busyProvider(), NewCooldownStore(&MemorySettings{}))

	cards, err := engine.GenerateCards("child-1", testNow)
	if err != nil {
		t.Fatalf("GenerateCards() error: %v", err)
	}

	if len(cards) > maxCardsOutput {
		t.Errorf("%d cards, want at most %d", len(cards), maxCardsOutput)
	}

	riskCount, improvementCount := 0, 0
	for _, card := range cards {
		switch categoryOf(card.TemplateID) {
		case categoryRisk:
			riskCount++
		case categoryImprovement:
			improvementCount++
		}
	}
	if riskCount > maxRiskCards {
		t.Errorf("%d risk cards, want at most %d", riskCount, maxRiskCards)
	}
	if improvementCount > maxImprovementCards {
		t.Errorf("%d improvement cards, want at most %d", improvementCount, maxImprovementCards)
	}

	for i := 1; i < len(cards); i++ {
		if cards[i].Priority > cards[i-1].Priority {
			t.Errorf("cards out of priority order at %d: %d after %d", i, cards[i].Priority, cards[i-1].Priority)
		}
	}
}

func TestGenerateCardsInsufficientData(t *testing.T) {
	provider := &MemoryProvider{
		Children: []models.Child{{ID: "child-1", Name: "Mia"}},
		EventLog: []models.Event{
			evt("e1", 1, models.CategoryPositive, 1, ""),
			evt("e2", 3, models.CategoryPositive, 1, ""),
		},
	}
	engine := NewEngine(provider, NewCooldownStore(&MemorySettings{}))

	cards, err := engine.GenerateCards("child-1", testNow)
	if err != nil {
		t.Fatalf("GenerateCards() error: %v", err)
	}

	if len(cards) != 1 {
		t.Fatalf("%d cards, want exactly 1", len(cards))
	}
	if cards[0].TemplateID != SignalInsufficientData {
		t.Errorf("TemplateID = %s, want %s", cards[0].TemplateID, SignalInsufficientData)
	}
	if len(cards[0].EvidenceEventIDs) != 0 {
		t.Errorf("insufficient-data card cites %d events, want none", len(cards[0].EvidenceEventIDs))
	}
}

func TestGenerateCardsUnknownChild(t *testing.T) {
	engine := NewEngine(&MemoryProvider{}, NewCooldownStore(&MemorySettings{}))

	cards, err := engine.GenerateCards("ghost", testNow)
	if err != nil {
		t.Fatalf("GenerateCards() error: %v", err)
	}
	if cards != nil {
		t.Errorf("unknown child returned %d cards", len(cards))
	}

	report, err := engine.DebugReport("ghost", testNow)
	if err != nil {
		t.Fatalf("DebugReport() error: %v", err)
	}
	if report.State != "noChild" {
		t.Errorf("State = %q, want noChild", report.State)
	}
}

func TestRecordCardsDisplayedStartsCooldowns(t *testing.T) {
	settings := &MemorySettings{}
	cooldowns := NewCooldownStore(settings)
	engine := NewEngine(busyProvider(), cooldowns)

	cards, err := engine.GenerateCards("child-1", testNow)
	if err != nil {
		t.Fatalf("GenerateCards() error: %v", err)
	}
	if len(cards) == 0 {
		t.Fatal("expected cards")
	}

	if err := engine.RecordCardsDisplayed(cards, testNow); err != nil {
		t.Fatalf("RecordCardsDisplayed() error: %v", err)
	}

	// Every shown template is now suppressed
	after, err := engine.GenerateCards("child-1", testNow.Add(1))
	if err != nil {
		t.Fatalf("GenerateCards() error: %v", err)
	}
	shown := make(map[SignalType]bool)
	for _, card := range cards {
		shown[card.TemplateID] = true
	}
	for _, card := range after {
		if shown[card.TemplateID] {
			t.Errorf("template %s reappeared while on cooldown", card.TemplateID)
		}
	}

	// And eligible again once the cooldown lapses
	report, err := engine.DebugReport("child-1", testNow.AddDate(0, 0, 8))
	if err != nil {
		t.Fatalf("DebugReport() error: %v", err)
	}
	for _, d := range report.Dropped {
		if d.Reason == DropCooldownActive {
			t.Errorf("card %s still dropped for cooldown after 8 days", d.Card.ID)
		}
	}
}

func TestDebugReportTracesDrops(t *testing.T) {
	settings := &MemorySettings{}
	cooldowns := NewCooldownStore(settings)
	engine := NewEngine(busyProvider(), cooldowns)

	report, err := engine.DebugReport("child-1", testNow)
	if err != nil {
		t.Fatalf("DebugReport() error: %v", err)
	}

	if report.State != "done" {
		t.Fatalf("State = %q, want done", report.State)
	}
	if report.BuiltCards == 0 {
		t.Error("no cards built for a busy child")
	}
	if len(report.Signals) == 0 {
		t.Error("no signals recorded")
	}

	triggered := 0
	for _, s := range report.Signals {
		if s.Triggered {
			triggered++
		}
	}
	if got := len(report.Cards) + len(report.Dropped); got != report.BuiltCards {
		t.Errorf("cards (%d) + dropped (%d) = %d, want BuiltCards %d",
			len(report.Cards), len(report.Dropped), got, report.BuiltCards)
	}
	if triggered != report.BuiltCards {
		t.Errorf("%d triggered signals but %d built cards", triggered, report.BuiltCards)
	}

	text := report.RenderText()
	if text == "" {
		t.Fatal("RenderText() returned empty output")
	}
}

func TestDebugReportSurfacesCooldowns(t *testing.T) {
	settings := &MemorySettings{}
	cooldowns := NewCooldownStore(settings)
	engine := NewEngine(busyProvider(), cooldowns)

	if err := cooldowns.RecordShown(SignalHighChallengeWeek, "child-1", testNow.AddDate(0, 0, -1)); err != nil {
		t.Fatal(err)
	}

	report, err := engine.DebugReport("child-1", testNow)
	if err != nil {
		t.Fatalf("DebugReport() error: %v", err)
	}

	if len(report.ActiveCooldowns) != 1 {
		t.Fatalf("ActiveCooldowns = %d, want 1", len(report.ActiveCooldowns))
	}

	found := false
	for _, d := range report.Dropped {
		if d.Reason == DropCooldownActive && d.Card.TemplateID == SignalHighChallengeWeek {
			found = true
		}
	}
	if !found {
		t.Error("cooled-down high_challenge_week card not traced as dropped")
	}
	for _, card := range report.Cards {
		if card.TemplateID == SignalHighChallengeWeek {
			t.Error("cooled-down template still in final cards")
		}
	}
}
