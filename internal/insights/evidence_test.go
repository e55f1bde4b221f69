package insights

import (
	"strings"
	"testing"
)

func TestEvidenceValidator(t *testing.T) {
	validator := NewEvidenceValidator(map[string]bool{
		"e1": true, "e2": true, "e3": true,
	})

	t.Run("valid evidence passes", func(t *testing.T) {
		card := CoachCard{EvidenceEventIDs: []string{"e1", "e2", "e3"}}
		ok, reason := validator.Validate(card, 3)
		if !ok {
			t.Errorf("Validate() rejected valid evidence: %s", reason)
		}
		if reason != "" {
			t.Errorf("reason = %q, want empty for valid card", reason)
		}
	})

	t.Run("too little evidence fails", func(t *testing.T) {
		card := CoachCard{EvidenceEventIDs: []string{"e1", "e2"}}
		ok, reason := validator.Validate(card, 3)
		if ok {
			t.Fatal("Validate() accepted a card below the evidence minimum")
		}
		if !strings.Contains(reason, "requires 3") {
			t.Errorf("reason = %q", reason)
		}
	})

	t.Run("unknown id fails", func(t *testing.T) {
		card := CoachCard{EvidenceEventIDs: []string{"e1", "e2", "ghost"}}
		ok, reason := validator.Validate(card, 3)
		if ok {
			t.Fatal("Validate() accepted an unknown evidence id")
		}
		if !strings.Contains(reason, "ghost") {
			t.Errorf("reason = %q, want the missing id named", reason)
		}
	})

	t.Run("many unknown ids are truncated in the reason", func(t *testing.T) {
		card := CoachCard{EvidenceEventIDs: []string{"g1", "g2", "g3", "g4", "g5"}}
		ok, reason := validator.Validate(card, 3)
		if ok {
			t.Fatal("Validate() accepted unknown evidence ids")
		}
		if !strings.Contains(reason, "(and 2 more)") {
			t.Errorf("reason = %q, want truncation to 3 ids", reason)
		}
		if strings.Contains(reason, "g4") {
			t.Errorf("reason = %q, should not list ids past the third", reason)
		}
	})

	t.Run("zero minimum accepts empty evidence", func(t *testing.T) {
		card := CoachCard{}
		if ok, reason := validator.Validate(card, 0); !ok {
			t.Errorf("Validate() rejected empty evidence with zero minimum: %s", reason)
		}
	})
}
