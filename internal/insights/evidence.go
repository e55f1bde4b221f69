package insights

import (
	"fmt"
	"strings"
)

// EvidenceValidator checks card evidence against the canonical event id set
// for the child. It guards against a detector leaking a stale or cross-child
// event id into a card.
type EvidenceValidator struct {
	canonicalIDs map[string]bool
}

// NewEvidenceValidator builds a validator over the known event id set
func NewEvidenceValidator(canonicalIDs map[string]bool) *EvidenceValidator {
	return &EvidenceValidator{canonicalIDs: canonicalIDs}
}

// Validate reports whether a card's evidence is sound: enough evidence ids
// for its template, and every id present in the canonical set. The reason is
// empty when valid.
func (v *EvidenceValidator) Validate(card CoachCard, minEvidence int) (bool, string) {
	if len(card.EvidenceEventIDs) < minEvidence {
		return false, fmt.Sprintf("%d evidence events, template requires %d",
			len(card.EvidenceEventIDs), minEvidence)
	}

	var missing []string
	for _, id := range card.EvidenceEventIDs {
		if !v.canonicalIDs[id] {
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 {
		shown := missing
		suffix := ""
		if len(shown) > 3 {
			shown = shown[:3]
			suffix = fmt.Sprintf(" (and %d more)", len(missing)-3)
		}
		return false, fmt.Sprintf("evidence ids not in canonical set: %s%s",
			strings.Join(shown, ", "), suffix)
	}

	return true, ""
}
