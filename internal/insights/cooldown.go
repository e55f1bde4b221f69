package insights

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// cooldownSettingsKey is the namespaced settings key holding the persisted
// cooldown records as a JSON array
const cooldownSettingsKey = "insights.cooldowns"

// SettingsStore is the persistence the cooldown store needs: a string value
// under a key. The production implementation is the settings repository; an
// in-memory implementation backs tests.
type SettingsStore interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
}

// CooldownRecord is one persisted "last shown" fact. One record exists per
// (templateId, childId) pair.
type CooldownRecord struct {
	TemplateID  string    `json:"templateId"`
	ChildID     string    `json:"childId"`
	LastShownAt time.Time `json:"lastShownAt"`
}

// CooldownStore tracks when each template was last shown per child.
// Reads go through an in-memory cache invalidated on every write. A missing
// or corrupt persisted blob fails open as "no records": cooldowns are a UX
// nicety, not a correctness property.
type CooldownStore struct {
	store SettingsStore

	mu     sync.Mutex
	cache  []CooldownRecord
	cached bool
}

// NewCooldownStore creates a cooldown store over the given persistence
func NewCooldownStore(store SettingsStore) *CooldownStore {
	return &CooldownStore{store: store}
}

// records loads the persisted records, serving from cache when possible
func (s *CooldownStore) records() []CooldownRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recordsLocked()
}

func (s *CooldownStore) recordsLocked() []CooldownRecord {
	if s.cached {
		return s.cache
	}

	var records []CooldownRecord
	raw, err := s.store.GetSetting(cooldownSettingsKey)
	if err == nil && raw != "" {
		// A corrupt blob degrades to no records
		if jsonErr := json.Unmarshal([]byte(raw), &records); jsonErr != nil {
			records = nil
		}
	}

	s.cache = records
	s.cached = true
	return records
}

// IsOnCooldown reports whether the template is still cooling down for the
// child at the given time
func (s *CooldownStore) IsOnCooldown(templateID SignalType, childID string, now time.Time) bool {
	for _, r := range s.records() {
		if r.TemplateID == string(templateID) && r.ChildID == childID {
			return now.Before(r.LastShownAt.AddDate(0, 0, cooldownDays))
		}
	}
	return false
}

// ActiveCooldowns enumerates the records still in effect for a child
func (s *CooldownStore) ActiveCooldowns(childID string, now time.Time) []CooldownRecord {
	var active []CooldownRecord
	for _, r := range s.records() {
		if r.ChildID == childID && now.Before(r.LastShownAt.AddDate(0, 0, cooldownDays)) {
			active = append(active, r)
		}
	}
	return active
}

// RecordShown upserts the record for (template, child) and prunes records
// older than the retention horizon. The cache is invalidated on write.
func (s *CooldownStore) RecordShown(templateID SignalType, childID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.recordsLocked()
	pruneBefore := at.AddDate(0, 0, -cooldownPruneDays)

	updated := make([]CooldownRecord, 0, len(existing)+1)
	replaced := false
	for _, r := range existing {
		if r.TemplateID == string(templateID) && r.ChildID == childID {
			r.LastShownAt = at
			replaced = true
		} else if r.LastShownAt.Before(pruneBefore) {
			continue
		}
		updated = append(updated, r)
	}
	if !replaced {
		updated = append(updated, CooldownRecord{
			TemplateID:  string(templateID),
			ChildID:     childID,
			LastShownAt: at,
		})
	}

	raw, err := json.Marshal(updated)
	if err != nil {
		return fmt.Errorf("failed to encode cooldown records: %w", err)
	}

	s.cache = nil
	s.cached = false

	if err := s.store.SetSetting(cooldownSettingsKey, string(raw)); err != nil {
		return fmt.Errorf("failed to persist cooldown records: %w", err)
	}
	return nil
}

// Invalidate drops the in-memory cache so the next read reloads from the
// underlying store
func (s *CooldownStore) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = nil
	s.cached = false
}
