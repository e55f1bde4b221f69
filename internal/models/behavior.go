package models

// Behavior represents a behavior type definition in the catalogue
type Behavior struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Category      EventCategory `json:"category"`
	DefaultPoints int           `json:"defaultPoints"`
	IsActive      bool          `json:"isActive"`
}

// IsRoutine reports whether the behavior participates in routine detection
func (b *Behavior) IsRoutine() bool {
	return b.Category == CategoryRoutinePositive
}
