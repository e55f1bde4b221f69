package models

import "time"

// EventCategory classifies a logged behavior occurrence
type EventCategory string

const (
	// CategoryPositive is a one-off positive behavior (kindness, helping out)
	CategoryPositive EventCategory = "positive"
	// CategoryRoutinePositive is a positive behavior that is part of a daily
	// routine (brushing teeth, making the bed)
	CategoryRoutinePositive EventCategory = "routinePositive"
	// CategoryNegative is a challenging behavior (tantrum, refusing bedtime)
	CategoryNegative EventCategory = "negative"
)

// IsPositive reports whether the category counts toward goal progress
func (c EventCategory) IsPositive() bool {
	return c == CategoryPositive || c == CategoryRoutinePositive
}

// IsChallenge reports whether the category is a challenging behavior
func (c EventCategory) IsChallenge() bool {
	return c == CategoryNegative
}

// Event represents one logged behavior occurrence for a child.
// Events are constructed fresh per request and never mutated.
type Event struct {
	ID             string        `json:"id"`
	ChildID        string        `json:"childId"`
	Timestamp      time.Time     `json:"occurredAt"`
	Category       EventCategory `json:"category"`
	StarsDelta     int           `json:"starsDelta"`
	BehaviorTypeID string        `json:"behaviorTypeId,omitempty"`
	BehaviorName   string        `json:"behaviorName,omitempty"`
	LinkedGoalID   string        `json:"linkedGoalId,omitempty"`
	CaregiverID    string        `json:"caregiverId,omitempty"`
}
