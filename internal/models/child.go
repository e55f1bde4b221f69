package models

// Child is the subject of coaching analysis
type Child struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Age          int    `json:"age,omitempty"`
	ActiveGoalID string `json:"activeGoalId,omitempty"`
}
