package models

import "time"

// Goal represents a reward goal a child is working toward
type Goal struct {
	ID            string     `json:"id"`
	ChildID       string     `json:"childId"`
	Name          string     `json:"name"`
	TargetPoints  int        `json:"targetPoints"`
	CurrentPoints int        `json:"currentPoints"`
	CreatedDate   time.Time  `json:"createdDate"`
	DueDate       *time.Time `json:"dueDate,omitempty"`
	IsRedeemed    bool       `json:"isRedeemed"`
	IsExpired     bool       `json:"isExpired"`
}

// IsActive reports whether the goal is still being worked toward
func (g *Goal) IsActive() bool {
	return !g.IsRedeemed && !g.IsExpired
}

// Progress returns completion as a fraction clamped to [0, 1]
func (g *Goal) Progress() float64 {
	if g.TargetPoints <= 0 {
		return 0
	}
	p := float64(g.CurrentPoints) / float64(g.TargetPoints)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// DaysRemaining returns whole days until the due date, floored at 0.
// Goals without a due date return 0.
func (g *Goal) DaysRemaining(now time.Time) int {
	if g.DueDate == nil {
		return 0
	}
	days := int(g.DueDate.Sub(now).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
