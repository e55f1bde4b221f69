package repository

import (
	"database/sql"

	"starcoach/internal/database"
	"starcoach/internal/models"
)

// EventRepository handles behavior event database operations
type EventRepository struct {
	db *database.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *database.DB) *EventRepository {
	return &EventRepository{db: db}
}

// CreateEvent inserts a logged behavior occurrence
func (r *EventRepository) CreateEvent(e *models.Event) error {
	query := `
		INSERT INTO events (id, child_id, occurred_at, category, stars_delta,
		                    behavior_type_id, behavior_name, linked_goal_id, caregiver_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		e.ID,
		e.ChildID,
		e.Timestamp,
		string(e.Category),
		e.StarsDelta,
		nullString(e.BehaviorTypeID),
		nullString(e.BehaviorName),
		nullString(e.LinkedGoalID),
		nullString(e.CaregiverID),
	)
	return err
}

// GetEventsForChild retrieves all events for a child, oldest first
func (r *EventRepository) GetEventsForChild(childID string) ([]models.Event, error) {
	query := `
		SELECT id, child_id, occurred_at, category, stars_delta,
		       behavior_type_id, behavior_name, linked_goal_id, caregiver_id
		FROM events
		WHERE child_id = ?
		ORDER BY occurred_at, id
	`

	rows, err := r.db.Query(query, childID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var e models.Event
		var category string
		var behaviorTypeID, behaviorName, linkedGoalID, caregiverID sql.NullString

		err := rows.Scan(
			&e.ID,
			&e.ChildID,
			&e.Timestamp,
			&category,
			&e.StarsDelta,
			&behaviorTypeID,
			&behaviorName,
			&linkedGoalID,
			&caregiverID,
		)
		if err != nil {
			return nil, err
		}

		e.Category = models.EventCategory(category)
		e.BehaviorTypeID = behaviorTypeID.String
		e.BehaviorName = behaviorName.String
		e.LinkedGoalID = linkedGoalID.String
		e.CaregiverID = caregiverID.String
		events = append(events, e)
	}

	return events, rows.Err()
}

// CountEventsForChild returns the number of logged events for a child
func (r *EventRepository) CountEventsForChild(childID string) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM events WHERE child_id = ?"
	err := r.db.QueryRow(query, childID).Scan(&count)
	return count, err
}

// DeleteEvent removes a logged event
func (r *EventRepository) DeleteEvent(eventID string) error {
	_, err := r.db.Exec("DELETE FROM events WHERE id = ?", eventID)
	return err
}

// nullString converts an empty string to a SQL NULL
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
