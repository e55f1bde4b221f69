package repository

import (
	"database/sql"
	"errors"

	"starcoach/internal/database"
	"starcoach/internal/models"
)

// ChildRepository handles child database operations
type ChildRepository struct {
	db *database.DB
}

// NewChildRepository creates a new child repository
func NewChildRepository(db *database.DB) *ChildRepository {
	return &ChildRepository{db: db}
}

// CreateChild inserts a new child record
func (r *ChildRepository) CreateChild(child *models.Child) error {
	query := `
		INSERT INTO children (id, name, age, active_goal_id)
		VALUES (?, ?, ?, ?)
	`

	var age sql.NullInt64
	if child.Age > 0 {
		age = sql.NullInt64{Int64: int64(child.Age), Valid: true}
	}
	var activeGoal sql.NullString
	if child.ActiveGoalID != "" {
		activeGoal = sql.NullString{String: child.ActiveGoalID, Valid: true}
	}

	_, err := r.db.Exec(query, child.ID, child.Name, age, activeGoal)
	return err
}

// GetChildByID retrieves a child by ID, or nil if not found
func (r *ChildRepository) GetChildByID(childID string) (*models.Child, error) {
	query := `
		SELECT id, name, age, active_goal_id
		FROM children
		WHERE id = ?
	`

	child := &models.Child{}
	var age sql.NullInt64
	var activeGoal sql.NullString

	err := r.db.QueryRow(query, childID).Scan(&child.ID, &child.Name, &age, &activeGoal)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if age.Valid {
		child.Age = int(age.Int64)
	}
	if activeGoal.Valid {
		child.ActiveGoalID = activeGoal.String
	}

	return child, nil
}

// ListChildren retrieves all children ordered by name
func (r *ChildRepository) ListChildren() ([]models.Child, error) {
	query := `
		SELECT id, name, age, active_goal_id
		FROM children
		ORDER BY name, id
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var children []models.Child
	for rows.Next() {
		var child models.Child
		var age sql.NullInt64
		var activeGoal sql.NullString

		if err := rows.Scan(&child.ID, &child.Name, &age, &activeGoal); err != nil {
			return nil, err
		}
		if age.Valid {
			child.Age = int(age.Int64)
		}
		if activeGoal.Valid {
			child.ActiveGoalID = activeGoal.String
		}
		children = append(children, child)
	}

	return children, rows.Err()
}

// UpdateActiveGoal sets or clears the child's active goal
func (r *ChildRepository) UpdateActiveGoal(childID, goalID string) error {
	return r.UpdateActiveGoalIn(r.db, childID, goalID)
}

// UpdateActiveGoalIn sets the active goal through the given handle, which
// may be an open transaction
func (r *ChildRepository) UpdateActiveGoalIn(q database.DBTX, childID, goalID string) error {
	query := `
		UPDATE children
		SET active_goal_id = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	var activeGoal sql.NullString
	if goalID != "" {
		activeGoal = sql.NullString{String: goalID, Valid: true}
	}

	_, err := q.Exec(query, activeGoal, childID)
	return err
}

// DeleteChild removes a child and, via foreign keys, their events and goals
func (r *ChildRepository) DeleteChild(childID string) error {
	_, err := r.db.Exec("DELETE FROM children WHERE id = ?", childID)
	return err
}
