package repository

import (
	"database/sql"
	"errors"

	"starcoach/internal/database"
	"starcoach/internal/models"
)

// GoalRepository handles goal database operations
type GoalRepository struct {
	db *database.DB
}

// NewGoalRepository creates a new goal repository
func NewGoalRepository(db *database.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

// CreateGoal inserts a new goal
func (r *GoalRepository) CreateGoal(g *models.Goal) error {
	return r.CreateGoalIn(r.db, g)
}

// CreateGoalIn inserts a goal through the given handle, which may be an
// open transaction
func (r *GoalRepository) CreateGoalIn(q database.DBTX, g *models.Goal) error {
	query := `
		INSERT INTO goals (id, child_id, name, target_points, current_points,
		                   created_date, due_date, is_redeemed, is_expired)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var dueDate sql.NullTime
	if g.DueDate != nil {
		dueDate = sql.NullTime{Time: *g.DueDate, Valid: true}
	}

	_, err := q.Exec(query,
		g.ID,
		g.ChildID,
		g.Name,
		g.TargetPoints,
		g.CurrentPoints,
		g.CreatedDate,
		dueDate,
		g.IsRedeemed,
		g.IsExpired,
	)
	return err
}

// GetGoalByID retrieves a goal by ID, or nil if not found
func (r *GoalRepository) GetGoalByID(goalID string) (*models.Goal, error) {
	query := `
		SELECT id, child_id, name, target_points, current_points,
		       created_date, due_date, is_redeemed, is_expired
		FROM goals
		WHERE id = ?
	`

	row := r.db.QueryRow(query, goalID)
	goal, err := scanGoal(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return goal, err
}

// GetGoalsForChild retrieves all goals for a child, newest first
func (r *GoalRepository) GetGoalsForChild(childID string) ([]models.Goal, error) {
	query := `
		SELECT id, child_id, name, target_points, current_points,
		       created_date, due_date, is_redeemed, is_expired
		FROM goals
		WHERE child_id = ?
		ORDER BY created_date DESC, id
	`

	rows, err := r.db.Query(query, childID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		goal, err := scanGoal(rows.Scan)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *goal)
	}

	return goals, rows.Err()
}

// UpdateProgress sets the goal's current points
func (r *GoalRepository) UpdateProgress(goalID string, currentPoints int) error {
	query := "UPDATE goals SET current_points = ? WHERE id = ?"
	_, err := r.db.Exec(query, currentPoints, goalID)
	return err
}

// MarkRedeemed flags a goal as redeemed
func (r *GoalRepository) MarkRedeemed(goalID string) error {
	query := "UPDATE goals SET is_redeemed = " + r.db.Dialect.BoolValue(true) + " WHERE id = ?"
	_, err := r.db.Exec(query, goalID)
	return err
}

// scanGoal maps a goals row onto a model
func scanGoal(scan func(dest ...interface{}) error) (*models.Goal, error) {
	goal := &models.Goal{}
	var dueDate sql.NullTime

	err := scan(
		&goal.ID,
		&goal.ChildID,
		&goal.Name,
		&goal.TargetPoints,
		&goal.CurrentPoints,
		&goal.CreatedDate,
		&dueDate,
		&goal.IsRedeemed,
		&goal.IsExpired,
	)
	if err != nil {
		return nil, err
	}

	if dueDate.Valid {
		goal.DueDate = &dueDate.Time
	}

	return goal, nil
}
