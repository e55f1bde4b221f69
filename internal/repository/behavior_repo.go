package repository

import (
	"starcoach/internal/database"
	"starcoach/internal/models"
)

// BehaviorRepository handles behavior catalogue database operations
type BehaviorRepository struct {
	db *database.DB
}

// NewBehaviorRepository creates a new behavior repository
func NewBehaviorRepository(db *database.DB) *BehaviorRepository {
	return &BehaviorRepository{db: db}
}

// CreateBehavior inserts a new behavior type
func (r *BehaviorRepository) CreateBehavior(b *models.Behavior) error {
	query := `
		INSERT INTO behaviors (id, name, category, default_points, is_active)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, b.ID, b.Name, string(b.Category), b.DefaultPoints, b.IsActive)
	return err
}

// ListBehaviors retrieves the full behavior catalogue
func (r *BehaviorRepository) ListBehaviors() ([]models.Behavior, error) {
	query := `
		SELECT id, name, category, default_points, is_active
		FROM behaviors
		ORDER BY name, id
	`
	return r.queryBehaviors(query)
}

// ListRoutineBehaviors retrieves active routine-positive behaviors only
func (r *BehaviorRepository) ListRoutineBehaviors() ([]models.Behavior, error) {
	query := `
		SELECT id, name, category, default_points, is_active
		FROM behaviors
		WHERE category = 'routinePositive' AND is_active = ` + r.db.Dialect.BoolValue(true) + `
		ORDER BY name, id
	`
	return r.queryBehaviors(query)
}

// SetBehaviorActive toggles a behavior's active flag
func (r *BehaviorRepository) SetBehaviorActive(behaviorID string, active bool) error {
	query := "UPDATE behaviors SET is_active = ? WHERE id = ?"
	_, err := r.db.Exec(query, active, behaviorID)
	return err
}

func (r *BehaviorRepository) queryBehaviors(query string, args ...interface{}) ([]models.Behavior, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var behaviors []models.Behavior
	for rows.Next() {
		var b models.Behavior
		var category string
		if err := rows.Scan(&b.ID, &b.Name, &category, &b.DefaultPoints, &b.IsActive); err != nil {
			return nil, err
		}
		b.Category = models.EventCategory(category)
		behaviors = append(behaviors, b)
	}

	return behaviors, rows.Err()
}
