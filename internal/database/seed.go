package database

import (
	"fmt"
)

// defaultBehavior is one entry in the built-in behavior catalogue
type defaultBehavior struct {
	id            string
	name          string
	category      string
	defaultPoints int
}

// defaultBehaviors is the catalogue seeded into a fresh install so routine
// detection has behavior types to work with before any customization
var defaultBehaviors = []defaultBehavior{
	{"brush-teeth", "Brushed teeth", "routinePositive", 1},
	{"make-bed", "Made the bed", "routinePositive", 1},
	{"homework-done", "Finished homework", "routinePositive", 2},
	{"tidy-room", "Tidied room", "routinePositive", 2},
	{"bedtime-on-time", "Went to bed on time", "routinePositive", 1},
	{"helped-out", "Helped out", "positive", 2},
	{"kind-words", "Used kind words", "positive", 1},
	{"shared", "Shared with sibling", "positive", 2},
	{"tried-new-food", "Tried a new food", "positive", 3},
	{"tantrum", "Tantrum", "negative", -2},
	{"refused-bedtime", "Refused bedtime", "negative", -1},
	{"hitting", "Hitting", "negative", -3},
	{"talking-back", "Talking back", "negative", -1},
}

// SeedDefaultBehaviors inserts the built-in behavior catalogue.
// Existing rows are left untouched so edits survive restarts.
func (db *DB) SeedDefaultBehaviors() error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM behaviors").Scan(&count); err != nil {
		return fmt.Errorf("failed to count behaviors: %w", err)
	}
	if count > 0 {
		return nil
	}

	query := `
		INSERT INTO behaviors (id, name, category, default_points, is_active)
		VALUES (?, ?, ?, ?, ` + db.Dialect.BoolValue(true) + `)
	`
	for _, b := range defaultBehaviors {
		if _, err := db.Exec(query, b.id, b.name, b.category, b.defaultPoints); err != nil {
			return fmt.Errorf("failed to seed behavior %s: %w", b.id, err)
		}
	}

	return nil
}
