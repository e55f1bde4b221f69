package service

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"starcoach/internal/database"
	"starcoach/internal/models"
)

// BackupData is the complete portable snapshot of the database. The format
// is dialect-neutral so an export from sqlite can be imported into postgres.
type BackupData struct {
	Version    string    `json:"version"`
	ExportedAt time.Time `json:"exportedAt"`

	Children  []models.Child    `json:"children"`
	Behaviors []models.Behavior `json:"behaviors"`
	Events    []models.Event    `json:"events"`
	Goals     []models.Goal     `json:"goals"`
	Settings  []SettingBackup   `json:"settings"`
}

// SettingBackup is one settings row
type SettingBackup struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// BackupService handles database export and restore
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export writes a complete backup of the database to a file
func (s *BackupService) Export(outputPath string) error {
	log.Println("Starting database export...")

	backup := &BackupData{
		Version:    "1.0",
		ExportedAt: time.Now().UTC(),
	}

	if err := s.exportChildren(backup); err != nil {
		return fmt.Errorf("failed to export children: %w", err)
	}
	if err := s.exportBehaviors(backup); err != nil {
		return fmt.Errorf("failed to export behaviors: %w", err)
	}
	if err := s.exportEvents(backup); err != nil {
		return fmt.Errorf("failed to export events: %w", err)
	}
	if err := s.exportGoals(backup); err != nil {
		return fmt.Errorf("failed to export goals: %w", err)
	}
	if err := s.exportSettings(backup); err != nil {
		return fmt.Errorf("failed to export settings: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	log.Printf("Exported: %d children, %d behaviors, %d events, %d goals, %d settings",
		len(backup.Children), len(backup.Behaviors), len(backup.Events),
		len(backup.Goals), len(backup.Settings))

	return nil
}

// Import restores a backup file into the database. Rows whose ids already
// exist are skipped, so importing over live data merges rather than clobbers.
func (s *BackupService) Import(inputPath string) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file)
}

// ImportFromReader restores a backup from a reader
func (s *BackupService) ImportFromReader(reader io.Reader) error {
	var backup BackupData
	if err := json.NewDecoder(reader).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt.Format(time.RFC3339))

	// Import in dependency order: children before their events and goals
	if err := s.importChildren(backup.Children); err != nil {
		return fmt.Errorf("failed to import children: %w", err)
	}
	if err := s.importBehaviors(backup.Behaviors); err != nil {
		return fmt.Errorf("failed to import behaviors: %w", err)
	}
	if err := s.importGoals(backup.Goals); err != nil {
		return fmt.Errorf("failed to import goals: %w", err)
	}
	if err := s.importEvents(backup.Events); err != nil {
		return fmt.Errorf("failed to import events: %w", err)
	}
	if err := s.importSettings(backup.Settings); err != nil {
		return fmt.Errorf("failed to import settings: %w", err)
	}

	log.Println("Database import completed successfully")
	return nil
}

func (s *BackupService) exportChildren(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, name, COALESCE(age, 0), COALESCE(active_goal_id, '') FROM children ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Child
		if err := rows.Scan(&c.ID, &c.Name, &c.Age, &c.ActiveGoalID); err != nil {
			return err
		}
		backup.Children = append(backup.Children, c)
	}
	return rows.Err()
}

func (s *BackupService) exportBehaviors(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, name, category, default_points, is_active FROM behaviors ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var b models.Behavior
		if err := rows.Scan(&b.ID, &b.Name, &b.Category, &b.DefaultPoints, &b.IsActive); err != nil {
			return err
		}
		backup.Behaviors = append(backup.Behaviors, b)
	}
	return rows.Err()
}

func (s *BackupService) exportEvents(backup *BackupData) error {
	query := `SELECT id, child_id, occurred_at, category, stars_delta,
		COALESCE(behavior_type_id, ''), COALESCE(behavior_name, ''),
		COALESCE(linked_goal_id, ''), COALESCE(caregiver_id, '')
		FROM events ORDER BY occurred_at, id`
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.ChildID, &e.Timestamp, &e.Category, &e.StarsDelta,
			&e.BehaviorTypeID, &e.BehaviorName, &e.LinkedGoalID, &e.CaregiverID); err != nil {
			return err
		}
		backup.Events = append(backup.Events, e)
	}
	return rows.Err()
}

func (s *BackupService) exportGoals(backup *BackupData) error {
	query := `SELECT id, child_id, name, target_points, current_points,
		created_date, due_date, is_redeemed, is_expired
		FROM goals ORDER BY created_date, id`
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var g models.Goal
		var due sql.NullTime
		if err := rows.Scan(&g.ID, &g.ChildID, &g.Name, &g.TargetPoints, &g.CurrentPoints,
			&g.CreatedDate, &due, &g.IsRedeemed, &g.IsExpired); err != nil {
			return err
		}
		if due.Valid {
			t := due.Time
			g.DueDate = &t
		}
		backup.Goals = append(backup.Goals, g)
	}
	return rows.Err()
}

func (s *BackupService) exportSettings(backup *BackupData) error {
	rows, err := s.db.Query("SELECT key, value FROM settings ORDER BY key")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var st SettingBackup
		if err := rows.Scan(&st.Key, &st.Value); err != nil {
			return err
		}
		backup.Settings = append(backup.Settings, st)
	}
	return rows.Err()
}

// rowExists reports whether a row with the given id exists in the table.
// The table name comes from a fixed internal list, never user input.
func (s *BackupService) rowExists(table, id string) (bool, error) {
	var one int
	query := fmt.Sprintf("SELECT 1 FROM %s WHERE id = ?", table)
	err := s.db.QueryRow(query, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (s *BackupService) importChildren(children []models.Child) error {
	for _, c := range children {
		exists, err := s.rowExists("children", c.ID)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		_, err = s.db.Exec(
			"INSERT INTO children (id, name, age, active_goal_id) VALUES (?, ?, ?, ?)",
			c.ID, c.Name, c.Age, nullIfEmpty(c.ActiveGoalID),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *BackupService) importBehaviors(behaviors []models.Behavior) error {
	for _, b := range behaviors {
		exists, err := s.rowExists("behaviors", b.ID)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		_, err = s.db.Exec(
			"INSERT INTO behaviors (id, name, category, default_points, is_active) VALUES (?, ?, ?, ?, ?)",
			b.ID, b.Name, string(b.Category), b.DefaultPoints, b.IsActive,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *BackupService) importEvents(events []models.Event) error {
	for _, e := range events {
		exists, err := s.rowExists("events", e.ID)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		_, err = s.db.Exec(
			`INSERT INTO events (id, child_id, occurred_at, category, stars_delta,
				behavior_type_id, behavior_name, linked_goal_id, caregiver_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.ChildID, e.Timestamp, string(e.Category), e.StarsDelta,
			nullIfEmpty(e.BehaviorTypeID), nullIfEmpty(e.BehaviorName),
			nullIfEmpty(e.LinkedGoalID), nullIfEmpty(e.CaregiverID),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *BackupService) importGoals(goals []models.Goal) error {
	for _, g := range goals {
		exists, err := s.rowExists("goals", g.ID)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		_, err = s.db.Exec(
			`INSERT INTO goals (id, child_id, name, target_points, current_points,
				created_date, due_date, is_redeemed, is_expired)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			g.ID, g.ChildID, g.Name, g.TargetPoints, g.CurrentPoints,
			g.CreatedDate, g.DueDate, g.IsRedeemed, g.IsExpired,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *BackupService) importSettings(settings []SettingBackup) error {
	query := s.db.Dialect.UpsertSettings()
	for _, st := range settings {
		if _, err := s.db.Exec(query, st.Key, st.Value); err != nil {
			return err
		}
	}
	return nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
