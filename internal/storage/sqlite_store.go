package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/seq4d/internal/models"
	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		data TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS schedules (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		task_count INTEGER NOT NULL DEFAULT 0,
		data TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS scene_objects (
		name TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		product_id TEXT NOT NULL DEFAULT ''
	)`,
}

func (s *SQLiteStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	if _, err := s.GetSettings(); err != nil {
		defaults := Settings{StartFrame: 1, TotalFrames: 250}
		if err := s.SaveSettings(defaults); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'seq4d init' first")
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) GetSettings() (Settings, error) {
	var settings Settings
	var data string
	err := s.db.QueryRow("SELECT data FROM settings WHERE id = 1").Scan(&data)
	if err != nil {
		return settings, fmt.Errorf("settings not found: %w", err)
	}
	if err := json.Unmarshal([]byte(data), &settings); err != nil {
		return settings, fmt.Errorf("failed to decode settings: %w", err)
	}
	return settings, nil
}

func (s *SQLiteStore) SaveSettings(settings Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	_, err = s.db.Exec(
		"INSERT INTO settings (id, data) VALUES (1, ?) ON CONFLICT(id) DO UPDATE SET data = excluded.data",
		string(data))
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

func (s *SQLiteStore) SaveSchedule(schedule *models.Schedule) error {
	if schedule == nil || schedule.ID == "" {
		return fmt.Errorf("schedule must have an id")
	}
	data, err := json.Marshal(schedule)
	if err != nil {
		return fmt.Errorf("failed to encode schedule: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO schedules (id, name, task_count, data) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, task_count = excluded.task_count, data = excluded.data`,
		schedule.ID, schedule.Name, countTasks(schedule), string(data))
	if err != nil {
		return fmt.Errorf("failed to save schedule: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetSchedule(id string) (*models.Schedule, error) {
	var query, arg = "SELECT data FROM schedules WHERE id = ?", id
	if id == "" {
		// Convenience: a single stored schedule needs no explicit id.
		query, arg = "SELECT data FROM schedules ORDER BY rowid LIMIT 1", ""
	}
	var data string
	var err error
	if id == "" {
		err = s.db.QueryRow(query).Scan(&data)
	} else {
		err = s.db.QueryRow(query, arg).Scan(&data)
	}
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("schedule not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read schedule: %w", err)
	}
	var schedule models.Schedule
	if err := json.Unmarshal([]byte(data), &schedule); err != nil {
		return nil, fmt.Errorf("failed to decode schedule: %w", err)
	}
	return &schedule, nil
}

func (s *SQLiteStore) ListSchedules() ([]ScheduleSummary, error) {
	rows, err := s.db.Query("SELECT id, name, task_count FROM schedules ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	defer rows.Close()

	var summaries []ScheduleSummary
	for rows.Next() {
		var sum ScheduleSummary
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.Tasks); err != nil {
			return nil, fmt.Errorf("failed to scan schedule row: %w", err)
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

func (s *SQLiteStore) SaveSceneObjects(objects []SceneObject) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM scene_objects"); err != nil {
		return fmt.Errorf("failed to clear scene objects: %w", err)
	}
	for _, obj := range objects {
		if _, err := tx.Exec(
			"INSERT INTO scene_objects (name, kind, product_id) VALUES (?, ?, ?)",
			obj.Name, obj.Kind, obj.ProductID); err != nil {
			return fmt.Errorf("failed to save scene object %q: %w", obj.Name, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) GetSceneObjects() ([]SceneObject, error) {
	rows, err := s.db.Query("SELECT name, kind, product_id FROM scene_objects ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to read scene objects: %w", err)
	}
	defer rows.Close()

	var objects []SceneObject
	for rows.Next() {
		var obj SceneObject
		if err := rows.Scan(&obj.Name, &obj.Kind, &obj.ProductID); err != nil {
			return nil, fmt.Errorf("failed to scan scene object: %w", err)
		}
		objects = append(objects, obj)
	}
	return objects, rows.Err()
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}
