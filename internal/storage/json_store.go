package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/seq4d/internal/models"
)

type jsonStore struct {
	Version   int                         `json:"version"`
	Settings  Settings                    `json:"settings"`
	Schedules map[string]*models.Schedule `json:"schedules"`
	Objects   []SceneObject               `json:"objects"`
}

// JSONStore keeps everything in one JSON file. Useful for small fixtures and
// tests; the SQLite store is the default.
type JSONStore struct {
	path  string
	store *jsonStore
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}
	s.store = &jsonStore{
		Version:   1,
		Settings:  Settings{StartFrame: 1, TotalFrames: 250},
		Schedules: make(map[string]*models.Schedule),
	}
	return s.save()
}

func (s *JSONStore) Load() error {
	if s.store != nil {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'seq4d init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}
	var store jsonStore
	if err := json.Unmarshal(data, &store); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if store.Schedules == nil {
		store.Schedules = make(map[string]*models.Schedule)
	}
	s.store = &store
	return nil
}

func (s *JSONStore) Close() error {
	s.store = nil
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode storage: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *JSONStore) loaded() error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	return nil
}

func (s *JSONStore) GetSettings() (Settings, error) {
	if err := s.loaded(); err != nil {
		return Settings{}, err
	}
	return s.store.Settings, nil
}

func (s *JSONStore) SaveSettings(settings Settings) error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.store.Settings = settings
	return s.save()
}

func (s *JSONStore) SaveSchedule(schedule *models.Schedule) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if schedule == nil || schedule.ID == "" {
		return fmt.Errorf("schedule must have an id")
	}
	s.store.Schedules[schedule.ID] = schedule
	return s.save()
}

func (s *JSONStore) GetSchedule(id string) (*models.Schedule, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	if id == "" {
		for _, schedule := range s.store.Schedules {
			return schedule, nil
		}
		return nil, fmt.Errorf("schedule not found")
	}
	schedule, ok := s.store.Schedules[id]
	if !ok {
		return nil, fmt.Errorf("schedule not found")
	}
	return schedule, nil
}

func (s *JSONStore) ListSchedules() ([]ScheduleSummary, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	var summaries []ScheduleSummary
	for _, schedule := range s.store.Schedules {
		summaries = append(summaries, ScheduleSummary{
			ID:    schedule.ID,
			Name:  schedule.Name,
			Tasks: countTasks(schedule),
		})
	}
	return summaries, nil
}

func (s *JSONStore) SaveSceneObjects(objects []SceneObject) error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.store.Objects = objects
	return s.save()
}

func (s *JSONStore) GetSceneObjects() ([]SceneObject, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	return s.store.Objects, nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
