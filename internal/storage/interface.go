package storage

import (
	"fmt"
	"time"

	"github.com/julianstephens/seq4d/internal/models"
)

// Settings are the persisted visualization defaults. Dates are YYYY-MM-DD
// strings; empty means "derive from the schedule".
type Settings struct {
	StartFrame  int     `json:"start_frame"`
	TotalFrames int     `json:"total_frames"`
	Start       string  `json:"start,omitempty"`
	Finish      string  `json:"finish,omitempty"`
	Speed       float64 `json:"speed,omitempty"`
}

// Window converts the settings into an animation window. Unset fields stay
// zero for the engine to normalize.
func (s Settings) Window() (models.AnimationWindow, error) {
	w := models.AnimationWindow{
		StartFrame:  s.StartFrame,
		TotalFrames: s.TotalFrames,
		Speed:       s.Speed,
	}
	if s.Start != "" {
		start, err := time.Parse("2006-01-02", s.Start)
		if err != nil {
			return w, fmt.Errorf("invalid start date %q: %w", s.Start, err)
		}
		w.Start = start
	}
	if s.Finish != "" {
		finish, err := time.Parse("2006-01-02", s.Finish)
		if err != nil {
			return w, fmt.Errorf("invalid finish date %q: %w", s.Finish, err)
		}
		w.Finish = finish
	}
	if !w.Start.IsZero() && !w.Finish.IsZero() {
		w.Duration = w.Finish.Sub(w.Start)
	}
	return w, nil
}

// SceneObject is a persisted scene snapshot entry: enough to rebuild an
// in-memory host when no live viewport is attached.
type SceneObject struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	ProductID string `json:"product_id,omitempty"`
}

// ScheduleSummary is a listing row.
type ScheduleSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Tasks int    `json:"tasks"`
}

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (Settings, error)
	SaveSettings(Settings) error

	// Schedules
	SaveSchedule(*models.Schedule) error
	GetSchedule(id string) (*models.Schedule, error)
	ListSchedules() ([]ScheduleSummary, error)

	// Scene snapshot
	SaveSceneObjects([]SceneObject) error
	GetSceneObjects() ([]SceneObject, error)

	// Utils
	GetConfigPath() string
}

func countTasks(s *models.Schedule) int {
	n := 0
	s.WalkTasks(func(_, _ *models.Task) bool {
		n++
		return true
	})
	return n
}
