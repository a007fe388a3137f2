package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/julianstephens/seq4d/internal/models"
	"github.com/julianstephens/seq4d/internal/storage"
)

type ImportCmd struct {
	Path string `arg:"" help:"JSON file holding a schedule and optional scene snapshot." type:"existingfile"`
}

type importFile struct {
	Schedule *models.Schedule      `json:"schedule"`
	Objects  []storage.SceneObject `json:"objects,omitempty"`
}

func (c *ImportCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	data, err := os.ReadFile(c.Path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", c.Path, err)
	}

	var file importFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse %s: %w", c.Path, err)
	}
	if file.Schedule == nil {
		// Allow a bare schedule document too.
		var schedule models.Schedule
		if err := json.Unmarshal(data, &schedule); err != nil || len(schedule.Roots) == 0 {
			return fmt.Errorf("%s contains no schedule", c.Path)
		}
		file.Schedule = &schedule
	}

	if file.Schedule.ID == "" {
		file.Schedule.ID = uuid.NewString()
	}
	tasks := 0
	file.Schedule.WalkTasks(func(_, task *models.Task) bool {
		if task.ID == "" {
			task.ID = uuid.NewString()
		}
		tasks++
		return true
	})

	if err := ctx.Store.SaveSchedule(file.Schedule); err != nil {
		return err
	}
	fmt.Printf("Imported schedule %q (%d tasks)\n", file.Schedule.Name, tasks)

	if len(file.Objects) > 0 {
		if err := ctx.Store.SaveSceneObjects(file.Objects); err != nil {
			return err
		}
		fmt.Printf("Imported %d scene objects\n", len(file.Objects))
	}
	return nil
}
