package cli

import (
	"fmt"
	"time"

	"github.com/julianstephens/seq4d/internal/scene"
)

type SnapshotCmd struct {
	Date     string `help:"Snapshot date (YYYY-MM-DD)." required:""`
	Schedule string `help:"Schedule id (defaults to the only stored schedule)."`
}

func (c *SnapshotCmd) Run(ctx *Context) error {
	at, err := time.Parse("2006-01-02", c.Date)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", c.Date, err)
	}
	schedule, err := ctx.loadSchedule(c.Schedule)
	if err != nil {
		return err
	}
	host, err := ctx.buildHost()
	if err != nil {
		return err
	}

	eng := ctx.newEngine(host)
	if err := eng.ApplySnapshot(schedule, at); err != nil {
		return err
	}

	visible, hidden := 0, 0
	for _, obj := range host.Objects() {
		mem, ok := obj.(*scene.MemoryObject)
		if !ok || !mem.Kind().Renderable() {
			continue
		}
		if mem.Hidden {
			hidden++
		} else {
			visible++
		}
	}
	fmt.Println(headerStyle.Render(fmt.Sprintf("Snapshot at %s", c.Date)))
	fmt.Printf("  visible objects: %d\n", visible)
	fmt.Printf("  hidden objects:  %d\n", hidden)
	return nil
}
