package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/julianstephens/seq4d/internal/engine"
	"github.com/julianstephens/seq4d/internal/worker"
)

type BakeCmd struct {
	Schedule string `help:"Schedule id (defaults to the only stored schedule)."`
	Out      string `help:"File to write baked activation values to." type:"path"`
}

func (c *BakeCmd) Run(ctx *Context) error {
	schedule, err := ctx.loadSchedule(c.Schedule)
	if err != nil {
		return err
	}
	window, err := ctx.window()
	if err != nil {
		return err
	}
	host, err := ctx.buildHost()
	if err != nil {
		return err
	}

	eng := ctx.newEngine(host)
	job, err := eng.BakeActivationJob(schedule, window)
	if err != nil {
		return err
	}

	w := worker.New()
	if !w.Submit(job) {
		return fmt.Errorf("a bake job is already running")
	}

	// The worker offers no blocking wait; poll status like the host UI would.
	for {
		status := w.Status()
		if !status.Running && status.Progress >= 100 {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	result := <-w.Results()
	if result.Err != nil {
		return fmt.Errorf("bake failed: %w", result.Err)
	}
	baked, ok := result.Value.(map[string]engine.BakedActivation)
	if !ok {
		return fmt.Errorf("bake returned unexpected result type")
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("Baked activation values for %d objects", len(baked))))
	if c.Out == "" {
		return nil
	}
	data, err := json.MarshalIndent(baked, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode bake output: %w", err)
	}
	if err := os.WriteFile(c.Out, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.Out, err)
	}
	fmt.Printf("  written to %s\n", c.Out)
	return nil
}
