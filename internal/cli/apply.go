package cli

import "fmt"

type ApplyCmd struct {
	Schedule string `help:"Schedule id (defaults to the only stored schedule)."`
}

func (c *ApplyCmd) Run(ctx *Context) error {
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
	if len(host.Objects()) == 0 {
		return fmt.Errorf("no scene objects stored; import a scene snapshot first")
	}

	eng := ctx.newEngine(host)
	productFrames, report, err := eng.ComputeProductFrames(schedule, window)
	if err != nil {
		return err
	}
	window, err = eng.NormalizeWindow(schedule, window)
	if err != nil {
		return err
	}

	applied, err := eng.ApplyAnimation(productFrames, window)
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf(
		"Applied %d mutations across %d products (strategy %s)",
		applied, report.Products, report.Strategy)))
	fmt.Printf("  timeline range: [%d, %d]\n", host.RangeStart, host.RangeEnd)
	fmt.Printf("  frame switches: %d\n", host.FrameSwitches)
	return nil
}
