package cli

import (
	"fmt"
	"sort"
	"time"
)

type ComputeCmd struct {
	Schedule string `help:"Schedule id (defaults to the only stored schedule)."`
	Show     int    `help:"Number of product rows to print." default:"10"`
}

func (c *ComputeCmd) Run(ctx *Context) error {
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
	productFrames, report, err := eng.ComputeProductFrames(schedule, window)
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf(
		"Pass %s: %d products, %d records from %d tasks (%s strategy, %s)",
		report.PassID[:8], report.Products, report.Records, report.Tasks,
		report.Strategy, report.Elapsed.Round(time.Millisecond))))
	if report.Fallback {
		fmt.Println(warnStyle.Render("  indexed path failed; reference fallback used"))
	}
	for _, warning := range report.Warnings {
		fmt.Println(warnStyle.Render("  " + warning))
	}

	ids := make([]string, 0, len(productFrames))
	for id := range productFrames {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if c.Show > 0 && len(ids) > c.Show {
		ids = ids[:c.Show]
	}
	for _, id := range ids {
		for _, rec := range productFrames[id] {
			fmt.Printf("  %-20s %-6s task=%s before=[%d,%d] active=[%d,%d] after=[%d,%d]\n",
				id, rec.Relationship, rec.TaskID,
				rec.BeforeStart.First, rec.BeforeStart.Last,
				rec.Active.First, rec.Active.Last,
				rec.AfterEnd.First, rec.AfterEnd.Last)
		}
	}
	if len(productFrames) > len(ids) {
		fmt.Println(faintStyle.Render(fmt.Sprintf("  ... %d more products", len(productFrames)-len(ids))))
	}
	return nil
}
