package cli

import "fmt"

type ListCmd struct{}

func (c *ListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	summaries, err := ctx.Store.ListSchedules()
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Println("No schedules stored")
		return nil
	}
	fmt.Println(headerStyle.Render("Schedules"))
	for _, sum := range summaries {
		fmt.Printf("  %-36s %-24s %d tasks\n", sum.ID, sum.Name, sum.Tasks)
	}
	return nil
}
