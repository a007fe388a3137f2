package cli

import (
	"fmt"

	"github.com/julianstephens/seq4d/internal/validation"
)

type ValidateCmd struct {
	Schedule string `help:"Schedule id (defaults to the only stored schedule)."`
}

func (c *ValidateCmd) Run(ctx *Context) error {
	schedule, err := ctx.loadSchedule(c.Schedule)
	if err != nil {
		return err
	}

	issues := validation.Validate(schedule, ctx.Config.DateSource)
	if len(issues) == 0 {
		fmt.Printf("Schedule %q is clean\n", schedule.Name)
		return nil
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("Schedule %q: %d issue(s)", schedule.Name, len(issues))))
	for _, issue := range issues {
		line := issue.Message
		if issue.TaskID != "" {
			line = fmt.Sprintf("%s: %s", issue.TaskID, issue.Message)
		}
		switch issue.Level {
		case validation.LevelError:
			fmt.Println(errorStyle.Render("  error   " + line))
		default:
			fmt.Println(warnStyle.Render("  warning " + line))
		}
	}

	if errs := validation.Errors(issues); len(errs) > 0 {
		return fmt.Errorf("validation failed with %d error(s)", len(errs))
	}
	return nil
}
