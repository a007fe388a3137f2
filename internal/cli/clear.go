package cli

import "fmt"

type ClearCmd struct {
	IncludeHost bool `help:"Also clear host-side keyframe state."`
}

func (c *ClearCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	host, err := ctx.buildHost()
	if err != nil {
		return err
	}

	eng := ctx.newEngine(host)
	eng.ClearAnimation(c.IncludeHost)
	fmt.Printf("Reset %d scene objects to neutral state\n", len(host.Objects()))
	return nil
}
