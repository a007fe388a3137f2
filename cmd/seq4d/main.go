package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/seq4d/internal/cli"
	"github.com/julianstephens/seq4d/internal/config"
	"github.com/julianstephens/seq4d/internal/logger"
	"github.com/julianstephens/seq4d/internal/storage"
)

var CLI struct {
	Version  kong.VersionFlag
	Store    string `help:"Storage file path." type:"path" default:"~/.config/seq4d/seq4d.db"`
	Profiles string `help:"Appearance profile file (YAML)." type:"path" default:"~/.config/seq4d/profiles.yaml"`
	Debug    bool   `help:"Enable debug logging."`

	Init     cli.InitCmd     `cmd:"" help:"Initialize seq4d storage."`
	Import   cli.ImportCmd   `cmd:"" help:"Import a schedule and scene snapshot from JSON."`
	List     cli.ListCmd     `cmd:"" help:"List stored schedules."`
	Validate cli.ValidateCmd `cmd:"" help:"Check a schedule for structural problems."`
	Compute  cli.ComputeCmd  `cmd:"" help:"Compute per-product frame records."`
	Apply    cli.ApplyCmd    `cmd:"" help:"Apply animation state to the stored scene."`
	Snapshot cli.SnapshotCmd `cmd:"" help:"Set the scene to its state at a single date."`
	Clear    cli.ClearCmd    `cmd:"" help:"Reset animation state on all scene objects."`
	Bake     cli.BakeCmd     `cmd:"" help:"Bake per-object activation values in the background."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("seq4d"),
		kong.Description("Construction sequence animation engine"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	if err := logger.Init(logger.Config{
		Debug: CLI.Debug,
		Dir:   filepath.Dir(CLI.Store),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Determine storage type based on extension
	var store storage.Provider
	if strings.HasSuffix(CLI.Store, ".json") {
		store = storage.NewJSONStore(CLI.Store)
	} else {
		store = storage.NewSQLiteStore(CLI.Store)
	}

	cfg, err := config.Load(CLI.Profiles)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	appCtx := &cli.Context{
		Store:  store,
		Config: cfg,
	}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
