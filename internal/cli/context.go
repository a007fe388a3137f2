package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/seq4d/internal/config"
	"github.com/julianstephens/seq4d/internal/engine"
	"github.com/julianstephens/seq4d/internal/models"
	"github.com/julianstephens/seq4d/internal/scene"
	"github.com/julianstephens/seq4d/internal/storage"
)

type Context struct {
	Store  storage.Provider
	Config *config.Config
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
)

func (ctx *Context) loadSchedule(id string) (*models.Schedule, error) {
	if err := ctx.Store.Load(); err != nil {
		return nil, err
	}
	schedule, err := ctx.Store.GetSchedule(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}
	return schedule, nil
}

// buildHost reconstructs an in-memory scene host from the stored scene
// snapshot. With no live viewport attached, this is what compute/apply runs
// against.
func (ctx *Context) buildHost() (*scene.MemoryHost, error) {
	objects, err := ctx.Store.GetSceneObjects()
	if err != nil {
		return nil, fmt.Errorf("failed to load scene objects: %w", err)
	}
	host := scene.NewMemoryHost()
	for _, obj := range objects {
		kind := scene.ObjectKind(obj.Kind)
		if kind == "" {
			kind = scene.KindMesh
		}
		host.AddObject(obj.Name, kind, obj.ProductID)
	}
	return host, nil
}

func (ctx *Context) window() (models.AnimationWindow, error) {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return models.AnimationWindow{}, err
	}
	return settings.Window()
}

func (ctx *Context) newEngine(host scene.Host) *engine.Engine {
	return engine.New(ctx.Config, host)
}
