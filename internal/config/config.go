// Package config loads the visualization configuration: which date field
// pair defines task intervals, and how each task category looks across the
// three animation phases. Missing files and missing categories fall back to
// compiled-in defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/seq4d/internal/models"
)

// ProfileSpec is the on-disk form of an appearance profile. Colors are
// "#rrggbb" or "#rrggbbaa"; an empty color keeps the object's own.
type ProfileSpec struct {
	StartColor      string `yaml:"start_color,omitempty"`
	ActiveColor     string `yaml:"active_color,omitempty"`
	EndColor        string `yaml:"end_color,omitempty"`
	ShowBeforeStart bool   `yaml:"show_before_start,omitempty"`
	HideAtEnd       bool   `yaml:"hide_at_end,omitempty"`
}

type Config struct {
	DateSource models.DateSource                        `yaml:"date_source,omitempty"`
	Profiles   map[models.TaskCategory]ProfileSpec      `yaml:"profiles,omitempty"`
	compiled   map[models.TaskCategory]models.AppearanceProfile
}

// Default returns the built-in configuration: schedule dates and the
// conventional category palette (construction builds up green, the
// demolition family tears down red and hides at the end).
func Default() *Config {
	return &Config{
		DateSource: models.DateSourceSchedule,
		Profiles: map[models.TaskCategory]ProfileSpec{
			models.CategoryConstruction: {StartColor: "#b3b3b3", ActiveColor: "#00b300"},
			models.CategoryDemolition:   {ActiveColor: "#cc0000", ShowBeforeStart: true, HideAtEnd: true},
			models.CategoryRemoval:      {ActiveColor: "#cc0000", ShowBeforeStart: true, HideAtEnd: true},
			models.CategoryDisposal:     {ActiveColor: "#cc0000", ShowBeforeStart: true, HideAtEnd: true},
			models.CategoryDismantle:    {ActiveColor: "#cc0000", ShowBeforeStart: true, HideAtEnd: true},
			models.CategoryOperation:    {ActiveColor: "#0066cc", ShowBeforeStart: true},
			models.CategoryMaintenance:  {ActiveColor: "#0066cc", ShowBeforeStart: true},
			models.CategoryLogistic:     {ActiveColor: "#cccc00", ShowBeforeStart: true},
			models.CategoryUndefined:    {StartColor: "#b3b3b3", ActiveColor: "#cccc00"},
		},
	}
}

// Load reads the config file at path, overlaying it onto the defaults. A
// missing file yields the defaults; a malformed one is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if file.DateSource != "" {
		cfg.DateSource = file.DateSource
	}
	for category, spec := range file.Profiles {
		cfg.Profiles[category] = spec
	}
	return cfg, nil
}

// Invalidate drops compiled profiles so edits to Profiles take effect on the
// next lookup.
func (c *Config) Invalidate() {
	c.compiled = nil
}

// ProfileFor resolves the appearance profile for a category, compiling the
// spec's hex colors on first use. Unknown categories resolve to the
// undefined profile.
func (c *Config) ProfileFor(category models.TaskCategory) (models.AppearanceProfile, error) {
	if c.compiled == nil {
		c.compiled = make(map[models.TaskCategory]models.AppearanceProfile)
	}
	if p, ok := c.compiled[category]; ok {
		return p, nil
	}
	spec, ok := c.Profiles[category]
	if !ok {
		spec = c.Profiles[models.CategoryUndefined]
	}
	profile, err := compile(spec)
	if err != nil {
		return models.AppearanceProfile{}, fmt.Errorf("profile for %q: %w", category, err)
	}
	c.compiled[category] = profile
	return profile, nil
}

func compile(spec ProfileSpec) (models.AppearanceProfile, error) {
	profile := models.AppearanceProfile{
		ShowBeforeStart:  spec.ShowBeforeStart,
		HideAtEnd:        spec.HideAtEnd,
		UseOriginalStart: spec.StartColor == "",
		UseOriginalEnd:   spec.EndColor == "",
	}
	var err error
	if spec.StartColor != "" {
		if profile.StartColor, err = models.ParseHexColor(spec.StartColor); err != nil {
			return profile, err
		}
	}
	if spec.ActiveColor != "" {
		if profile.ActiveColor, err = models.ParseHexColor(spec.ActiveColor); err != nil {
			return profile, err
		}
	} else {
		// Active work always needs a visible accent.
		profile.ActiveColor = models.Color{R: 0, G: 0.7, B: 0, A: 1}
	}
	if spec.EndColor != "" {
		if profile.EndColor, err = models.ParseHexColor(spec.EndColor); err != nil {
			return profile, err
		}
	}
	return profile, nil
}
