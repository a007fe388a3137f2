package models

import "fmt"

// Color is a viewport display color with straight alpha.
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// ParseHexColor parses #rrggbb or #rrggbbaa. Alpha defaults to 1.
func ParseHexColor(s string) (Color, error) {
	if len(s) == 0 || s[0] != '#' {
		return Color{}, fmt.Errorf("invalid color %q: expected leading '#'", s)
	}
	hex := s[1:]
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("invalid color %q: expected 6 or 8 hex digits", s)
	}
	var r, g, b uint8
	a := uint8(255)
	if _, err := fmt.Sscanf(hex[:6], "%02x%02x%02x", &r, &g, &b); err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(hex) == 8 {
		if _, err := fmt.Sscanf(hex[6:], "%02x", &a); err != nil {
			return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
	}
	return Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: float64(a) / 255,
	}, nil
}

// AppearanceProfile describes how products of one task category look across
// the three phases. A UseOriginal* flag keeps the object's own color for that
// phase instead of the profile color.
type AppearanceProfile struct {
	StartColor  Color `json:"start_color"`
	ActiveColor Color `json:"active_color"`
	EndColor    Color `json:"end_color"`

	UseOriginalStart bool `json:"use_original_start"`
	UseOriginalEnd   bool `json:"use_original_end"`

	// ShowBeforeStart keeps output products visible before their task
	// starts. Construction outputs normally hide until the work begins.
	ShowBeforeStart bool `json:"show_before_start"`
	// HideAtEnd removes the product once its task completes, the
	// demolition-family behavior.
	HideAtEnd bool `json:"hide_at_end"`
}
