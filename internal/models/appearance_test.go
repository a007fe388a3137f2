package models

import (
	"math"
	"testing"
)

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#00b300")
	if err != nil {
		t.Fatalf("ParseHexColor failed: %v", err)
	}
	if c.R != 0 || math.Abs(c.G-0.7019607843137254) > 1e-9 || c.B != 0 || c.A != 1 {
		t.Errorf("Unexpected color %+v", c)
	}

	c, err = ParseHexColor("#ff000080")
	if err != nil {
		t.Fatalf("ParseHexColor with alpha failed: %v", err)
	}
	if c.R != 1 || c.G != 0 || c.B != 0 {
		t.Errorf("Unexpected rgb in %+v", c)
	}
	if math.Abs(c.A-float64(0x80)/255) > 1e-9 {
		t.Errorf("Expected alpha %f, got %f", float64(0x80)/255, c.A)
	}
}

func TestParseHexColor_Invalid(t *testing.T) {
	for _, s := range []string{"", "00b300", "#00b3", "#zzzzzz"} {
		if _, err := ParseHexColor(s); err == nil {
			t.Errorf("Expected error for %q", s)
		}
	}
}
