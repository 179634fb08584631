package ui

import (
	"strings"
	"testing"
)

func TestDetectTheme(t *testing.T) {
	t.Setenv("COLORFGBG", "")
	t.Setenv("SDCHART_DARK_MODE", "1")
	if !DetectTheme().IsDark {
		t.Fatalf("expected dark theme when SDCHART_DARK_MODE=1")
	}

	t.Setenv("SDCHART_DARK_MODE", "")
	if DetectTheme().IsDark {
		t.Fatalf("expected light theme when SDCHART_DARK_MODE is unset")
	}

	t.Setenv("COLORFGBG", "15;0")
	if !DetectTheme().IsDark {
		t.Fatalf("expected dark theme for a black terminal background")
	}
}

func TestThemeFor(t *testing.T) {
	t.Setenv("COLORFGBG", "")
	t.Setenv("SDCHART_DARK_MODE", "")
	if ThemeFor("dark").IsDark != true || ThemeFor("light").IsDark != false {
		t.Error("explicit theme names should win")
	}
	if ThemeFor("auto").IsDark {
		t.Error("auto should fall back to light")
	}
}

func TestRenderDivider(t *testing.T) {
	s := NewStyles(LightTheme())
	if s.RenderDivider(0) != "" {
		t.Error("expected empty divider for zero width")
	}
	if !strings.Contains(s.RenderDivider(5), "─────") {
		t.Error("expected five divider runes")
	}
}
