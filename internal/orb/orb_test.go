package orb

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/voice"
)

func TestParamsFor(t *testing.T) {
	tests := []struct {
		mode voice.Mode
		want Params
	}{
		{voice.Listening, Params{0.6, 4, "#3b82f6", "#1d4ed8", 1.1}},
		{voice.Speaking, Params{0.4, 8, "#ec4899", "#be185d", 1.2}},
		{voice.Idle, Params{0.3, 1.5, "#ffffff", "#94a3b8", 1.0}},
	}
	for _, tt := range tests {
		if got := ParamsFor(tt.mode); got != tt.want {
			t.Errorf("ParamsFor(%v) = %+v, want %+v", tt.mode, got, tt.want)
		}
	}
}

func TestRenderDimensions(t *testing.T) {
	out := ansi.Strip(Render(ParamsFor(voice.Idle), 0, 40, 12))
	lines := strings.Split(out, "\n")
	if len(lines) != 12 {
		t.Fatalf("lines = %d, want 12", len(lines))
	}
	for i, l := range lines {
		if len([]rune(l)) != 40 {
			t.Errorf("line %d width = %d, want 40", i, len([]rune(l)))
		}
	}
	if !strings.ContainsAny(out, shades) {
		t.Error("orb should draw something")
	}
}

func TestRenderAnimates(t *testing.T) {
	p := ParamsFor(voice.Speaking)
	a := ansi.Strip(Render(p, 0, 40, 12))
	b := ansi.Strip(Render(p, 0.35, 40, 12))
	if a == b {
		t.Error("frames at different times should differ")
	}
}

func TestRenderEmpty(t *testing.T) {
	if Render(ParamsFor(voice.Idle), 0, 0, 5) != "" {
		t.Error("zero width should render nothing")
	}
}
