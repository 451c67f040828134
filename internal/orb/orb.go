// Package orb maps voice modes to visual parameters and draws the animated
// orb as text.
package orb

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/voice"
)

// Params describes how the orb looks in a mode.
type Params struct {
	Distort  float64
	Speed    float64
	Color    string
	Emissive string
	Scale    float64
}

// ParamsFor returns the orb parameters for mode.
func ParamsFor(mode voice.Mode) Params {
	switch mode {
	case voice.Listening:
		return Params{Distort: 0.6, Speed: 4, Color: "#3b82f6", Emissive: "#1d4ed8", Scale: 1.1}
	case voice.Speaking:
		return Params{Distort: 0.4, Speed: 8, Color: "#ec4899", Emissive: "#be185d", Scale: 1.2}
	}
	return Params{Distort: 0.3, Speed: 1.5, Color: "#ffffff", Emissive: "#94a3b8", Scale: 1.0}
}

// shades run from rim to core.
const shades = ".:-=+*#%@"

// cellAspect corrects for terminal cells being about twice as tall as wide.
const cellAspect = 2.0

// Render draws the orb at time t (seconds) into a w x h block.
func Render(p Params, t float64, w, h int) string {
	if w <= 0 || h <= 0 {
		return ""
	}
	core := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color))
	rim := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Emissive))

	// Base radius in rows; leave headroom for the distortion.
	base := math.Min(float64(h)/2, float64(w)/(2*cellAspect)) * 0.75 * p.Scale / 1.2
	cx, cy := float64(w-1)/2, float64(h-1)/2

	var b strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := (float64(x) - cx) / cellAspect
			dy := float64(y) - cy
			d := math.Hypot(dx, dy)
			theta := math.Atan2(dy, dx)
			wobble := 1 + p.Distort*0.2*math.Sin(3*theta+t*p.Speed)*math.Cos(2*theta-t*p.Speed*0.5)
			r := base * wobble
			if r <= 0 || d > r {
				b.WriteByte(' ')
				continue
			}
			depth := math.Sqrt(1 - (d/r)*(d/r))
			i := int(depth * float64(len(shades)-1))
			ch := string(shades[i])
			if depth < 0.35 {
				b.WriteString(rim.Render(ch))
			} else {
				b.WriteString(core.Render(ch))
			}
		}
		if y < h-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
