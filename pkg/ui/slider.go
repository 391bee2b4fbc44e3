package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Slider renders a horizontal gauge for a bounded integer property
type Slider struct {
	Label   string
	Icon    string
	Min     int
	Max     int
	Value   int
	Width   int
	Focused bool
}

const (
	sliderFilled = "━"
	sliderEmpty  = "─"
	sliderKnob   = "●"
)

// Position returns the knob cell index in [0, Width-1]
func (s Slider) Position() int {
	width := s.Width
	if width < 1 {
		width = 1
	}
	span := s.Max - s.Min
	if span <= 0 {
		return 0
	}
	v := s.Value
	if v < s.Min {
		v = s.Min
	}
	if v > s.Max {
		v = s.Max
	}
	return (v - s.Min) * (width - 1) / span
}

// Render draws the slider on one line, e.g. "☀ Brightness ━━━━●──── 50"
func (s Slider) Render() string {
	width := s.Width
	if width < 1 {
		width = 1
	}
	pos := s.Position()

	bar := StyleAccent.Render(strings.Repeat(sliderFilled, pos)) +
		StylePrimary.Render(sliderKnob) +
		StyleMuted.Render(strings.Repeat(sliderEmpty, width-pos-1))

	label := s.Label
	if s.Icon != "" {
		label = s.Icon + " " + label
	}
	labelStyle := lipgloss.NewStyle().Width(14)
	if s.Focused {
		labelStyle = labelStyle.Inherit(StyleSelected)
	}

	return fmt.Sprintf("%s %s %3d", labelStyle.Render(label), bar, s.Value)
}
