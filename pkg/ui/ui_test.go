package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestSlider_Position(t *testing.T) {
	tests := []struct {
		name     string
		value    int
		width    int
		expected int
	}{
		{"minimum", 0, 11, 0},
		{"neutral", 50, 11, 5},
		{"maximum", 100, 11, 10},
		{"below range clamps", -20, 11, 0},
		{"above range clamps", 250, 11, 10},
		{"zero width", 70, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Slider{Min: 0, Max: 100, Value: tt.value, Width: tt.width}
			if got := s.Position(); got != tt.expected {
				t.Errorf("Position() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestSlider_Render(t *testing.T) {
	s := Slider{Label: "Contrast", Min: 0, Max: 100, Value: 42, Width: 20}
	out := s.Render()

	if !strings.Contains(out, "Contrast") {
		t.Errorf("Render() missing label: %q", out)
	}
	if !strings.Contains(out, " 42") {
		t.Errorf("Render() missing value: %q", out)
	}
	if strings.Count(out, sliderKnob) != 1 {
		t.Errorf("Render() should draw exactly one knob: %q", out)
	}
}

func TestTable_Render(t *testing.T) {
	table := NewTable([]TableColumn{
		{Header: "NAME"},
		{Header: "SIZE", Align: lipgloss.Right},
	})
	table.AddRow("a.png", "1.0 KiB")
	table.AddRow("longer-name.jpg", "12 B")

	lines := strings.Split(strings.TrimRight(table.Render(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, separator and 2 rows, got %d lines", len(lines))
	}

	width := lipgloss.Width(lines[0])
	for i, line := range lines[1:] {
		if w := lipgloss.Width(line); w != width {
			t.Errorf("line %d width = %d, want %d", i+1, w, width)
		}
	}
}

func TestTable_Empty(t *testing.T) {
	if out := NewTable(nil).Render(); out != "" {
		t.Errorf("Render() with no columns = %q, want empty", out)
	}
}

func TestPadCell(t *testing.T) {
	tests := []struct {
		s        string
		align    lipgloss.Position
		width    int
		expected string
	}{
		{"ab", lipgloss.Left, 4, "ab  "},
		{"ab", lipgloss.Right, 4, "  ab"},
		{"ab", lipgloss.Center, 5, " ab  "},
		{"abcdef", lipgloss.Left, 3, "abcdef"},
	}

	for _, tt := range tests {
		if got := padCell(tt.s, tt.width, tt.align); got != tt.expected {
			t.Errorf("padCell(%q, %d, %v) = %q, want %q", tt.s, tt.width, tt.align, got, tt.expected)
		}
	}
}

func TestSetTheme(t *testing.T) {
	t.Cleanup(func() { SetTheme("auto") })

	for _, theme := range []string{"dark", "light", "unknown", "auto"} {
		SetTheme(theme)
		if out := FormatSuccess("done"); !strings.Contains(out, "done") {
			t.Errorf("theme %q: FormatSuccess() = %q", theme, out)
		}
		if !StyleTableRowAlt.GetFaint() {
			t.Errorf("theme %q: alternate rows should be faint", theme)
		}
	}
}

func TestRenderKeyValues(t *testing.T) {
	out := RenderKeyValues([][2]string{{"Name", "a.png"}, {"Dimensions", "2x2"}})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.HasSuffix(lines[0], "a.png") || !strings.HasSuffix(lines[1], "2x2") {
		t.Errorf("unexpected output %q", out)
	}
}
