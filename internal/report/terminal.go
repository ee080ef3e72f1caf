package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/montyhall/internal/statistics"
	"github.com/muesli/termenv"
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Sparkline maps values in [0, 1] onto block characters. Values outside the
// range are clamped.
func Sparkline(values []float64) string {
	var b strings.Builder
	top := len(sparkRunes) - 1
	for _, v := range values {
		v = min(max(v, 0), 1)
		b.WriteRune(sparkRunes[int(v*float64(top)+0.5)])
	}
	return b.String()
}

// TerminalSink prints each series as a sparkline with summary statistics.
type TerminalSink struct {
	w     io.Writer
	label lipgloss.Style
	spark lipgloss.Style
	info  lipgloss.Style
}

// NewTerminalSink writes to w. Colour is disabled when noColor is set or w is
// not a terminal.
func NewTerminalSink(w io.Writer, noColor bool) *TerminalSink {
	var r *lipgloss.Renderer
	if noColor {
		r = lipgloss.NewRenderer(w, termenv.WithProfile(termenv.Ascii))
	} else {
		r = lipgloss.NewRenderer(w)
	}
	return &TerminalSink{
		w:     w,
		label: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")).Width(14),
		spark: r.NewStyle().Foreground(lipgloss.Color("#96CEB4")),
		info:  r.NewStyle().Foreground(lipgloss.Color("#626262")),
	}
}

func (t *TerminalSink) AddSeries(label string, values []float64) error {
	sum := statistics.Summarize(values)
	_, err := fmt.Fprintf(t.w, "%s %s %s\n",
		t.label.Render(label),
		t.spark.Render(Sparkline(values)),
		t.info.Render(fmt.Sprintf("mean=%.2f min=%.2f max=%.2f n=%d", sum.Mean, sum.Min, sum.Max, sum.Count)))
	return err
}
