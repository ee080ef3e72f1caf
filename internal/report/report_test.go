package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lox/montyhall/internal/bandit"
	"github.com/lox/montyhall/internal/monty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func results() (*bandit.Result, *bandit.Result) {
	classic := &bandit.Result{
		Mode:      monty.Classic,
		Estimates: bandit.Estimates{0.29394072682428574, 0.6021081870163569},
		WinRates:  []float64{0.31, 0.58, 0.66, 0.7},
	}
	evil := &bandit.Result{
		Mode:      monty.Evil,
		Estimates: bandit.Estimates{0.278988817759855, 0},
		WinRates:  []float64{0.35, 0.29, 0.33},
	}
	return classic, evil
}

func TestFormatEstimates(t *testing.T) {
	classic, evil := results()
	assert.Equal(t, "Classic Monty Q-values: [0.29, 0.60]", FormatEstimates(classic))
	assert.Equal(t, "Evil Monty Q-values: [0.28, 0.00]", FormatEstimates(evil))
}

func TestPublishLabelsByMode(t *testing.T) {
	classic, evil := results()
	sink := &MemorySink{}
	require.NoError(t, Publish(sink, classic, evil))

	series := sink.Series()
	require.Len(t, series, 2)
	assert.Equal(t, "Classic Monty", series[0].Label)
	assert.Equal(t, classic.WinRates, series[0].Values)
	assert.Equal(t, "Evil Monty", series[1].Label)

	// Stored values are copies.
	classic.WinRates[0] = 99
	assert.Equal(t, 0.31, sink.Series()[0].Values[0])
}

type failingSink struct{ flushed bool }

func (f *failingSink) AddSeries(string, []float64) error { return errors.New("boom") }
func (f *failingSink) Flush() error                      { f.flushed = true; return nil }

func TestPublishStopsOnError(t *testing.T) {
	classic, _ := results()
	sink := &failingSink{}
	err := Publish(sink, classic)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "add classic series")
	assert.False(t, sink.flushed)
}

func TestMultiSink(t *testing.T) {
	a, b := &MemorySink{}, &MemorySink{}
	dir := t.TempDir()
	chart := NewChartSink(filepath.Join(dir, "out.html"))

	ms := MultiSink{a, b, chart}
	require.NoError(t, ms.AddSeries("x", []float64{0.5}))
	require.NoError(t, ms.Flush())

	assert.Len(t, a.Series(), 1)
	assert.Len(t, b.Series(), 1)
	assert.FileExists(t, chart.Path)

	err := MultiSink{a, &failingSink{}}.AddSeries("y", nil)
	assert.Error(t, err)
	assert.Len(t, a.Series(), 2, "healthy sinks still receive the series")
}

func TestChartSinkWritesHTML(t *testing.T) {
	classic, evil := results()
	path := filepath.Join(t.TempDir(), "charts", "montyhall.html")
	chart := NewChartSink(path)
	require.NoError(t, Publish(chart, classic, evil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(data)
	assert.Contains(t, html, "Classic Monty")
	assert.Contains(t, html, "Evil Monty")
	assert.Contains(t, html, "Win rate")
}

func TestChartSinkWithoutSeries(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, NewChartSink("unused.html").Render(&buf))
}

func TestSparkline(t *testing.T) {
	assert.Equal(t, "▁█", Sparkline([]float64{0, 1}))
	assert.Equal(t, "▁█", Sparkline([]float64{-3, 7}))
	assert.Equal(t, "", Sparkline(nil))
	assert.Equal(t, 4, len([]rune(Sparkline([]float64{0.1, 0.2, 0.3, 0.4}))))
}

func TestTerminalSink(t *testing.T) {
	classic, evil := results()
	var buf bytes.Buffer
	require.NoError(t, Publish(NewTerminalSink(&buf, true), classic, evil))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Classic Monty"))
	assert.Contains(t, lines[0], Sparkline(classic.WinRates))
	assert.Contains(t, lines[0], "n=4")
	assert.Contains(t, lines[1], "mean=0.32")
	assert.NotContains(t, buf.String(), "\x1b[", "no escape codes without colour")
}
