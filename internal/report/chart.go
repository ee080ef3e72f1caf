package report

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/lox/montyhall/internal/fileutil"
)

// ChartSink renders every series into one HTML line chart.
type ChartSink struct {
	Title  string
	Path   string
	series []Series
}

// NewChartSink writes to path when flushed.
func NewChartSink(path string) *ChartSink {
	return &ChartSink{Title: "Monty Hall bandit", Path: path}
}

func (c *ChartSink) AddSeries(label string, values []float64) error {
	c.series = append(c.series, Series{Label: label, Values: append([]float64(nil), values...)})
	return nil
}

// Render writes the chart HTML to w.
func (c *ChartSink) Render(w io.Writer) error {
	if len(c.series) == 0 {
		return errors.New("chart has no series")
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    c.Title,
			Subtitle: "Win rate of the greedy action",
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Episodes (x100)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Win rate", Min: 0, Max: 1}),
	)

	steps := 0
	for _, s := range c.series {
		steps = max(steps, len(s.Values))
	}
	xs := make([]string, steps)
	for i := range xs {
		xs[i] = strconv.Itoa(i)
	}
	line.SetXAxis(xs)

	for _, s := range c.series {
		items := make([]opts.LineData, 0, len(s.Values))
		for _, v := range s.Values {
			items = append(items, opts.LineData{Value: v})
		}
		line.AddSeries(s.Label, items)
	}
	return line.Render(w)
}

// Flush writes the chart to Path, creating parent directories.
func (c *ChartSink) Flush() error {
	if err := fileutil.WriteAtomic(c.Path, 0o644, c.Render); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}
