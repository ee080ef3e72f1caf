// Package report turns learning results into console lines and plots.
//
// The learner never talks to a renderer directly: histories are handed to a
// SeriesSink, and the CLI decides which sinks are attached.
package report

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/lox/montyhall/internal/bandit"
)

// SeriesSink accepts labelled sequences of floats.
type SeriesSink interface {
	AddSeries(label string, values []float64) error
}

// Flusher is implemented by sinks that buffer series until told to render.
type Flusher interface {
	Flush() error
}

// Series is a labelled sequence of values.
type Series struct {
	Label  string
	Values []float64
}

// MemorySink keeps every series it receives.
type MemorySink struct {
	mu     sync.Mutex
	series []Series
}

// AddSeries stores a copy of values.
func (m *MemorySink) AddSeries(label string, values []float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.series = append(m.series, Series{Label: label, Values: slices.Clone(values)})
	return nil
}

// Series returns the stored series in insertion order.
func (m *MemorySink) Series() []Series {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.series)
}

// MultiSink fans out to several sinks.
type MultiSink []SeriesSink

func (ms MultiSink) AddSeries(label string, values []float64) error {
	var errs []error
	for _, s := range ms {
		if err := s.AddSeries(label, values); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (ms MultiSink) Flush() error {
	var errs []error
	for _, s := range ms {
		if f, ok := s.(Flusher); ok {
			if err := f.Flush(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Publish sends each result's win-rate history to sink, labelled by host
// mode, then flushes the sink if it buffers.
func Publish(sink SeriesSink, results ...*bandit.Result) error {
	for _, res := range results {
		if err := sink.AddSeries(res.Mode.Label(), res.WinRates); err != nil {
			return fmt.Errorf("add %s series: %w", res.Mode, err)
		}
	}
	if f, ok := sink.(Flusher); ok {
		return f.Flush()
	}
	return nil
}

// FormatEstimates renders the final estimates of a run, e.g.
// "Classic Monty Q-values: [0.29, 0.60]".
func FormatEstimates(res *bandit.Result) string {
	return fmt.Sprintf("%s Q-values: %s", res.Mode.Label(), res.Estimates)
}
