// Package tui shows learning runs live in the terminal.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/montyhall/internal/bandit"
	"github.com/lox/montyhall/internal/monty"
	"github.com/lox/montyhall/internal/report"
)

// sparkWidth caps how many of the latest snapshots are drawn.
const sparkWidth = 60

// ProgressMsg carries a snapshot from run Index.
type ProgressMsg struct {
	Index    int
	Progress bandit.Progress
}

// DoneMsg reports that run Index finished.
type DoneMsg struct {
	Index  int
	Result *bandit.Result
	Err    error
}

type runState struct {
	name     string
	mode     monty.Mode
	episodes int
	bar      progress.Model

	last    bandit.Progress
	history []float64
	result  *bandit.Result
	err     error
}

func (r *runState) finished() bool {
	return r.result != nil || r.err != nil
}

// Run describes one learning run the model tracks.
type Run struct {
	Name     string
	Mode     monty.Mode
	Episodes int
}

// Model is the Bubble Tea model for the live view
type Model struct {
	logger   *log.Logger
	runs     []*runState
	width    int
	quitting bool
}

// NewModel tracks the given runs in order
func NewModel(logger *log.Logger, runs []Run) *Model {
	m := &Model{logger: logger.WithPrefix("tui")}
	for _, r := range runs {
		m.runs = append(m.runs, &runState{
			name:     r.Name,
			mode:     r.Mode,
			episodes: r.Episodes,
			bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		})
	}
	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		for _, r := range m.runs {
			r.bar.Width = max(10, min(60, msg.Width-30))
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}

	case ProgressMsg:
		r, ok := m.run(msg.Index)
		if !ok {
			return m, nil
		}
		r.last = msg.Progress
		r.history = append(r.history, msg.Progress.WinRate)

	case DoneMsg:
		r, ok := m.run(msg.Index)
		if !ok {
			return m, nil
		}
		r.result, r.err = msg.Result, msg.Err
		if msg.Err != nil {
			m.logger.Error("Run failed", "run", r.name, "error", msg.Err)
		}
		if m.Done() {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *Model) run(i int) (*runState, bool) {
	if i < 0 || i >= len(m.runs) {
		m.logger.Warn("Message for unknown run", "index", i)
		return nil, false
	}
	return m.runs[i], true
}

// Done reports whether every run has finished
func (m *Model) Done() bool {
	for _, r := range m.runs {
		if !r.finished() {
			return false
		}
	}
	return true
}

// Quitting reports whether the user asked to leave before the runs finished
func (m *Model) Quitting() bool {
	return m.quitting
}

// View renders the model
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Monty Hall bandit"))
	b.WriteString("\n\n")

	for _, r := range m.runs {
		b.WriteString(PanelStyle.Render(m.renderRun(r)))
		b.WriteString("\n")
	}

	if m.Done() {
		b.WriteString(SuccessStyle.Render("All runs complete"))
	} else {
		b.WriteString(InfoStyle.Render("q to quit"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m *Model) renderRun(r *runState) string {
	lines := []string{RunLabelStyle.Render(fmt.Sprintf("%s (%s)", r.name, r.mode.Label()))}

	switch {
	case r.err != nil:
		lines = append(lines, ErrorStyle.Render("error: "+r.err.Error()))
	case r.result != nil:
		lines = append(lines,
			r.bar.ViewAs(1),
			EstimateStyle.Render(report.FormatEstimates(r.result)))
	default:
		done := 0.0
		if r.episodes > 0 && len(r.history) > 0 {
			done = float64(r.last.Episode+1) / float64(r.episodes)
		}
		lines = append(lines,
			r.bar.ViewAs(done),
			EstimateStyle.Render(fmt.Sprintf("episode %d/%d  stay=%.2f switch=%.2f  greedy=%s",
				r.last.Episode, r.episodes,
				r.last.Estimates[monty.Stay], r.last.Estimates[monty.Switch], r.last.Greedy)))
	}

	history := r.history
	if len(history) > sparkWidth {
		history = history[len(history)-sparkWidth:]
	}
	if len(history) > 0 {
		lines = append(lines, SparkStyle.Render(report.Sparkline(history))+" "+
			InfoStyle.Render(fmt.Sprintf("win rate %.2f", history[len(history)-1])))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
