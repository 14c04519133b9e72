package tui

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/papapumpkin/perigee/internal/graph"
	"github.com/papapumpkin/perigee/internal/slack"
)

// Program is an alias for tea.Program, exposed so callers don't need
// to import bubbletea directly.
type Program = tea.Program

// NewProgram creates a BubbleTea program browsing the given analysis result.
// The program uses the alternate screen buffer.
func NewProgram(project string, g *graph.Graph, res *slack.Result, opts slack.Options, teaOpts ...tea.ProgramOption) *Program {
	model := NewModel(project, g, res, opts)
	allOpts := []tea.ProgramOption{tea.WithAltScreen()}
	allOpts = append(allOpts, teaOpts...)
	return tea.NewProgram(model, allOpts...)
}

// Run creates and runs a results browser, blocking until it exits.
func Run(project string, g *graph.Graph, res *slack.Result, opts slack.Options) error {
	p := NewProgram(project, g, res, opts)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// WithOutput returns a program option that directs TUI output to the given
// writer. Useful for testing.
func WithOutput(w io.Writer) tea.ProgramOption {
	return tea.WithOutput(w)
}
