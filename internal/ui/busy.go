package ui

import (
	"context"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type idleMsg struct{}

type busyModel struct {
	spinner spinner.Model
	label   string
	wait    tea.Cmd
	done    bool
}

func (m busyModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.wait)
}

func (m busyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case idleMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m busyModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.label + "\n"
}

// WaitBusy shows a spinner with label on w until idle is closed or ctx is
// done. Ctrl+C stops the spinner early.
func WaitBusy(ctx context.Context, w io.Writer, label string, idle <-chan struct{}) error {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	m := busyModel{
		spinner: s,
		label:   label,
		wait: func() tea.Msg {
			select {
			case <-idle:
			case <-ctx.Done():
			}
			return idleMsg{}
		},
	}
	_, err := tea.NewProgram(m, tea.WithOutput(w), tea.WithInput(nil)).Run()
	return err
}

// WaitIdle is the non-interactive form of WaitBusy.
func WaitIdle(ctx context.Context, idle <-chan struct{}) {
	select {
	case <-idle:
	case <-ctx.Done():
	}
}
