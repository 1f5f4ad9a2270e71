package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.Quitting = true
			return m, tea.Quit
		case "l":
			m.ShowLogs = !m.ShowLogs
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case TickMsg:
		if m.Done {
			return m, nil
		}
		// Continue ticking for timer updates
		return m, tickCmd()

	case DoneMsg:
		m.finish()
		return m, tea.Quit

	case QuitMsg:
		m.Quitting = true
		return m, tea.Quit

	case LogMsg:
		m.appendLog(msg.Line)

	case PassStartedMsg:
		m.PassID = msg.ID
		if len(msg.Containers) > 0 {
			m.setContainers(msg.Containers)
		}

	case PhaseMsg:
		m.Container(msg.Name).Phase = msg.Phase

	case RemoveFailedMsg:
		m.Container(msg.Name).Warning = msg.Error

	case StartedMsg:
		c := m.Container(msg.Name)
		c.Phase = PhaseStarted
		c.ContainerID = msg.ContainerID

	case StartFailedMsg:
		c := m.Container(msg.Name)
		c.Phase = PhaseFailed
		c.Diagnostic = msg.Diagnostic

	case PassCompletedMsg:
		if msg.Skipped > 0 {
			for _, c := range m.Containers {
				if c.Phase == PhasePending {
					c.Phase = PhaseSkipped
				}
			}
		}
		m.EndTime = time.Now()
	}

	return m, nil
}

func (m *Model) finish() {
	m.Done = true
	if m.EndTime.IsZero() {
		m.EndTime = time.Now()
	}
}

func (m *Model) appendLog(line string) {
	m.LogLines = append(m.LogLines, line)
	if m.LogLimit > 0 && len(m.LogLines) > m.LogLimit {
		m.LogLines = m.LogLines[len(m.LogLines)-m.LogLimit:]
	}
}
