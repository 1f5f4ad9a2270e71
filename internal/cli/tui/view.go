package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model. After DoneMsg the last frame is left in the
// terminal, so it renders without the key help.
func (m *Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	// Registry entries in order
	b.WriteString(m.renderContainers())

	// Status line
	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")

	if m.ShowLogs {
		b.WriteString(m.renderLogs())
	}

	if !m.Done && !m.Quitting {
		b.WriteString(m.renderFooter())
	}

	return b.String()
}

// renderHeader renders the title line with timer and pass ID
func (m *Model) renderHeader() string {
	end := m.EndTime
	if end.IsZero() {
		end = time.Now()
	}
	timer := fmt.Sprintf("[%s]", formatDuration(end.Sub(m.StartTime).Round(time.Second)))

	header := fmt.Sprintf("%s  %s",
		m.Styles.Title.Render("mondeploy"),
		m.Styles.Timer.Render(timer),
	)
	if m.PassID != "" {
		header += "  " + m.Styles.PassID.Render("pass "+shortID(m.PassID))
	}
	return header
}

func (m *Model) renderContainers() string {
	if len(m.Containers) == 0 {
		return "  No containers in registry\n\n"
	}

	var b strings.Builder
	width := 0
	for _, c := range m.Containers {
		width = max(width, len(c.Name))
	}
	for _, c := range m.Containers {
		b.WriteString(m.renderContainer(c, width))
	}
	b.WriteString("\n")
	return b.String()
}

// renderContainer renders one entry:
//
//	✓ prometheus  started 3f2a9c1d04be
//	    ! could not remove: Cannot connect to the Docker daemon
func (m *Model) renderContainer(c *ContainerState, width int) string {
	var b strings.Builder

	icon, style := m.phaseIcon(c.Phase)
	name := m.Styles.Name.Render(fmt.Sprintf("%-*s", width, c.Name))
	line := fmt.Sprintf("  %s %s  %s", style.Render(icon), name, style.Render(c.Phase.String()))
	if c.ContainerID != "" {
		line += " " + m.Styles.Detail.Render(shortID(c.ContainerID))
	}
	b.WriteString(line)
	b.WriteString("\n")

	if c.Warning != "" {
		fmt.Fprintf(&b, "      %s\n", m.Styles.Warning.Render(IconWarning+" could not remove: "+c.Warning))
	}
	if c.Phase == PhaseFailed && c.Diagnostic != "" {
		for _, l := range strings.Split(c.Diagnostic, "\n") {
			fmt.Fprintf(&b, "      %s\n", m.Styles.Diagnosis.Render(l))
		}
	}

	return b.String()
}

func (m *Model) phaseIcon(p Phase) (string, lipgloss.Style) {
	switch p {
	case PhaseRemoving, PhaseStarting:
		return IconActive, m.Styles.Active
	case PhaseStarted:
		return IconComplete, m.Styles.Started
	case PhaseFailed:
		return IconFailed, m.Styles.Failed
	case PhaseSkipped:
		return IconSkipped, m.Styles.Pending
	default:
		return IconPending, m.Styles.Pending
	}
}

// renderStatusLine renders the summary status line
func (m *Model) renderStatusLine() string {
	started, failed, finished := m.Counts()
	pending := len(m.Containers) - finished

	return fmt.Sprintf("  Containers: %d/%d %s | %s | %s",
		finished,
		len(m.Containers),
		m.Styles.StatusStarted.Render(fmt.Sprintf("%d started", started)),
		m.Styles.StatusFailed.Render(fmt.Sprintf("%d failed", failed)),
		m.Styles.StatusPending.Render(fmt.Sprintf("%d pending", pending)),
	)
}

func (m *Model) renderLogs() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(m.Styles.LogTitle.Render("  Log"))
	b.WriteString("\n")

	lines := m.LogLines
	if limit := m.logRows(); len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	for _, l := range lines {
		b.WriteString("  ")
		b.WriteString(m.Styles.LogLine.Render(l))
		b.WriteString("\n")
	}
	return b.String()
}

// logRows is how many log lines fit under the container list.
func (m *Model) logRows() int {
	if m.Height == 0 {
		return 10
	}
	return max(m.Height-len(m.Containers)-8, 3)
}

// renderFooter renders the help text
func (m *Model) renderFooter() string {
	q := m.Styles.FooterKey.Render("q")
	l := m.Styles.FooterKey.Render("l")
	return m.Styles.Footer.Render(fmt.Sprintf("  Press %s to quit, %s to toggle logs", q, l))
}

// formatDuration formats a duration as HH:MM:SS
func formatDuration(d time.Duration) string {
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
