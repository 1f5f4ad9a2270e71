package events

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// LogConfig configures the logging handler
type LogConfig struct {
	// Writer is where progress lines are written (default: os.Stdout)
	Writer io.Writer

	// Styled colors success, warning and error lines (for terminals)
	Styled bool

	// Verbose adds pass framing and container IDs
	Verbose bool
}

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	detailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// LogHandler returns a handler that prints human-readable progress lines.
func LogHandler(cfg LogConfig) Handler {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}

	paint := func(s lipgloss.Style, text string) string {
		if !cfg.Styled {
			return text
		}
		return s.Render(text)
	}

	return func(e Event) {
		w := cfg.Writer
		switch e.Type {
		case DeployStarted:
			if p, ok := e.Payload.(PassStarted); ok && cfg.Verbose {
				fmt.Fprintf(w, "Deploying %d container(s): %s (pass %s)\n",
					len(p.Containers), strings.Join(p.Containers, ", "), p.ID)
			}

		case ContainerRemoving:
			fmt.Fprintf(w, "Stopping and removing existing container: %s\n", e.Container)

		case ContainerRemoveFailed:
			fmt.Fprintln(w, paint(warnStyle, fmt.Sprintf("Warning: could not remove %s: %s", e.Container, e.Error)))

		case ContainerStarting:
			fmt.Fprintf(w, "Starting container: %s\n", e.Container)

		case ContainerStarted:
			line := fmt.Sprintf("%s started successfully.", e.Container)
			if p, ok := e.Payload.(Started); ok && cfg.Verbose && p.ContainerID != "" {
				line += " " + paint(detailStyle, "("+p.ContainerID+")")
			}
			fmt.Fprintln(w, paint(successStyle, line))

		case ContainerStartFailed:
			detail := e.Error
			if p, ok := e.Payload.(StartFailed); ok && p.Diagnostic != "" {
				detail = p.Diagnostic
			}
			fmt.Fprintln(w, paint(errorStyle, fmt.Sprintf("Error starting %s:", e.Container)))
			fmt.Fprintln(w, detail)

		case DeployCompleted:
			if p, ok := e.Payload.(PassCompleted); ok {
				summary := fmt.Sprintf("Done: %d started, %d failed.", p.Started, p.Failed)
				if p.Skipped > 0 {
					summary = fmt.Sprintf("Interrupted: %d started, %d failed, %d skipped.", p.Started, p.Failed, p.Skipped)
				}
				if p.Failed > 0 || p.Skipped > 0 {
					summary = paint(errorStyle, summary)
				}
				fmt.Fprintln(w, summary)
			}
		}
	}
}

// DebugHandler logs every event in its compact form: [type] container error="..."
func DebugHandler(l *log.Logger) Handler {
	return func(e Event) {
		l.Print(e.String())
	}
}
