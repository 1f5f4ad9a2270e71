package tui

import (
	"github.com/RevCBH/mondeploy/internal/events"
	tea "github.com/charmbracelet/bubbletea"
)

// Bridge connects deployment events to the bubbletea program
type Bridge struct {
	program *tea.Program
}

// NewBridge creates a new bridge for the given program
func NewBridge(program *tea.Program) *Bridge {
	return &Bridge{
		program: program,
	}
}

// Handler returns an event handler that forwards events to the program
func (b *Bridge) Handler() events.Handler {
	return func(evt events.Event) {
		msg := b.eventToMsg(evt)
		if msg != nil {
			b.program.Send(msg)
		}
	}
}

// eventToMsg converts an events.Event to a tea.Msg
func (b *Bridge) eventToMsg(evt events.Event) tea.Msg {
	switch evt.Type {
	case events.DeployStarted:
		msg := PassStartedMsg{}
		if p, ok := evt.Payload.(events.PassStarted); ok {
			msg.ID = p.ID
			msg.Containers = p.Containers
		}
		return msg

	case events.ContainerRemoving:
		return PhaseMsg{Name: evt.Container, Phase: PhaseRemoving}

	case events.ContainerRemoveFailed:
		return RemoveFailedMsg{Name: evt.Container, Error: evt.Error}

	case events.ContainerStarting:
		return PhaseMsg{Name: evt.Container, Phase: PhaseStarting}

	case events.ContainerStarted:
		msg := StartedMsg{Name: evt.Container}
		if p, ok := evt.Payload.(events.Started); ok {
			msg.ContainerID = p.ContainerID
		}
		return msg

	case events.ContainerStartFailed:
		msg := StartFailedMsg{Name: evt.Container, Diagnostic: evt.Error}
		if p, ok := evt.Payload.(events.StartFailed); ok && p.Diagnostic != "" {
			msg.Diagnostic = p.Diagnostic
		}
		return msg

	case events.DeployCompleted:
		msg := PassCompletedMsg{}
		if p, ok := evt.Payload.(events.PassCompleted); ok {
			msg.Started = p.Started
			msg.Failed = p.Failed
			msg.Skipped = p.Skipped
		}
		return msg

	default:
		return nil
	}
}

// SendDone sends a DoneMsg to the program
func (b *Bridge) SendDone() {
	b.program.Send(DoneMsg{})
}

// SendQuit sends a QuitMsg to the program
func (b *Bridge) SendQuit() {
	b.program.Send(QuitMsg{})
}
