package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Phase is where a container is in its stop/start cycle
type Phase int

const (
	PhasePending Phase = iota
	PhaseRemoving
	PhaseStarting
	PhaseStarted
	PhaseFailed
	PhaseSkipped
)

func (p Phase) String() string {
	switch p {
	case PhaseRemoving:
		return "removing"
	case PhaseStarting:
		return "starting"
	case PhaseStarted:
		return "started"
	case PhaseFailed:
		return "failed"
	case PhaseSkipped:
		return "skipped"
	default:
		return "pending"
	}
}

// Finished reports whether the container needs no further work this pass
func (p Phase) Finished() bool {
	return p == PhaseStarted || p == PhaseFailed || p == PhaseSkipped
}

// ContainerState tracks the state of a single registry entry in the TUI
type ContainerState struct {
	Name        string
	Phase       Phase
	ContainerID string

	// Warning is set when removal of the previous container failed
	Warning string

	// Diagnostic is the runtime's error output for a failed start
	Diagnostic string
}

// Model is the bubbletea model for the TUI
type Model struct {
	// Configuration
	Styles Styles

	// State
	PassID     string
	Containers []*ContainerState
	index      map[string]*ContainerState
	StartTime  time.Time
	EndTime    time.Time
	LogLines   []string
	LogLimit   int
	ShowLogs   bool
	Width      int
	Height     int

	// Control
	Quitting bool
	Done     bool
}

// NewModel creates a TUI model listing names in registry order
func NewModel(names []string) *Model {
	m := &Model{
		Styles:    DefaultStyles(),
		StartTime: time.Now(),
		LogLimit:  500,
	}
	m.setContainers(names)
	return m
}

func (m *Model) setContainers(names []string) {
	m.Containers = make([]*ContainerState, 0, len(names))
	m.index = make(map[string]*ContainerState, len(names))
	for _, name := range names {
		c := &ContainerState{Name: name}
		m.Containers = append(m.Containers, c)
		m.index[name] = c
	}
}

// Container returns the state for name, adding it if the model has not
// seen it before.
func (m *Model) Container(name string) *ContainerState {
	if c, ok := m.index[name]; ok {
		return c
	}
	c := &ContainerState{Name: name}
	m.Containers = append(m.Containers, c)
	m.index[name] = c
	return c
}

// Counts returns how many containers started, failed and are finished.
func (m *Model) Counts() (started, failed, finished int) {
	for _, c := range m.Containers {
		switch c.Phase {
		case PhaseStarted:
			started++
		case PhaseFailed:
			failed++
		}
		if c.Phase.Finished() {
			finished++
		}
	}
	return started, failed, finished
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
	)
}

// TickMsg is sent every second to update the timer
type TickMsg time.Time

// tickCmd returns a command that sends TickMsg every second
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// DoneMsg signals the pass is over; the final frame stays on screen
type DoneMsg struct{}

// QuitMsg signals the user requested quit (q or Ctrl+C)
type QuitMsg struct{}

// PassStartedMsg carries the pass ID and the registry order
type PassStartedMsg struct {
	ID         string
	Containers []string
}

// PhaseMsg moves a container to a new phase
type PhaseMsg struct {
	Name  string
	Phase Phase
}

// RemoveFailedMsg indicates the previous container could not be removed
type RemoveFailedMsg struct {
	Name  string
	Error string
}

// StartedMsg indicates a container is running
type StartedMsg struct {
	Name        string
	ContainerID string
}

// StartFailedMsg indicates a container could not be started
type StartFailedMsg struct {
	Name       string
	Diagnostic string
}

// PassCompletedMsg indicates every entry has been processed
type PassCompletedMsg struct {
	Started int
	Failed  int
	Skipped int
}
