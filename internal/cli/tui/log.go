package tui

import (
	"bytes"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// LogMsg is emitted when a log line should be appended to the TUI.
type LogMsg struct {
	Line string
}

// maxLogLine truncates runaway lines such as pull progress dumps.
const maxLogLine = 2000

// LogWriter streams log output into the TUI so debug logging does not
// tear the rendered frame. Lines are dropped when the program falls behind.
type LogWriter struct {
	send    func(tea.Msg)
	mu      sync.Mutex
	partial bytes.Buffer
	lines   chan string
	done    chan struct{}
}

// NewLogWriter creates a LogWriter that sends log lines into the program.
func NewLogWriter(program *tea.Program) *LogWriter {
	return newLogWriter(program.Send)
}

func newLogWriter(send func(tea.Msg)) *LogWriter {
	w := &LogWriter{
		send:  send,
		lines: make(chan string, 200),
		done:  make(chan struct{}),
	}
	go func() {
		defer close(w.done)
		for line := range w.lines {
			w.send(LogMsg{Line: line})
		}
	}()
	return w
}

// Write implements io.Writer, splitting output into lines.
func (w *LogWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.partial.Write(p)
	for {
		idx := bytes.IndexByte(w.partial.Bytes(), '\n')
		if idx == -1 {
			break
		}
		line := string(w.partial.Next(idx + 1))
		w.queue(line[:idx])
	}
	return len(p), nil
}

// Close flushes any partial line and waits for queued lines to be sent.
func (w *LogWriter) Close() error {
	w.mu.Lock()
	if w.partial.Len() > 0 {
		w.queue(w.partial.String())
		w.partial.Reset()
	}
	close(w.lines)
	w.mu.Unlock()

	<-w.done
	return nil
}

func (w *LogWriter) queue(line string) {
	line = strings.TrimRight(line, "\r")
	if line == "" {
		return
	}
	if len(line) > maxLogLine {
		line = line[:maxLogLine] + "..."
	}
	select {
	case w.lines <- line:
	default:
	}
}
