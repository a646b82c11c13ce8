// Package tui provides a terminal progress view for build requests.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/vito/progrock"
)

// tailLines is how many output lines are kept per target.
const tailLines = 5

// TargetStatus represents the current state of a target.
type TargetStatus string

const (
	// StatusRunning indicates the target's action is executing.
	StatusRunning TargetStatus = "Running"
	// StatusDone indicates the action completed successfully.
	StatusDone TargetStatus = "Done"
	// StatusError indicates the action failed.
	StatusError TargetStatus = "Error"
	// StatusCached indicates the target was up to date.
	StatusCached TargetStatus = "Cached"
)

// TargetNode represents a single target in the progress list.
type TargetNode struct {
	ID     string
	Name   string
	Status TargetStatus

	lines   []string
	partial string
}

func (n *TargetNode) appendLog(data []byte) {
	parts := strings.Split(n.partial+string(data), "\n")
	n.partial = parts[len(parts)-1]
	n.lines = append(n.lines, parts[:len(parts)-1]...)
	if len(n.lines) > tailLines {
		n.lines = n.lines[len(n.lines)-tailLines:]
	}
}

// Tail returns the last output lines of the target, including an unterminated one.
func (n *TargetNode) Tail() []string {
	tail := append([]string(nil), n.lines...)
	if n.partial != "" {
		tail = append(tail, n.partial)
	}
	if len(tail) > tailLines {
		tail = tail[len(tail)-tailLines:]
	}
	return tail
}

// Model is the Bubble Tea model for the progress view.
type Model struct {
	tape    TapeSource
	targets []*TargetNode
	byID    map[string]*TargetNode
	height  int
	spinner spinner.Model
}

// NewModel creates a new progress model reading from tape.
func NewModel(tape TapeSource) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = targetRunningStyle

	return &Model{
		tape:    tape,
		byID:    make(map[string]*TargetNode),
		spinner: s,
	}
}

// Init starts reading from the tape.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		WaitForTape(m.tape),
		m.spinner.Tick,
	)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case MsgTapeUpdate:
		m.apply(msg.Update)
		return m, WaitForTape(m.tape)
	case MsgTapeEnded:
		return m, tea.Quit
	}
	return m, nil
}

// Targets returns the targets seen so far in the order they started.
func (m *Model) Targets() []*TargetNode {
	return m.targets
}

func (m *Model) apply(update *progrock.StatusUpdate) {
	if update == nil {
		return
	}
	for _, v := range update.Vertexes {
		if v.Internal {
			continue
		}
		node, ok := m.byID[v.Id]
		if !ok {
			node = &TargetNode{ID: v.Id, Name: v.Name}
			m.byID[v.Id] = node
			m.targets = append(m.targets, node)
		}
		node.Status = statusOf(v)
	}
	for _, l := range update.Logs {
		if node, ok := m.byID[l.Vertex]; ok {
			node.appendLog(l.Data)
		}
	}
}

func statusOf(v *progrock.Vertex) TargetStatus {
	switch {
	case v.Completed == nil:
		return StatusRunning
	case v.Error != nil:
		return StatusError
	case v.Cached:
		return StatusCached
	default:
		return StatusDone
	}
}
