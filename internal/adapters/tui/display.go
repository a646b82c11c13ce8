package tui

import (
	"context"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vito/progrock"
	"go.trai.ch/zerr"
)

// Subscriber hands out the status updates of a recording.
type Subscriber interface {
	Subscribe(w progrock.Writer)
}

// Display runs the progress view for one build request.
type Display struct {
	out    io.Writer
	source Subscriber
	opts   []tea.ProgramOption

	mu   sync.Mutex
	feed *Feed
}

// NewDisplay creates a Display that renders updates from source to out.
func NewDisplay(out io.Writer, source Subscriber, opts ...tea.ProgramOption) *Display {
	return &Display{out: out, source: source, opts: opts}
}

// Open subscribes a fresh feed to the source. Call it before the build starts recording.
func (d *Display) Open() {
	feed := NewFeed()
	d.source.Subscribe(feed)

	d.mu.Lock()
	d.feed = feed
	d.mu.Unlock()
}

// Run renders until the recording is closed or ctx is done.
func (d *Display) Run(ctx context.Context) error {
	d.mu.Lock()
	feed := d.feed
	d.mu.Unlock()
	if feed == nil {
		return zerr.New("progress display was not opened")
	}
	defer func() {
		_ = feed.Close()
	}()

	opts := append([]tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithOutput(d.out),
		tea.WithInput(nil),
	}, d.opts...)

	if _, err := tea.NewProgram(NewModel(feed), opts...).Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return zerr.Wrap(err, "progress display failed")
	}
	return nil
}
