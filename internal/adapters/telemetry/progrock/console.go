package progrock

import (
	"bytes"
	"io"
	"os"
	"sync"

	"github.com/muesli/termenv"
)

// Console echoes action output to a terminal, one complete line at a time.
// Lines from concurrent actions never interleave mid-line.
type Console struct {
	mu     sync.Mutex
	out    io.Writer
	output *termenv.Output
	prefix bool
	muted  bool
}

// NewConsole creates a Console on out. A nil out discards output.
func NewConsole(out io.Writer) *Console {
	if out == nil {
		out = io.Discard
	}
	return &Console{
		out:    out,
		output: termenv.NewOutput(out, termenv.WithProfile(colorProfile())),
	}
}

// colorProfile honors NO_COLOR and otherwise uses basic ANSI colors.
func colorProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.ANSI
}

// SetPrefix toggles "[target]" prefixes, which disambiguate output when several actions run at once.
func (c *Console) SetPrefix(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prefix = on
}

// SetMuted stops echoing while another view owns the terminal.
func (c *Console) SetMuted(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.muted = on
}

func (c *Console) writer(name string, isErr bool) *lineWriter {
	return &lineWriter{console: c, name: name, isErr: isErr}
}

func (c *Console) printLine(name string, isErr bool, line []byte) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.muted {
		return
	}

	var buf bytes.Buffer
	if c.prefix {
		buf.WriteString(c.output.String("[" + name + "]").Faint().String())
		buf.WriteByte(' ')
	}
	if isErr {
		buf.WriteString(c.output.String(string(line)).Foreground(termenv.ANSIYellow).String())
	} else {
		buf.Write(line)
	}
	buf.WriteByte('\n')
	_, _ = c.out.Write(buf.Bytes())
}

// lineWriter buffers partial lines of one stream of one vertex.
type lineWriter struct {
	console *Console
	name    string
	isErr   bool

	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		i := bytes.IndexByte(w.buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := w.buf.Next(i + 1)
		w.console.printLine(w.name, w.isErr, line)
	}
	return len(p), nil
}

func (w *lineWriter) flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buf.Len() > 0 {
		w.console.printLine(w.name, w.isErr, w.buf.Bytes())
		w.buf.Reset()
	}
}
