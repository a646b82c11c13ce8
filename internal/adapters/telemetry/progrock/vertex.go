package progrock

import (
	"fmt"
	"io"

	"github.com/vito/progrock"

	"go.trai.ch/pmake/internal/core/domain"
)

// Vertex implements ports.Vertex wrapping *progrock.VertexRecorder.
type Vertex struct {
	vertex *progrock.VertexRecorder
	stdout io.Writer
	stderr io.Writer
	lines  []*lineWriter
}

func newVertex(v *progrock.VertexRecorder, name string, console *Console) *Vertex {
	vertex := &Vertex{vertex: v, stdout: v.Stdout(), stderr: v.Stderr()}
	if console != nil {
		out, errOut := console.writer(name, false), console.writer(name, true)
		vertex.stdout = io.MultiWriter(vertex.stdout, out)
		vertex.stderr = io.MultiWriter(vertex.stderr, errOut)
		vertex.lines = []*lineWriter{out, errOut}
	}
	return vertex
}

// Stdout returns a writer to capture standard output stream.
func (v *Vertex) Stdout() io.Writer {
	return v.stdout
}

// Stderr returns a writer to capture error output stream.
func (v *Vertex) Stderr() io.Writer {
	return v.stderr
}

// Log records a message on the vertex's own output stream.
func (v *Vertex) Log(level domain.LogLevel, msg string) {
	_, _ = fmt.Fprintf(v.vertex.Stdout(), "[%s] %s\n", level.String(), msg)
}

// Complete flushes pending console output and marks the vertex finished.
func (v *Vertex) Complete(err error) {
	v.flush()
	v.vertex.Done(err)
}

// Cached marks the vertex as up to date.
func (v *Vertex) Cached() {
	v.flush()
	v.vertex.Cached()
	v.vertex.Done(nil)
}

func (v *Vertex) flush() {
	for _, lw := range v.lines {
		lw.flush()
	}
}
