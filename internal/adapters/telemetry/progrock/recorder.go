// Package progrock provides the Progrock implementation of the telemetry adapter.
package progrock

import (
	"context"
	"io"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"

	"go.trai.ch/pmake/internal/core/ports"
)

var _ ports.Telemetry = (*Recorder)(nil)

// Recorder implements ports.Telemetry on a progrock tape.
// When a Console is attached, vertex output is also echoed to it line by line.
type Recorder struct {
	w       *Fanout
	rec     *progrock.Recorder
	console *Console
}

// New creates a Recorder with a default tape that echoes action output to out.
func New(out io.Writer) *Recorder {
	return NewRecorder(progrock.NewTape(), NewConsole(out))
}

// NewRecorder creates a Recorder on w. console may be nil.
func NewRecorder(w progrock.Writer, console *Console) *Recorder {
	fanout := NewFanout(w)
	return &Recorder{
		w:       fanout,
		rec:     progrock.NewRecorder(fanout),
		console: console,
	}
}

// Subscribe adds w to the writers receiving status updates. w is closed with the recorder.
func (r *Recorder) Subscribe(w progrock.Writer) {
	r.w.Add(w)
}

// Record starts a vertex named after the target. Inputs become progrock vertex inputs.
func (r *Recorder) Record(ctx context.Context, name string, opts ...ports.VertexOption) (context.Context, ports.Vertex) {
	cfg := ports.NewVertexConfig(opts...)

	var vopts []progrock.VertexOpt
	if len(cfg.Inputs) > 0 {
		inputs := make([]digest.Digest, len(cfg.Inputs))
		for i, in := range cfg.Inputs {
			inputs[i] = digest.FromString(in)
		}
		vopts = append(vopts, progrock.WithInputs(inputs...))
	}
	if cfg.Internal {
		vopts = append(vopts, progrock.Internal())
	}

	v := r.rec.Vertex(digest.FromString(name), name, vopts...)
	vertex := newVertex(v, name, r.console)
	return ports.ContextWithVertex(ctx, vertex), vertex
}

// Close closes the recording session and every subscribed writer. Later calls are no-ops.
func (r *Recorder) Close() error {
	return r.w.Close()
}
