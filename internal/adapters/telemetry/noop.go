// Package telemetry holds telemetry adapters that do not record progress.
package telemetry

import (
	"context"
	"io"

	"go.trai.ch/pmake/internal/core/domain"
	"go.trai.ch/pmake/internal/core/ports"
)

var _ ports.Telemetry = (*NoOp)(nil)

// NoOp is a ports.Telemetry that records nothing. Action output goes to the given writers.
type NoOp struct {
	stdout io.Writer
	stderr io.Writer
}

// NewNoOp creates a NoOp telemetry. Nil writers discard output.
func NewNoOp(stdout, stderr io.Writer) *NoOp {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	return &NoOp{stdout: stdout, stderr: stderr}
}

// Record returns a vertex that forwards output and ignores everything else.
func (n *NoOp) Record(ctx context.Context, _ string, _ ...ports.VertexOption) (context.Context, ports.Vertex) {
	v := &noOpVertex{stdout: n.stdout, stderr: n.stderr}
	return ports.ContextWithVertex(ctx, v), v
}

// Close does nothing.
func (n *NoOp) Close() error { return nil }

type noOpVertex struct {
	stdout io.Writer
	stderr io.Writer
}

func (v *noOpVertex) Stdout() io.Writer { return v.stdout }
func (v *noOpVertex) Stderr() io.Writer { return v.stderr }
func (v *noOpVertex) Log(domain.LogLevel, string) {}
func (v *noOpVertex) Complete(error) {}
func (v *noOpVertex) Cached() {}
