package ports

import (
	"context"
	"io"

	"go.trai.ch/pmake/internal/core/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Telemetry records the progress of a build as a set of vertices, one per target.
type Telemetry interface {
	// Record starts a vertex for name and returns a context carrying it.
	Record(ctx context.Context, name string, opts ...VertexOption) (context.Context, Vertex)
	// Close flushes any buffered progress output.
	Close() error
}

// Vertex is a single unit of work shown in the progress output.
type Vertex interface {
	// Stdout returns a writer for the action's standard output.
	Stdout() io.Writer
	// Stderr returns a writer for the action's error output.
	Stderr() io.Writer
	// Log attaches a message to the vertex.
	Log(level domain.LogLevel, msg string)
	// Complete marks the vertex finished. A nil err means success.
	Complete(err error)
	// Cached marks the vertex as up to date; its action was skipped.
	Cached()
}

// VertexConfig holds the options of a vertex.
type VertexConfig struct {
	// Inputs are the names of vertices this vertex waits on.
	Inputs []string
	// Internal hides the vertex from the default progress view.
	Internal bool
}

// VertexOption configures a vertex.
type VertexOption func(*VertexConfig)

// WithInputs records the prerequisites of a vertex.
func WithInputs(names ...string) VertexOption {
	return func(c *VertexConfig) {
		c.Inputs = append(c.Inputs, names...)
	}
}

// Internal hides a vertex from the default progress view.
func Internal() VertexOption {
	return func(c *VertexConfig) {
		c.Internal = true
	}
}

// NewVertexConfig applies opts to an empty VertexConfig.
func NewVertexConfig(opts ...VertexOption) VertexConfig {
	var cfg VertexConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

type vertexKey struct{}

// ContextWithVertex returns a copy of ctx carrying v.
func ContextWithVertex(ctx context.Context, v Vertex) context.Context {
	return context.WithValue(ctx, vertexKey{}, v)
}

// VertexFromContext returns the vertex stored in ctx, if any.
func VertexFromContext(ctx context.Context) (Vertex, bool) {
	v, ok := ctx.Value(vertexKey{}).(Vertex)
	return v, ok
}
