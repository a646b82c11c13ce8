// Package dot renders resolved build graphs in Graphviz DOT format.
package dot

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"

	"go.trai.ch/pmake/internal/core/domain"
	"go.trai.ch/pmake/internal/core/ports"
)

var _ ports.GraphEncoder = (*Encoder)(nil)

// Encoder implements ports.GraphEncoder.
type Encoder struct{}

// New creates a DOT encoder.
func New() *Encoder {
	return &Encoder{}
}

// Encode writes a digraph with one node per resolved target, in resolution order.
// Order-only edges are dashed.
func (e *Encoder) Encode(w io.Writer, session *domain.BuildSession) error {
	bw := bufio.NewWriter(w)

	var edges []string
	_, _ = fmt.Fprintln(bw, "digraph pmake {")
	_, _ = fmt.Fprintln(bw, "\trankdir=LR;")
	for t := range session.Walk() {
		from := NodeName(t.Name)
		_, _ = fmt.Fprintf(bw, "\t%s [label=%s, shape=%s", from, strconv.Quote(t.Name), shape(t))
		if t.Rule != nil {
			_, _ = fmt.Fprintf(bw, ", tooltip=%s", strconv.Quote(t.Rule.Describe()))
		}
		_, _ = fmt.Fprintln(bw, "];")

		seen := make(map[string]bool, len(t.Prerequisites)+len(t.OrderOnly))
		for _, p := range t.Prerequisites {
			if !seen[p] {
				seen[p] = true
				edges = append(edges, fmt.Sprintf("\t%s -> %s;", from, NodeName(p)))
			}
		}
		for _, p := range t.OrderOnly {
			if !seen[p] {
				seen[p] = true
				edges = append(edges, fmt.Sprintf("\t%s -> %s [style=dashed];", from, NodeName(p)))
			}
		}
	}
	for _, edge := range edges {
		_, _ = fmt.Fprintln(bw, edge)
	}
	_, _ = fmt.Fprintln(bw, "}")

	if err := bw.Flush(); err != nil {
		return zerr.Wrap(err, "failed to write graph")
	}
	return nil
}

// NodeName returns the stable DOT identifier of a target name.
func NodeName(name string) string {
	return fmt.Sprintf("n%016x", xxhash.Sum64String(name))
}

func shape(t *domain.ResolvedTarget) string {
	switch {
	case t.IsSource():
		return "note"
	case t.IsPhony():
		return "ellipse"
	default:
		return "box"
	}
}
