package dot_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/pmake/internal/adapters/dot"
	"go.trai.ch/pmake/internal/core/domain"
)

func complete(s *domain.BuildSession, name string, rule *domain.Rule, prereqs, orderOnly []string) {
	t := s.Begin(name)
	t.Rule = rule
	t.Prerequisites = prereqs
	t.OrderOnly = orderOnly
	s.Complete(t)
}

func TestEncoder_Encode(t *testing.T) {
	session := domain.NewBuildSession()
	complete(session, "src/main.c", nil, nil, nil)
	complete(session, "build", &domain.Rule{
		Pattern: domain.LiteralPattern("build"),
		Source:  "pmake.yaml:14",
	}, nil, nil)
	complete(session, "build/main.o", &domain.Rule{
		Pattern: domain.MustRegexPattern(`build/(.+)\.o`),
		Source:  "pmake.yaml:8",
	}, []string{"src/main.c"}, []string{"build"})
	complete(session, "all", &domain.Rule{
		Pattern: domain.LiteralPattern("all"),
		Kind:    domain.KindPhony,
		Source:  "pmake.yaml:4",
	}, []string{"build/main.o", "build/main.o"}, nil)

	var buf bytes.Buffer
	require.NoError(t, dot.New().Encode(&buf, session))

	goldie.New(t).Assert(t, "object_graph", buf.Bytes())
}

func TestEncoder_EmptySession(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, dot.New().Encode(&buf, domain.NewBuildSession()))

	assert.Equal(t, "digraph pmake {\n\trankdir=LR;\n}\n", buf.String())
}

func TestNodeName(t *testing.T) {
	assert.Equal(t, "n79be8454cdc89f38", dot.NodeName("all"))
	assert.Equal(t, dot.NodeName("build/main.o"), dot.NodeName("build/main.o"))
	assert.NotEqual(t, dot.NodeName("a"), dot.NodeName("b"))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestEncoder_WriteError(t *testing.T) {
	err := dot.New().Encode(failingWriter{}, domain.NewBuildSession())

	assert.ErrorContains(t, err, "failed to write graph")
}
