package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/pmake/internal/core/domain"
)

func fileRule(p domain.TargetPattern, source string, prereqs ...string) *domain.Rule {
	templates := make([]domain.Template, len(prereqs))
	for i, raw := range prereqs {
		templates[i] = domain.MustParseTemplate(raw)
	}
	return &domain.Rule{Pattern: p, Prerequisites: templates, Source: source}
}

func TestRegistry_FindLiteral(t *testing.T) {
	r := domain.NewRegistry(domain.PolicyLastWins)
	require.NoError(t, r.Register(fileRule(domain.LiteralPattern("app"), "")))

	rule, captures, err := r.Find("app")
	require.NoError(t, err)
	require.NotNil(t, rule)
	assert.Empty(t, captures)

	rule, _, err = r.Find("other")
	require.NoError(t, err)
	assert.Nil(t, rule, "unmatched names resolve to no rule")
}

func TestRegistry_LastWins(t *testing.T) {
	r := domain.NewRegistry(domain.PolicyLastWins)
	first := fileRule(domain.MustRegexPattern(`(.*)\.o`), "first", "{0}.c")
	second := fileRule(domain.MustRegexPattern(`(.*)\.o`), "second", "{0}.cc")
	require.NoError(t, r.Register(first))
	require.NoError(t, r.Register(second))

	rule, captures, err := r.Find("main.o")
	require.NoError(t, err)
	assert.Same(t, second, rule)
	assert.Equal(t, domain.Captures{"main"}, captures)
}

func TestRegistry_LiteralOverriddenByLaterRegex(t *testing.T) {
	r := domain.NewRegistry(domain.PolicyLastWins)
	literal := fileRule(domain.LiteralPattern("main.o"), "literal")
	regex := fileRule(domain.MustRegexPattern(`(.*)\.o`), "regex", "{0}.c")
	require.NoError(t, r.Register(literal))
	require.NoError(t, r.Register(regex))

	rule, _, err := r.Find("main.o")
	require.NoError(t, err)
	assert.Same(t, regex, rule)
}

func TestRegistry_RejectAmbiguous(t *testing.T) {
	r := domain.NewRegistry(domain.PolicyRejectAmbiguous)
	require.NoError(t, r.Register(fileRule(domain.MustRegexPattern(`(.*)\.o`), "rules.yaml:3")))
	require.NoError(t, r.Register(fileRule(domain.MustRegexPattern(`main\.(.*)`), "rules.yaml:9")))
	require.NoError(t, r.Register(fileRule(domain.LiteralPattern("util.o"), "")))

	_, _, err := r.Find("main.o")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAmbiguousRule))

	var ambiguous *domain.AmbiguousRuleError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, "main.o", ambiguous.Target)
	assert.Equal(t, []string{`main\.(.*) (rules.yaml:9)`, `(.*)\.o (rules.yaml:3)`}, ambiguous.Matches)

	// A single match is still fine.
	_, _, err = r.Find("lib.o")
	require.NoError(t, err)
}

func TestRegistry_RegisterNil(t *testing.T) {
	r := domain.NewRegistry(domain.PolicyLastWins)
	assert.ErrorIs(t, r.Register(nil), domain.ErrNilRule)
	assert.ErrorIs(t, r.Register(&domain.Rule{}), domain.ErrNilRule)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_RulesHighestPriorityFirst(t *testing.T) {
	r := domain.NewRegistry(domain.PolicyLastWins)
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, r.Register(fileRule(domain.LiteralPattern(name), "")))
	}

	var got []string
	for rule := range r.Rules() {
		got = append(got, rule.Pattern.String())
	}
	assert.Equal(t, []string{"c", "b", "a"}, got)
	assert.Equal(t, 3, r.Len())
}

func TestRegistry_DefaultTarget(t *testing.T) {
	r := domain.NewRegistry(domain.PolicyLastWins)
	assert.Equal(t, "default", r.DefaultTarget())

	r.SetDefaultTarget("all")
	assert.Equal(t, "all", r.DefaultTarget())
}

func TestParseMatchPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    domain.MatchPolicy
		wantErr bool
	}{
		{in: "", want: domain.PolicyLastWins},
		{in: "last-wins", want: domain.PolicyLastWins},
		{in: "reject-ambiguous", want: domain.PolicyRejectAmbiguous},
		{in: "first-wins", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := domain.ParseMatchPolicy(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if tt.in != "" {
				assert.Equal(t, tt.in, got.String())
			}
		})
	}
}
