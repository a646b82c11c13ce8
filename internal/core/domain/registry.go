package domain

import (
	"iter"
	"sync"

	"go.trai.ch/zerr"
)

// DefaultRuleFile is the rule file read when none is named.
const DefaultRuleFile = "pmake.yaml"

// DefaultTargetName is built when no target is requested and the rule file names none.
const DefaultTargetName = "default"

// MatchPolicy decides what happens when several rules match one target.
type MatchPolicy uint8

const (
	// PolicyLastWins picks the most recently registered matching rule.
	PolicyLastWins MatchPolicy = iota
	// PolicyRejectAmbiguous fails resolution when more than one rule matches.
	PolicyRejectAmbiguous
)

// String returns the policy name used in rule files and flags.
func (p MatchPolicy) String() string {
	if p == PolicyRejectAmbiguous {
		return "reject-ambiguous"
	}
	return "last-wins"
}

// ParseMatchPolicy converts a policy name to a MatchPolicy. The empty string means last-wins.
func ParseMatchPolicy(s string) (MatchPolicy, error) {
	switch s {
	case "", "last-wins":
		return PolicyLastWins, nil
	case "reject-ambiguous":
		return PolicyRejectAmbiguous, nil
	default:
		return PolicyLastWins, zerr.With(ErrInvalidPolicy, "policy", s)
	}
}

// Registry stores rules in registration order.
type Registry struct {
	mu            sync.RWMutex
	rules         []*Rule
	policy        MatchPolicy
	defaultTarget string
}

// NewRegistry creates an empty registry using the given match policy.
func NewRegistry(policy MatchPolicy) *Registry {
	return &Registry{policy: policy}
}

// Policy returns the registry's match policy.
func (r *Registry) Policy() MatchPolicy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.policy
}

// SetPolicy changes the match policy for subsequent lookups.
func (r *Registry) SetPolicy(p MatchPolicy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.policy = p
}

// DefaultTarget returns the target built when none is requested.
func (r *Registry) DefaultTarget() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.defaultTarget == "" {
		return DefaultTargetName
	}
	return r.defaultTarget
}

// SetDefaultTarget overrides the conventional "default" target name.
func (r *Registry) SetDefaultTarget(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaultTarget = name
}

// Register appends a rule. Later rules take priority under PolicyLastWins.
func (r *Registry) Register(rule *Rule) error {
	if rule == nil || (rule.Pattern.Kind() == PatternLiteral && rule.Pattern.String() == "") {
		return ErrNilRule
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, rule)
	return nil
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rules)
}

// Rules yields the registered rules from highest to lowest priority.
func (r *Registry) Rules() iter.Seq[*Rule] {
	r.mu.RLock()
	snapshot := make([]*Rule, len(r.rules))
	copy(snapshot, r.rules)
	r.mu.RUnlock()

	return func(yield func(*Rule) bool) {
		for i := len(snapshot) - 1; i >= 0; i-- {
			if !yield(snapshot[i]) {
				return
			}
		}
	}
}

// Find returns the rule producing name and the captures of its pattern.
// A nil rule with a nil error means name must be an existing plain file.
func (r *Registry) Find(name string) (*Rule, Captures, error) {
	policy := r.Policy()

	var (
		found    *Rule
		captures Captures
		matches  []string
	)
	for rule := range r.Rules() {
		c, ok := rule.Pattern.Match(name)
		if !ok {
			continue
		}
		if found == nil {
			found, captures = rule, c
			if policy == PolicyLastWins {
				break
			}
		}
		matches = append(matches, rule.Describe())
	}

	if len(matches) > 1 {
		return nil, nil, &AmbiguousRuleError{Target: name, Matches: matches}
	}
	return found, captures, nil
}
