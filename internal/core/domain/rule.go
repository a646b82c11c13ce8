package domain

import (
	"context"
	"io"
)

// RuleKind tells whether a rule produces a file or only performs an action.
type RuleKind uint8

const (
	// KindFile rules produce a file named after the target.
	KindFile RuleKind = iota
	// KindPhony rules have no artifact and run whenever they are reached.
	KindPhony
)

// String returns the lower-case kind name.
func (k RuleKind) String() string {
	if k == KindPhony {
		return "phony"
	}
	return "file"
}

// Invocation carries the arguments an Action is called with.
type Invocation struct {
	Target        string
	Prerequisites []string
	OrderOnly     []string
	Stdout        io.Writer
	Stderr        io.Writer
}

// Action performs the work of a rule for one concrete target.
// A nil Action is valid and does nothing.
type Action func(ctx context.Context, inv *Invocation) error

// Recipe is the shell form of an Action as declared in a rule file.
type Recipe struct {
	Commands    []string
	Environment map[string]string
	// WorkingDir is where commands run. Empty means the process working directory.
	WorkingDir string
}

// Rule describes how to produce every target matching Pattern.
type Rule struct {
	Pattern       TargetPattern
	Prerequisites []Template
	OrderOnly     []Template
	Action        Action
	Kind          RuleKind
	// Source identifies where the rule was declared, e.g. "pmake.yaml:12".
	Source string
}

// IsPhony reports whether the rule is phony.
func (r *Rule) IsPhony() bool {
	return r.Kind == KindPhony
}

// Describe returns the pattern, with the declaration site when known.
func (r *Rule) Describe() string {
	if r.Source == "" {
		return r.Pattern.String()
	}
	return r.Pattern.String() + " (" + r.Source + ")"
}

// ExpandPrerequisites substitutes captures into the rule's prerequisite and order-only templates.
func (r *Rule) ExpandPrerequisites(target string, captures Captures) (prereqs, orderOnly []string, err error) {
	prereqs, err = expandAll(r.Prerequisites, target, captures)
	if err != nil {
		return nil, nil, err
	}
	orderOnly, err = expandAll(r.OrderOnly, target, captures)
	if err != nil {
		return nil, nil, err
	}
	return prereqs, orderOnly, nil
}

func expandAll(templates []Template, target string, captures Captures) ([]string, error) {
	if len(templates) == 0 {
		return nil, nil
	}
	out := make([]string, len(templates))
	for i, t := range templates {
		name, err := t.Expand(target, captures)
		if err != nil {
			return nil, err
		}
		out[i] = name
	}
	return out, nil
}
