// Package resolver maps requested targets to rules and builds the prerequisite graph of a session.
package resolver

import (
	"context"
	"slices"

	"go.trai.ch/zerr"

	"go.trai.ch/pmake/internal/core/domain"
	"go.trai.ch/pmake/internal/core/ports"
)

// Resolver binds target names to rules and concrete prerequisites.
// It never runs actions.
type Resolver struct {
	fs ports.FileSystem
}

// New creates a Resolver that checks plain files through fs.
func New(fs ports.FileSystem) *Resolver {
	return &Resolver{fs: fs}
}

// Resolve resolves name and everything it transitively depends on into session.
// Prerequisites are visited depth first, left to right, followed by order-only prerequisites.
func (r *Resolver) Resolve(
	ctx context.Context,
	reg *domain.Registry,
	session *domain.BuildSession,
	name string,
) (*domain.ResolvedTarget, error) {
	return r.resolve(ctx, reg, session, name, nil)
}

// ResolveAll resolves every name in order, stopping at the first error.
func (r *Resolver) ResolveAll(
	ctx context.Context,
	reg *domain.Registry,
	session *domain.BuildSession,
	names []string,
) error {
	for _, name := range names {
		if _, err := r.Resolve(ctx, reg, session, name); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) resolve(
	ctx context.Context,
	reg *domain.Registry,
	session *domain.BuildSession,
	name string,
	chain []string,
) (*domain.ResolvedTarget, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if t, ok := session.Lookup(name); ok {
		switch t.Status {
		case domain.StatusDone:
			return t, nil
		case domain.StatusBuilding:
			return nil, &domain.CycleError{Chain: cycleFrom(chain, name)}
		}
	}

	target := session.Begin(name)
	chain = append(chain, name)

	if err := r.bind(ctx, reg, session, target, chain); err != nil {
		session.Abandon(name)
		return nil, err
	}

	session.Complete(target)
	return target, nil
}

func (r *Resolver) bind(
	ctx context.Context,
	reg *domain.Registry,
	session *domain.BuildSession,
	target *domain.ResolvedTarget,
	chain []string,
) error {
	rule, captures, err := reg.Find(target.Name)
	if err != nil {
		return err
	}

	if rule == nil {
		exists, err := r.fs.Exists(target.Name)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "target", target.Name)
		}
		if !exists {
			return &domain.MissingSourceError{Target: target.Name}
		}
		return nil
	}

	prereqs, orderOnly, err := rule.ExpandPrerequisites(target.Name, captures)
	if err != nil {
		return err
	}

	target.Rule = rule
	target.Captures = captures
	target.Prerequisites = prereqs
	target.OrderOnly = orderOnly

	for _, dep := range slices.Concat(prereqs, orderOnly) {
		if _, err := r.resolve(ctx, reg, session, dep, chain); err != nil {
			return err
		}
	}
	return nil
}

// cycleFrom returns the part of chain starting at the first occurrence of name, closed with name.
func cycleFrom(chain []string, name string) []string {
	start := slices.Index(chain, name)
	if start < 0 {
		start = 0
	}
	cycle := slices.Clone(chain[start:])
	return append(cycle, name)
}
