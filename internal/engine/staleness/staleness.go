// Package staleness decides whether a resolved target must be rebuilt.
package staleness

import (
	"time"

	"go.trai.ch/zerr"

	"go.trai.ch/pmake/internal/core/domain"
	"go.trai.ch/pmake/internal/core/ports"
)

// Evaluator compares modification times of a target and its prerequisites.
type Evaluator struct {
	fs ports.FileSystem
}

// New creates an Evaluator backed by fs.
func New(fs ports.FileSystem) *Evaluator {
	return &Evaluator{fs: fs}
}

// IsStale reports whether target's action has to run.
//
// Phony targets are always stale. A file target is stale when it does not exist,
// when a prerequisite is phony in session, when a prerequisite does not exist,
// or when a prerequisite is strictly newer. Order-only prerequisites are not consulted.
func (e *Evaluator) IsStale(session *domain.BuildSession, target *domain.ResolvedTarget) (bool, error) {
	if target.IsPhony() {
		return true, nil
	}
	if target.IsSource() {
		return false, nil
	}

	exists, err := e.fs.Exists(target.Name)
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to check target"), "target", target.Name)
	}
	if !exists {
		return true, nil
	}
	if len(target.Prerequisites) == 0 {
		return false, nil
	}
	for _, prereq := range target.Prerequisites {
		if dep, ok := session.Lookup(prereq); ok && dep.IsPhony() {
			return true, nil
		}
	}

	built, err := e.fs.ModTime(target.Name)
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to check target"), "target", target.Name)
	}

	for _, prereq := range target.Prerequisites {
		newer, err := e.newerThan(prereq, built)
		if err != nil {
			return false, err
		}
		if newer {
			return true, nil
		}
	}
	return false, nil
}

// newerThan treats a missing prerequisite as newer.
func (e *Evaluator) newerThan(path string, built time.Time) (bool, error) {
	exists, err := e.fs.Exists(path)
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to check prerequisite"), "prerequisite", path)
	}
	if !exists {
		return true, nil
	}
	modified, err := e.fs.ModTime(path)
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to check prerequisite"), "prerequisite", path)
	}
	return modified.After(built), nil
}
