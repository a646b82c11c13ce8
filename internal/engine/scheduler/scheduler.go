// Package scheduler builds requested targets by running rule actions in dependency order.
package scheduler

import (
	"context"
	"slices"
	"sync"

	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"go.trai.ch/pmake/internal/core/domain"
	"go.trai.ch/pmake/internal/core/ports"
	"go.trai.ch/pmake/internal/engine/resolver"
	"go.trai.ch/pmake/internal/engine/staleness"
)

// Options controls a single Run.
type Options struct {
	// Jobs bounds how many actions run at once. Values below 1 mean 1.
	Jobs int
}

// Scheduler drives a build request: it resolves the requested targets, then builds them.
type Scheduler struct {
	resolver  *resolver.Resolver
	staleness *staleness.Evaluator
	fs        ports.FileSystem
	telemetry ports.Telemetry
}

// NewScheduler creates a new Scheduler.
func NewScheduler(
	res *resolver.Resolver,
	eval *staleness.Evaluator,
	fs ports.FileSystem,
	telemetry ports.Telemetry,
) *Scheduler {
	return &Scheduler{
		resolver:  res,
		staleness: eval,
		fs:        fs,
		telemetry: telemetry,
	}
}

// Run builds targets left to right within session.
//
// Every target is resolved before any action runs, so a cycle or a missing source
// anywhere in the request fails without side effects. The first failing action
// stops work that has not started yet and its error is returned.
func (s *Scheduler) Run(
	ctx context.Context,
	reg *domain.Registry,
	session *domain.BuildSession,
	targets []string,
	opts Options,
) error {
	if len(targets) == 0 {
		return domain.ErrNoTargetsSpecified
	}

	if err := s.resolver.ResolveAll(ctx, reg, session, targets); err != nil {
		return err
	}

	state := s.newRunState(ctx, session, opts.Jobs)
	defer state.cancel()

	for _, name := range targets {
		if err := state.build(name); err != nil {
			return state.failure(err)
		}
	}
	return nil
}

type runState struct {
	s       *Scheduler
	session *domain.BuildSession
	jobs    int
	sem     *semaphore.Weighted

	// ctx is the request context handed to actions; runCtx is canceled on the first failure.
	ctx    context.Context
	runCtx context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	firstErr error
}

func (s *Scheduler) newRunState(ctx context.Context, session *domain.BuildSession, jobs int) *runState {
	if jobs < 1 {
		jobs = 1
	}
	runCtx, cancel := context.WithCancel(ctx)
	return &runState{
		s:       s,
		session: session,
		jobs:    jobs,
		sem:     semaphore.NewWeighted(int64(jobs)),
		ctx:     ctx,
		runCtx:  runCtx,
		cancel:  cancel,
	}
}

// build brings name up to date. Concurrent callers share a single attempt.
func (st *runState) build(name string) error {
	if err := st.runCtx.Err(); err != nil {
		return err
	}

	record, owner := st.session.Claim(name)
	if !owner {
		_, err := record.Wait(st.runCtx)
		return err
	}

	outcome, err := st.buildOwned(name)
	if err != nil {
		st.fail(err)
		outcome = domain.OutcomeFailed
	}
	record.Finish(outcome, err)
	return err
}

func (st *runState) buildOwned(name string) (domain.Outcome, error) {
	target, ok := st.session.Lookup(name)
	if !ok {
		return domain.OutcomeFailed, zerr.With(zerr.New("target was not resolved"), "target", name)
	}
	if target.IsSource() {
		return domain.OutcomeSource, nil
	}

	if err := st.buildPrerequisites(target); err != nil {
		return domain.OutcomeFailed, err
	}

	stale, err := st.s.staleness.IsStale(st.session, target)
	if err != nil {
		return domain.OutcomeFailed, err
	}

	_, vertex := st.s.telemetry.Record(st.ctx, name, ports.WithInputs(target.Prerequisites...))
	if !stale {
		vertex.Log(domain.LogLevelFor(domain.OutcomeUpToDate), "up to date")
		vertex.Cached()
		return domain.OutcomeUpToDate, nil
	}

	err = st.invoke(target, vertex)
	vertex.Complete(err)
	if err != nil {
		return domain.OutcomeFailed, err
	}
	return domain.OutcomeBuilt, nil
}

// buildPrerequisites builds prerequisites, then order-only prerequisites.
// With more than one job, sibling subtrees are built concurrently.
func (st *runState) buildPrerequisites(target *domain.ResolvedTarget) error {
	deps := slices.Concat(target.Prerequisites, target.OrderOnly)

	if st.jobs == 1 || len(deps) < 2 {
		for _, dep := range deps {
			if err := st.build(dep); err != nil {
				return err
			}
		}
		return nil
	}

	var g errgroup.Group
	for _, dep := range deps {
		g.Go(func() error {
			return st.build(dep)
		})
	}
	return g.Wait()
}

// invoke runs the rule's action in one of the job slots and checks that file targets were produced.
func (st *runState) invoke(target *domain.ResolvedTarget, vertex ports.Vertex) error {
	if err := st.sem.Acquire(st.runCtx, 1); err != nil {
		return err
	}
	defer st.sem.Release(1)

	rule := target.Rule
	if rule.Action != nil {
		inv := &domain.Invocation{
			Target:        target.Name,
			Prerequisites: slices.Clone(target.Prerequisites),
			OrderOnly:     slices.Clone(target.OrderOnly),
			Stdout:        vertex.Stdout(),
			Stderr:        vertex.Stderr(),
		}
		if err := rule.Action(st.ctx, inv); err != nil {
			return &domain.ActionError{Target: target.Name, Pattern: rule.Pattern.String(), Err: err}
		}
	}

	if rule.IsPhony() {
		return nil
	}

	exists, err := st.s.fs.Exists(target.Name)
	if err != nil {
		return err
	}
	if !exists {
		return &domain.ActionError{
			Target:  target.Name,
			Pattern: rule.Pattern.String(),
			Err:     domain.ErrTargetNotProduced,
		}
	}
	return nil
}

func (st *runState) fail(err error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.firstErr == nil {
		st.firstErr = err
		st.cancel()
	}
}

// failure prefers the first recorded failure over errors caused by the cancellation it triggered.
func (st *runState) failure(err error) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.firstErr != nil {
		return st.firstErr
	}
	return err
}
