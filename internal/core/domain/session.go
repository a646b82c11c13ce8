package domain

import (
	"context"
	"iter"
	"sync"
)

// Status is the resolution state of a target within a BuildSession.
type Status uint8

const (
	// StatusPending means the target has not been visited yet.
	StatusPending Status = iota
	// StatusBuilding means the target's prerequisites are being resolved.
	StatusBuilding
	// StatusDone means the target and all its prerequisites are resolved.
	StatusDone
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusBuilding:
		return "building"
	case StatusDone:
		return "done"
	default:
		return "pending"
	}
}

// ResolvedTarget is a target bound to its rule and concrete prerequisites.
// A nil Rule means the target is a plain file that must already exist.
type ResolvedTarget struct {
	Name          string
	Rule          *Rule
	Captures      Captures
	Prerequisites []string
	OrderOnly     []string
	Status        Status
}

// IsSource reports whether the target is a plain file with no rule.
func (t *ResolvedTarget) IsSource() bool {
	return t.Rule == nil
}

// IsPhony reports whether the target is produced by a phony rule.
func (t *ResolvedTarget) IsPhony() bool {
	return t.Rule != nil && t.Rule.IsPhony()
}

// Outcome records what the scheduler did with a target.
type Outcome uint8

const (
	// OutcomeUnknown means the build record has not finished.
	OutcomeUnknown Outcome = iota
	// OutcomeSource means the target is a plain file; nothing ran.
	OutcomeSource
	// OutcomeUpToDate means the target was fresh and its action did not run.
	OutcomeUpToDate
	// OutcomeBuilt means the action ran successfully.
	OutcomeBuilt
	// OutcomeFailed means the target or one of its prerequisites failed.
	OutcomeFailed
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeSource:
		return "source"
	case OutcomeUpToDate:
		return "up-to-date"
	case OutcomeBuilt:
		return "built"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// BuildRecord is the once-only build slot of a target.
// Exactly one caller claims it; everyone else waits for Finish.
type BuildRecord struct {
	done    chan struct{}
	outcome Outcome
	err     error
}

// Finish publishes the result and releases waiters. It must be called once, by the owner.
func (b *BuildRecord) Finish(outcome Outcome, err error) {
	b.outcome = outcome
	b.err = err
	close(b.done)
}

// Wait blocks until the owner finishes or ctx is done.
func (b *BuildRecord) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-b.done:
		return b.outcome, b.err
	case <-ctx.Done():
		return OutcomeUnknown, ctx.Err()
	}
}

// BuildSession holds the per-request state: resolved targets and their build records.
// It is created for one build request and discarded afterwards.
type BuildSession struct {
	mu      sync.Mutex
	targets map[InternedString]*ResolvedTarget
	order   []InternedString
	builds  map[InternedString]*BuildRecord
}

// NewBuildSession creates an empty session.
func NewBuildSession() *BuildSession {
	return &BuildSession{
		targets: make(map[InternedString]*ResolvedTarget),
		builds:  make(map[InternedString]*BuildRecord),
	}
}

// Lookup returns the resolution entry for name, if any.
func (s *BuildSession) Lookup(name string) (*ResolvedTarget, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.targets[NewInternedString(name)]
	return t, ok
}

// Begin creates the entry for name and marks it as building.
func (s *BuildSession) Begin(name string) *ResolvedTarget {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := NewInternedString(name)
	t, ok := s.targets[key]
	if !ok {
		t = &ResolvedTarget{Name: name}
		s.targets[key] = t
	}
	t.Status = StatusBuilding
	return t
}

// Complete marks t as done and appends it to the resolution order.
func (s *BuildSession) Complete(t *ResolvedTarget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.Status = StatusDone
	s.order = append(s.order, NewInternedString(t.Name))
}

// Abandon drops an entry whose resolution failed so it is not mistaken for a cycle later.
func (s *BuildSession) Abandon(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.targets, NewInternedString(name))
}

// Claim returns the build record for name. owner is true for exactly one caller per session.
func (s *BuildSession) Claim(name string) (record *BuildRecord, owner bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := NewInternedString(name)
	if b, ok := s.builds[key]; ok {
		return b, false
	}
	b := &BuildRecord{done: make(chan struct{})}
	s.builds[key] = b
	return b, true
}

// Outcome returns the finished outcome of name, or OutcomeUnknown.
func (s *BuildSession) Outcome(name string) Outcome {
	s.mu.Lock()
	b, ok := s.builds[NewInternedString(name)]
	s.mu.Unlock()
	if !ok {
		return OutcomeUnknown
	}
	select {
	case <-b.done:
		return b.outcome
	default:
		return OutcomeUnknown
	}
}

// Len returns how many targets have been resolved.
func (s *BuildSession) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// Walk yields resolved targets with every target after its prerequisites.
func (s *BuildSession) Walk() iter.Seq[*ResolvedTarget] {
	s.mu.Lock()
	snapshot := make([]*ResolvedTarget, 0, len(s.order))
	for _, key := range s.order {
		snapshot = append(snapshot, s.targets[key])
	}
	s.mu.Unlock()

	return func(yield func(*ResolvedTarget) bool) {
		for _, t := range snapshot {
			if !yield(t) {
				return
			}
		}
	}
}

// Close discards the session state.
func (s *BuildSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.targets = make(map[InternedString]*ResolvedTarget)
	s.builds = make(map[InternedString]*BuildRecord)
	s.order = nil
}
