package progrock

import (
	"errors"
	"sync"

	"github.com/vito/progrock"
)

var _ progrock.Writer = (*Fanout)(nil)

// Fanout copies status updates to a changing set of writers.
type Fanout struct {
	mu      sync.Mutex
	writers []progrock.Writer
	closed  bool
}

// NewFanout creates a Fanout over ws.
func NewFanout(ws ...progrock.Writer) *Fanout {
	return &Fanout{writers: ws}
}

// Add subscribes w. Adding to a closed Fanout closes w right away.
func (f *Fanout) Add(w progrock.Writer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		_ = w.Close()
		return
	}
	f.writers = append(f.writers, w)
}

// WriteStatus forwards update to every writer and joins their errors.
func (f *Fanout) WriteStatus(update *progrock.StatusUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}

	var errs error
	for _, w := range f.writers {
		errs = errors.Join(errs, w.WriteStatus(update))
	}
	return errs
}

// Close closes every writer once.
func (f *Fanout) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true

	var errs error
	for _, w := range f.writers {
		errs = errors.Join(errs, w.Close())
	}
	return errs
}
