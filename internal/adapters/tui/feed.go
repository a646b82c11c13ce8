package tui

import (
	"io"
	"sync"

	"github.com/vito/progrock"
)

var _ progrock.Writer = (*Feed)(nil)

// Feed queues status updates for a single reader. Writers never block.
type Feed struct {
	mu     sync.Mutex
	queue  []*progrock.StatusUpdate
	closed bool
	ready  chan struct{}
}

// NewFeed creates an empty Feed.
func NewFeed() *Feed {
	return &Feed{ready: make(chan struct{}, 1)}
}

// WriteStatus queues update. Updates written after Close are dropped.
func (f *Feed) WriteStatus(update *progrock.StatusUpdate) error {
	f.mu.Lock()
	if !f.closed {
		f.queue = append(f.queue, update)
	}
	f.mu.Unlock()
	f.notify()
	return nil
}

// Close ends the feed. Queued updates can still be read.
func (f *Feed) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	f.notify()
	return nil
}

// Read returns the next queued update, blocking until one arrives. It returns io.EOF once the feed is closed and drained.
func (f *Feed) Read() (*progrock.StatusUpdate, error) {
	for {
		f.mu.Lock()
		if len(f.queue) > 0 {
			update := f.queue[0]
			f.queue[0] = nil
			f.queue = f.queue[1:]
			f.mu.Unlock()
			return update, nil
		}
		closed := f.closed
		f.mu.Unlock()

		if closed {
			return nil, io.EOF
		}
		<-f.ready
	}
}

func (f *Feed) notify() {
	select {
	case f.ready <- struct{}{}:
	default:
	}
}
