// Package events provides the ordered lifecycle event stream.
package events

import (
	"sync"

	"go.trai.ch/rewatch/internal/core/domain"
)

// Stream is an unbounded, append-only queue of lifecycle events with a single consumer.
// Publish never blocks: events are buffered until the consumer receives them,
// so nothing published before the consumer attaches is lost.
type Stream struct {
	mu     sync.Mutex
	queue  []domain.Event
	closed bool

	wake chan struct{}
	out  chan domain.Event
}

// NewStream creates a stream and starts its delivery goroutine.
func NewStream() *Stream {
	s := &Stream{
		wake: make(chan struct{}, 1),
		out:  make(chan domain.Event),
	}
	go s.pump()
	return s
}

// Publish appends an event. Events published after Close are dropped.
func (s *Stream) Publish(event domain.Event) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, event)
	s.mu.Unlock()

	s.signal()
}

// Events returns the delivery channel. It is closed after Close once every
// previously published event has been received.
func (s *Stream) Events() <-chan domain.Event {
	return s.out
}

// Close stops accepting events.
func (s *Stream) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.signal()
}

func (s *Stream) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Stream) pump() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			closed := s.closed
			s.mu.Unlock()
			if closed {
				close(s.out)
				return
			}
			<-s.wake
			continue
		}
		event := s.queue[0]
		s.queue[0] = domain.Event{}
		s.queue = s.queue[1:]
		s.mu.Unlock()

		s.out <- event
	}
}
