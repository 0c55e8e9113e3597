package event

import (
	"context"
	"sync"
)

// DefaultBufferSize is the event channel capacity. Sized so a briefly
// busy subscriber does not stall lifecycle delivery.
const DefaultBufferSize = 256

// Publisher fans a batch's event stream out to a single subscriber
// channel. Lifecycle events (started/finished) are delivered reliably;
// progress events are dropped when the buffer is full so a slow
// subscriber can never block the download loop.
//
// Publisher is single-producer: Close must be called by the same
// goroutine that publishes, after the terminal event.
type Publisher struct {
	ch     chan Event
	mu     sync.Mutex
	closed bool
}

// NewPublisher creates a Publisher with the given buffer capacity;
// capacity <= 0 uses DefaultBufferSize.
func NewPublisher(buffer int) *Publisher {
	if buffer <= 0 {
		buffer = DefaultBufferSize
	}
	return &Publisher{ch: make(chan Event, buffer)}
}

// Events returns the subscriber channel. The channel is closed by Close
// after the terminal event has been published.
func (p *Publisher) Events() <-chan Event {
	return p.ch
}

// Publish delivers a lifecycle event, waiting for buffer space unless
// the context is cancelled first.
func (p *Publisher) Publish(ctx context.Context, e Event) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	select {
	case p.ch <- e:
	case <-ctx.Done():
	}
}

// TryPublish delivers an event only if buffer space is available.
// Returns false when the event was dropped.
func (p *Publisher) TryPublish(e Event) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	select {
	case p.ch <- e:
		return true
	default:
		return false
	}
}

// Close closes the subscriber channel. Publish and TryPublish become
// no-ops afterwards.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.ch)
}
