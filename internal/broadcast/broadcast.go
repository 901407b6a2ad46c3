// ABOUTME: Single-producer multi-consumer broadcast channel
// ABOUTME: Every subscriber receives every published value

package broadcast

import "sync"

// Broadcaster fans values out to any number of subscribers. Publish never
// blocks the producer: a subscriber that has fallen behind by more than its
// buffer loses the oldest pending value, which is acceptable for the
// reconciliation signals this carries (the payload says "reload", not what
// changed).
type Broadcaster[T any] struct {
	mu   sync.Mutex
	subs map[chan T]struct{}
}

const subscriberBuffer = 16

// New creates an empty broadcaster.
func New[T any]() *Broadcaster[T] {
	return &Broadcaster[T]{subs: make(map[chan T]struct{})}
}

// Subscribe registers a new listener. The returned cancel func removes the
// subscription and closes the channel; it is safe to call more than once.
func (b *Broadcaster[T]) Subscribe() (<-chan T, func()) {
	ch := make(chan T, subscriberBuffer)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers v to every current subscriber.
func (b *Broadcaster[T]) Publish(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs {
		select {
		case ch <- v:
		default:
			// drop oldest, keep newest
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- v:
			default:
			}
		}
	}
}

// Len returns the current subscriber count.
func (b *Broadcaster[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
