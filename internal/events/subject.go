package events

import "sync"

// Subject is a broadcast value holder with replay-latest semantics.
//
// A new subscriber immediately receives the current value, then every later
// one. Each subscriber has a single-slot buffer: when it falls behind, the
// unread value is replaced by the newer one, so publishing never blocks and a
// subscriber always ends up holding the latest value.
type Subject[T any] struct {
	mu     sync.Mutex
	value  T
	subs   map[uint64]chan T
	nextID uint64
	closed bool
}

// NewSubject creates a Subject holding initial.
func NewSubject[T any](initial T) *Subject[T] {
	return &Subject[T]{
		value: initial,
		subs:  make(map[uint64]chan T),
	}
}

// Value returns the current value.
func (s *Subject[T]) Value() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Publish replaces the current value and pushes it to every subscriber.
// Publishing on a closed Subject only updates Value.
func (s *Subject[T]) Publish(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.value = v
	for _, ch := range s.subs {
		offer(ch, v)
	}
}

// Update applies fn to the current value and publishes the result atomically.
func (s *Subject[T]) Update(fn func(T) T) T {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.value = fn(s.value)
	for _, ch := range s.subs {
		offer(ch, s.value)
	}
	return s.value
}

// offer delivers v into a single-slot channel, dropping a stale unread value.
// Callers hold the subject lock, so no other sender can refill the slot.
func offer[T any](ch chan T, v T) {
	select {
	case <-ch:
	default:
	}
	ch <- v
}

// Subscribe registers a new subscriber. The returned Subscription's channel
// already holds the current value. On a closed Subject the channel is closed
// right after the replayed value.
func (s *Subject[T]) Subscribe() *Subscription[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan T, 1)
	ch <- s.value

	if s.closed {
		close(ch)
		return &Subscription[T]{C: ch, cancel: func() {}}
	}

	id := s.nextID
	s.nextID++
	s.subs[id] = ch

	sub := &Subscription[T]{C: ch}
	sub.cancel = func() { s.unsubscribe(id) }
	return sub
}

func (s *Subject[T]) unsubscribe(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ch, ok := s.subs[id]; ok {
		delete(s.subs, id)
		close(ch)
	}
}

// SubscriberCount returns the number of live subscriptions.
func (s *Subject[T]) SubscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Close closes every subscriber channel. Later subscribers get the last
// value followed by a closed channel.
func (s *Subject[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

// Subscription is one registration on a Subject.
type Subscription[T any] struct {
	// C delivers the replayed value and every later one. It is closed by
	// Unsubscribe or when the Subject closes.
	C <-chan T

	once   sync.Once
	cancel func()
}

// Unsubscribe stops delivery and closes C. It is safe to call more than once.
func (s *Subscription[T]) Unsubscribe() {
	s.once.Do(s.cancel)
}
