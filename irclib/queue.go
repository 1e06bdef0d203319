package irclib

import (
	"sync"

	"github.com/emirpasic/gods/queues/linkedlistqueue"
)

// Queue is an unbounded FIFO safe for concurrent use. Push never blocks
// beyond lock contention and Pop never waits for an item.
type Queue[T any] struct {
	mu    sync.Mutex
	inner *linkedlistqueue.Queue
}

func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{inner: linkedlistqueue.New()}
}

func (q *Queue[T]) Push(item T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.inner.Enqueue(item)
}

func (q *Queue[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	v, ok := q.inner.Dequeue()
	if !ok {
		return zero, false
	}
	return v.(T), true
}

func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.inner.Size()
}

func (q *Queue[T]) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.inner.Clear()
}
