package request

import (
	"sync"

	"go.uber.org/zap"
)

// deliveryQueue runs callbacks one at a time, in submission order, on a
// single goroutine. The backlog is unbounded so Transport goroutines never
// block on a slow callback.
type deliveryQueue struct {
	log *zap.Logger

	mu     sync.Mutex
	items  []func()
	closed bool
	wake   chan struct{}
	done   chan struct{}
}

func newDeliveryQueue(log *zap.Logger) *deliveryQueue {
	q := &deliveryQueue{
		log:  log,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go q.run()
	return q
}

// post schedules fn. It reports false once the queue is closed.
func (q *deliveryQueue) post(fn func()) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, fn)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return true
}

func (q *deliveryQueue) run() {
	defer close(q.done)
	for {
		q.mu.Lock()
		if len(q.items) == 0 {
			if q.closed {
				q.mu.Unlock()
				return
			}
			q.mu.Unlock()
			<-q.wake
			continue
		}
		fn := q.items[0]
		q.items[0] = nil
		q.items = q.items[1:]
		q.mu.Unlock()

		q.invoke(fn)
	}
}

func (q *deliveryQueue) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			q.log.Error("Callback panicked", zap.Any("panic", r))
		}
	}()
	fn()
}

// close stops accepting work, runs the backlog and waits for it.
func (q *deliveryQueue) close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.done
		return
	}
	q.closed = true
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	<-q.done
}
