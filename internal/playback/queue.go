package playback

import "sync"

// eventQueue runs callbacks one at a time on its own goroutine, in the
// order they were pushed. push never blocks, so resources can report
// events while the session lock is held by the caller.
type eventQueue struct {
	mu      sync.Mutex
	items   []func()
	stopped bool

	wake chan struct{}
	done chan struct{}
	once sync.Once
}

func newEventQueue() *eventQueue {
	q := &eventQueue{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *eventQueue) push(fn func()) bool {
	q.mu.Lock()
	if q.stopped {
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

func (q *eventQueue) pop() func() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 || q.stopped {
		return nil
	}
	fn := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return fn
}

func (q *eventQueue) run() {
	for {
		select {
		case <-q.done:
			return
		case <-q.wake:
		}
		for fn := q.pop(); fn != nil; fn = q.pop() {
			fn()
		}
	}
}

// flush waits until everything pushed before it has run.
func (q *eventQueue) flush() {
	ch := make(chan struct{})
	if !q.push(func() { close(ch) }) {
		return
	}
	select {
	case <-ch:
	case <-q.done:
	}
}

func (q *eventQueue) stop() {
	q.once.Do(func() {
		q.mu.Lock()
		q.stopped = true
		q.items = nil
		q.mu.Unlock()
		close(q.done)
	})
}
