package progress

import (
	"io"
	"sync"
)

// Queue holds preformatted messages produced while a bar is being redrawn
// in place. Writing them immediately would tear the bar, so they are
// released in order once the bar completes.
type Queue struct {
	mu    sync.Mutex
	items []string
}

// Push appends msg. Empty messages are ignored.
func (q *Queue) Push(msg string) {
	if msg == "" {
		return
	}
	q.mu.Lock()
	q.items = append(q.items, msg)
	q.mu.Unlock()
}

// Len returns the number of pending messages.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Flush writes every pending message to w in the order they were pushed and
// empties the queue. The queue is emptied even if w fails part way.
func (q *Queue) Flush(w io.Writer) (int, error) {
	q.mu.Lock()
	items := q.items
	q.items = nil
	q.mu.Unlock()

	var firstErr error
	for _, msg := range items {
		if _, err := io.WriteString(w, msg); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return len(items), firstErr
}
