package progress

import "sync"

// Aggregate accumulates completed bytes over a batch of downloads so that
// one percentage can describe the whole batch. It is shared by every
// download stream of the batch and serialises its own updates.
//
// A batch total of 0 means "no batch in progress".
type Aggregate struct {
	mu        sync.Mutex
	completed int64
	total     int64
}

// NewAggregate creates an empty tracker.
func NewAggregate() *Aggregate {
	return &Aggregate{}
}

// SetTotal announces the size of the next batch. A total of 0 marks the end
// of a batch and clears the completed counter as well.
func (a *Aggregate) SetTotal(total int64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.total = total
	if total == 0 {
		a.completed = 0
	}
}

// Consider reports whether aggregate mode can be used for an item of
// itemTotal bytes. Inconsistent numbers (the batch would overflow its
// announced size) reset the tracker to "no batch" instead of failing.
func (a *Aggregate) Consider(itemTotal int64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.total == 0 {
		return false
	}
	if a.completed+itemTotal <= a.total {
		return true
	}
	a.completed = 0
	a.total = 0
	return false
}

// Complete adds a finished item to the completed counter.
func (a *Aggregate) Complete(itemTotal int64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.completed += itemTotal
}

// Snapshot returns the completed bytes and the batch total.
func (a *Aggregate) Snapshot() (completed, total int64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.completed, a.total
}

// Percent returns the batch percentage once itemDone bytes of the current
// item are in, or 0 when no batch is in progress.
func (a *Aggregate) Percent(itemDone int64) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.total <= 0 {
		return 0
	}
	return int((a.completed + itemDone) * 100 / a.total)
}
