package application

import "sync"

// Ledger is the bounded set of alert identities already observed. It exists
// only to gate notification delivery: an id stays marked for the process
// lifetime even after its alert leaves the active collection, so a
// reappearing event cannot re-notify. When the capacity is exceeded the
// oldest-inserted entries are evicted first, never arbitrary ones.
type Ledger struct {
	mu       sync.Mutex
	capacity int
	order    []string
	seen     map[string]struct{}
}

// NewLedger constructs a ledger holding at most capacity identities.
func NewLedger(capacity int) *Ledger {
	if capacity <= 0 {
		capacity = 512
	}
	return &Ledger{
		capacity: capacity,
		seen:     make(map[string]struct{}, capacity),
	}
}

// Observe inserts id and reports whether it was newly observed.
func (l *Ledger) Observe(id string) bool {
	if id == "" {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.seen[id]; ok {
		return false
	}
	l.seen[id] = struct{}{}
	l.order = append(l.order, id)
	for len(l.order) > l.capacity {
		oldest := l.order[0]
		l.order = l.order[1:]
		delete(l.seen, oldest)
	}
	return true
}

// Contains reports whether id has been observed and not yet evicted.
func (l *Ledger) Contains(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.seen[id]
	return ok
}

// Len returns the number of tracked identities.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.order)
}
