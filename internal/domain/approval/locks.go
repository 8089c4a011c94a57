package approval

import "sync"

// recordLocks serializes transitions per evaluation record. Two concurrent
// approvals of the same record would otherwise race on the signature stamps;
// the optimistic status guard in the store catches cross-process writers, the
// lock keeps in-process callers ordered. Entries are reference counted and
// removed once the last holder unlocks, so the map stays bounded by the
// number of records currently in flight.
type recordLocks struct {
	mu    sync.Mutex
	locks map[string]*recordLock
}

type recordLock struct {
	mu   sync.Mutex
	refs int
}

func newRecordLocks() *recordLocks {
	return &recordLocks{locks: make(map[string]*recordLock)}
}

func (l *recordLocks) lock(id string) func() {
	l.mu.Lock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &recordLock{}
		l.locks[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
