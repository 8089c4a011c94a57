package approval

import (
	"sync"
	"testing"
)

func TestRecordLocksReleaseEntries(t *testing.T) {
	locks := newRecordLocks()

	unlock := locks.lock("rec-1")
	if len(locks.locks) != 1 {
		t.Fatalf("expected 1 held entry, got %d", len(locks.locks))
	}
	unlock()
	if len(locks.locks) != 0 {
		t.Fatalf("expected entry to be removed after unlock, got %d", len(locks.locks))
	}
}

func TestRecordLocksSurviveContention(t *testing.T) {
	locks := newRecordLocks()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock("rec-contended")
			counter++
			unlock()
		}()
	}
	wg.Wait()

	if counter != 16 {
		t.Fatalf("expected 16 serialized increments, got %d", counter)
	}
	if len(locks.locks) != 0 {
		t.Fatalf("expected empty lock map after all holders released, got %d", len(locks.locks))
	}
}
