package approval

import "context"

// StoreAPI persists approval state and the append-only history log. The
// history is injected rather than process-global so the workflow itself stays
// stateless.
type StoreAPI interface {
	GetRecord(ctx context.Context, evaluationID string) (Record, error)
	// UpdateRecord persists the mutated approval fields. It must compare the
	// stored status against expectedStatus and return ErrConflict on mismatch.
	UpdateRecord(ctx context.Context, record Record, expectedStatus string) error
	AppendHistory(ctx context.Context, entry HistoryEntry) error
	ListHistory(ctx context.Context, evaluationID string) ([]HistoryEntry, error)
}

// Notifier delivers a transition notification to every user holding one of
// the given roles. Implementations own delivery mechanics and retries; the
// workflow only logs failures.
type Notifier interface {
	Notify(ctx context.Context, message string, roles []string, actionURL string) error
}
