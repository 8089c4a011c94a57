package approval

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type memStore struct {
	mu      sync.Mutex
	records map[string]Record
	history []HistoryEntry
}

func newMemStore(records ...Record) *memStore {
	store := &memStore{records: make(map[string]Record)}
	for _, record := range records {
		store.records[record.ID] = record
	}
	return store
}

func (m *memStore) GetRecord(_ context.Context, id string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return record, nil
}

func (m *memStore) UpdateRecord(_ context.Context, record Record, expectedStatus string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.records[record.ID]
	if !ok {
		return ErrNotFound
	}
	if current.Status != expectedStatus {
		return ErrConflict
	}
	m.records[record.ID] = record
	return nil
}

func (m *memStore) AppendHistory(_ context.Context, entry HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = append(m.history, entry)
	return nil
}

func (m *memStore) ListHistory(_ context.Context, id string) ([]HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var entries []HistoryEntry
	for _, entry := range m.history {
		if entry.EvaluationID == id {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

type failingNotifier struct {
	calls int
}

func (n *failingNotifier) Notify(context.Context, string, []string, string) error {
	n.calls++
	return errors.New("smtp down")
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
	roles    [][]string
}

func (n *recordingNotifier) Notify(_ context.Context, message string, roles []string, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	n.roles = append(n.roles, roles)
	return nil
}

func pendingRecord(id string) Record {
	return Record{ID: id, EmployeeID: "emp-1", EvaluatorID: "eva-1", Status: StatePending}
}

func TestEmployeeApproveStampsAndLogs(t *testing.T) {
	store := newMemStore(pendingRecord("ev-1"))
	notifier := &recordingNotifier{}
	svc := NewService(store, notifier)

	record, err := svc.EmployeeApprove(context.Background(), "ev-1", Signature{
		Artifact:  "sig://employee/1",
		ActorName: "Dana Cruz",
		ActorMail: "dana@example.com",
		Comments:  "agreed",
	})
	if err != nil {
		t.Fatalf("employee approve failed: %v", err)
	}
	if record.Status != StateEmployeeApproved {
		t.Fatalf("expected employee_approved, got %s", record.Status)
	}
	if record.EmployeeSignature != "sig://employee/1" || record.EmployeeApprovedBy != "Dana Cruz" {
		t.Fatalf("signature fields not stamped: %+v", record)
	}
	if record.EmployeeSignatureDate == nil || record.EmployeeApprovedAt == nil {
		t.Fatal("signature timestamps not stamped")
	}
	if record.LastModified.IsZero() {
		t.Fatal("lastModified not updated")
	}

	history, _ := svc.History(context.Background(), "ev-1")
	if len(history) != 1 || history[0].Action != ActionEmployeeApproved {
		t.Fatalf("expected one employee_approved entry, got %+v", history)
	}
	if history[0].SignatureRef != "sig://employee/1" || history[0].Comments != "agreed" {
		t.Fatalf("history entry missing signature details: %+v", history[0])
	}
	if len(notifier.messages) != 1 {
		t.Fatalf("expected one notification, got %d", len(notifier.messages))
	}
}

func TestEvaluatorFirstApprovalJumpsToFullyApproved(t *testing.T) {
	store := newMemStore(pendingRecord("ev-1"))
	notifier := &recordingNotifier{}
	svc := NewService(store, notifier)

	record, err := svc.EvaluatorApprove(context.Background(), "ev-1", Signature{ActorName: "Sam Reyes"})
	if err != nil {
		t.Fatalf("evaluator approve failed: %v", err)
	}
	if record.Status != StateFullyApproved {
		t.Fatalf("expected fully_approved, got %s", record.Status)
	}
	// Approval notice plus the fully-approved fan-out.
	if len(notifier.messages) != 2 {
		t.Fatalf("expected two notifications, got %d", len(notifier.messages))
	}
	fanout := notifier.roles[1]
	if len(fanout) != 4 {
		t.Fatalf("expected fan-out to all four roles, got %v", fanout)
	}
}

func TestEvaluatorApproveTwiceAppendsTwoEntries(t *testing.T) {
	store := newMemStore(pendingRecord("ev-1"))
	svc := NewService(store, nil)

	if _, err := svc.EvaluatorApprove(context.Background(), "ev-1", Signature{ActorName: "Sam"}); err != nil {
		t.Fatalf("first approve failed: %v", err)
	}
	record, err := svc.EvaluatorApprove(context.Background(), "ev-1", Signature{ActorName: "Sam"})
	if err != nil {
		t.Fatalf("second approve failed: %v", err)
	}
	if record.Status != StateFullyApproved {
		t.Fatalf("expected fully_approved, got %s", record.Status)
	}
	history, _ := svc.History(context.Background(), "ev-1")
	if len(history) != 2 {
		t.Fatalf("expected two history entries, got %d", len(history))
	}
}

func TestRejectFromFullyApprovedFails(t *testing.T) {
	store := newMemStore(pendingRecord("ev-1"))
	svc := NewService(store, nil)

	if _, err := svc.EvaluatorApprove(context.Background(), "ev-1", Signature{ActorName: "Sam"}); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if _, err := svc.Reject(context.Background(), "ev-1", "late", "HR"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected terminal-state guard, got %v", err)
	}
	history, _ := svc.History(context.Background(), "ev-1")
	if len(history) != 1 {
		t.Fatalf("failed transition must not append history, got %d entries", len(history))
	}
}

func TestRejectRecordsReason(t *testing.T) {
	store := newMemStore(pendingRecord("ev-1"))
	svc := NewService(store, nil)

	record, err := svc.Reject(context.Background(), "ev-1", "  scores disputed  ", "HR Admin")
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if record.Status != StateRejected {
		t.Fatalf("expected rejected, got %s", record.Status)
	}
	if record.RejectReason != "scores disputed" || record.RejectedBy != "HR Admin" {
		t.Fatalf("rejection details not recorded: %+v", record)
	}
	if _, err := svc.EmployeeApprove(context.Background(), "ev-1", Signature{ActorName: "Dana"}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected rejected to be terminal, got %v", err)
	}
}

func TestNotificationFailureDoesNotRollBack(t *testing.T) {
	store := newMemStore(pendingRecord("ev-1"))
	notifier := &failingNotifier{}
	svc := NewService(store, notifier)

	record, err := svc.EmployeeApprove(context.Background(), "ev-1", Signature{ActorName: "Dana"})
	if err != nil {
		t.Fatalf("approve must succeed despite notifier failure: %v", err)
	}
	if record.Status != StateEmployeeApproved {
		t.Fatalf("expected employee_approved, got %s", record.Status)
	}
	if notifier.calls == 0 {
		t.Fatal("notifier was never invoked")
	}
	history, _ := svc.History(context.Background(), "ev-1")
	if len(history) != 1 {
		t.Fatalf("history must survive notification failure, got %d entries", len(history))
	}
}

func TestConcurrentApprovalsAreSerialized(t *testing.T) {
	store := newMemStore(pendingRecord("ev-1"))
	svc := NewService(store, nil)

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.EvaluatorApprove(context.Background(), "ev-1", Signature{ActorName: "Sam"}); err != nil {
				t.Errorf("concurrent approve failed: %v", err)
			}
		}()
	}
	wg.Wait()

	record, err := svc.store.GetRecord(context.Background(), "ev-1")
	if err != nil {
		t.Fatalf("get record failed: %v", err)
	}
	if record.Status != StateFullyApproved {
		t.Fatalf("expected fully_approved, got %s", record.Status)
	}
	history, _ := svc.History(context.Background(), "ev-1")
	if len(history) != workers {
		t.Fatalf("expected %d history entries, got %d", workers, len(history))
	}
}
