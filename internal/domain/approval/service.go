package approval

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service drives a submitted evaluation through its signature workflow.
// Transition ordering is fixed: record mutation happens before the history
// append, which happens before notification dispatch. Notification failures
// never roll anything back.
type Service struct {
	store    StoreAPI
	notifier Notifier
	locks    *recordLocks
	now      func() time.Time
}

func NewService(store StoreAPI, notifier Notifier) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		locks:    newRecordLocks(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// EmployeeApprove records the employee signature on a pending evaluation.
func (s *Service) EmployeeApprove(ctx context.Context, evaluationID string, sig Signature) (Record, error) {
	unlock := s.locks.lock(evaluationID)
	defer unlock()

	record, err := s.store.GetRecord(ctx, evaluationID)
	if err != nil {
		return Record{}, err
	}
	next, err := NextOnEmployeeApprove(record.Status)
	if err != nil {
		return Record{}, err
	}

	previous := record.Status
	now := s.now()
	record.Status = next
	record.EmployeeSignature = sig.Artifact
	record.EmployeeSignatureDate = &now
	record.EmployeeApprovedAt = &now
	record.EmployeeApprovedBy = sig.ActorName
	record.LastModified = now

	return s.apply(ctx, record, previous, ActionEmployeeApproved, sig)
}

// EvaluatorApprove records the evaluator signature. The postcondition is
// always fully_approved; a prior employee signature is not required.
func (s *Service) EvaluatorApprove(ctx context.Context, evaluationID string, sig Signature) (Record, error) {
	unlock := s.locks.lock(evaluationID)
	defer unlock()

	record, err := s.store.GetRecord(ctx, evaluationID)
	if err != nil {
		return Record{}, err
	}
	next, err := NextOnEvaluatorApprove(record.Status)
	if err != nil {
		return Record{}, err
	}

	previous := record.Status
	now := s.now()
	record.Status = next
	record.EvaluatorSignature = sig.Artifact
	record.EvaluatorSignatureDate = &now
	record.EvaluatorApprovedAt = &now
	record.EvaluatorApprovedBy = sig.ActorName
	record.LastModified = now

	return s.apply(ctx, record, previous, ActionEvaluatorApproved, sig)
}

// Reject terminates the workflow before the evaluator has signed.
func (s *Service) Reject(ctx context.Context, evaluationID, reason, actorName string) (Record, error) {
	unlock := s.locks.lock(evaluationID)
	defer unlock()

	record, err := s.store.GetRecord(ctx, evaluationID)
	if err != nil {
		return Record{}, err
	}
	next, err := NextOnReject(record.Status)
	if err != nil {
		return Record{}, err
	}

	previous := record.Status
	now := s.now()
	record.Status = next
	record.RejectedBy = actorName
	record.RejectedAt = &now
	record.RejectReason = strings.TrimSpace(reason)
	record.LastModified = now

	return s.apply(ctx, record, previous, ActionRejected, Signature{ActorName: actorName, Comments: record.RejectReason})
}

// History returns the approval log for a record, oldest entry first.
func (s *Service) History(ctx context.Context, evaluationID string) ([]HistoryEntry, error) {
	return s.store.ListHistory(ctx, evaluationID)
}

func (s *Service) apply(ctx context.Context, record Record, expectedStatus, action string, sig Signature) (Record, error) {
	if err := s.store.UpdateRecord(ctx, record, expectedStatus); err != nil {
		return Record{}, err
	}

	entry := HistoryEntry{
		ID:           uuid.NewString(),
		EvaluationID: record.ID,
		Action:       action,
		ActorName:    sig.ActorName,
		ActorMail:    sig.ActorMail,
		Comments:     sig.Comments,
		SignatureRef: sig.Artifact,
		CreatedAt:    record.LastModified,
	}
	if err := s.store.AppendHistory(ctx, entry); err != nil {
		// The state change already stands; an unrecorded entry is worth
		// surfacing even though the transition itself succeeded.
		slog.Warn("approval history append failed", "evaluation", record.ID, "action", action, "err", err)
	}

	s.dispatch(ctx, action, record)
	return record, nil
}

func (s *Service) dispatch(ctx context.Context, action string, record Record) {
	if s.notifier == nil {
		return
	}
	for _, event := range eventsFor(action, record) {
		if err := s.notifier.Notify(ctx, event.Message, event.Roles, event.ActionURL); err != nil {
			slog.Warn("approval notification failed", "evaluation", record.ID, "event", event.Type, "err", err)
		}
	}
}
