package review

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"appraisal/internal/domain/scoring"
)

type Service struct {
	store StoreAPI
	now   func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// CreateDraft opens a new evaluation session for an evaluator.
func (s *Service) CreateDraft(ctx context.Context, draft Draft) (Evaluation, error) {
	if err := s.validateDraft(ctx, draft); err != nil {
		return Evaluation{}, err
	}
	id := uuid.NewString()
	if err := s.store.CreateEvaluation(ctx, id, draft, s.now()); err != nil {
		return Evaluation{}, fmt.Errorf("create evaluation: %w", err)
	}
	return s.store.GetEvaluation(ctx, id)
}

// UpdateDraft replaces the editable fields of a draft. Only the assigned
// evaluator may modify it, and only before submission.
func (s *Service) UpdateDraft(ctx context.Context, id, actorUserID string, draft Draft) (Evaluation, error) {
	current, err := s.store.GetEvaluation(ctx, id)
	if err != nil {
		return Evaluation{}, err
	}
	if current.Status != StatusDraft {
		return Evaluation{}, ErrNotDraft
	}
	if actorUserID != "" && current.EvaluatorID != actorUserID {
		return Evaluation{}, ErrNotEvaluator
	}
	draft.EmployeeID = current.EmployeeID
	draft.EvaluatorID = current.EvaluatorID
	if err := s.validateDraft(ctx, draft); err != nil {
		return Evaluation{}, err
	}
	if err := s.store.UpdateDraft(ctx, id, draft, s.now()); err != nil {
		return Evaluation{}, fmt.Errorf("update evaluation: %w", err)
	}
	return s.store.GetEvaluation(ctx, id)
}

func (s *Service) Get(ctx context.Context, id string) (Evaluation, error) {
	return s.store.GetEvaluation(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Evaluation, error) {
	return s.store.ListEvaluations(ctx, filter)
}

// Submit freezes a complete draft and hands it to the approval workflow. The
// strict completeness rule applies: every indicator of every category scored
// and a review type selected.
func (s *Service) Submit(ctx context.Context, id, actorUserID string) (Evaluation, error) {
	current, err := s.store.GetEvaluation(ctx, id)
	if err != nil {
		return Evaluation{}, err
	}
	if current.Status != StatusDraft {
		return Evaluation{}, ErrNotDraft
	}
	if actorUserID != "" && current.EvaluatorID != actorUserID {
		return Evaluation{}, ErrNotEvaluator
	}
	if !scoring.Complete(current.Scores) {
		return Evaluation{}, ErrIncompleteScores
	}
	if !current.Selection.Active() {
		return Evaluation{}, ErrNoTypeSelected
	}
	if quarter, ok := current.Selection.Quarter(); ok {
		status := s.QuarterStatus(ctx, current.EmployeeID, s.now().Year())
		if status.Used(quarter) {
			return Evaluation{}, ErrQuarterUsed
		}
	}

	result := scoring.Aggregate(current.Scores)
	if err := s.store.SubmitEvaluation(ctx, id, result.Overall, result.Percentage, result.Verdict, s.now()); err != nil {
		return Evaluation{}, err
	}
	return s.store.GetEvaluation(ctx, id)
}

// Result recomputes the full aggregate for a record. The stored overall and
// verdict are a submission snapshot; presentation always derives the
// breakdown from the raw score sheet.
func (s *Service) Result(ctx context.Context, id string) (Evaluation, scoring.Result, error) {
	record, err := s.store.GetEvaluation(ctx, id)
	if err != nil {
		return Evaluation{}, scoring.Result{}, err
	}
	return record, scoring.Aggregate(record.Scores), nil
}

// QuarterStatus reports which regular-review quarters are already consumed
// for the employee and year. The scan fails open: when history cannot be
// read the caller sees no conflicts rather than a blocked workflow.
func (s *Service) QuarterStatus(ctx context.Context, employeeID string, year int) QuarterStatus {
	history, err := s.store.ListSubmittedSelections(ctx, employeeID)
	if err != nil {
		slog.Warn("quarter eligibility scan failed, assuming all slots free", "employee", employeeID, "year", year, "err", err)
		return QuarterStatus{}
	}
	return QuarterUsage(history, year)
}

// SelectType applies a review-type choice to a draft, enforcing group
// exclusivity and the used-quarter guard.
func (s *Service) SelectType(ctx context.Context, id, actorUserID, group, member, custom string) (Evaluation, error) {
	current, err := s.store.GetEvaluation(ctx, id)
	if err != nil {
		return Evaluation{}, err
	}
	if current.Status != StatusDraft {
		return Evaluation{}, ErrNotDraft
	}
	if actorUserID != "" && current.EvaluatorID != actorUserID {
		return Evaluation{}, ErrNotEvaluator
	}

	used := QuarterStatus{}
	if group == GroupRegular {
		used = s.QuarterStatus(ctx, current.EmployeeID, s.now().Year())
	}
	selection := current.Selection
	if err := selection.Select(group, member, custom, used); err != nil {
		return Evaluation{}, err
	}

	draft := draftOf(current)
	draft.Selection = selection
	if err := s.store.UpdateDraft(ctx, id, draft, s.now()); err != nil {
		return Evaluation{}, fmt.Errorf("update selection: %w", err)
	}
	return s.store.GetEvaluation(ctx, id)
}

func (s *Service) validateDraft(ctx context.Context, draft Draft) error {
	if err := scoring.Validate(draft.Scores); err != nil {
		return err
	}
	if quarter, ok := draft.Selection.Quarter(); ok && draft.EmployeeID != "" {
		status := s.QuarterStatus(ctx, draft.EmployeeID, s.now().Year())
		if status.Used(quarter) {
			return ErrQuarterUsed
		}
	}
	return nil
}

func draftOf(record Evaluation) Draft {
	return Draft{
		EmployeeID:    record.EmployeeID,
		EvaluatorID:   record.EvaluatorID,
		PeriodStart:   record.PeriodStart,
		PeriodEnd:     record.PeriodEnd,
		Scores:        record.Scores,
		Comments:      record.Comments,
		Selection:     record.Selection,
		PriorityNotes: record.PriorityNotes,
		Remarks:       record.Remarks,
	}
}
