package review

import (
	"context"
	"time"
)

type StoreAPI interface {
	CreateEvaluation(ctx context.Context, id string, draft Draft, createdAt time.Time) error
	UpdateDraft(ctx context.Context, id string, draft Draft, updatedAt time.Time) error
	GetEvaluation(ctx context.Context, id string) (Evaluation, error)
	ListEvaluations(ctx context.Context, filter ListFilter) ([]Evaluation, error)
	// SubmitEvaluation moves a draft into the approval pipeline, persisting the
	// computed aggregate. It must guard on the draft status and report
	// ErrNotDraft when the record has already been submitted.
	SubmitEvaluation(ctx context.Context, id string, overall, percentage float64, verdict string, submittedAt time.Time) error
	// ListSubmittedSelections returns the type selection and submission time of
	// every non-draft evaluation for the employee.
	ListSubmittedSelections(ctx context.Context, employeeID string) ([]SubmittedSelection, error)
}
