package review

import (
	"time"

	"appraisal/internal/domain/scoring"
)

// Evaluation is one performance review record. Core scores are mutable only
// while the record is a draft; after submission only the approval fields
// change, and the record is never deleted here.
type Evaluation struct {
	ID            string             `json:"id"`
	EmployeeID    string             `json:"employeeId"`
	EvaluatorID   string             `json:"evaluatorId"`
	PeriodStart   time.Time          `json:"periodStart"`
	PeriodEnd     time.Time          `json:"periodEnd"`
	Scores        scoring.ScoreSheet `json:"scores"`
	Comments      map[string]string  `json:"comments,omitempty"`
	Selection     TypeSelection      `json:"selection"`
	PriorityNotes string             `json:"priorityNotes,omitempty"`
	Remarks       string             `json:"remarks,omitempty"`
	Status        string             `json:"status"`
	Overall       float64            `json:"overall"`
	Percentage    float64            `json:"percentage"`
	Verdict       string             `json:"verdict,omitempty"`
	SubmittedAt   *time.Time         `json:"submittedAt,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// Draft carries the evaluator-editable fields of a record.
type Draft struct {
	EmployeeID    string
	EvaluatorID   string
	PeriodStart   time.Time
	PeriodEnd     time.Time
	Scores        scoring.ScoreSheet
	Comments      map[string]string
	Selection     TypeSelection
	PriorityNotes string
	Remarks       string
}

// ListFilter narrows List queries.
type ListFilter struct {
	EmployeeID  string
	EvaluatorID string
	Status      string
	Limit       int
	Offset      int
}
