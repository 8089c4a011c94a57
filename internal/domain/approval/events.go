package approval

import (
	"fmt"

	"appraisal/internal/domain/auth"
)

const (
	EventEmployeeApproved  = "approval.employee_approved"
	EventEvaluatorApproved = "approval.evaluator_approved"
	EventFullyApproved     = "approval.fully_approved"
	EventRejected          = "approval.rejected"
)

// Event is emitted by the workflow after a transition has been persisted.
// Delivery is best-effort: the transition never rolls back when a consumer
// fails.
type Event struct {
	Type         string   `json:"type"`
	EvaluationID string   `json:"evaluationId"`
	Message      string   `json:"message"`
	Roles        []string `json:"roles"`
	ActionURL    string   `json:"actionUrl"`
}

func eventsFor(action string, record Record) []Event {
	url := fmt.Sprintf("/evaluations/%s", record.ID)
	switch action {
	case ActionEmployeeApproved:
		return []Event{{
			Type:         EventEmployeeApproved,
			EvaluationID: record.ID,
			Message:      "An employee has signed their performance evaluation.",
			Roles:        []string{auth.RoleHR, auth.RoleAdmin},
			ActionURL:    url,
		}}
	case ActionEvaluatorApproved:
		// Evaluator approval always completes the workflow, so the approval
		// notice is followed by the fully-approved fan-out.
		return []Event{
			{
				Type:         EventEvaluatorApproved,
				EvaluationID: record.ID,
				Message:      "An evaluator has signed a performance evaluation.",
				Roles:        []string{auth.RoleHR, auth.RoleAdmin},
				ActionURL:    url,
			},
			{
				Type:         EventFullyApproved,
				EvaluationID: record.ID,
				Message:      "A performance evaluation is fully approved.",
				Roles:        []string{auth.RoleHR, auth.RoleAdmin, auth.RoleEmployee, auth.RoleEvaluator},
				ActionURL:    url,
			},
		}
	case ActionRejected:
		return []Event{{
			Type:         EventRejected,
			EvaluationID: record.ID,
			Message:      "A performance evaluation was rejected.",
			Roles:        []string{auth.RoleHR, auth.RoleAdmin, auth.RoleEvaluator},
			ActionURL:    url,
		}}
	}
	return nil
}
