package approval

import (
	"errors"
	"testing"
)

func TestEmployeeApproveOnlyFromPending(t *testing.T) {
	next, err := NextOnEmployeeApprove(StatePending)
	if err != nil {
		t.Fatalf("expected transition from pending, got %v", err)
	}
	if next != StateEmployeeApproved {
		t.Fatalf("expected employee_approved, got %s", next)
	}

	for _, state := range []string{StateEmployeeApproved, StateFullyApproved, StateRejected} {
		if _, err := NextOnEmployeeApprove(state); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected invalid transition from %s, got %v", state, err)
		}
	}
}

func TestEvaluatorApproveAlwaysLandsFullyApproved(t *testing.T) {
	for _, state := range []string{StatePending, StateEmployeeApproved, StateEvaluatorApproved, StateFullyApproved} {
		next, err := NextOnEvaluatorApprove(state)
		if err != nil {
			t.Fatalf("expected transition from %s, got %v", state, err)
		}
		if next != StateFullyApproved {
			t.Fatalf("expected fully_approved from %s, got %s", state, next)
		}
	}
	if _, err := NextOnEvaluatorApprove(StateRejected); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition from rejected, got %v", err)
	}
}

func TestRejectGuards(t *testing.T) {
	for _, state := range []string{StatePending, StateEmployeeApproved} {
		next, err := NextOnReject(state)
		if err != nil {
			t.Fatalf("expected rejection from %s, got %v", state, err)
		}
		if next != StateRejected {
			t.Fatalf("expected rejected, got %s", next)
		}
	}
	for _, state := range []string{StateFullyApproved, StateRejected} {
		if _, err := NextOnReject(state); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected invalid transition from %s, got %v", state, err)
		}
	}
}
