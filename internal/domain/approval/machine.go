package approval

// NextOnEmployeeApprove validates and resolves the employee-approval
// transition. Only a pending record may gain the employee signature.
func NextOnEmployeeApprove(current string) (string, error) {
	if current != StatePending {
		return "", ErrInvalidTransition
	}
	return StateEmployeeApproved, nil
}

// NextOnEvaluatorApprove validates and resolves the evaluator-approval
// transition. Any non-rejected record lands on fully_approved, including an
// evaluator-first approval and a repeat approval of an already fully
// approved record; the repeat still appends its own history entry.
func NextOnEvaluatorApprove(current string) (string, error) {
	if current == StateRejected {
		return "", ErrInvalidTransition
	}
	return StateFullyApproved, nil
}

// NextOnReject validates the rejection transition. Rejection is terminal and
// only reachable before the evaluator has signed.
func NextOnReject(current string) (string, error) {
	if current != StatePending && current != StateEmployeeApproved {
		return "", ErrInvalidTransition
	}
	return StateRejected, nil
}
