package approval

const (
	StatePending           = "pending"
	StateEmployeeApproved  = "employee_approved"
	StateEvaluatorApproved = "evaluator_approved"
	StateFullyApproved     = "fully_approved"
	StateRejected          = "rejected"
)

const (
	ActionEmployeeApproved  = "employee_approved"
	ActionEvaluatorApproved = "evaluator_approved"
	ActionRejected          = "rejected"
)
