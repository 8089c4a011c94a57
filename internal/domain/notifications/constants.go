package notifications

const (
	TypeEvaluationSubmitted = "evaluation_submitted"
	TypeApprovalUpdate      = "approval_update"
)
