package auth

const (
	RoleAdmin     = "admin"
	RoleHR        = "hr"
	RoleEvaluator = "evaluator"
	RoleEmployee  = "employee"
)

// CanManageEvaluations reports whether the role may create, edit and submit
// evaluation drafts.
func CanManageEvaluations(role string) bool {
	return role == RoleAdmin || role == RoleHR || role == RoleEvaluator
}

// CanViewAll reports whether the role may list every evaluation rather than
// only its own.
func CanViewAll(role string) bool {
	return role == RoleAdmin || role == RoleHR
}

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleHR, RoleEvaluator, RoleEmployee:
		return true
	}
	return false
}
