package review

const (
	StatusDraft = "draft"

	GroupProbationary = "probationary"
	GroupRegular      = "regular"
	GroupOthers       = "others"

	MemberProbation3Month = "3_month"
	MemberProbation5Month = "5_month"
	MemberQ1              = "q1"
	MemberQ2              = "q2"
	MemberQ3              = "q3"
	MemberQ4              = "q4"
	MemberImprovement     = "improvement"
	MemberCustom          = "custom"
)
