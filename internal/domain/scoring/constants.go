package scoring

const (
	// PassThreshold is the minimum overall score for a PASS verdict.
	PassThreshold = 3.0

	// RegularizationPercent is the percentage-of-maximum threshold quoted in
	// the probationary regularization policy. It is informational only and is
	// not part of the PASS/FAIL computation.
	RegularizationPercent = 55.0

	MinIndicatorScore = 1
	MaxIndicatorScore = 5

	verdictEpsilon = 1e-9
)

const (
	LabelOutstanding      = "Outstanding"
	LabelExceeds          = "Exceeds Expectations"
	LabelMeets            = "Meets Expectations"
	LabelNeedsImprovement = "Needs Improvement"
	LabelUnsatisfactory   = "Unsatisfactory"
	LabelNotRated         = "Not Rated"
)

const (
	VerdictPass = "PASS"
	VerdictFail = "FAIL"
)

const (
	CategoryJobKnowledge  = "job_knowledge"
	CategoryQualityOfWork = "quality_of_work"
	CategoryAdaptability  = "adaptability"
	CategoryTeamwork      = "teamwork"
	CategoryReliability   = "reliability"
	CategoryEthics        = "ethical_professional"
	CategoryCustomer      = "customer_service"
)

type CategoryDef struct {
	Key        string
	Name       string
	Indicators int
	Weight     float64
}

// Categories is the fixed scoring rubric. Weights sum to 1.00.
var Categories = []CategoryDef{
	{Key: CategoryJobKnowledge, Name: "Job Knowledge", Indicators: 3, Weight: 0.20},
	{Key: CategoryQualityOfWork, Name: "Quality of Work", Indicators: 5, Weight: 0.20},
	{Key: CategoryAdaptability, Name: "Adaptability", Indicators: 3, Weight: 0.10},
	{Key: CategoryTeamwork, Name: "Teamwork", Indicators: 3, Weight: 0.10},
	{Key: CategoryReliability, Name: "Reliability", Indicators: 4, Weight: 0.05},
	{Key: CategoryEthics, Name: "Ethical & Professional Behavior", Indicators: 4, Weight: 0.05},
	{Key: CategoryCustomer, Name: "Customer Service", Indicators: 5, Weight: 0.30},
}

// CategoryByKey returns the rubric entry for key, or false when unknown.
func CategoryByKey(key string) (CategoryDef, bool) {
	for _, def := range Categories {
		if def.Key == key {
			return def, true
		}
	}
	return CategoryDef{}, false
}
