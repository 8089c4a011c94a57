package scoring

// ScoreSheet holds the raw indicator ratings for every category, keyed by
// category key. Slices are positional: index i is the i-th indicator.
type ScoreSheet map[string][]Rating

// CategoryResult is the aggregate for one category.
type CategoryResult struct {
	Key          string  `json:"key"`
	Name         string  `json:"name"`
	Average      float64 `json:"average"`
	Label        string  `json:"label"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
	Scored       int     `json:"scored"`
	Expected     int     `json:"expected"`
}

// Result is the full aggregate over a score sheet.
type Result struct {
	Categories []CategoryResult `json:"categories"`
	Overall    float64          `json:"overall"`
	Percentage float64          `json:"percentage"`
	Label      string           `json:"label"`
	Verdict    string           `json:"verdict"`
	Complete   bool             `json:"complete"`
}

// CategoryAverage returns the arithmetic mean of the present ratings. Absent
// ratings are excluded from the denominator. Zero present ratings yield 0,
// the "not yet rated" sentinel. The mean is never rounded here; rounding is a
// presentation concern.
func CategoryAverage(ratings []Rating) float64 {
	sum := 0
	count := 0
	for _, r := range ratings {
		if r.Valid {
			sum += r.Value
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}

// Aggregate computes per-category averages, weighted contributions, the
// overall score on the 0-5 scale, its percentage and the PASS/FAIL verdict.
func Aggregate(sheet ScoreSheet) Result {
	result := Result{Categories: make([]CategoryResult, 0, len(Categories)), Complete: true}
	for _, def := range Categories {
		ratings := sheet[def.Key]
		avg := CategoryAverage(ratings)
		scored := presentCount(ratings)
		if scored < def.Indicators {
			result.Complete = false
		}
		contribution := avg * def.Weight
		result.Categories = append(result.Categories, CategoryResult{
			Key:          def.Key,
			Name:         def.Name,
			Average:      avg,
			Label:        AverageLabel(avg),
			Weight:       def.Weight,
			Contribution: contribution,
			Scored:       scored,
			Expected:     def.Indicators,
		})
		result.Overall += contribution
	}
	result.Percentage = result.Overall / float64(MaxIndicatorScore) * 100
	result.Label = AverageLabel(result.Overall)
	// Summing seven weighted terms can land a hair under an exact threshold
	// value; an overall of exactly 3.0 must PASS.
	if result.Overall >= PassThreshold-verdictEpsilon {
		result.Verdict = VerdictPass
	} else {
		result.Verdict = VerdictFail
	}
	return result
}

// Complete reports whether every indicator of every category is present.
// This is the strict pre-submission rule, not the weaker one-per-category
// check implied by a non-zero average.
func Complete(sheet ScoreSheet) bool {
	for _, def := range Categories {
		ratings := sheet[def.Key]
		if presentCount(ratings) < def.Indicators {
			return false
		}
	}
	return true
}

// Validate checks that the sheet only references known categories, that no
// category carries more ratings than the rubric defines, and that every
// present rating is in range.
func Validate(sheet ScoreSheet) error {
	for key, ratings := range sheet {
		def, ok := CategoryByKey(key)
		if !ok {
			return &UnknownCategoryError{Key: key}
		}
		if len(ratings) > def.Indicators {
			return &IndicatorCountError{Key: key, Got: len(ratings), Want: def.Indicators}
		}
		for _, r := range ratings {
			if err := r.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

func presentCount(ratings []Rating) int {
	count := 0
	for _, r := range ratings {
		if r.Valid {
			count++
		}
	}
	return count
}
