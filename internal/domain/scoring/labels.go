package scoring

// IndicatorLabel maps a discrete 1..5 indicator score to its display label.
// This scale is intentionally separate from AverageLabel: a raw score of 3
// reads "Meets Expectations" while a category average of 3.0 falls in the
// "Needs Improvement" band. Both call sites depend on that difference, so the
// two functions must not be merged.
func IndicatorLabel(value int) string {
	switch value {
	case 5:
		return LabelOutstanding
	case 4:
		return LabelExceeds
	case 3:
		return LabelMeets
	case 2:
		return LabelNeedsImprovement
	case 1:
		return LabelUnsatisfactory
	default:
		return LabelNotRated
	}
}

// AverageLabel maps an aggregate average to its rating band. An average of 0
// means no indicator has been scored yet and is reported as "Not Rated"
// rather than falling through to the Unsatisfactory band.
func AverageLabel(avg float64) string {
	switch {
	case avg == 0:
		return LabelNotRated
	case avg >= 4.5:
		return LabelOutstanding
	case avg >= 4.0:
		return LabelExceeds
	case avg >= 3.5:
		return LabelMeets
	case avg >= 2.5:
		return LabelNeedsImprovement
	default:
		return LabelUnsatisfactory
	}
}
