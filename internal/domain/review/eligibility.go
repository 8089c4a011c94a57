package review

import "time"

// QuarterStatus reports which regular-review slots are already consumed for
// an employee and year.
type QuarterStatus struct {
	Q1 bool `json:"q1"`
	Q2 bool `json:"q2"`
	Q3 bool `json:"q3"`
	Q4 bool `json:"q4"`
}

func (q QuarterStatus) Used(quarter int) bool {
	switch quarter {
	case 1:
		return q.Q1
	case 2:
		return q.Q2
	case 3:
		return q.Q3
	case 4:
		return q.Q4
	}
	return false
}

func (q *QuarterStatus) mark(quarter int) {
	switch quarter {
	case 1:
		q.Q1 = true
	case 2:
		q.Q2 = true
	case 3:
		q.Q3 = true
	case 4:
		q.Q4 = true
	}
}

// SubmittedSelection is the slice of a historical record the eligibility scan
// needs: its type selection and when it was submitted.
type SubmittedSelection struct {
	Selection   TypeSelection
	SubmittedAt time.Time
}

// QuarterUsage folds submitted regular reviews into a QuarterStatus for the
// target year. A record counts when its submission year matches the target
// year or the year before it: a review filed in January may still belong to
// the prior year's quarter, so the slot stays blocked for both.
func QuarterUsage(history []SubmittedSelection, year int) QuarterStatus {
	var status QuarterStatus
	for _, record := range history {
		quarter, ok := record.Selection.Quarter()
		if !ok {
			continue
		}
		submitted := record.SubmittedAt.Year()
		if submitted == year || submitted == year-1 {
			status.mark(quarter)
		}
	}
	return status
}
