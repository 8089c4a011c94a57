package review

import (
	"fmt"
	"strings"
)

// TypeSelection classifies the occasion of a review. The three groups are
// mutually exclusive: choosing any member wipes the other two groups, and at
// most one member within a group may be active.
type TypeSelection struct {
	Probation3Month bool   `json:"probation3Month"`
	Probation5Month bool   `json:"probation5Month"`
	Q1              bool   `json:"q1"`
	Q2              bool   `json:"q2"`
	Q3              bool   `json:"q3"`
	Q4              bool   `json:"q4"`
	Improvement     bool   `json:"improvement"`
	Custom          string `json:"custom,omitempty"`
}

// Select activates one member and clears everything else. A regular-quarter
// member already reported used for the employee and year is rejected with no
// state change. For group "others" with member "custom", custom carries the
// free-text label.
func (s *TypeSelection) Select(group, member, custom string, used QuarterStatus) error {
	next := TypeSelection{}
	switch group {
	case GroupProbationary:
		switch member {
		case MemberProbation3Month:
			next.Probation3Month = true
		case MemberProbation5Month:
			next.Probation5Month = true
		default:
			return ErrUnknownMember
		}
	case GroupRegular:
		quarter, ok := quarterOf(member)
		if !ok {
			return ErrUnknownMember
		}
		if used.Used(quarter) {
			return ErrQuarterUsed
		}
		switch quarter {
		case 1:
			next.Q1 = true
		case 2:
			next.Q2 = true
		case 3:
			next.Q3 = true
		case 4:
			next.Q4 = true
		}
	case GroupOthers:
		switch member {
		case MemberImprovement:
			next.Improvement = true
		case MemberCustom:
			if strings.TrimSpace(custom) == "" {
				return ErrUnknownMember
			}
			next.Custom = strings.TrimSpace(custom)
		default:
			return ErrUnknownMember
		}
	default:
		return ErrUnknownMember
	}
	*s = next
	return nil
}

// ClearAll resets every flag and the custom label. Always permitted.
func (s *TypeSelection) ClearAll() {
	*s = TypeSelection{}
}

func (s TypeSelection) IsProbationary() bool {
	return s.Probation3Month || s.Probation5Month
}

func (s TypeSelection) IsRegular() bool {
	return s.Q1 || s.Q2 || s.Q3 || s.Q4
}

func (s TypeSelection) IsOthers() bool {
	return s.Improvement || strings.TrimSpace(s.Custom) != ""
}

// Validate rejects selections carrying more than one active member, which
// can only arise from hand-built payloads; Select never produces one.
func (s TypeSelection) Validate() error {
	active := 0
	for _, flag := range []bool{s.Probation3Month, s.Probation5Month, s.Q1, s.Q2, s.Q3, s.Q4, s.Improvement} {
		if flag {
			active++
		}
	}
	if strings.TrimSpace(s.Custom) != "" {
		active++
	}
	if active > 1 {
		return ErrConflictingSelection
	}
	return nil
}

// Active reports whether any review type has been chosen.
func (s TypeSelection) Active() bool {
	return s.IsProbationary() || s.IsRegular() || s.IsOthers()
}

// Quarter returns the selected regular quarter, or false when the selection
// is not a regular review.
func (s TypeSelection) Quarter() (int, bool) {
	switch {
	case s.Q1:
		return 1, true
	case s.Q2:
		return 2, true
	case s.Q3:
		return 3, true
	case s.Q4:
		return 4, true
	}
	return 0, false
}

// Describe returns a short human label for the active selection, used by
// notifications and the PDF export.
func (s TypeSelection) Describe() string {
	switch {
	case s.Probation3Month:
		return "Probationary (3-month)"
	case s.Probation5Month:
		return "Probationary (5-month)"
	case s.Improvement:
		return "Performance Improvement"
	case strings.TrimSpace(s.Custom) != "":
		return s.Custom
	}
	if quarter, ok := s.Quarter(); ok {
		return fmt.Sprintf("Regular Q%d", quarter)
	}
	return "Unclassified"
}

func quarterOf(member string) (int, bool) {
	switch member {
	case MemberQ1:
		return 1, true
	case MemberQ2:
		return 2, true
	case MemberQ3:
		return 3, true
	case MemberQ4:
		return 4, true
	}
	return 0, false
}
