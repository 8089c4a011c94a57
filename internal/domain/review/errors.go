package review

import "errors"

var (
	ErrNotFound             = errors.New("evaluation not found")
	ErrNotDraft             = errors.New("evaluation is no longer a draft")
	ErrNotEvaluator         = errors.New("only the assigned evaluator may modify a draft")
	ErrIncompleteScores     = errors.New("every indicator must be scored before submission")
	ErrNoTypeSelected       = errors.New("a review type must be selected before submission")
	ErrUnknownMember        = errors.New("unknown review type member")
	ErrConflictingSelection = errors.New("review type groups are mutually exclusive")
	ErrQuarterUsed          = errors.New("quarter already has a regular review for this employee")
)
