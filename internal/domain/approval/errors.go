package approval

import "errors"

var (
	ErrNotFound          = errors.New("approval record not found")
	ErrInvalidTransition = errors.New("transition not allowed from current state")
	ErrConflict          = errors.New("record changed while applying transition")
)
