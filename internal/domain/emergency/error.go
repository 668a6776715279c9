package emergency

import "errors"

var (
	ErrNotFound          = errors.New("emergency not found")
	ErrAlreadyClaimed    = errors.New("emergency already claimed")
	ErrIllegalTransition = errors.New("illegal emergency status transition")
	ErrInvalidInput      = errors.New("invalid emergency input")
)
