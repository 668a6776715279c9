package intervention

import "errors"

var (
	ErrNotFound     = errors.New("intervention not found")
	ErrTaskNotFound = errors.New("task not found")
	ErrInvalidInput = errors.New("invalid input")
)
