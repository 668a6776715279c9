package pending

import "errors"

var (
	ErrUnknownKind    = errors.New("unknown pending mutation kind")
	ErrInvalidPayload = errors.New("invalid pending mutation payload")
	ErrCorruptItem    = errors.New("corrupt pending item")
	ErrItemNotFound   = errors.New("pending item not found")
)
