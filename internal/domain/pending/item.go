package pending

import "time"

// Item is one not-yet-acknowledged mutation queued on the device.
//
// An item exists in the queue if and only if its remote mutation has not been
// acknowledged; it is removed strictly after a successful remote response.
type Item struct {
	ID             int64     `json:"id"`
	Kind           Kind      `json:"type"`
	InterventionID int64     `json:"interventionId"`
	Payload        Payload   `json:"data"`
	CreatedAt      time.Time `json:"createdAt"`
	RetryCount     int       `json:"retryCount,omitempty"`
}

// Corrupt reports whether the item fails the intervention reference invariant
// and is therefore purge-eligible.
func (i Item) Corrupt() bool {
	return i.InterventionID <= 0
}

// Validate checks the item envelope and its payload.
func (i Item) Validate() error {
	if !i.Kind.Valid() {
		return ErrUnknownKind
	}
	if i.Corrupt() {
		return ErrCorruptItem
	}
	if i.Payload == nil {
		return ErrInvalidPayload
	}
	return i.Payload.Validate()
}
