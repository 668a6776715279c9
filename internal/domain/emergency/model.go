package emergency

import "time"

// Status of an emergency intervention. Forward-only state machine:
// open -> claimed -> {completed | cancelled}, plus open -> cancelled for an
// admin abort before anyone claims.
type Status string

const (
	StatusOpen      Status = "open"
	StatusClaimed   Status = "claimed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusClaimed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether moving from s to target is legal.
func (s Status) CanTransition(target Status) bool {
	switch s {
	case StatusOpen:
		return target == StatusClaimed || target == StatusCancelled
	case StatusClaimed:
		return target == StatusCompleted || target == StatusCancelled
	default:
		return false
	}
}

// Emergency is an urgent intervention broadcast to all technicians with a
// first-come-first-served bonus. Intervention fields are denormalized copies so
// the claim workflow never joins against the intervention domain.
type Emergency struct {
	ID                int64      `json:"id"`
	InterventionID    int64      `json:"intervention_id"`
	InterventionRef   string     `json:"intervention_ref"`
	InterventionLabel string     `json:"intervention_label"`
	ClientName        string     `json:"client_name"`
	Location          string     `json:"location"`
	Description       string     `json:"description"`
	BonusAmount       float64    `json:"bonus_amount"`
	Currency          string     `json:"currency"`
	Status            Status     `json:"status"`
	ClaimedByUserID   string     `json:"claimed_by_user_id,omitempty"`
	ClaimedByUserName string     `json:"claimed_by_user_name,omitempty"`
	ClaimedAt         *time.Time `json:"claimed_at,omitempty"`
	CreatedByUserID   string     `json:"created_by_user_id"`
	CreatedByUserName string     `json:"created_by_user_name"`
	CreatedAt         time.Time  `json:"created_at"`
}

// ClaimResult is the outcome of a claim attempt. Exactly one of N concurrent
// attempts gets Success; the rest get the same structured failure.
type ClaimResult struct {
	Success     bool       `json:"success"`
	Error       string     `json:"error,omitempty"`
	BonusAmount float64    `json:"bonus_amount,omitempty"`
	Emergency   *Emergency `json:"emergency,omitempty"`
}
