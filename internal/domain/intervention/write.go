package intervention

import "time"

// Task statuses use the same wire values the mobile clients send.
const (
	TaskStatusTodo = "a_faire"
	TaskStatusDone = "fait"
)

// Photo kinds accepted on upload.
const (
	PhotoBefore = "avant"
	PhotoDuring = "pendant"
	PhotoAfter  = "apres"
	PhotoOIBT   = "oibt"
	PhotoDefect = "defaut"
)

func ValidTaskStatus(status string) bool {
	return status == TaskStatusTodo || status == TaskStatusDone
}

func ValidPhotoKind(kind string) bool {
	switch kind {
	case PhotoBefore, PhotoDuring, PhotoAfter, PhotoOIBT, PhotoDefect:
		return true
	}
	return false
}

// TimeEntry is one block of time booked against an intervention.
type TimeEntry struct {
	ID             int64      `json:"id"`
	InterventionID int64      `json:"intervention_id"`
	WorkType       string     `json:"work_type"`
	DateStart      *time.Time `json:"date_start,omitempty"`
	DateEnd        *time.Time `json:"date_end,omitempty"`
	DurationHours  float64    `json:"duration_hours"`
	Comment        string     `json:"comment,omitempty"`
	IsManual       bool       `json:"is_manual"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Line is a material consumption line on an intervention.
type Line struct {
	ID             int64     `json:"id"`
	InterventionID int64     `json:"intervention_id"`
	ProductID      int64     `json:"product_id"`
	QtyUsed        float64   `json:"qty_used"`
	Comment        string    `json:"comment,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Task is a checklist entry on an intervention.
type Task struct {
	ID             int64  `json:"id"`
	InterventionID int64  `json:"intervention_id"`
	Label          string `json:"label"`
	Status         string `json:"status"`
}

// Photo is an uploaded site photo. Data holds the decoded image bytes.
type Photo struct {
	ID             int64     `json:"id"`
	InterventionID int64     `json:"intervention_id"`
	Kind           string    `json:"kind"`
	Filename       string    `json:"filename"`
	Data           []byte    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// Signature is the client sign-off captured on site. At most one per
// intervention; a re-upload replaces the previous one.
type Signature struct {
	ID             int64     `json:"id"`
	InterventionID int64     `json:"intervention_id"`
	SignerName     string    `json:"signer_name"`
	Data           []byte    `json:"-"`
	SignedAt       time.Time `json:"signed_at"`
}
