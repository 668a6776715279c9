// Package intervention holds the read-side snapshots the agent caches locally.
// Snapshots are refreshed wholesale from the backend: the latest fetched copy
// fully replaces the prior one per entity id, never a field-by-field merge.
package intervention

import "time"

// Intervention is a job assigned to a technician.
type Intervention struct {
	ID          int64      `json:"id"`
	Ref         string     `json:"ref"`
	Label       string     `json:"label"`
	ClientName  string     `json:"client_name"`
	Location    string     `json:"location"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	NotePrivate string     `json:"note_private,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// StockItem is one product line of the technician's vehicle stock.
type StockItem struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
}

// VoiceNote is a recorded note attached to an intervention; audio bytes live in
// the blob cache, keyed by BlobKey.
type VoiceNote struct {
	ID             int64     `json:"id"`
	InterventionID int64     `json:"intervention_id"`
	BlobKey        string    `json:"blob_key"`
	DurationSec    int       `json:"duration_sec"`
	Transcript     string    `json:"transcript,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
