package agent

import (
	"errors"

	"fieldsync/internal/domain/intervention"
	"fieldsync/internal/domain/pending"
)

// ErrBlobNotFound is returned by GetBlob for an unknown key.
var ErrBlobNotFound = errors.New("blob not found")

// Storage is the device-local durable store: cached entity snapshots, the
// pending-mutation queue and a binary blob cache. It must survive restarts and
// offline periods; errors always propagate to the caller, because an enqueue
// that fails silently is a mutation lost forever.
type Storage interface {
	// Entity snapshots. Save upserts by primary key; reads never fail on a
	// miss (nil / empty result instead).
	SaveIntervention(iv *intervention.Intervention) error
	GetIntervention(id int64) (*intervention.Intervention, error)
	ListInterventions() ([]intervention.Intervention, error)
	ReplaceStock(items []intervention.StockItem) error
	ListStock() ([]intervention.StockItem, error)
	SaveVoiceNote(vn *intervention.VoiceNote) error
	ListVoiceNotes(interventionID int64) ([]intervention.VoiceNote, error)

	// Pending-mutation queue. AddPending assigns a monotonic creation-derived
	// id; ListPending returns items in insertion order, which is the delivery
	// attempt order. DeletePending is called only after a confirmed remote
	// success. ClearPending is for destructive resets, never normal sync.
	AddPending(item *pending.Item) error
	ListPending() ([]pending.Item, error)
	CountPending() (int, error)
	DeletePending(id int64) error
	ClearPending() error
	MarkPendingFailed(id int64) error

	// CleanupCorrupted removes items violating the intervention-id invariant
	// and returns how many were purged. Safe to run at any time.
	CleanupCorrupted() (int, error)

	// Blob cache for photos and voice notes.
	PutBlob(key string, data []byte) error
	GetBlob(key string) ([]byte, error)

	Close() error
}
