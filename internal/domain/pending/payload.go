package pending

import (
	"encoding/json"
	"fmt"
	"time"
)

// Payload is the kind-specific body of a pending mutation. One struct per kind,
// matching the wire contract of the remote gateway operation it maps to.
type Payload interface {
	Kind() Kind
	Validate() error
}

// HourPayload records time spent on an intervention.
type HourPayload struct {
	WorkType      string     `json:"workType"`
	DateStart     time.Time  `json:"dateStart"`
	DateEnd       *time.Time `json:"dateEnd,omitempty"`
	DurationHours float64    `json:"durationHours"`
	Comment       string     `json:"comment,omitempty"`
	IsManual      bool       `json:"isManual"`
}

func (HourPayload) Kind() Kind { return KindHour }

func (p HourPayload) Validate() error {
	if p.WorkType == "" {
		return fmt.Errorf("%w: missing workType", ErrInvalidPayload)
	}
	if p.DateStart.IsZero() {
		return fmt.Errorf("%w: missing dateStart", ErrInvalidPayload)
	}
	if p.DurationHours < 0 {
		return fmt.Errorf("%w: negative duration", ErrInvalidPayload)
	}
	return nil
}

// MaterialPayload adds a material line consumed from vehicle stock.
type MaterialPayload struct {
	ProductID int64   `json:"productId"`
	QtyUsed   float64 `json:"qtyUsed"`
	Comment   string  `json:"comment,omitempty"`
}

func (MaterialPayload) Kind() Kind { return KindMaterial }

func (p MaterialPayload) Validate() error {
	if p.ProductID <= 0 {
		return fmt.Errorf("%w: missing productId", ErrInvalidPayload)
	}
	if p.QtyUsed <= 0 {
		return fmt.Errorf("%w: qtyUsed must be positive", ErrInvalidPayload)
	}
	return nil
}

// TaskPayload changes the status of an intervention task.
type TaskPayload struct {
	TaskID int64      `json:"taskId"`
	Status TaskStatus `json:"status"`
}

func (TaskPayload) Kind() Kind { return KindTask }

func (p TaskPayload) Validate() error {
	if p.TaskID <= 0 {
		return fmt.Errorf("%w: missing taskId", ErrInvalidPayload)
	}
	if !p.Status.Valid() {
		return fmt.Errorf("%w: task status %q", ErrInvalidPayload, p.Status)
	}
	return nil
}

// PhotoPayload uploads a captured photo (base64, as captured by the device).
type PhotoPayload struct {
	Base64   string    `json:"base64"`
	Type     PhotoKind `json:"type"`
	Filename string    `json:"filename"`
}

func (PhotoPayload) Kind() Kind { return KindPhoto }

func (p PhotoPayload) Validate() error {
	if p.Base64 == "" {
		return fmt.Errorf("%w: empty photo data", ErrInvalidPayload)
	}
	if !p.Type.Valid() {
		return fmt.Errorf("%w: photo type %q", ErrInvalidPayload, p.Type)
	}
	if p.Filename == "" {
		return fmt.Errorf("%w: missing filename", ErrInvalidPayload)
	}
	return nil
}

// SignaturePayload stores the client's sign-off for an intervention.
type SignaturePayload struct {
	SignatureBase64 string `json:"signatureBase64"`
	SignerName      string `json:"signerName"`
}

func (SignaturePayload) Kind() Kind { return KindSignature }

func (p SignaturePayload) Validate() error {
	if p.SignatureBase64 == "" {
		return fmt.Errorf("%w: empty signature data", ErrInvalidPayload)
	}
	if p.SignerName == "" {
		return fmt.Errorf("%w: missing signer name", ErrInvalidPayload)
	}
	return nil
}

// NotePayload updates the private note field of an intervention.
type NotePayload struct {
	NotePrivate string `json:"note_private"`
}

func (NotePayload) Kind() Kind { return KindNote }

func (p NotePayload) Validate() error {
	return nil
}

// DecodePayload rebuilds the typed payload from its stored JSON form.
func DecodePayload(kind Kind, raw json.RawMessage) (Payload, error) {
	var (
		p   Payload
		err error
	)

	switch kind {
	case KindHour:
		var v HourPayload
		err = json.Unmarshal(raw, &v)
		p = v
	case KindMaterial:
		var v MaterialPayload
		err = json.Unmarshal(raw, &v)
		p = v
	case KindTask:
		var v TaskPayload
		err = json.Unmarshal(raw, &v)
		p = v
	case KindPhoto:
		var v PhotoPayload
		err = json.Unmarshal(raw, &v)
		p = v
	case KindSignature:
		var v SignaturePayload
		err = json.Unmarshal(raw, &v)
		p = v
	case KindNote:
		var v NotePayload
		err = json.Unmarshal(raw, &v)
		p = v
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	if err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", kind, err)
	}

	return p, nil
}
