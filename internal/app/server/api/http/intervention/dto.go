package intervention

import (
	"time"

	"fieldsync/internal/domain/intervention"
)

type listOutput struct {
	Body listResponse
}

type listResponse struct {
	Interventions []intervention.Intervention `json:"interventions"`
}

type stockOutput struct {
	Body stockResponse
}

type stockResponse struct {
	Items []intervention.StockItem `json:"items"`
}

type timeSpentInput struct {
	ID   int64 `path:"id" example:"42" doc:"Intervention ID"`
	Body timeSpentRequest
}

// Field names follow the mobile wire contract (camelCase).
type timeSpentRequest struct {
	WorkType      string     `json:"workType" minLength:"1" doc:"Work category"`
	DateStart     time.Time  `json:"dateStart" doc:"Start of the time block"`
	DateEnd       *time.Time `json:"dateEnd,omitempty" doc:"End of the time block"`
	DurationHours float64    `json:"durationHours" doc:"Duration in hours"`
	Comment       string     `json:"comment,omitempty"`
	IsManual      bool       `json:"isManual" doc:"True when typed in, false when timed"`
}

type lineInput struct {
	ID   int64 `path:"id" example:"42" doc:"Intervention ID"`
	Body lineRequest
}

type lineRequest struct {
	ProductID int64   `json:"productId" doc:"Stock product ID"`
	QtyUsed   float64 `json:"qtyUsed" doc:"Quantity consumed"`
	Comment   string  `json:"comment,omitempty"`
}

type taskInput struct {
	ID     int64 `path:"id" example:"42" doc:"Intervention ID"`
	TaskID int64 `path:"taskId" example:"3" doc:"Task ID"`
	Body   taskRequest
}

type taskRequest struct {
	TaskID int64  `json:"taskId,omitempty"`
	Status string `json:"status" enum:"a_faire,fait" doc:"New task status"`
}

type photoInput struct {
	ID   int64 `path:"id" example:"42" doc:"Intervention ID"`
	Body photoRequest
}

type photoRequest struct {
	Base64   string `json:"base64" minLength:"1" doc:"Base64-encoded image"`
	Type     string `json:"type" enum:"avant,pendant,apres,oibt,defaut" doc:"Photo kind"`
	Filename string `json:"filename" minLength:"1"`
}

type signatureInput struct {
	ID   int64 `path:"id" example:"42" doc:"Intervention ID"`
	Body signatureRequest
}

type signatureRequest struct {
	SignatureBase64 string `json:"signatureBase64" minLength:"1" doc:"Base64-encoded signature image"`
	SignerName      string `json:"signerName" minLength:"1"`
}

type updateInput struct {
	ID   int64 `path:"id" example:"42" doc:"Intervention ID"`
	Body updateRequest
}

type updateRequest struct {
	NotePrivate string `json:"note_private" doc:"Private technician note"`
}

type output struct {
	Body response
}

type response struct {
	ID     int64  `json:"id,omitempty"`
	Status string `json:"status"`
}
