package intervention

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"fieldsync/internal/domain/intervention"
)

type Handler struct {
	service    intervention.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service intervention.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.stockOp(), h.stock)
	huma.Register(api, h.addTimeSpentOp(), h.addTimeSpent)
	huma.Register(api, h.addLineOp(), h.addLine)
	huma.Register(api, h.updateTaskOp(), h.updateTask)
	huma.Register(api, h.uploadPhotoOp(), h.uploadPhoto)
	huma.Register(api, h.saveSignatureOp(), h.saveSignature)
	huma.Register(api, h.updateOp(), h.update)
}

func (h *Handler) list(ctx context.Context, _ *struct{}) (*listOutput, error) {
	interventions, err := h.service.List(ctx)
	if err != nil {
		return nil, err
	}

	return &listOutput{
		Body: listResponse{Interventions: interventions},
	}, nil
}

func (h *Handler) stock(ctx context.Context, _ *struct{}) (*stockOutput, error) {
	items, err := h.service.ListStock(ctx)
	if err != nil {
		return nil, err
	}

	return &stockOutput{
		Body: stockResponse{Items: items},
	}, nil
}

func (h *Handler) addTimeSpent(ctx context.Context, input *timeSpentInput) (*output, error) {
	entry := &intervention.TimeEntry{
		InterventionID: input.ID,
		WorkType:       input.Body.WorkType,
		DateEnd:        input.Body.DateEnd,
		DurationHours:  input.Body.DurationHours,
		Comment:        input.Body.Comment,
		IsManual:       input.Body.IsManual,
	}
	if !input.Body.DateStart.IsZero() {
		start := input.Body.DateStart
		entry.DateStart = &start
	}

	id, err := h.service.AddTimeEntry(ctx, entry)
	if err != nil {
		return nil, mapServiceError(err)
	}

	return &output{
		Body: response{ID: id, Status: "Ok"},
	}, nil
}

func (h *Handler) addLine(ctx context.Context, input *lineInput) (*output, error) {
	line := &intervention.Line{
		InterventionID: input.ID,
		ProductID:      input.Body.ProductID,
		QtyUsed:        input.Body.QtyUsed,
		Comment:        input.Body.Comment,
	}

	id, err := h.service.AddLine(ctx, line)
	if err != nil {
		return nil, mapServiceError(err)
	}

	return &output{
		Body: response{ID: id, Status: "Ok"},
	}, nil
}

func (h *Handler) updateTask(ctx context.Context, input *taskInput) (*output, error) {
	err := h.service.UpdateTask(ctx, input.ID, input.TaskID, input.Body.Status)
	if err != nil {
		return nil, mapServiceError(err)
	}

	return &output{
		Body: response{ID: input.TaskID, Status: "Ok"},
	}, nil
}

func (h *Handler) uploadPhoto(ctx context.Context, input *photoInput) (*output, error) {
	data, err := base64.StdEncoding.DecodeString(input.Body.Base64)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity("invalid base64 data: " + err.Error())
	}

	photo := &intervention.Photo{
		InterventionID: input.ID,
		Kind:           input.Body.Type,
		Filename:       input.Body.Filename,
		Data:           data,
	}

	id, err := h.service.AddPhoto(ctx, photo)
	if err != nil {
		return nil, mapServiceError(err)
	}

	return &output{
		Body: response{ID: id, Status: "Ok"},
	}, nil
}

func (h *Handler) saveSignature(ctx context.Context, input *signatureInput) (*output, error) {
	data, err := base64.StdEncoding.DecodeString(input.Body.SignatureBase64)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity("invalid base64 data: " + err.Error())
	}

	sig := &intervention.Signature{
		InterventionID: input.ID,
		SignerName:     input.Body.SignerName,
		Data:           data,
		SignedAt:       time.Now(),
	}

	if err := h.service.SaveSignature(ctx, sig); err != nil {
		return nil, mapServiceError(err)
	}

	return &output{
		Body: response{ID: input.ID, Status: "Ok"},
	}, nil
}

func (h *Handler) update(ctx context.Context, input *updateInput) (*output, error) {
	err := h.service.UpdateNote(ctx, input.ID, input.Body.NotePrivate)
	if err != nil {
		return nil, mapServiceError(err)
	}

	return &output{
		Body: response{ID: input.ID, Status: "Ok"},
	}, nil
}

func mapServiceError(err error) error {
	switch {
	case errors.Is(err, intervention.ErrInvalidInput):
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.Is(err, intervention.ErrNotFound), errors.Is(err, intervention.ErrTaskNotFound):
		return huma.Error404NotFound(err.Error())
	default:
		return err
	}
}
