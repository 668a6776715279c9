package emergency

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"fieldsync/internal/domain/emergency"
)

type Handler struct {
	service    emergency.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service emergency.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.createOp(), h.create)
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.findOp(), h.find)
	huma.Register(api, h.claimOp(), h.claim)
	huma.Register(api, h.completeOp(), h.complete)
	huma.Register(api, h.cancelOp(), h.cancel)
}

func (h *Handler) create(ctx context.Context, input *createInput) (*createOutput, error) {
	em, err := h.service.Create(ctx, emergency.CreateRequest{
		InterventionID:    input.Body.InterventionID,
		InterventionRef:   input.Body.InterventionRef,
		InterventionLabel: input.Body.InterventionLabel,
		ClientName:        input.Body.ClientName,
		Location:          input.Body.Location,
		Description:       input.Body.Description,
		BonusAmount:       input.Body.BonusAmount,
		Currency:          input.Body.Currency,
		CreatedByUserID:   input.Body.CreatedByUserID,
		CreatedByUserName: input.Body.CreatedByUserName,
	})
	if err != nil {
		return nil, mapServiceError(err)
	}

	return &createOutput{Body: *em}, nil
}

func (h *Handler) list(ctx context.Context, input *listInput) (*listOutput, error) {
	var (
		emergencies []emergency.Emergency
		err         error
	)

	if input.Status == string(emergency.StatusOpen) {
		emergencies, err = h.service.ListOpen(ctx)
	} else {
		emergencies, err = h.service.List(ctx)
	}
	if err != nil {
		return nil, err
	}

	return &listOutput{
		Body: listResponse{Emergencies: emergencies},
	}, nil
}

func (h *Handler) find(ctx context.Context, input *findInput) (*findOutput, error) {
	em, err := h.service.Get(ctx, input.ID)
	if err != nil {
		return nil, mapServiceError(err)
	}

	return &findOutput{Body: *em}, nil
}

// claim always answers 200 for a decided race: the loser gets success=false so
// the client can show "already taken" without treating it as a failure.
func (h *Handler) claim(ctx context.Context, input *claimInput) (*claimOutput, error) {
	result, err := h.service.Claim(ctx, input.ID, input.Body.UserID, input.Body.UserName)
	if err != nil {
		return nil, mapServiceError(err)
	}

	return &claimOutput{Body: *result}, nil
}

func (h *Handler) complete(ctx context.Context, input *findInput) (*findOutput, error) {
	em, err := h.service.Complete(ctx, input.ID)
	if err != nil {
		return nil, mapServiceError(err)
	}

	return &findOutput{Body: *em}, nil
}

func (h *Handler) cancel(ctx context.Context, input *findInput) (*findOutput, error) {
	em, err := h.service.Cancel(ctx, input.ID)
	if err != nil {
		return nil, mapServiceError(err)
	}

	return &findOutput{Body: *em}, nil
}

func mapServiceError(err error) error {
	switch {
	case errors.Is(err, emergency.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, emergency.ErrInvalidInput):
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.Is(err, emergency.ErrIllegalTransition):
		return huma.Error409Conflict(err.Error())
	default:
		return err
	}
}
