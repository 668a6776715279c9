package push

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"fieldsync/internal/domain/push"
)

type Handler struct {
	service    push.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service push.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.subscribeOp(), h.subscribe)
	huma.Register(api, h.unsubscribeOp(), h.unsubscribe)
}

func (h *Handler) subscribe(ctx context.Context, input *subscribeInput) (*output, error) {
	err := h.service.Subscribe(ctx, &push.Subscription{
		UserID:   input.Body.UserID,
		Endpoint: input.Body.Endpoint,
		P256dh:   input.Body.P256dh,
		Auth:     input.Body.Auth,
	})
	if err != nil {
		if errors.Is(err, push.ErrInvalidSubscription) {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		return nil, err
	}

	return &output{Body: response{Status: "Ok"}}, nil
}

func (h *Handler) unsubscribe(ctx context.Context, input *unsubscribeInput) (*output, error) {
	if err := h.service.Unsubscribe(ctx, input.Body.Endpoint); err != nil {
		if errors.Is(err, push.ErrInvalidSubscription) {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		return nil, err
	}

	return &output{Body: response{Status: "Ok"}}, nil
}
