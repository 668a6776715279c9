package push

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) subscribeOp() huma.Operation {
	return huma.Operation{
		OperationID: "push-subscribe",
		Method:      http.MethodPost,
		Path:        "/api/v1/push/subscriptions",
		Summary:     "Register a web push subscription",
		Description: "Upserts by endpoint so a refreshed subscription replaces the old keys.",
		Tags:        []string{"push"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) unsubscribeOp() huma.Operation {
	return huma.Operation{
		OperationID: "push-unsubscribe",
		Method:      http.MethodDelete,
		Path:        "/api/v1/push/subscriptions",
		Summary:     "Remove a web push subscription",
		Tags:        []string{"push"},
		Middlewares: h.middleware,
	}
}
