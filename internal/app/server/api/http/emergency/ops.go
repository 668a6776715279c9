package emergency

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) createOp() huma.Operation {
	return huma.Operation{
		OperationID: "emergencies-create",
		Method:      http.MethodPost,
		Path:        "/api/v1/emergencies",
		Summary:     "Broadcast an emergency",
		Description: "Opens an emergency intervention with a bonus, visible to every connected technician.",
		Tags:        []string{"emergencies"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "emergencies-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/emergencies",
		Summary:     "List emergencies",
		Description: "Lists emergencies, filterable by status (status=open for the claimable ones).",
		Tags:        []string{"emergencies"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) findOp() huma.Operation {
	return huma.Operation{
		OperationID: "emergencies-find",
		Method:      http.MethodGet,
		Path:        "/api/v1/emergencies/{id}",
		Summary:     "Get an emergency",
		Tags:        []string{"emergencies"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) claimOp() huma.Operation {
	return huma.Operation{
		OperationID: "emergencies-claim",
		Method:      http.MethodPost,
		Path:        "/api/v1/emergencies/{id}/claim",
		Summary:     "Claim an emergency",
		Description: "First come, first served. The outcome is decided atomically server-side; a race loss is a 200 with success=false, never an error.",
		Tags:        []string{"emergencies"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) completeOp() huma.Operation {
	return huma.Operation{
		OperationID: "emergencies-complete",
		Method:      http.MethodPost,
		Path:        "/api/v1/emergencies/{id}/complete",
		Summary:     "Complete a claimed emergency",
		Tags:        []string{"emergencies"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) cancelOp() huma.Operation {
	return huma.Operation{
		OperationID: "emergencies-cancel",
		Method:      http.MethodPost,
		Path:        "/api/v1/emergencies/{id}/cancel",
		Summary:     "Cancel an emergency",
		Tags:        []string{"emergencies"},
		Middlewares: h.middleware,
	}
}
