package intervention

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "interventions-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/interventions",
		Summary:     "List interventions",
		Description: "Returns the interventions assigned to the technician, used as the offline snapshot source.",
		Tags:        []string{"interventions"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) stockOp() huma.Operation {
	return huma.Operation{
		OperationID: "stock-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/stock",
		Summary:     "List vehicle stock",
		Tags:        []string{"stock"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) addTimeSpentOp() huma.Operation {
	return huma.Operation{
		OperationID: "interventions-add-timespent",
		Method:      http.MethodPost,
		Path:        "/api/v1/interventions/{id}/timespent",
		Summary:     "Record time spent",
		Tags:        []string{"interventions"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) addLineOp() huma.Operation {
	return huma.Operation{
		OperationID: "interventions-add-line",
		Method:      http.MethodPost,
		Path:        "/api/v1/interventions/{id}/lines",
		Summary:     "Record material consumption",
		Tags:        []string{"interventions"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) updateTaskOp() huma.Operation {
	return huma.Operation{
		OperationID: "interventions-update-task",
		Method:      http.MethodPut,
		Path:        "/api/v1/interventions/{id}/tasks/{taskId}",
		Summary:     "Update a task status",
		Tags:        []string{"interventions"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) uploadPhotoOp() huma.Operation {
	return huma.Operation{
		OperationID: "interventions-upload-photo",
		Method:      http.MethodPost,
		Path:        "/api/v1/interventions/{id}/photos",
		Summary:     "Upload a site photo",
		Description: "Accepts the photo as base64, the way mobile clients capture it.",
		Tags:        []string{"interventions"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) saveSignatureOp() huma.Operation {
	return huma.Operation{
		OperationID: "interventions-save-signature",
		Method:      http.MethodPost,
		Path:        "/api/v1/interventions/{id}/signature",
		Summary:     "Save the client signature",
		Tags:        []string{"interventions"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) updateOp() huma.Operation {
	return huma.Operation{
		OperationID: "interventions-update",
		Method:      http.MethodPatch,
		Path:        "/api/v1/interventions/{id}",
		Summary:     "Update intervention fields",
		Description: "Partial update; currently only the private note.",
		Tags:        []string{"interventions"},
		Middlewares: h.middleware,
	}
}
