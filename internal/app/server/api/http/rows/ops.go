package rows

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) insertOp() huma.Operation {
	return huma.Operation{
		OperationID: "rows-insert",
		Method:      http.MethodPost,
		Path:        "/api/v1/rows/{table}",
		Summary:     "Insert a row snapshot",
		Description: "Stores a full row snapshot. Replaying the same snapshot is an upsert, not a conflict.",
		Tags:        []string{"rows"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) updateOp() huma.Operation {
	return huma.Operation{
		OperationID: "rows-update",
		Method:      http.MethodPut,
		Path:        "/api/v1/rows/{table}/{id}",
		Summary:     "Update a row snapshot",
		Tags:        []string{"rows"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) deleteOp() huma.Operation {
	return huma.Operation{
		OperationID: "rows-delete",
		Method:      http.MethodDelete,
		Path:        "/api/v1/rows/{table}/{id}",
		Summary:     "Delete a row",
		Description: "Deleting a row that is already gone succeeds, so tombstone replays are safe.",
		Tags:        []string{"rows"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "rows-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/rows/{table}",
		Summary:     "List rows changed since a timestamp",
		Tags:        []string{"rows"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
