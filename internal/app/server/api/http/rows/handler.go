package rows

import (
	"context"
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"billbase/internal/app/server/api/http/middleware/auth"
	"billbase/internal/domain/row"
)

type Handler struct {
	service    row.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service row.Servicer, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.insertOp(), h.insert)
	huma.Register(api, h.updateOp(), h.update)
	huma.Register(api, h.deleteOp(), h.delete)
	huma.Register(api, h.listOp(), h.list)
}

func (h *Handler) insert(ctx context.Context, input *insertInput) (*statusOutput, error) {
	userID, ok := auth.UserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("not authenticated")
	}

	if err := h.service.Upsert(ctx, input.Table, "", userID, input.RawBody); err != nil {
		return nil, h.mapError(err)
	}
	return okOutput(), nil
}

func (h *Handler) update(ctx context.Context, input *updateInput) (*statusOutput, error) {
	userID, ok := auth.UserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("not authenticated")
	}

	if err := h.service.Upsert(ctx, input.Table, input.ID, userID, input.RawBody); err != nil {
		return nil, h.mapError(err)
	}
	return okOutput(), nil
}

func (h *Handler) delete(ctx context.Context, input *deleteInput) (*statusOutput, error) {
	userID, ok := auth.UserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("not authenticated")
	}

	if err := h.service.Delete(ctx, input.Table, input.ID, userID); err != nil {
		return nil, h.mapError(err)
	}
	return okOutput(), nil
}

func (h *Handler) list(ctx context.Context, input *listInput) (*listOutput, error) {
	userID, ok := auth.UserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("not authenticated")
	}
	// a stale local session paired with a different account is a client bug;
	// refuse rather than hand over the wrong data set
	if input.UserID != "" && input.UserID != userID {
		return nil, huma.Error403Forbidden("user_id does not match session")
	}

	var since *time.Time
	if input.Since != "" {
		t, err := time.Parse(time.RFC3339Nano, input.Since)
		if err != nil {
			t, err = time.Parse(time.RFC3339, input.Since)
		}
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("since must be RFC3339")
		}
		since = &t
	}

	list, err := h.service.ListSince(ctx, input.Table, userID, since)
	if err != nil {
		return nil, h.mapError(err)
	}

	out := &listOutput{Body: ListResponse{Rows: make([]rowPayload, 0, len(list))}}
	for _, r := range list {
		out.Body.Rows = append(out.Body.Rows, rowPayload{
			ID:        r.ID,
			Data:      r.Data,
			UpdatedAt: r.UpdatedAt,
		})
	}
	return out, nil
}

func (h *Handler) mapError(err error) error {
	switch {
	case errors.Is(err, row.ErrUnknownTable):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, row.ErrInvalidData):
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.Is(err, row.ErrForbidden):
		return huma.Error403Forbidden(err.Error())
	}
	h.log.Error("row operation failed", "error", err)
	return huma.Error500InternalServerError("internal error")
}

func okOutput() *statusOutput {
	return &statusOutput{Body: statusResponse{Status: "ok"}}
}
