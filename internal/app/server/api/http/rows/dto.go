package rows

import (
	"encoding/json"
	"time"
)

type insertInput struct {
	Table   string `path:"table" doc:"Syncable table name"`
	RawBody []byte `contentType:"application/json"`
}

type updateInput struct {
	Table   string `path:"table" doc:"Syncable table name"`
	ID      string `path:"id" doc:"Row ID"`
	RawBody []byte `contentType:"application/json"`
}

type deleteInput struct {
	Table string `path:"table" doc:"Syncable table name"`
	ID    string `path:"id" doc:"Row ID"`
}

type listInput struct {
	Table  string `path:"table" doc:"Syncable table name"`
	Since  string `query:"since" doc:"Only rows updated after this RFC3339 timestamp"`
	UserID string `query:"user_id" doc:"Expected owner; rejected if it does not match the session"`
}

type statusOutput struct {
	Body statusResponse
}

type statusResponse struct {
	Status string `json:"status" example:"ok"`
}

type rowPayload struct {
	ID        string          `json:"id"`
	Data      json.RawMessage `json:"data"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type listOutput struct {
	Body ListResponse
}

type ListResponse struct {
	Rows []rowPayload `json:"rows"`
}
