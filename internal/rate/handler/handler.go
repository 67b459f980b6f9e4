package handler

import (
	"context"
	"encoding/json"
	"nbprates/internal/rate"
	"net/http"

	"github.com/google/uuid"
)

// SessionHeader carries the id of the client session a dataset belongs to.
const SessionHeader = "X-Session-ID"

type Service interface {
	Currencies(ctx context.Context) ([]string, error)
	Charts() []rate.ChartInfo
	LoadDataset(ctx context.Context, sessionID uuid.UUID, q rate.Query) (rate.DatasetView, error)
	RenderChart(ctx context.Context, sessionID uuid.UUID, kind string) (rate.ChartView, error)
}

type Synchronizer interface {
	Sync(ctx context.Context) (rate.SyncReport, error)
}

type Handler struct {
	service Service
	syncer  Synchronizer
}

func NewRateHandler(service Service, syncer Synchronizer) *Handler {
	return &Handler{service: service, syncer: syncer}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, statusCode int, errorMsg string) {
	writeJSON(w, statusCode, errorResponse{Error: errorMsg})
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}
