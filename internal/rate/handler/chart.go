package handler

import (
	"errors"
	"nbprates/internal/analytics"
	"nbprates/internal/domain"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type GetChartResponse struct {
	Kind   analytics.ChartKind `json:"kind" example:"moving_average"`
	Name   string              `json:"name" example:"7-day moving average"`
	YLabel string              `json:"y_label" example:"7-day mean"`
	Series []analytics.Series  `json:"series,omitempty"`
	Matrix *analytics.Matrix   `json:"matrix,omitempty"`
	Rows   []domain.Row        `json:"rows,omitempty"`
}

// GetChart godoc
// @Summary Render a chart
// @Description Render a chart kind over the dataset loaded in the session
// @Tags Charts
// @Produce json
// @Param id path string true "Session ID"
// @Param kind path string true "Chart kind"
// @Success 200 {object} GetChartResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse "session or chart kind not found"
// @Failure 422 {object} errorResponse "chart can't be built from the dataset"
// @Failure 500 {object} errorResponse
// @Router /datasets/{id}/charts/{kind} [get]
func (h *Handler) GetChart(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session ID format")
		return
	}
	kind := chi.URLParam(r, "kind")

	view, err := h.service.RenderChart(r.Context(), sessionID, kind)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "no dataset loaded for this session")
			return
		}
		if errors.Is(err, domain.ErrUnsupportedChart) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		var analyticsErr *domain.AnalyticsError
		if errors.As(err, &analyticsErr) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		msg := "ups, couldn't render the chart this time"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "GetChart", "session_id": sessionID, "kind": kind}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	writeJSON(w, http.StatusOK, GetChartResponse{
		Kind:   view.Chart.Kind,
		Name:   view.Name,
		YLabel: view.Chart.YLabel,
		Series: view.Chart.Series,
		Matrix: view.Chart.Matrix,
		Rows:   view.Rows,
	})
}
