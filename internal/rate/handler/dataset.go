package handler

import (
	"encoding/json"
	"errors"
	"nbprates/internal/domain"
	"nbprates/internal/rate"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type LoadDatasetRequest struct {
	CourseKind string   `json:"course_kind" example:"mid"`
	DateFrom   string   `json:"date_from" example:"2025-10-01"`
	DateTo     string   `json:"date_to" example:"2025-10-31"`
	Codes      []string `json:"codes" example:"USD,EUR"`
}

type LoadDatasetResponse struct {
	SessionID string       `json:"session_id" example:"77b5d9f5-0569-47e3-aee2-f659d59fbd97"`
	Rows      []domain.Row `json:"rows"`
}

// LoadDataset godoc
// @Summary Load a dataset
// @Description Select rows by price column, date range and currencies and keep them in the client session
// @Tags Datasets
// @Accept json
// @Produce json
// @Param X-Session-ID header string false "Existing session ID"
// @Param request body LoadDatasetRequest true "Dataset query"
// @Success 200 {object} LoadDatasetResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse "no data for the selected range"
// @Failure 503 {object} errorResponse "session store is full"
// @Failure 500 {object} errorResponse
// @Router /datasets [post]
func (h *Handler) LoadDataset(w http.ResponseWriter, r *http.Request) {
	sessionID := uuid.Nil
	if raw := strings.TrimSpace(r.Header.Get(SessionHeader)); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid session ID format")
			return
		}
		sessionID = id
	}

	r.Body = http.MaxBytesReader(w, r.Body, 4096)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req LoadDatasetRequest
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	q, err := toQuery(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.service.LoadDataset(r.Context(), sessionID, q)
	if err != nil {
		if errors.Is(err, rate.ErrInvalidQuery) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, domain.ErrNoData) {
			writeError(w, http.StatusNotFound, domain.ErrNoData.Error())
			return
		}
		if errors.Is(err, domain.ErrSessionStoreFull) {
			msg := "too many active sessions, try again later"
			logrus.WithError(err).WithField("handler", "LoadDataset").Warn(msg)
			writeError(w, http.StatusServiceUnavailable, msg)
			return
		}
		msg := "ups, couldn't load data this time"
		logrus.WithError(err).WithFields(logrus.Fields{
			"handler": "LoadDataset", "codes": q.Codes, "from": req.DateFrom, "to": req.DateTo,
		}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	w.Header().Set(SessionHeader, view.SessionID.String())
	writeJSON(w, http.StatusOK, LoadDatasetResponse{
		SessionID: view.SessionID.String(),
		Rows:      view.Rows,
	})
}

var errInvalidDate = errors.New("dates must be formatted as YYYY-MM-DD")

func toQuery(req LoadDatasetRequest) (rate.Query, error) {
	q := rate.Query{CourseKind: strings.ToLower(strings.TrimSpace(req.CourseKind))}
	for _, c := range req.Codes {
		if c = strings.ToUpper(strings.TrimSpace(c)); c != "" {
			q.Codes = append(q.Codes, c)
		}
	}

	var err error
	if req.DateFrom != "" {
		if q.From, err = time.Parse(domain.DateLayout, req.DateFrom); err != nil {
			return q, errInvalidDate
		}
	}
	if req.DateTo != "" {
		if q.To, err = time.Parse(domain.DateLayout, req.DateTo); err != nil {
			return q, errInvalidDate
		}
	}
	return q, nil
}
