package handler

import (
	"nbprates/internal/rate"
	"net/http"

	"github.com/sirupsen/logrus"
)

type GetCurrenciesResponse struct {
	Codes []string `json:"codes" example:"EUR,USD,CHF"`
}

// GetCurrencies godoc
// @Summary List stored currencies
// @Description Retrieve every currency code present in the stored history
// @Tags Rates
// @Produce json
// @Success 200 {object} GetCurrenciesResponse
// @Failure 500 {object} errorResponse
// @Router /currencies [get]
func (h *Handler) GetCurrencies(w http.ResponseWriter, r *http.Request) {
	codes, err := h.service.Currencies(r.Context())
	if err != nil {
		msg := "ups, couldn't get currencies this time"
		logrus.WithError(err).WithField("handler", "GetCurrencies").Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}
	if codes == nil {
		codes = []string{}
	}
	writeJSON(w, http.StatusOK, GetCurrenciesResponse{Codes: codes})
}

type GetChartsResponse struct {
	Charts []rate.ChartInfo `json:"charts"`
}

// GetCharts godoc
// @Summary List chart kinds
// @Description Retrieve the chart kinds that can be rendered over a dataset
// @Tags Charts
// @Produce json
// @Success 200 {object} GetChartsResponse
// @Router /charts [get]
func (h *Handler) GetCharts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, GetChartsResponse{Charts: h.service.Charts()})
}
