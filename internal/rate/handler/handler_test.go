package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"nbprates/internal/analytics"
	"nbprates/internal/domain"
	"nbprates/internal/rate"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct{ mock.Mock }

func (m *MockService) Currencies(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	codes, _ := args.Get(0).([]string)
	return codes, args.Error(1)
}

func (m *MockService) Charts() []rate.ChartInfo {
	args := m.Called()
	charts, _ := args.Get(0).([]rate.ChartInfo)
	return charts
}

func (m *MockService) LoadDataset(ctx context.Context, sessionID uuid.UUID, q rate.Query) (rate.DatasetView, error) {
	args := m.Called(ctx, sessionID, q)
	v, _ := args.Get(0).(rate.DatasetView)
	return v, args.Error(1)
}

func (m *MockService) RenderChart(ctx context.Context, sessionID uuid.UUID, kind string) (rate.ChartView, error) {
	args := m.Called(ctx, sessionID, kind)
	v, _ := args.Get(0).(rate.ChartView)
	return v, args.Error(1)
}

type MockSynchronizer struct{ mock.Mock }

func (m *MockSynchronizer) Sync(ctx context.Context) (rate.SyncReport, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).(rate.SyncReport)
	return r, args.Error(1)
}

type errorJSON struct {
	Error string `json:"error"`
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var ej errorJSON
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ej))
	return ej.Error
}

func withURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func f(v float64) *float64 { return &v }

// --- Sync ---

func TestHandler_Sync_Success(t *testing.T) {
	mockService := new(MockService)
	mockSync := new(MockSynchronizer)
	h := NewRateHandler(mockService, mockSync)

	report := rate.SyncReport{ExecID: "e1", Tables: []rate.TableReport{{TableType: "A", Fetched: 2, TablesInserted: 2, RatesInserted: 66}}}
	mockSync.On("Sync", mock.Anything).Return(report, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/sync", nil)
	rr := httptest.NewRecorder()
	h.Sync(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var res rate.SyncReport
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.Equal(t, "e1", res.ExecID)
	require.Equal(t, 66, res.Tables[0].RatesInserted)
	mockSync.AssertExpectations(t)
}

func TestHandler_Sync_RemoteFailure(t *testing.T) {
	mockSync := new(MockSynchronizer)
	h := NewRateHandler(new(MockService), mockSync)

	err := &domain.SynchronizationError{TableType: "B", Err: &domain.RemoteFetchError{StatusCode: 503, Message: "unavailable"}}
	mockSync.On("Sync", mock.Anything).Return(rate.SyncReport{}, err).Once()

	rr := httptest.NewRecorder()
	h.Sync(rr, httptest.NewRequest(http.MethodPost, "/sync", nil))

	require.Equal(t, http.StatusBadGateway, rr.Code)
	require.Equal(t, "rates feed is unavailable right now, try again later", decodeError(t, rr))
}

func TestHandler_Sync_PersistenceFailure(t *testing.T) {
	mockSync := new(MockSynchronizer)
	h := NewRateHandler(new(MockService), mockSync)

	err := &domain.SynchronizationError{TableType: "A", Err: &domain.PersistenceError{Op: "insert table", Err: errors.New("boom")}}
	mockSync.On("Sync", mock.Anything).Return(rate.SyncReport{}, err).Once()

	rr := httptest.NewRecorder()
	h.Sync(rr, httptest.NewRequest(http.MethodPost, "/sync", nil))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, "ups, synchronization failed this time", decodeError(t, rr))
}

func TestHandler_Sync_FeedTransportFailure(t *testing.T) {
	mockSync := new(MockSynchronizer)
	h := NewRateHandler(new(MockService), mockSync)

	transportErr := &url.Error{Op: "Get", URL: "https://api.nbp.pl/api/exchangerates/tables/A", Err: context.DeadlineExceeded}
	err := &domain.SynchronizationError{TableType: "A", Err: fmt.Errorf("failed to execute request for table %q: %w", "A", transportErr)}
	mockSync.On("Sync", mock.Anything).Return(rate.SyncReport{}, err).Once()

	rr := httptest.NewRecorder()
	h.Sync(rr, httptest.NewRequest(http.MethodPost, "/sync", nil))

	require.Equal(t, http.StatusBadGateway, rr.Code)
	require.Equal(t, "rates feed is unavailable right now, try again later", decodeError(t, rr))
}

func TestHandler_Sync_DatabaseNetworkFailure_Is500(t *testing.T) {
	mockSync := new(MockSynchronizer)
	h := NewRateHandler(new(MockService), mockSync)

	dialErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	err := &domain.SynchronizationError{TableType: "A", Err: &domain.PersistenceError{Op: "get last date", Err: dialErr}}
	mockSync.On("Sync", mock.Anything).Return(rate.SyncReport{}, err).Once()

	rr := httptest.NewRecorder()
	h.Sync(rr, httptest.NewRequest(http.MethodPost, "/sync", nil))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
}

// --- GetCurrencies / GetCharts ---

func TestHandler_GetCurrencies(t *testing.T) {
	mockService := new(MockService)
	h := NewRateHandler(mockService, new(MockSynchronizer))

	mockService.On("Currencies", mock.Anything).Return([]string{"EUR", "USD"}, nil).Once()

	rr := httptest.NewRecorder()
	h.GetCurrencies(rr, httptest.NewRequest(http.MethodGet, "/currencies", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var res GetCurrenciesResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.Equal(t, []string{"EUR", "USD"}, res.Codes)
	mockService.AssertExpectations(t)
}

func TestHandler_GetCurrencies_EmptyIsArray(t *testing.T) {
	mockService := new(MockService)
	h := NewRateHandler(mockService, new(MockSynchronizer))

	mockService.On("Currencies", mock.Anything).Return(nil, nil).Once()

	rr := httptest.NewRecorder()
	h.GetCurrencies(rr, httptest.NewRequest(http.MethodGet, "/currencies", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"codes":[]}`, rr.Body.String())
}

func TestHandler_GetCurrencies_Error(t *testing.T) {
	mockService := new(MockService)
	h := NewRateHandler(mockService, new(MockSynchronizer))

	mockService.On("Currencies", mock.Anything).Return(nil, errors.New("db down")).Once()

	rr := httptest.NewRecorder()
	h.GetCurrencies(rr, httptest.NewRequest(http.MethodGet, "/currencies", nil))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, "ups, couldn't get currencies this time", decodeError(t, rr))
}

func TestHandler_GetCharts(t *testing.T) {
	mockService := new(MockService)
	h := NewRateHandler(mockService, new(MockSynchronizer))

	charts := []rate.ChartInfo{{Kind: analytics.ChartLevel, Name: "Exchange rate", Description: "Raw rate"}}
	mockService.On("Charts").Return(charts).Once()

	rr := httptest.NewRecorder()
	h.GetCharts(rr, httptest.NewRequest(http.MethodGet, "/charts", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var res GetChartsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.Equal(t, charts, res.Charts)
}

// --- LoadDataset ---

func TestHandler_LoadDataset_Success_NormalizesInput(t *testing.T) {
	mockService := new(MockService)
	h := NewRateHandler(mockService, new(MockSynchronizer))

	sessionID := uuid.New()
	wantQuery := rate.Query{
		CourseKind: "mid",
		From:       time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
		To:         time.Date(2025, 10, 31, 0, 0, 0, 0, time.UTC),
		Codes:      []string{"USD", "EUR"},
	}
	rows := []domain.Row{{Table: "A", Code: "USD", EffectiveDate: wantQuery.From, Mid: f(3.64)}}
	mockService.On("LoadDataset", mock.Anything, uuid.Nil, wantQuery).Return(rate.DatasetView{SessionID: sessionID, Rows: rows}, nil).Once()

	body := `{"course_kind":" MID ","date_from":"2025-10-01","date_to":"2025-10-31","codes":[" usd","eur ",""]}`
	rr := httptest.NewRecorder()
	h.LoadDataset(rr, httptest.NewRequest(http.MethodPost, "/datasets", bytes.NewBufferString(body)))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, sessionID.String(), rr.Header().Get(SessionHeader))
	var res LoadDatasetResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.Equal(t, sessionID.String(), res.SessionID)
	require.Len(t, res.Rows, 1)
	require.InDelta(t, 3.64, *res.Rows[0].Mid, 1e-9)
	mockService.AssertExpectations(t)
}

func TestHandler_LoadDataset_ReusesSessionHeader(t *testing.T) {
	mockService := new(MockService)
	h := NewRateHandler(mockService, new(MockSynchronizer))

	sessionID := uuid.New()
	mockService.On("LoadDataset", mock.Anything, sessionID, mock.Anything).Return(rate.DatasetView{SessionID: sessionID}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/datasets", bytes.NewBufferString(`{"date_from":"2025-10-01","date_to":"2025-10-02","codes":["USD"]}`))
	req.Header.Set(SessionHeader, sessionID.String())
	rr := httptest.NewRecorder()
	h.LoadDataset(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	mockService.AssertExpectations(t)
}

func TestHandler_LoadDataset_BadRequests(t *testing.T) {
	cases := []struct {
		name    string
		header  string
		body    string
		wantMsg string
	}{
		{name: "invalid json", body: "{", wantMsg: "invalid request body"},
		{name: "unknown field", body: `{"codes":["USD"],"extra":1}`, wantMsg: "invalid request body"},
		{name: "bad session header", header: "not-a-uuid", body: `{}`, wantMsg: "invalid session ID format"},
		{name: "bad date", body: `{"date_from":"01.10.2025","date_to":"2025-10-02","codes":["USD"]}`, wantMsg: errInvalidDate.Error()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := new(MockService)
			h := NewRateHandler(mockService, new(MockSynchronizer))

			req := httptest.NewRequest(http.MethodPost, "/datasets", bytes.NewBufferString(tc.body))
			if tc.header != "" {
				req.Header.Set(SessionHeader, tc.header)
			}
			rr := httptest.NewRecorder()
			h.LoadDataset(rr, req)

			require.Equal(t, http.StatusBadRequest, rr.Code)
			require.Equal(t, tc.wantMsg, decodeError(t, rr))
			mockService.AssertNotCalled(t, "LoadDataset", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_LoadDataset_ServiceErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "validation", err: rate.ErrCodesRequired, wantStatus: http.StatusBadRequest, wantMsg: rate.ErrCodesRequired.Error()},
		{name: "no data", err: domain.ErrNoData, wantStatus: http.StatusNotFound, wantMsg: domain.ErrNoData.Error()},
		{name: "session store full", err: domain.ErrSessionStoreFull, wantStatus: http.StatusServiceUnavailable, wantMsg: "too many active sessions, try again later"},
		{name: "persistence", err: &domain.PersistenceError{Op: "get data", Err: errors.New("x")}, wantStatus: http.StatusInternalServerError, wantMsg: "ups, couldn't load data this time"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := new(MockService)
			h := NewRateHandler(mockService, new(MockSynchronizer))

			mockService.On("LoadDataset", mock.Anything, uuid.Nil, mock.Anything).Return(rate.DatasetView{}, tc.err).Once()

			rr := httptest.NewRecorder()
			h.LoadDataset(rr, httptest.NewRequest(http.MethodPost, "/datasets", bytes.NewBufferString(`{"codes":["USD"]}`)))

			require.Equal(t, tc.wantStatus, rr.Code)
			require.Equal(t, tc.wantMsg, decodeError(t, rr))
			mockService.AssertExpectations(t)
		})
	}
}

// --- GetChart ---

func TestHandler_GetChart_InvalidSession(t *testing.T) {
	mockService := new(MockService)
	h := NewRateHandler(mockService, new(MockSynchronizer))

	req := withURLParams(httptest.NewRequest(http.MethodGet, "/datasets/x/charts/level", nil), map[string]string{"id": "x", "kind": "level"})
	rr := httptest.NewRecorder()
	h.GetChart(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "invalid session ID format", decodeError(t, rr))
	mockService.AssertNotCalled(t, "RenderChart", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_GetChart_Errors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "session not found", err: domain.ErrSessionNotFound, wantStatus: http.StatusNotFound},
		{name: "unsupported kind", err: &domain.AnalyticsError{Chart: "pie", Err: domain.ErrUnsupportedChart}, wantStatus: http.StatusNotFound},
		{name: "pair needs two", err: &domain.AnalyticsError{Chart: "pair_ratio", Err: domain.ErrPairRequiresTwo}, wantStatus: http.StatusUnprocessableEntity},
		{name: "unexpected", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := new(MockService)
			h := NewRateHandler(mockService, new(MockSynchronizer))

			id := uuid.New()
			mockService.On("RenderChart", mock.Anything, id, "level").Return(rate.ChartView{}, tc.err).Once()

			req := withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": id.String(), "kind": "level"})
			rr := httptest.NewRecorder()
			h.GetChart(rr, req)

			require.Equal(t, tc.wantStatus, rr.Code)
			require.NotEmpty(t, decodeError(t, rr))
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_GetChart_Success(t *testing.T) {
	mockService := new(MockService)
	h := NewRateHandler(mockService, new(MockSynchronizer))

	id := uuid.New()
	day := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	view := rate.ChartView{
		Name: "Daily change",
		Chart: analytics.Chart{
			Kind:   analytics.ChartDailyChange,
			YLabel: "change [%]",
			Series: []analytics.Series{{Code: "USD", Points: []analytics.Point{{Date: day}, {Date: day.AddDate(0, 0, 1), Value: f(0.5)}}}},
		},
	}
	mockService.On("RenderChart", mock.Anything, id, "daily_change").Return(view, nil).Once()

	req := withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": id.String(), "kind": "daily_change"})
	rr := httptest.NewRecorder()
	h.GetChart(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var res GetChartResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.Equal(t, analytics.ChartDailyChange, res.Kind)
	require.Equal(t, "Daily change", res.Name)
	require.Len(t, res.Series, 1)
	require.Nil(t, res.Series[0].Points[0].Value)
	require.InDelta(t, 0.5, *res.Series[0].Points[1].Value, 1e-12)
	require.Nil(t, res.Matrix)
	require.Empty(t, res.Rows)
	mockService.AssertExpectations(t)
}
