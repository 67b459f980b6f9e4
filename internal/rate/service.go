package rate

import (
	"context"
	"fmt"
	"nbprates/internal/adapters"
	"nbprates/internal/analytics"
	"nbprates/internal/domain"
	"nbprates/internal/platform/metrics"
	"slices"

	"github.com/google/uuid"
)

// Service loads rate datasets into client sessions and renders charts over them.
type Service struct {
	rows          adapters.RowRepository
	sessions      adapters.DatasetCache
	validator     *QueryValidator
	charts        []ChartInfo
	showDataframe bool
}

func (s *Service) Currencies(ctx context.Context) ([]string, error) {
	return s.rows.GetCurrencies(ctx)
}

func (s *Service) Charts() []ChartInfo {
	return slices.Clone(s.charts)
}

// LoadDataset queries the rows selected by q and makes them the session's dataset.
// A nil sessionID starts a new session.
func (s *Service) LoadDataset(ctx context.Context, sessionID uuid.UUID, q Query) (DatasetView, error) {
	col, err := s.validator.Validate(q)
	if err != nil {
		return DatasetView{}, err
	}

	rows, err := s.rows.GetData(ctx, col, q.From, q.To, q.Codes)
	if err != nil {
		return DatasetView{}, err
	}
	if len(rows) == 0 {
		return DatasetView{}, domain.ErrNoData
	}

	if sessionID == uuid.Nil {
		sessionID = uuid.New()
	}
	err = s.sessions.Set(sessionID, domain.Dataset{
		CourseKind: col,
		From:       q.From,
		To:         q.To,
		Codes:      slices.Clone(q.Codes),
		Rows:       rows,
	})
	if err != nil {
		return DatasetView{}, err
	}
	return DatasetView{SessionID: sessionID, Rows: rows}, nil
}

// RenderChart builds the chart of the given kind over the session's dataset.
func (s *Service) RenderChart(_ context.Context, sessionID uuid.UUID, kind string) (ChartView, error) {
	ds, ok := s.sessions.Get(sessionID)
	if !ok {
		return ChartView{}, domain.ErrSessionNotFound
	}

	chart, err := analytics.Build(analytics.ChartKind(kind), ds)
	if err != nil {
		metrics.ChartsRendered.WithLabelValues(chartLabel(kind), "failed").Inc()
		return ChartView{}, err
	}
	metrics.ChartsRendered.WithLabelValues(chartLabel(kind), "ok").Inc()

	view := ChartView{Name: s.chartName(chart.Kind), Chart: chart}
	if s.showDataframe {
		view.Rows = ds.Rows
	}
	return view, nil
}

// chartLabel keeps the metric's kind label within the closed set of chart kinds.
func chartLabel(kind string) string {
	if k, ok := analytics.ParseChartKind(kind); ok {
		return string(k)
	}
	return "unsupported"
}

func (s *Service) chartName(kind analytics.ChartKind) string {
	for _, c := range s.charts {
		if c.Kind == kind {
			return c.Name
		}
	}
	return string(kind)
}

// NewService builds the explorer service. With no configured charts every supported kind is
// offered under its own name; a configured kind that is not supported is an error.
func NewService(rows adapters.RowRepository, sessions adapters.DatasetCache, validator *QueryValidator, charts []ChartInfo, showDataframe bool) (*Service, error) {
	if len(charts) == 0 {
		for _, k := range analytics.Kinds() {
			charts = append(charts, ChartInfo{Kind: k, Name: string(k)})
		}
	}
	for _, c := range charts {
		if _, ok := analytics.ParseChartKind(string(c.Kind)); !ok {
			return nil, fmt.Errorf("chart %q: %w", c.Kind, domain.ErrUnsupportedChart)
		}
	}
	return &Service{
		rows:          rows,
		sessions:      sessions,
		validator:     validator,
		charts:        charts,
		showDataframe: showDataframe,
	}, nil
}
