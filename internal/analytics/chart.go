package analytics

import (
	"errors"
	"nbprates/internal/domain"
	"slices"
)

type ChartKind string

const (
	ChartLevel         ChartKind = "level"
	ChartDailyChange   ChartKind = "daily_change"
	ChartMovingAverage ChartKind = "moving_average"
	ChartVolatility    ChartKind = "volatility"
	ChartPairRatio     ChartKind = "pair_ratio"
	ChartStrengthIndex ChartKind = "strength_index"
	ChartCorrelation   ChartKind = "correlation"
)

type Chart struct {
	Kind   ChartKind `json:"kind"`
	YLabel string    `json:"y_label"`
	Series []Series  `json:"series,omitempty"`
	Matrix *Matrix   `json:"matrix,omitempty"`
}

type transform func(rows []domain.Row, col domain.PriceColumn, codes []string) (Chart, error)

var transforms = map[ChartKind]transform{
	ChartLevel: func(rows []domain.Row, col domain.PriceColumn, _ []string) (Chart, error) {
		s, err := Level(rows, col)
		return Chart{YLabel: "rate", Series: s}, err
	},
	ChartDailyChange: func(rows []domain.Row, col domain.PriceColumn, _ []string) (Chart, error) {
		s, err := PercentChange(rows, col)
		return Chart{YLabel: "change [%]", Series: s}, err
	},
	ChartMovingAverage: func(rows []domain.Row, col domain.PriceColumn, _ []string) (Chart, error) {
		s, err := RollingMean(rows, col, Window)
		return Chart{YLabel: "7-day mean", Series: s}, err
	},
	ChartVolatility: func(rows []domain.Row, col domain.PriceColumn, _ []string) (Chart, error) {
		s, err := RollingVolatility(rows, col, Window)
		return Chart{YLabel: "deviation [%]", Series: s}, err
	},
	ChartPairRatio: func(rows []domain.Row, col domain.PriceColumn, codes []string) (Chart, error) {
		s, err := PairRatio(rows, col, codes)
		if err != nil {
			return Chart{}, err
		}
		return Chart{YLabel: "ratio " + s.Code, Series: []Series{s}}, nil
	},
	ChartStrengthIndex: func(rows []domain.Row, col domain.PriceColumn, _ []string) (Chart, error) {
		s, err := StrengthIndex(rows, col)
		return Chart{YLabel: "index (100 = start)", Series: s}, err
	},
	ChartCorrelation: func(rows []domain.Row, col domain.PriceColumn, _ []string) (Chart, error) {
		m, err := CorrelationMatrix(rows, col)
		if err != nil {
			return Chart{}, err
		}
		return Chart{YLabel: "correlation", Matrix: &m}, nil
	},
}

// Kinds lists every supported chart kind.
func Kinds() []ChartKind {
	kinds := make([]ChartKind, 0, len(transforms))
	for k := range transforms {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

func ParseChartKind(s string) (ChartKind, bool) {
	k := ChartKind(s)
	_, ok := transforms[k]
	return k, ok
}

// Build renders kind over the dataset rows that belong to the dataset's codes and quote the
// selected price. The mid price is used when the dataset names no column.
func Build(kind ChartKind, ds domain.Dataset) (Chart, error) {
	fn, ok := transforms[kind]
	if !ok {
		return Chart{}, &domain.AnalyticsError{Chart: string(kind), Err: domain.ErrUnsupportedChart}
	}

	col := ds.CourseKind
	if col == "" {
		col = domain.PriceMid
	}

	rows := selectRows(ds.Rows, ds.Codes, col)
	if len(rows) == 0 {
		return Chart{}, &domain.AnalyticsError{Chart: string(kind), Err: domain.ErrNoData}
	}

	chart, err := fn(rows, col, ds.Codes)
	if err != nil {
		var ae *domain.AnalyticsError
		if errors.As(err, &ae) && ae.Chart == "" {
			ae.Chart = string(kind)
		}
		return Chart{}, err
	}
	chart.Kind = kind
	return chart, nil
}

// selectRows keeps the rows of the given codes (all codes when empty) that quote col. A range
// loaded without a price column mixes tables, e.g. an A row with mid and a C row with bid/ask
// for the same currency and day; only the rows carrying col describe the charted series.
func selectRows(rows []domain.Row, codes []string, col domain.PriceColumn) []domain.Row {
	out := make([]domain.Row, 0, len(rows))
	for _, r := range rows {
		if len(codes) > 0 && !slices.Contains(codes, r.Code) {
			continue
		}
		if r.Value(col) == nil {
			continue
		}
		out = append(out, r)
	}
	return out
}
