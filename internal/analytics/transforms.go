package analytics

import (
	"math"
	"nbprates/internal/domain"
	"sort"

	"gonum.org/v1/gonum/stat"
)

func noData(rows []domain.Row) error {
	if len(rows) == 0 {
		return &domain.AnalyticsError{Err: domain.ErrNoData}
	}
	return nil
}

// Level returns the raw value of the selected price per code.
func Level(rows []domain.Row, col domain.PriceColumn) ([]Series, error) {
	if err := noData(rows); err != nil {
		return nil, err
	}
	groups := groupByCode(rows, col)
	out := make([]Series, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.series(g.values))
	}
	return out, nil
}

// changes computes the day-over-day relative change; the first value is undefined.
func changes(values []*float64) []*float64 {
	out := make([]*float64, len(values))
	for i := 1; i < len(values); i++ {
		prev, cur := values[i-1], values[i]
		if prev == nil || cur == nil || *prev == 0 {
			continue
		}
		out[i] = defined(*cur / *prev - 1)
	}
	return out
}

// PercentChange returns the day-over-day change in percent per code.
func PercentChange(rows []domain.Row, col domain.PriceColumn) ([]Series, error) {
	if err := noData(rows); err != nil {
		return nil, err
	}
	groups := groupByCode(rows, col)
	out := make([]Series, 0, len(groups))
	for _, g := range groups {
		pct := changes(g.values)
		for i, v := range pct {
			if v != nil {
				pct[i] = defined(*v * 100)
			}
		}
		out = append(out, g.series(pct))
	}
	return out, nil
}

// rolling applies fn to each full trailing window. Windows that are short or contain an
// undefined value yield undefined.
func rolling(values []*float64, window int, fn func([]float64) float64) []*float64 {
	out := make([]*float64, len(values))
	buf := make([]float64, window)
	for i := window - 1; i < len(values); i++ {
		complete := true
		for j := 0; j < window; j++ {
			v := values[i-window+1+j]
			if v == nil {
				complete = false
				break
			}
			buf[j] = *v
		}
		if complete {
			out[i] = defined(fn(buf))
		}
	}
	return out
}

// RollingMean returns the trailing mean over window observations per code.
func RollingMean(rows []domain.Row, col domain.PriceColumn, window int) ([]Series, error) {
	if err := noData(rows); err != nil {
		return nil, err
	}
	groups := groupByCode(rows, col)
	out := make([]Series, 0, len(groups))
	for _, g := range groups {
		mean := rolling(g.values, window, func(x []float64) float64 { return stat.Mean(x, nil) })
		out = append(out, g.series(mean))
	}
	return out, nil
}

// RollingVolatility returns the trailing sample standard deviation of the relative daily
// change, scaled by 100, per code.
func RollingVolatility(rows []domain.Row, col domain.PriceColumn, window int) ([]Series, error) {
	if err := noData(rows); err != nil {
		return nil, err
	}
	groups := groupByCode(rows, col)
	out := make([]Series, 0, len(groups))
	for _, g := range groups {
		vol := rolling(changes(g.values), window, func(x []float64) float64 { return stat.StdDev(x, nil) * 100 })
		out = append(out, g.series(vol))
	}
	return out, nil
}

// StrengthIndex rebases each code to 100 at its first observation in the range.
func StrengthIndex(rows []domain.Row, col domain.PriceColumn) ([]Series, error) {
	if err := noData(rows); err != nil {
		return nil, err
	}
	groups := groupByCode(rows, col)
	out := make([]Series, 0, len(groups))
	for _, g := range groups {
		idx := make([]*float64, len(g.values))
		first := g.values[0]
		if first != nil && *first != 0 {
			for i, v := range g.values {
				if v != nil {
					idx[i] = defined(*v / *first * 100)
				}
			}
		}
		out = append(out, g.series(idx))
	}
	return out, nil
}

// PairRatio divides the first code's value by the second's on days both are quoted.
func PairRatio(rows []domain.Row, col domain.PriceColumn, codes []string) (Series, error) {
	if len(codes) != 2 {
		return Series{}, &domain.AnalyticsError{Err: domain.ErrPairRequiresTwo}
	}
	if err := noData(rows); err != nil {
		return Series{}, err
	}

	byCode, err := pivot(rows, col)
	if err != nil {
		return Series{}, &domain.AnalyticsError{Err: err}
	}

	base, quote := codes[0], codes[1]
	days, xs, ys := aligned(byCode[base], byCode[quote])

	points := make([]Point, len(days))
	for i, d := range days {
		points[i] = Point{Date: d}
		if ys[i] != 0 {
			points[i].Value = defined(xs[i] / ys[i])
		}
	}
	return Series{Code: base + "/" + quote, Points: points}, nil
}

// CorrelationMatrix returns pairwise Pearson correlations of all codes in rows, each pair
// aligned on the days both codes are quoted. Codes are sorted ascending.
func CorrelationMatrix(rows []domain.Row, col domain.PriceColumn) (Matrix, error) {
	if err := noData(rows); err != nil {
		return Matrix{}, err
	}

	byCode, err := pivot(rows, col)
	if err != nil {
		return Matrix{}, &domain.AnalyticsError{Err: err}
	}

	codes := make([]string, 0, len(byCode))
	for code := range byCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	values := make([][]*float64, len(codes))
	for i := range codes {
		values[i] = make([]*float64, len(codes))
	}
	for i := range codes {
		for j := i; j < len(codes); j++ {
			_, xs, ys := aligned(byCode[codes[i]], byCode[codes[j]])
			r := pearson(xs, ys)
			if i == j && r != nil {
				one := 1.0
				r = &one
			}
			values[i][j] = r
			values[j][i] = r
		}
	}
	return Matrix{Codes: codes, Values: values}, nil
}

func pearson(xs, ys []float64) *float64 {
	if len(xs) < 2 {
		return nil
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		return nil
	}
	return defined(r)
}
