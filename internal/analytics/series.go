// Package analytics derives chart series from a loaded range of rates. Every function is pure:
// rows go in, new values come out, nothing is cached between calls.
package analytics

import (
	"math"
	"nbprates/internal/domain"
	"slices"
	"sort"
	"time"
)

// Window is the number of observations used by the rolling statistics.
const Window = 7

// Point is one observation of a derived series. A nil Value means undefined for that day.
type Point struct {
	Date  time.Time `json:"date"`
	Value *float64  `json:"value"`
}

type Series struct {
	Code   string  `json:"code"`
	Points []Point `json:"points"`
}

type Matrix struct {
	Codes  []string     `json:"codes"`
	Values [][]*float64 `json:"values"`
}

type group struct {
	code   string
	dates  []time.Time
	values []*float64
}

// groupByCode splits rows per code in order of first appearance, each group sorted by date.
func groupByCode(rows []domain.Row, col domain.PriceColumn) []group {
	index := make(map[string]int)
	var groups []group
	for _, r := range rows {
		i, ok := index[r.Code]
		if !ok {
			i = len(groups)
			index[r.Code] = i
			groups = append(groups, group{code: r.Code})
		}
		groups[i].dates = append(groups[i].dates, domain.Day(r.EffectiveDate))
		groups[i].values = append(groups[i].values, r.Value(col))
	}

	for gi := range groups {
		g := &groups[gi]
		order := make([]int, len(g.dates))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool { return g.dates[order[a]].Before(g.dates[order[b]]) })

		dates := make([]time.Time, len(order))
		values := make([]*float64, len(order))
		for i, o := range order {
			dates[i] = g.dates[o]
			values[i] = g.values[o]
		}
		g.dates, g.values = dates, values
	}
	return groups
}

func (g group) series(values []*float64) Series {
	points := make([]Point, len(g.dates))
	for i := range g.dates {
		points[i] = Point{Date: g.dates[i], Value: values[i]}
	}
	return Series{Code: g.code, Points: points}
}

// defined turns a computed float into a series value, dropping NaN and infinities.
func defined(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// pivot indexes values by code and day. Days with a missing value keep a nil entry.
func pivot(rows []domain.Row, col domain.PriceColumn) (map[string]map[time.Time]*float64, error) {
	byCode := make(map[string]map[time.Time]*float64)
	for _, r := range rows {
		days, ok := byCode[r.Code]
		if !ok {
			days = make(map[time.Time]*float64)
			byCode[r.Code] = days
		}
		d := domain.Day(r.EffectiveDate)
		if _, dup := days[d]; dup {
			return nil, domain.ErrDuplicateDay
		}
		days[d] = r.Value(col)
	}
	return byCode, nil
}

// aligned returns the values of a and b on days where both are defined, ordered by day.
func aligned(a, b map[time.Time]*float64) ([]time.Time, []float64, []float64) {
	var days []time.Time
	for d, va := range a {
		if vb, ok := b[d]; ok && va != nil && vb != nil {
			days = append(days, d)
		}
	}
	slices.SortFunc(days, func(x, y time.Time) int { return x.Compare(y) })

	xs := make([]float64, len(days))
	ys := make([]float64, len(days))
	for i, d := range days {
		xs[i] = *a[d]
		ys[i] = *b[d]
	}
	return days, xs, ys
}
