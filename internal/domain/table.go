package domain

import "time"

// DateLayout is the calendar date format used by the feed and in API queries.
const DateLayout = "2006-01-02"

type Rate struct {
	Currency string
	Code     string
	Mid      *float64
	Bid      *float64
	Ask      *float64
}

type Table struct {
	Type          string
	No            string
	EffectiveDate time.Time
	TradingDate   *time.Time
	Rates         []Rate
}

// Row is one rate joined with its owning table, as returned by range queries.
type Row struct {
	Table         string     `json:"table"`
	No            string     `json:"no"`
	EffectiveDate time.Time  `json:"effective_date"`
	TradingDate   *time.Time `json:"trading_date"`
	Currency      string     `json:"currency"`
	Code          string     `json:"code"`
	Mid           *float64   `json:"mid"`
	Bid           *float64   `json:"bid"`
	Ask           *float64   `json:"ask"`
}

// PriceColumn names one of the quoted prices of a rate.
type PriceColumn string

const (
	PriceMid PriceColumn = "mid"
	PriceBid PriceColumn = "bid"
	PriceAsk PriceColumn = "ask"
)

func ParsePriceColumn(s string) (PriceColumn, bool) {
	switch c := PriceColumn(s); c {
	case PriceMid, PriceBid, PriceAsk:
		return c, true
	}
	return "", false
}

// Value returns the price stored in column c, nil when it is absent.
func (r Row) Value(c PriceColumn) *float64 {
	switch c {
	case PriceMid:
		return r.Mid
	case PriceBid:
		return r.Bid
	case PriceAsk:
		return r.Ask
	}
	return nil
}

// Day truncates t to a calendar date in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Dataset is a loaded range of rows together with the query that produced it.
type Dataset struct {
	CourseKind PriceColumn
	From       time.Time
	To         time.Time
	Codes      []string
	Rows       []Row
}
