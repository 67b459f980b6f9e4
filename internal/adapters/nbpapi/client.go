package nbpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"nbprates/internal/domain"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// MaxRangeDays is the longest window the NBP API accepts in a single query.
const MaxRangeDays = 93

type Client struct {
	http    *http.Client
	baseURL string
}

type tableResponse struct {
	Table         string         `json:"table"`
	No            string         `json:"no"`
	EffectiveDate string         `json:"effectiveDate"`
	TradingDate   *string        `json:"tradingDate"`
	Rates         []rateResponse `json:"rates"`
}

type rateResponse struct {
	Currency string   `json:"currency"`
	Code     string   `json:"code"`
	Bid      *float64 `json:"bid"`
	Ask      *float64 `json:"ask"`
	Mid      *float64 `json:"mid"`
}

// GetTables returns every table of the given type published within [from, to].
// Longer windows are queried in consecutive chunks of at most MaxRangeDays.
func (c *Client) GetTables(ctx context.Context, tableType string, from, to time.Time) ([]domain.Table, error) {
	var tables []domain.Table
	for _, r := range splitDateRange(domain.Day(from), domain.Day(to), MaxRangeDays) {
		chunk, err := c.getTables(ctx, tableType, r.from, r.to)
		if err != nil {
			return nil, err
		}
		tables = append(tables, chunk...)
	}
	return tables, nil
}

func (c *Client) getTables(ctx context.Context, tableType string, from, to time.Time) ([]domain.Table, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + url.PathEscape(tableType) +
		"/" + from.Format(domain.DateLayout) + "/" + to.Format(domain.DateLayout)
	u.RawQuery = url.Values{"format": {"json"}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for table %q: %w", tableType, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request for table %q: %w", tableType, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &domain.RemoteFetchError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	var body []tableResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response for table %q: %w", tableType, err)
	}

	tables := make([]domain.Table, 0, len(body))
	for _, t := range body {
		table, convErr := toDomain(t)
		if convErr != nil {
			return nil, fmt.Errorf("failed to convert table %q: %w", t.No, convErr)
		}
		tables = append(tables, table)
	}
	return tables, nil
}

func toDomain(t tableResponse) (domain.Table, error) {
	effective, err := time.Parse(domain.DateLayout, t.EffectiveDate)
	if err != nil {
		return domain.Table{}, fmt.Errorf("invalid effectiveDate %q: %w", t.EffectiveDate, err)
	}

	table := domain.Table{
		Type:          t.Table,
		No:            t.No,
		EffectiveDate: effective,
		Rates:         make([]domain.Rate, 0, len(t.Rates)),
	}

	if t.TradingDate != nil && *t.TradingDate != "" {
		trading, parseErr := time.Parse(domain.DateLayout, *t.TradingDate)
		if parseErr != nil {
			return domain.Table{}, fmt.Errorf("invalid tradingDate %q: %w", *t.TradingDate, parseErr)
		}
		table.TradingDate = &trading
	}

	for _, r := range t.Rates {
		table.Rates = append(table.Rates, domain.Rate{
			Currency: r.Currency,
			Code:     r.Code,
			Mid:      r.Mid,
			Bid:      r.Bid,
			Ask:      r.Ask,
		})
	}
	return table, nil
}

type dateRange struct {
	from time.Time
	to   time.Time
}

func splitDateRange(from, to time.Time, chunkDays int) []dateRange {
	if from.After(to) || chunkDays <= 0 {
		return nil
	}

	var chunks []dateRange
	for cur := from; !cur.After(to); cur = cur.AddDate(0, 0, chunkDays) {
		end := cur.AddDate(0, 0, chunkDays-1)
		if end.After(to) {
			end = to
		}
		chunks = append(chunks, dateRange{from: cur, to: end})
	}
	return chunks
}

func NewClient(httpClient *http.Client, baseURL string) *Client {
	return &Client{http: httpClient, baseURL: baseURL}
}
