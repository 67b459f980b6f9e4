package postgres

import (
	"context"
	"fmt"
	"nbprates/internal/domain"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Gateway stores NBP tables and their rates. Every statement runs in its own implicit
// transaction, so a failure midway leaves earlier inserts committed.
type Gateway struct {
	pool      *pgxpool.Pool
	bootstrap time.Time
}

func (g *Gateway) InsertTable(ctx context.Context, table domain.Table) (int64, error) {
	const q = `
		insert into nbp.tables (table_type, no, effective_date, trading_date)
		values ($1, $2, $3, $4)
		returning id;
	`

	var id int64
	if err := g.pool.QueryRow(ctx, q, table.Type, table.No, table.EffectiveDate, table.TradingDate).Scan(&id); err != nil {
		return 0, &domain.PersistenceError{Op: "insert table", Err: fmt.Errorf("table %q: %w", table.No, err)}
	}
	return id, nil
}

func (g *Gateway) InsertRate(ctx context.Context, tableID int64, rate domain.Rate) error {
	const q = `
		insert into nbp.rates (table_id, currency, code, bid, ask, mid)
		values ($1, $2, $3, $4, $5, $6);
	`

	if _, err := g.pool.Exec(ctx, q, tableID, rate.Currency, rate.Code, rate.Bid, rate.Ask, rate.Mid); err != nil {
		return &domain.PersistenceError{Op: "insert rate", Err: fmt.Errorf("rate %q for table id %d: %w", rate.Code, tableID, err)}
	}
	return nil
}

// TableExists matches on the full table identity; a nil trading date only matches a stored null.
func (g *Gateway) TableExists(ctx context.Context, table domain.Table) (bool, error) {
	const q = `
		select exists (
			select 1 from nbp.tables
			where table_type = $1
			  and no = $2
			  and effective_date = $3
			  and trading_date is not distinct from $4::date
		);
	`

	var exists bool
	if err := g.pool.QueryRow(ctx, q, table.Type, table.No, table.EffectiveDate, table.TradingDate).Scan(&exists); err != nil {
		return false, &domain.PersistenceError{Op: "check table", Err: fmt.Errorf("table %q: %w", table.No, err)}
	}
	return exists, nil
}

// RateExists looks for a value-identical rate under any table.
func (g *Gateway) RateExists(ctx context.Context, rate domain.Rate) (bool, error) {
	const q = `
		select exists (
			select 1 from nbp.rates
			where currency = $1
			  and code = $2
			  and bid is not distinct from $3::double precision
			  and ask is not distinct from $4::double precision
			  and mid is not distinct from $5::double precision
		);
	`

	var exists bool
	if err := g.pool.QueryRow(ctx, q, rate.Currency, rate.Code, rate.Bid, rate.Ask, rate.Mid).Scan(&exists); err != nil {
		return false, &domain.PersistenceError{Op: "check rate", Err: fmt.Errorf("rate %q: %w", rate.Code, err)}
	}
	return exists, nil
}

func (g *Gateway) GetLastDate(ctx context.Context, tableType string) (time.Time, error) {
	const q = `select max(effective_date) from nbp.tables where table_type = $1;`

	var last *time.Time
	if err := g.pool.QueryRow(ctx, q, tableType).Scan(&last); err != nil {
		return time.Time{}, &domain.PersistenceError{Op: "get last date", Err: fmt.Errorf("table type %q: %w", tableType, err)}
	}
	if last == nil {
		return g.bootstrap, nil
	}
	return domain.Day(*last), nil
}

var priceColumns = map[domain.PriceColumn]string{
	domain.PriceMid: "r.mid",
	domain.PriceBid: "r.bid",
	domain.PriceAsk: "r.ask",
}

// GetData returns joined rows with effective date in [from, to] for the given codes, ordered by
// code and date. A non-empty courseKind drops rows where that price is null.
func (g *Gateway) GetData(ctx context.Context, courseKind domain.PriceColumn, from, to time.Time, codes []string) ([]domain.Row, error) {
	filter := ""
	if courseKind != "" {
		col, ok := priceColumns[courseKind]
		if !ok {
			return nil, &domain.PersistenceError{Op: "get data", Err: fmt.Errorf("unknown price column %q", courseKind)}
		}
		filter = "and " + col + " is not null"
	}

	q := `
		select t.table_type, t.no, t.effective_date, t.trading_date,
		       r.currency, r.code, r.mid, r.bid, r.ask
		from nbp.rates r join nbp.tables t on r.table_id = t.id
		where t.effective_date between $1 and $2
		  and r.code = any($3)
		  ` + filter + `
		order by r.code, t.effective_date;
	`

	rows, err := g.pool.Query(ctx, q, domain.Day(from), domain.Day(to), codes)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "get data", Err: err}
	}
	defer rows.Close()

	result := make([]domain.Row, 0, 64)
	for rows.Next() {
		var row domain.Row
		if err = rows.Scan(
			&row.Table,
			&row.No,
			&row.EffectiveDate,
			&row.TradingDate,
			&row.Currency,
			&row.Code,
			&row.Mid,
			&row.Bid,
			&row.Ask,
		); err != nil {
			return nil, &domain.PersistenceError{Op: "get data", Err: fmt.Errorf("failed to scan row: %w", err)}
		}
		result = append(result, row)
	}
	if err = rows.Err(); err != nil {
		return nil, &domain.PersistenceError{Op: "get data", Err: err}
	}
	return result, nil
}

func (g *Gateway) GetCurrencies(ctx context.Context) ([]string, error) {
	rows, err := g.pool.Query(ctx, `select distinct code from nbp.rates order by code;`)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "get currencies", Err: err}
	}

	codes, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, &domain.PersistenceError{Op: "get currencies", Err: fmt.Errorf("failed to collect codes: %w", err)}
	}
	return codes, nil
}

func NewGateway(pool *pgxpool.Pool, bootstrap time.Time) *Gateway {
	return &Gateway{pool: pool, bootstrap: domain.Day(bootstrap)}
}
