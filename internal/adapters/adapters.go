package adapters

import (
	"context"
	"nbprates/internal/domain"
	"time"

	"github.com/google/uuid"
)

type TableSource interface {
	GetTables(ctx context.Context, tableType string, from, to time.Time) ([]domain.Table, error)
}

type TableRepository interface {
	InsertTable(ctx context.Context, table domain.Table) (int64, error)
	InsertRate(ctx context.Context, tableID int64, rate domain.Rate) error
	TableExists(ctx context.Context, table domain.Table) (bool, error)
	RateExists(ctx context.Context, rate domain.Rate) (bool, error)
	GetLastDate(ctx context.Context, tableType string) (time.Time, error)
}

type RowRepository interface {
	GetData(ctx context.Context, courseKind domain.PriceColumn, from, to time.Time, codes []string) ([]domain.Row, error)
	GetCurrencies(ctx context.Context) ([]string, error)
}

type DatasetCache interface {
	Get(sessionID uuid.UUID) (domain.Dataset, bool)
	Set(sessionID uuid.UUID, dataset domain.Dataset) error
}
