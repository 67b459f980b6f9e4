package rate

import (
	"nbprates/internal/analytics"
	"nbprates/internal/domain"
	"time"

	"github.com/google/uuid"
)

type TableReport struct {
	TableType      string    `json:"table_type"`
	From           time.Time `json:"from"`
	To             time.Time `json:"to"`
	Fetched        int       `json:"fetched"`
	TablesInserted int       `json:"tables_inserted"`
	TablesSkipped  int       `json:"tables_skipped"`
	RatesInserted  int       `json:"rates_inserted"`
	RatesSkipped   int       `json:"rates_skipped"`
}

type SyncReport struct {
	ExecID    string        `json:"exec_id"`
	StartedAt time.Time     `json:"started_at"`
	Tables    []TableReport `json:"tables"`
}

func (r SyncReport) TablesInserted() int {
	n := 0
	for _, t := range r.Tables {
		n += t.TablesInserted
	}
	return n
}

func (r SyncReport) RatesInserted() int {
	n := 0
	for _, t := range r.Tables {
		n += t.RatesInserted
	}
	return n
}

// Query selects the rows a session works on.
type Query struct {
	CourseKind string
	From       time.Time
	To         time.Time
	Codes      []string
}

type ChartInfo struct {
	Kind        analytics.ChartKind `json:"kind"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
}

type DatasetView struct {
	SessionID uuid.UUID
	Rows      []domain.Row
}

type ChartView struct {
	Name  string
	Chart analytics.Chart
	// Rows is the raw dataset, present only when the service is configured to show it.
	Rows []domain.Row
}
