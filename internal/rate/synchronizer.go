package rate

import (
	"context"
	"fmt"
	"nbprates/internal/adapters"
	"nbprates/internal/domain"
	"nbprates/internal/platform/metrics"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Synchronizer copies NBP tables that are newer than the stored history into the database.
// Runs are serialized, so there is at most one writer at a time.
type Synchronizer struct {
	repo       adapters.TableRepository
	source     adapters.TableSource
	tableTypes []string
	now        func() time.Time

	mu sync.Mutex
}

// Sync runs one synchronization over every configured table type. The first failure stops the
// run; whatever was inserted before it stays in the database.
func (s *Synchronizer) Sync(ctx context.Context) (SyncReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := SyncReport{ExecID: uuid.NewString(), StartedAt: s.now().UTC()}
	started := time.Now()
	defer func() { metrics.SyncDuration.Observe(time.Since(started).Seconds()) }()

	logrus.Infof("Synchronization started for tables %v; execID: %s", s.tableTypes, report.ExecID)

	for _, tableType := range s.tableTypes {
		tr, err := s.syncTable(ctx, tableType)
		report.Tables = append(report.Tables, tr)
		if err != nil {
			metrics.SyncRuns.WithLabelValues("failed").Inc()
			return report, &domain.SynchronizationError{TableType: tableType, Err: err}
		}
	}

	metrics.SyncRuns.WithLabelValues("ok").Inc()
	logrus.Infof("Synchronization finished: %d tables and %d rates inserted; execID: %s",
		report.TablesInserted(), report.RatesInserted(), report.ExecID)
	return report, nil
}

func (s *Synchronizer) syncTable(ctx context.Context, tableType string) (TableReport, error) {
	tr := TableReport{TableType: tableType}

	// STEP 1: the window starts the day after the newest stored table and ends today
	last, err := s.repo.GetLastDate(ctx, tableType)
	if err != nil {
		return tr, err
	}
	from := domain.Day(last).AddDate(0, 0, 1)
	to := domain.Day(s.now())
	tr.From, tr.To = from, to

	if from.After(to) {
		logrus.Debugf("Table %s is up to date (last %s)", tableType, last.Format(domain.DateLayout))
		return tr, nil
	}

	// STEP 2: fetching the window; nothing published means nothing to do
	tables, err := s.source.GetTables(ctx, tableType, from, to)
	if err != nil {
		return tr, err
	}
	tr.Fetched = len(tables)
	if len(tables) == 0 {
		logrus.Infof("No %s tables published between %s and %s", tableType, from.Format(domain.DateLayout), to.Format(domain.DateLayout))
		return tr, nil
	}

	// STEP 3: inserting every table that is not stored yet, then its rates
	// ! NOTE: rate existence is checked by value across all tables, so a rate repeated
	// unchanged on a later table is not stored again
	for _, table := range tables {
		exists, err := s.repo.TableExists(ctx, table)
		if err != nil {
			return tr, err
		}
		if exists {
			tr.TablesSkipped++
			continue
		}

		tableID, err := s.repo.InsertTable(ctx, table)
		if err != nil {
			return tr, err
		}
		tr.TablesInserted++
		metrics.TablesInserted.WithLabelValues(tableType).Inc()

		for _, r := range table.Rates {
			exists, err := s.repo.RateExists(ctx, r)
			if err != nil {
				return tr, err
			}
			if exists {
				tr.RatesSkipped++
				continue
			}
			if err := s.repo.InsertRate(ctx, tableID, r); err != nil {
				return tr, fmt.Errorf("table %s rate %s: %w", table.No, r.Code, err)
			}
			tr.RatesInserted++
			metrics.RatesInserted.WithLabelValues(tableType).Inc()
		}
	}

	logrus.WithFields(logrus.Fields{
		"table_type":      tableType,
		"fetched":         tr.Fetched,
		"tables_inserted": tr.TablesInserted,
		"rates_inserted":  tr.RatesInserted,
	}).Info("Table type synchronized")
	return tr, nil
}

func NewSynchronizer(repo adapters.TableRepository, source adapters.TableSource, tableTypes []string, now func() time.Time) *Synchronizer {
	if now == nil {
		now = time.Now
	}
	return &Synchronizer{repo: repo, source: source, tableTypes: tableTypes, now: now}
}
