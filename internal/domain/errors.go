package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNoData           = errors.New("no data for the selected range")
	ErrSessionNotFound  = errors.New("session not found")
	ErrUnsupportedChart = errors.New("unsupported chart kind")
	ErrPairRequiresTwo  = errors.New("currency relation requires exactly two currencies")
	ErrDuplicateDay     = errors.New("more than one observation per currency and day")
	ErrSessionStoreFull = errors.New("session store is full")
)

// RemoteFetchError is returned when the rates feed answers with a status other than 200 or 404.
type RemoteFetchError struct {
	StatusCode int
	Message    string
}

func (e *RemoteFetchError) Error() string {
	return fmt.Sprintf("remote fetch failed with status %d: %s", e.StatusCode, e.Message)
}

type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// SynchronizationError wraps whatever stopped a sync run. TableType is the type being
// processed at the moment of failure.
type SynchronizationError struct {
	TableType string
	Err       error
}

func (e *SynchronizationError) Error() string {
	return fmt.Sprintf("synchronization of table %q failed: %v", e.TableType, e.Err)
}

func (e *SynchronizationError) Unwrap() error { return e.Err }

type AnalyticsError struct {
	Chart string
	Err   error
}

func (e *AnalyticsError) Error() string {
	if e.Chart == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("chart %q: %v", e.Chart, e.Err)
}

func (e *AnalyticsError) Unwrap() error { return e.Err }
