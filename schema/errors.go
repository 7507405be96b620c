package schema

import (
	"errors"
	"fmt"
)

// Sentinels for the closed failure taxonomy. Use errors.Is against these.
var (
	ErrEmptyInput        = errors.New("no records to aggregate")
	ErrAggregationFailed = errors.New("aggregation failed")
	ErrDataSource        = errors.New("data source failed")
)

// ErrorKind classifies a failure so callers can branch without type switches.
type ErrorKind string

// All error kinds.
const (
	KindEmptyInput        ErrorKind = "empty_input"
	KindAggregationFailed ErrorKind = "aggregation_failed"
	KindDataSource        ErrorKind = "data_source"
	KindUnknown           ErrorKind = "unknown"
)

// EmptyInputError reports that an analyzer was handed nothing to aggregate.
type EmptyInputError struct {
	Analyzer string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s: %v", e.Analyzer, ErrEmptyInput)
}

// Unwrap exposes ErrEmptyInput.
func (e *EmptyInputError) Unwrap() error {
	return ErrEmptyInput
}

// AggregationError wraps an unexpected failure raised while aggregating.
// No partial result accompanies it.
type AggregationError struct {
	Analyzer string
	Cause    error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Analyzer, ErrAggregationFailed, e.Cause)
}

// Unwrap exposes both ErrAggregationFailed and the original cause.
func (e *AggregationError) Unwrap() []error {
	return []error{ErrAggregationFailed, e.Cause}
}

// DataSourceError wraps failures from git or the activity cache.
type DataSourceError struct {
	Op    string
	Cause error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

// Unwrap exposes both ErrDataSource and the original cause.
func (e *DataSourceError) Unwrap() []error {
	return []error{ErrDataSource, e.Cause}
}

// ErrorKindOf classifies err. A nil error has no kind.
func ErrorKindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyInput):
		return KindEmptyInput
	case errors.Is(err, ErrAggregationFailed):
		return KindAggregationFailed
	case errors.Is(err, ErrDataSource):
		return KindDataSource
	default:
		return KindUnknown
	}
}

// Retryable reports whether rerunning the whole pipeline could succeed.
// Only data source failures qualify; the aggregators are deterministic.
func (k ErrorKind) Retryable() bool {
	return k == KindDataSource
}
