package schema

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKindOf(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name      string
		err       error
		kind      ErrorKind
		retryable bool
	}{
		{"nil", nil, "", false},
		{"empty input", &EmptyInputError{Analyzer: "commits"}, KindEmptyInput, false},
		{"wrapped empty input", fmt.Errorf("run: %w", &EmptyInputError{Analyzer: "files"}), KindEmptyInput, false},
		{"aggregation", &AggregationError{Analyzer: "files", Cause: cause}, KindAggregationFailed, false},
		{"data source", &DataSourceError{Op: "git log", Cause: cause}, KindDataSource, true},
		{"unknown", cause, KindUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind := ErrorKindOf(tt.err)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.retryable, kind.Retryable())
		})
	}
}

func TestAggregationErrorUnwrap(t *testing.T) {
	cause := errors.New("bad record")
	err := error(&AggregationError{Analyzer: "commits", Cause: cause})

	assert.ErrorIs(t, err, ErrAggregationFailed)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrEmptyInput)
	assert.Equal(t, "commits: aggregation failed: bad record", err.Error())

	var aggErr *AggregationError
	assert.ErrorAs(t, fmt.Errorf("outer: %w", err), &aggErr)
	assert.Equal(t, "commits", aggErr.Analyzer)
}

func TestEmptyInputError(t *testing.T) {
	err := &EmptyInputError{Analyzer: "files"}
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Equal(t, "files: no records to aggregate", err.Error())
}
