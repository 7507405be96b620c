package schema

import "time"

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string

	// HourBasis represents the clock used for hour-of-day and weekday bucketing.
	HourBasis string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All hour bases supported.
const (
	CommitHour HourBasis = "commit" // default, offset recorded with the commit
	UTCHour    HourBasis = "utc"
	LocalHour  HourBasis = "local" // zone of the running process
)

// DayKeyFormat is the layout of keys in the per-day histogram.
const DayKeyFormat = "2006-01-02"

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid cache backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidHourBases lists all valid hour bases.
var ValidHourBases = map[HourBasis]struct{}{
	CommitHour: {},
	UTCHour:    {},
	LocalHour:  {},
}

// In converts t into the clock named by the basis.
// An empty basis behaves like CommitHour.
func (b HourBasis) In(t time.Time) time.Time {
	switch b {
	case UTCHour:
		return t.UTC()
	case LocalHour:
		return t.Local()
	default:
		return t
	}
}
