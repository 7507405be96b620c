package contract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/huangsam/gitpulse/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 10
	MaxResultLimit     = 1000
	DefaultPrecision   = 2
	DefaultMinAuthors  = 2
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// defaultExcludes drops generated files that would dominate churn rankings.
var defaultExcludes = []string{
	"go.sum", "package-lock.json", "yarn.lock", "pnpm-lock.yaml", "Cargo.lock", "composer.lock", "uv.lock", "poetry.lock",
	".min.js", ".min.css", ".map",
	"vendor/", "node_modules/", "dist/", "build/",
}

// Config holds the final, validated runtime configuration.
type Config struct {
	RepoPath   string
	Ref        string
	StartTime  time.Time // zero = no lower bound
	EndTime    time.Time // zero = no upper bound
	Author     string
	MaxCount   int
	PathFilter string
	Excludes   []string

	ResultLimit int
	Workers     int
	HourBasis   schema.HourBasis
	MinAuthors  int
	ChurnLimit  int
	Now         time.Time // reference instant for churn rates
	TimeInputs  TimeInputs

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool
	Verbose    bool

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
}

// TimeInputs keeps the raw time flags so relative values like "2 weeks ago"
// can be resolved again by long-running servers.
type TimeInputs struct {
	Start string
	End   string
	Now   string
}

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RepoPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Ref            string `mapstructure:"ref"`
	Start          string `mapstructure:"start"`
	End            string `mapstructure:"end"`
	Author         string `mapstructure:"author"`
	MaxCount       int    `mapstructure:"max-count"`
	Filter         string `mapstructure:"filter"`
	Exclude        string `mapstructure:"exclude"`
	Limit          int    `mapstructure:"limit"`
	Workers        int    `mapstructure:"workers"`
	HourBasis      string `mapstructure:"hour-basis"`
	Precision      int    `mapstructure:"precision"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Width          int    `mapstructure:"width"`
	Color          string `mapstructure:"color"`
	Verbose        bool   `mapstructure:"verbose"`
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`

	// --- Fields from filesCmd.Flags() ---
	MinAuthors int    `mapstructure:"min-authors"`
	ChurnLimit int    `mapstructure:"churn-limit"`
	Now        string `mapstructure:"now"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Excludes != nil {
		clone.Excludes = make([]string, len(c.Excludes))
		copy(clone.Excludes, c.Excludes)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processTimeRange(cfg, input, time.Now()); err != nil {
		return err
	}
	return resolveGitPathAndFilter(ctx, cfg, client, input)
}

// ValidateHourBasis parses a user-supplied hour basis. Empty means commit time.
func ValidateHourBasis(s string) (schema.HourBasis, error) {
	basis := schema.HourBasis(strings.ToLower(strings.TrimSpace(s)))
	if basis == "" {
		return schema.CommitHour, nil
	}
	if _, ok := schema.ValidHourBases[basis]; !ok {
		return "", fmt.Errorf("invalid hour basis '%s'. must be commit, utc, local", s)
	}
	return basis, nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates the cache backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	return ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect)
}

// validateSimpleInputs processes and validates all non-path, non-time fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Ref = strings.TrimSpace(input.Ref)
	cfg.Author = strings.TrimSpace(input.Author)
	cfg.PathFilter = input.Filter
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Verbose = input.Verbose

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.ChurnLimit < 0 || input.ChurnLimit > MaxResultLimit {
		return fmt.Errorf("churn-limit must be between 0 and %d (received %d)", MaxResultLimit, input.ChurnLimit)
	}
	cfg.ChurnLimit = input.ChurnLimit
	if cfg.ChurnLimit == 0 {
		cfg.ChurnLimit = cfg.ResultLimit
	}

	if input.MaxCount < 0 {
		return fmt.Errorf("max-count cannot be negative (received %d)", input.MaxCount)
	}
	cfg.MaxCount = input.MaxCount

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.MinAuthors < 1 {
		return fmt.Errorf("min-authors must be at least 1 (received %d)", input.MinAuthors)
	}
	cfg.MinAuthors = input.MinAuthors

	basis, err := ValidateHourBasis(input.HourBasis)
	if err != nil {
		return err
	}
	cfg.HourBasis = basis

	if input.Precision < 0 || input.Precision > 4 {
		return fmt.Errorf("precision must be between 0 and 4 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	cfg.Excludes = append([]string{}, defaultExcludes...)
	if input.Exclude != "" {
		for p := range strings.SplitSeq(input.Exclude, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				cfg.Excludes = append(cfg.Excludes, trimmed)
			}
		}
	}

	return nil
}

// processTimeRange parses the history window and the churn reference instant.
func processTimeRange(cfg *Config, input *ConfigRawInput, now time.Time) error {
	cfg.StartTime, cfg.EndTime = time.Time{}, time.Time{}
	cfg.TimeInputs = TimeInputs{Start: input.Start, End: input.End, Now: input.Now}

	if input.Start != "" {
		t, err := ParseTimeInput(input.Start, now)
		if err != nil {
			return fmt.Errorf("invalid start date: %w", err)
		}
		cfg.StartTime = t
	}
	if input.End != "" {
		t, err := ParseTimeInput(input.End, now)
		if err != nil {
			return fmt.Errorf("invalid end date: %w", err)
		}
		cfg.EndTime = t
	}
	if !cfg.StartTime.IsZero() && !cfg.EndTime.IsZero() && cfg.StartTime.After(cfg.EndTime) {
		return fmt.Errorf("start time (%s) cannot be after end time (%s)", cfg.StartTime.Format(DateTimeFormat), cfg.EndTime.Format(DateTimeFormat))
	}

	cfg.Now = now
	if input.Now != "" {
		t, err := ParseTimeInput(input.Now, now)
		if err != nil {
			return fmt.Errorf("invalid reference time: %w", err)
		}
		cfg.Now = t
	}
	return nil
}

// ResolveTimes re-resolves the history window and the reference instant
// against now. An absolute --now stays pinned; an empty one becomes now.
func (c *Config) ResolveTimes(now time.Time) error {
	in := c.TimeInputs
	return processTimeRange(c, &ConfigRawInput{Start: in.Start, End: in.End, Now: in.Now}, now)
}

// resolveGitPathAndFilter resolves the Git repository path and sets the implicit path filter.
func resolveGitPathAndFilter(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	absSearchPath, err := filepath.Abs(input.RepoPathStr)
	if err != nil {
		return err
	}
	absSearchPath = filepath.Clean(absSearchPath)

	info, statErr := os.Stat(absSearchPath)
	gitContextPath := absSearchPath
	if statErr == nil && !info.IsDir() {
		gitContextPath = filepath.Dir(absSearchPath)
	}

	gitRoot, err := client.GetRepoRoot(ctx, gitContextPath)
	if err != nil {
		return err
	}
	cfg.RepoPath = gitRoot

	if cfg.PathFilter != "" { // User-provided --filter flag takes precedence
		return nil
	}
	if absSearchPath == gitRoot {
		return nil
	}

	relativePath, err := filepath.Rel(gitRoot, absSearchPath)
	if err != nil {
		return err
	}
	if relativePath != "." {
		filter := relativePath
		if statErr == nil && info.IsDir() {
			filter += "/"
		}
		cfg.PathFilter = strings.ReplaceAll(filter, string(os.PathSeparator), "/")
	}
	return nil
}

// ProcessProfilingConfig enables profiling when a file prefix is given.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	profilePrefix = strings.TrimSpace(profilePrefix)
	if profilePrefix == "" {
		return nil
	}
	if strings.HasSuffix(profilePrefix, string(os.PathSeparator)) {
		return fmt.Errorf("profile prefix %q must name a file, not a directory", profilePrefix)
	}
	profile.Enabled = true
	profile.Prefix = profilePrefix
	return nil
}
