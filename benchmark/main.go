// Package main times the gitpulse CLI against a set of local repositories.
// Each command runs without a cache, then repeatedly against a fresh SQLite
// cache where the first run is cold and the rest are averaged as warm.
//
// Prerequisites:
// - gitpulse binary installed and available in PATH
// - Test repositories cloned under the base directory
//
// Usage: go run ./benchmark [repo-base-dir] [repo...]
//
//	repo-base-dir: Directory containing test repositories
//	repo: repository directory names (default: csv-parser fd git kubernetes)
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// benchmarkResult holds the no-cache average, cold run and warm average of one suite.
type benchmarkResult struct {
	Repository  string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// benchmarkConfig holds configuration for the benchmark run.
type benchmarkConfig struct {
	RepoBase    string
	CacheFile   string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	Repos       []string
	Suites      []suite
}

// suite is one gitpulse invocation to time.
type suite struct {
	Command string
	Args    []string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Printf("Usage: %s [repo-base-dir] [repo...]\n", os.Args[0])
		os.Exit(1)
	}

	config := benchmarkConfig{
		RepoBase:    os.Args[1],
		CacheFile:   filepath.Join(os.TempDir(), "gitpulse_benchmark_cache.db"),
		Timeout:     5 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		Repos:       []string{"csv-parser", "fd", "git", "kubernetes"},
		Suites: []suite{
			{Command: "commits"},
			{Command: "files"},
			{Command: "summary", Args: []string{"--start", "2 years ago"}},
		},
	}
	if len(os.Args) > 2 {
		config.Repos = os.Args[2:]
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)
	_ = os.Remove(config.CacheFile)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}
	printSummary(config, results)
}

// checkPrerequisites verifies that the gitpulse binary and test repositories exist.
func checkPrerequisites(config benchmarkConfig) error {
	if _, err := exec.LookPath("gitpulse"); err != nil {
		return errors.New("gitpulse binary not found in PATH")
	}
	for _, repo := range config.Repos {
		repoPath := filepath.Join(config.RepoBase, repo)
		if _, err := os.Stat(repoPath); os.IsNotExist(err) {
			return fmt.Errorf("repository %s not found at %s", repo, repoPath)
		}
	}
	return nil
}

// runBenchmarks executes every suite across the configured repositories.
func runBenchmarks(config benchmarkConfig) []benchmarkResult {
	fmt.Printf("Starting benchmark: %d repos, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.Repos), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	var results []benchmarkResult
	for _, repo := range config.Repos {
		fmt.Printf("Benchmarking %s\n", repo)
		repoPath := filepath.Join(config.RepoBase, repo)
		for _, s := range config.Suites {
			results = append(results, runSuite(config, repo, repoPath, s))
		}
	}
	return results
}

// runSuite runs the no-cache phase and then the cached phase on a fresh cache file.
func runSuite(config benchmarkConfig, repo, repoPath string, s suite) benchmarkResult {
	fmt.Printf("Running %s %s on %s\n", s.Command, strings.Join(s.Args, " "), repo)

	noCache := runPhase(config, repoPath, s, "none", config.NoCacheRuns)

	_ = os.Remove(config.CacheFile)
	cached := runPhase(config, repoPath, s, "sqlite", config.CacheRuns)

	result := benchmarkResult{
		Repository:  repo,
		Command:     s.Command,
		NoCacheTime: average(noCache),
		ColdTime:    "TIMEOUT",
		WarmTime:    "TIMEOUT",
	}
	if len(cached) > 0 {
		result.ColdTime = fmt.Sprintf("%.3fs", cached[0])
		result.WarmTime = average(cached[1:])
	}
	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", result.NoCacheTime, result.ColdTime, result.WarmTime)
	return result
}

// runPhase times numRuns successful runs of s with the given cache backend.
func runPhase(config benchmarkConfig, repoPath string, s suite, backend string, numRuns int) []float64 {
	args := append([]string{s.Command, "--cache-backend", backend}, s.Args...)
	if backend == "sqlite" {
		args = append(args, "--cache-db-connect", config.CacheFile)
	}

	var times []float64
	for range numRuns {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		cmd := exec.CommandContext(ctx, "gitpulse", args...)
		cmd.Dir = repoPath

		start := time.Now()
		output, err := cmd.CombinedOutput()
		elapsed := time.Since(start).Seconds()
		cancel()

		if err == nil && isSuccess(output) {
			times = append(times, elapsed)
		}
	}
	return times
}

// average formats the mean of times, or TIMEOUT when nothing finished.
func average(times []float64) string {
	if len(times) == 0 {
		return "TIMEOUT"
	}
	var sum float64
	for _, t := range times {
		sum += t
	}
	return fmt.Sprintf("%.3fs", sum/float64(len(times)))
}

// isSuccess checks for the footer every text report ends with.
func isSuccess(output []byte) bool {
	out := string(output)
	return strings.Contains(out, "Analysis completed in") && strings.Contains(out, "workers")
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []benchmarkResult) error {
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("gitpulse_benchmark_%s.csv", time.Now().Format("20060102_150405")))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"repo", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range results {
		if err := writer.Write([]string{r.Repository, r.Command, r.NoCacheTime, r.ColdTime, r.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the results grouped by command.
func printSummary(config benchmarkConfig, results []benchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, s := range config.Suites {
		fmt.Printf("%s:\n", s.Command)
		for _, r := range results {
			if r.Command == s.Command {
				fmt.Printf("  %-12s: No-cache: %s, Cold: %s, Warm: %s\n", r.Repository, r.NoCacheTime, r.ColdTime, r.WarmTime)
			}
		}
	}
}
