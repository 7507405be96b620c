package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFormatters(t *testing.T) {
	tests := []struct {
		precision int
		value     float64
		expected  string
	}{
		{2, 3.14159, "3.14"},
		{0, 3.14159, "3"},
		{4, 3.14159, "3.1416"},
		{2, -42.567, "-42.57"},
	}
	for _, tt := range tests {
		fmtFloat, intFmt := createFormatters(tt.precision)
		assert.Equal(t, tt.expected, fmtFloat(tt.value))
		assert.Equal(t, "%d", intFmt)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]any{"name": "test", "value": 42}))
	assert.Equal(t, "{\n  \"name\": \"test\",\n  \"value\": 42\n}\n", buf.String())

	err := writeJSON(&buf, make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode JSON")
}

func TestWriteCSVWithHeader(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, []string{"name", "description"}, func(w *csv.Writer) error {
		return w.Write([]string{"Test", "A value, with comma"})
	})
	require.NoError(t, err)
	assert.Equal(t, "name,description\nTest,\"A value, with comma\"\n", buf.String())

	err = writeCSVWithHeader(&buf, []string{"col"}, func(*csv.Writer) error {
		return assert.AnError
	})
	assert.Equal(t, assert.AnError, err)
}

func TestWriteWithFile(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		called := false
		err := writeWithFile("", func(io.Writer) error {
			called = true
			return nil
		}, "Test message")
		require.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("file", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "test.txt")
		err := writeWithFile(tmpFile, func(w io.Writer) error {
			_, err := w.Write([]byte("test content"))
			return err
		}, "Test message")
		require.NoError(t, err)

		content, err := os.ReadFile(tmpFile)
		require.NoError(t, err)
		assert.Equal(t, "test content", string(content))
	})

	t.Run("writer error", func(t *testing.T) {
		err := writeWithFile(filepath.Join(t.TempDir(), "test.txt"), func(io.Writer) error {
			return assert.AnError
		}, "Test message")
		assert.Equal(t, assert.AnError, err)
	})

	t.Run("invalid path", func(t *testing.T) {
		err := writeWithFile("/nonexistent/path/file.txt", func(io.Writer) error { return nil }, "Test message")
		assert.Error(t, err)
	})
}

func TestWriteJSONToFile(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "test.json")
	err := writeWithFile(tmpFile, func(w io.Writer) error {
		return writeJSON(w, map[string]any{"name": "integration test", "count": 123})
	}, "Wrote JSON")
	require.NoError(t, err)

	content, err := os.ReadFile(tmpFile)
	require.NoError(t, err)
	var result map[string]any
	require.NoError(t, json.Unmarshal(content, &result))
	assert.Equal(t, float64(123), result["count"])
}

func TestHistogramBar(t *testing.T) {
	assert.Equal(t, "", histogramBar(0, 10))
	assert.Equal(t, "", histogramBar(3, 0))
	assert.Equal(t, strings.Repeat("█", barWidth), histogramBar(10, 10))
	assert.Equal(t, strings.Repeat("█", barWidth/2), histogramBar(5, 10))
	assert.Equal(t, "█", histogramBar(1, 1000), "non-zero counts stay visible")
}

func TestFormatTimes(t *testing.T) {
	ts := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "", formatTime(time.Time{}))
	assert.Equal(t, "2024-03-04T10:00:00Z", formatTime(ts))
	assert.Equal(t, "now", formatBound(time.Time{}, "now"))
	assert.Equal(t, "2024-03-04T10:00:00Z", formatBound(ts, "now"))
}

func TestSiblingPath(t *testing.T) {
	assert.Equal(t, "out/report.authors.parquet", siblingPath("out/report.parquet", "authors"))
	assert.Equal(t, "report.files", siblingPath("report", "files"))
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderTable(&buf, []string{"Name", "Count"}, [][]string{{"alpha", "1"}, {"beta", "22"}}))
	out := buf.String()
	assert.Contains(t, out, "alpha")
	assert.Contains(t, out, "22")
	assert.Contains(t, strings.ToUpper(out), "COUNT")
}
