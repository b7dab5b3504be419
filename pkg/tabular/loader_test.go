package tabular

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeTemp(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestLoadCzechSemicolonCSV(t *testing.T) {
	path := writeTemp(t, "Sales.csv",
		[]byte("Segment;Revenue\nB2C;100,5\nB2B;200\n"))

	res, err := NewLoader(zap.NewNop()).Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1, res.OptionIndex, "first ladder option should win")
	assert.Equal(t, "utf-8", res.Encoding)
	assert.Equal(t, ";", res.Delimiter)
	assert.Equal(t, "Sales", res.Frame.Name())
	assert.Equal(t, 2, res.Frame.RowCount())
	assert.Equal(t, 100.5, res.Frame.Value(0, "Revenue"))
}

func TestLoadWindows1250CSV(t *testing.T) {
	// "Náklady" with á encoded as 0xE1 in Windows-1250. Invalid UTF-8, so
	// the first two ladder options fail and option 3 wins.
	header := append([]byte("N\xe1klady;Cena\n"), []byte("energie;50\n")...)
	path := writeTemp(t, "PL.csv", header)

	res, err := NewLoader(zap.NewNop()).Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, res.OptionIndex)
	assert.Equal(t, "windows-1250", res.Encoding)
	assert.Contains(t, res.Frame.Columns(), "Náklady")
}

func TestLoadEmptyFileFails(t *testing.T) {
	path := writeTemp(t, "empty.csv", []byte("only-header\n"))

	_, err := NewLoader(zap.NewNop()).Load(path)
	require.Error(t, err)

	var formatErr *FormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, "empty.csv", formatErr.Filename)
	assert.Len(t, formatErr.Attempts, 5)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := NewLoader(zap.NewNop()).Load(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestSniffDelimiter(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected rune
	}{
		{"semicolons win", "a;b;c,d", ';'},
		{"commas win", "a,b,c,d;e", ','},
		{"tabs win", "a\tb\tc", '\t'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sniffDelimiter([]byte(tt.line)))
		})
	}
}

func TestFrameName(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"Sales.csv", "Sales"},
		{"P&L Report.csv", "P_L_Report"},
		{"2024-data.csv", "D2024_data"},
		{"OVH.xlsx", "OVH"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FrameName(tt.filename))
	}
}
