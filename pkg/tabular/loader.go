package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
)

// LoadOption is one (encoding, delimiter, decimal-separator) combination
// from the fallback ladder. A zero Delimiter means sniff it from the
// header line.
type LoadOption struct {
	Encoding  string
	Delimiter rune
	Decimal   string
}

// loadLadder is the ordered list of parse attempts. The first option
// producing at least one row and one column wins. Order matters: Czech
// semicolon CSV is the most common upload, English comma CSV second.
var loadLadder = []LoadOption{
	{Encoding: "utf-8", Delimiter: ';', Decimal: ","},
	{Encoding: "utf-8", Delimiter: ',', Decimal: "."},
	{Encoding: "windows-1250", Delimiter: ';', Decimal: ","},
	{Encoding: "utf-8", Delimiter: 0, Decimal: "."},
	{Encoding: "iso-8859-2", Delimiter: ';', Decimal: ","},
}

// FormatError reports that every load option was exhausted without
// producing a valid table.
type FormatError struct {
	Filename string
	Attempts []string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("no load option produced a valid table for %s (%d attempts)", e.Filename, len(e.Attempts))
}

// LoadResult carries the parsed frame plus which option succeeded, so the
// dataset record can store the winning encoding and delimiter.
type LoadResult struct {
	Frame       *Frame
	Encoding    string
	Delimiter   string
	OptionIndex int
}

// Loader parses uploaded dataset files into frames. Frames are rebuilt on
// every request; the loader holds no cache.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a dataset loader.
func NewLoader(logger *zap.Logger) *Loader {
	return &Loader{logger: logger.Named("tabular")}
}

// Load parses the file at path into a frame. CSV files walk the fallback
// ladder; XLSX files are read directly via the spreadsheet library.
func (l *Loader) Load(path string) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset file: %w", err)
	}

	name := FrameName(filepath.Base(path))
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".xlsx" || ext == ".xlsm" {
		return l.loadExcel(name, data)
	}
	return l.loadCSV(filepath.Base(path), name, data)
}

func (l *Loader) loadCSV(filename, name string, data []byte) (*LoadResult, error) {
	var attempts []string

	for i, opt := range loadLadder {
		frame, err := parseCSV(name, data, opt)
		if err != nil {
			attempts = append(attempts, fmt.Sprintf("option %d: %v", i+1, err))
			continue
		}
		if frame.RowCount() == 0 || frame.ColumnCount() == 0 {
			attempts = append(attempts, fmt.Sprintf("option %d: empty table", i+1))
			continue
		}

		frame.InferKinds(opt.Decimal)
		delim := string(opt.Delimiter)
		if opt.Delimiter == 0 {
			delim = string(sniffDelimiter(data))
		}
		l.logger.Debug("Parsed dataset",
			zap.String("file", filename),
			zap.Int("option", i+1),
			zap.String("encoding", opt.Encoding),
			zap.Int("rows", frame.RowCount()),
			zap.Int("columns", frame.ColumnCount()))
		return &LoadResult{
			Frame:       frame,
			Encoding:    opt.Encoding,
			Delimiter:   delim,
			OptionIndex: i + 1,
		}, nil
	}

	l.logger.Warn("All load options exhausted",
		zap.String("file", filename),
		zap.Strings("attempts", attempts))
	return nil, &FormatError{Filename: filename, Attempts: attempts}
}

func parseCSV(name string, data []byte, opt LoadOption) (*Frame, error) {
	decoded, err := decode(data, opt.Encoding)
	if err != nil {
		return nil, err
	}

	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(decoded)
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.Comma = delim
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	frame := NewFrame(name, header)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		row := make([]any, len(record))
		for i, v := range record {
			row[i] = strings.TrimSpace(v)
		}
		frame.AppendRow(row)
	}
	return frame, nil
}

func (l *Loader) loadExcel(name string, data []byte) (*LoadResult, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &FormatError{Filename: name, Attempts: []string{fmt.Sprintf("xlsx: %v", err)}}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &FormatError{Filename: name, Attempts: []string{"xlsx: no sheets"}}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &FormatError{Filename: name, Attempts: []string{fmt.Sprintf("xlsx: %v", err)}}
	}
	if len(rows) < 2 {
		return nil, &FormatError{Filename: name, Attempts: []string{"xlsx: empty table"}}
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}
	frame := NewFrame(name, header)
	for _, raw := range rows[1:] {
		row := make([]any, len(raw))
		for i, v := range raw {
			row[i] = strings.TrimSpace(v)
		}
		frame.AppendRow(row)
	}
	frame.InferKinds(".")

	l.logger.Debug("Parsed dataset",
		zap.String("file", name),
		zap.String("encoding", "xlsx"),
		zap.Int("rows", frame.RowCount()),
		zap.Int("columns", frame.ColumnCount()))
	return &LoadResult{Frame: frame, Encoding: "xlsx", Delimiter: "", OptionIndex: 1}, nil
}

// decode converts raw bytes from the named encoding to UTF-8. The UTF-8
// case strips a leading BOM.
func decode(data []byte, encoding string) ([]byte, error) {
	switch encoding {
	case "utf-8":
		data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
		if !utf8.Valid(data) {
			return nil, fmt.Errorf("not valid UTF-8")
		}
		return data, nil
	case "windows-1250":
		return charmap.Windows1250.NewDecoder().Bytes(data)
	case "iso-8859-2":
		return charmap.ISO8859_2.NewDecoder().Bytes(data)
	default:
		return nil, fmt.Errorf("unknown encoding %q", encoding)
	}
}

// sniffDelimiter picks the delimiter occurring most often in the first line.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	best := ','
	bestCount := -1
	for _, candidate := range []rune{';', ',', '\t'} {
		if n := bytes.Count(line, []byte(string(candidate))); n > bestCount {
			best = candidate
			bestCount = n
		}
	}
	return best
}

var identifierPattern = regexp.MustCompile(`[^A-Za-z0-9_]`)

// FrameName derives the snippet-facing identifier from a dataset filename:
// extension stripped, non-identifier characters replaced, leading digit
// prefixed. "Sales.csv" becomes "Sales".
func FrameName(filename string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	base = identifierPattern.ReplaceAllString(base, "_")
	if base == "" {
		return "Data"
	}
	if base[0] >= '0' && base[0] <= '9' {
		base = "D" + base
	}
	return base
}
