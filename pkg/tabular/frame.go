// Package tabular provides the in-memory table type that generated
// snippets operate on, plus the loader that parses uploaded files into it.
package tabular

import (
	"fmt"
	"regexp"
	"sort"
)

// Kind classifies a column's inferred type.
type Kind string

const (
	// KindText holds free-form strings.
	KindText Kind = "text"
	// KindNumeric holds float64 values.
	KindNumeric Kind = "numeric"
	// KindMonthly is a numeric wide-format column named like "01.01.2024".
	KindMonthly Kind = "monthly"
)

// monthlyColumnPattern matches wide-format month column headers
// (first-of-month day.month.year).
var monthlyColumnPattern = regexp.MustCompile(`^01\.\d{2}\.\d{4}$`)

// Frame is an in-memory table of named, typed columns and ordered rows.
// Cell values are either string, float64 or nil. Frames are rebuilt from
// the stored file on every request and never shared across requests.
type Frame struct {
	name    string
	columns []string
	kinds   []Kind
	index   map[string]int
	rows    [][]any
}

// NewFrame creates an empty frame with the given column names. All columns
// start as text; InferKinds reclassifies them after rows are appended.
func NewFrame(name string, columns []string) *Frame {
	f := &Frame{
		name:    name,
		columns: append([]string(nil), columns...),
		kinds:   make([]Kind, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		f.kinds[i] = KindText
		f.index[c] = i
	}
	return f
}

// Name returns the frame's identifier (dataset name without extension).
func (f *Frame) Name() string { return f.name }

// Columns returns the ordered column names.
func (f *Frame) Columns() []string { return append([]string(nil), f.columns...) }

// Kind returns the inferred kind of the named column, or KindText if the
// column does not exist.
func (f *Frame) Kind(column string) Kind {
	i, ok := f.index[column]
	if !ok {
		return KindText
	}
	return f.kinds[i]
}

// RowCount returns the number of data rows.
func (f *Frame) RowCount() int { return len(f.rows) }

// ColumnCount returns the number of columns.
func (f *Frame) ColumnCount() int { return len(f.columns) }

// AppendRow adds a row. Short rows are padded with nil, long rows truncated.
func (f *Frame) AppendRow(values []any) {
	row := make([]any, len(f.columns))
	copy(row, values)
	f.rows = append(f.rows, row)
}

// Value returns the cell at (row, column), or nil when out of range.
func (f *Frame) Value(row int, column string) any {
	i, ok := f.index[column]
	if !ok || row < 0 || row >= len(f.rows) {
		return nil
	}
	return f.rows[row][i]
}

// Row is a single frame row exposed to predicates and snippets.
type Row struct {
	frame *Frame
	idx   int
}

// Get returns the raw cell value for the named column.
func (r Row) Get(column string) any { return r.frame.Value(r.idx, column) }

// Text returns the cell as a string, empty for nil or numeric cells.
func (r Row) Text(column string) string {
	s, _ := r.frame.Value(r.idx, column).(string)
	return s
}

// Number returns the cell as a float64, 0 for nil or text cells.
func (r Row) Number(column string) float64 {
	n, _ := r.frame.Value(r.idx, column).(float64)
	return n
}

// Records converts the frame into a list of column→value mappings, one per
// row, in row order.
func (f *Frame) Records() []map[string]any {
	records := make([]map[string]any, len(f.rows))
	for i, row := range f.rows {
		rec := make(map[string]any, len(f.columns))
		for j, col := range f.columns {
			rec[col] = row[j]
		}
		records[i] = rec
	}
	return records
}

// Filter returns a new frame containing only the rows the predicate accepts.
func (f *Frame) Filter(pred func(Row) bool) *Frame {
	out := f.emptyCopy()
	for i := range f.rows {
		if pred(Row{frame: f, idx: i}) {
			out.rows = append(out.rows, f.rows[i])
		}
	}
	return out
}

// FilterEq keeps rows whose column equals the given text value.
func (f *Frame) FilterEq(column, value string) *Frame {
	return f.Filter(func(r Row) bool { return r.Text(column) == value })
}

// Select returns a new frame containing only the named columns, in the
// given order. Unknown columns are skipped.
func (f *Frame) Select(columns ...string) *Frame {
	var keep []int
	var names []string
	for _, c := range columns {
		if i, ok := f.index[c]; ok {
			keep = append(keep, i)
			names = append(names, c)
		}
	}
	out := NewFrame(f.name, names)
	for i, src := range keep {
		out.kinds[i] = f.kinds[src]
	}
	for _, row := range f.rows {
		projected := make([]any, len(keep))
		for i, src := range keep {
			projected[i] = row[src]
		}
		out.rows = append(out.rows, projected)
	}
	return out
}

// GroupBySum groups rows by the key column and sums each value column
// within a group. Output rows are ordered by first appearance of the key.
func (f *Frame) GroupBySum(key string, values ...string) *Frame {
	out := NewFrame(f.name, append([]string{key}, values...))
	for i := range values {
		out.kinds[i+1] = KindNumeric
	}

	type group struct {
		row int
	}
	seen := map[string]group{}
	for i := range f.rows {
		r := Row{frame: f, idx: i}
		k := fmt.Sprint(r.Get(key))
		g, ok := seen[k]
		if !ok {
			newRow := make([]any, len(values)+1)
			newRow[0] = r.Get(key)
			for j := range values {
				newRow[j+1] = float64(0)
			}
			out.rows = append(out.rows, newRow)
			g = group{row: len(out.rows) - 1}
			seen[k] = g
		}
		for j, v := range values {
			sum, _ := out.rows[g.row][j+1].(float64)
			out.rows[g.row][j+1] = sum + r.Number(v)
		}
	}
	return out
}

// Sum returns the sum of a numeric column.
func (f *Frame) Sum(column string) float64 {
	var total float64
	for i := range f.rows {
		total += (Row{frame: f, idx: i}).Number(column)
	}
	return total
}

// SortBy returns a new frame sorted by the given column. Numeric columns
// sort numerically, text columns lexically.
func (f *Frame) SortBy(column string, descending bool) *Frame {
	out := f.emptyCopy()
	out.rows = append(out.rows, f.rows...)
	ci, ok := f.index[column]
	if !ok {
		return out
	}
	numeric := f.kinds[ci] != KindText
	sort.SliceStable(out.rows, func(a, b int) bool {
		less := false
		if numeric {
			na, _ := out.rows[a][ci].(float64)
			nb, _ := out.rows[b][ci].(float64)
			less = na < nb
		} else {
			sa, _ := out.rows[a][ci].(string)
			sb, _ := out.rows[b][ci].(string)
			less = sa < sb
		}
		if descending {
			return !less
		}
		return less
	})
	return out
}

// Head returns a new frame with at most n leading rows.
func (f *Frame) Head(n int) *Frame {
	out := f.emptyCopy()
	if n > len(f.rows) {
		n = len(f.rows)
	}
	out.rows = append(out.rows, f.rows[:n]...)
	return out
}

// WithColumn returns a new frame with an extra column computed per row.
func (f *Frame) WithColumn(name string, fn func(Row) any) *Frame {
	out := NewFrame(f.name, append(f.Columns(), name))
	copy(out.kinds, f.kinds)
	out.kinds[len(out.kinds)-1] = KindNumeric
	for i, row := range f.rows {
		extended := make([]any, len(row)+1)
		copy(extended, row)
		extended[len(row)] = fn(Row{frame: f, idx: i})
		out.rows = append(out.rows, extended)
	}
	return out
}

// MonthColumns returns the wide-format month columns in declaration order.
func (f *Frame) MonthColumns() []string {
	var cols []string
	for i, c := range f.columns {
		if f.kinds[i] == KindMonthly {
			cols = append(cols, c)
		}
	}
	return cols
}

// HasWideLayout reports whether the frame encodes periods as month columns.
func (f *Frame) HasWideLayout() bool {
	return len(f.MonthColumns()) > 0
}

// InferKinds reclassifies columns after loading: a column where every
// non-empty value parsed as a number becomes numeric, and numeric columns
// whose header looks like a first-of-month date become monthly. Parsed
// numeric cells are replaced with float64 values.
func (f *Frame) InferKinds(decimal string) {
	for ci, col := range f.columns {
		allNumeric := true
		nonEmpty := 0
		parsed := make([]float64, len(f.rows))
		present := make([]bool, len(f.rows))
		for ri, row := range f.rows {
			s, ok := row[ci].(string)
			if !ok || s == "" {
				continue
			}
			nonEmpty++
			n, ok := parseNumber(s, decimal)
			if !ok {
				allNumeric = false
				break
			}
			parsed[ri] = n
			present[ri] = true
		}
		if !allNumeric || nonEmpty == 0 {
			continue
		}
		for ri := range f.rows {
			if present[ri] {
				f.rows[ri][ci] = parsed[ri]
			}
		}
		if monthlyColumnPattern.MatchString(col) {
			f.kinds[ci] = KindMonthly
		} else {
			f.kinds[ci] = KindNumeric
		}
	}
}

func (f *Frame) emptyCopy() *Frame {
	out := NewFrame(f.name, f.columns)
	copy(out.kinds, f.kinds)
	return out
}
