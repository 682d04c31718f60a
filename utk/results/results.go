// Package results reads the tabular text files written by UTK discrepancy
// executables.
//
// A result file starts with a header line of prefixed column names followed
// by one line of aligned values per evaluated subset size:
//
//	#Nbpts		#Mean		#Var		#Min		#Max		#NbPtsets
//	1024		0.00117859		0		0.00117859		0.00117859		1
package results

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Row maps a lowercased metric name to its value.
type Row map[string]float64

// Table is a parsed result file. Columns keeps the header order.
type Table struct {
	Columns []string
	Rows    []Row
}

// Reader parses result files.
type Reader struct {
	Sep     string // empty means any run of whitespace
	Exclude int    // leading characters dropped from every column name; negative means 0
}

// NewReader returns a Reader for the tab-separated, '#'-prefixed UTK layout.
func NewReader() *Reader {
	return &Reader{Sep: "\t", Exclude: 1}
}

// Read parses the result file at path.
func (r *Reader) Read(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening discrepancy results: %w", err)
	}
	defer func() { _ = f.Close() }()

	t, err := r.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return t, nil
}

// Parse reads a header line and the data lines that follow. Empty tokens are
// dropped on every line, so values pair with names by position; a line with
// fewer values than names yields a row with only the leading columns.
func (r *Reader) Parse(src io.Reader) (*Table, error) {
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("missing header line")
	}

	exclude := max(r.Exclude, 0)
	t := &Table{}
	for _, name := range r.tokens(scanner.Text()) {
		if len(name) > exclude {
			name = name[exclude:]
		} else {
			name = ""
		}
		t.Columns = append(t.Columns, strings.ToLower(name))
	}

	lineNo := 1
	for scanner.Scan() {
		lineNo++
		values := r.tokens(scanner.Text())
		if len(values) == 0 {
			continue
		}
		row := make(Row, len(values))
		for i, raw := range values {
			if i >= len(t.Columns) {
				break
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d, column %q: %w", lineNo, t.Columns[i], err)
			}
			row[t.Columns[i]] = v
		}
		t.Rows = append(t.Rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *Reader) tokens(line string) []string {
	line = strings.TrimSpace(line)
	if r.Sep == "" {
		return strings.Fields(line)
	}
	var out []string
	for _, tok := range strings.Split(line, r.Sep) {
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// Write emits t in the layout Reader expects, prefixing each column name
// with '#'. Column names are written as stored.
func Write(w io.Writer, t *Table) error {
	bw := bufio.NewWriter(w)
	for i, c := range t.Columns {
		if i > 0 {
			_, _ = bw.WriteString("\t\t")
		}
		_, _ = bw.WriteString("#" + c)
	}
	_ = bw.WriteByte('\n')
	for _, row := range t.Rows {
		for i, c := range t.Columns {
			if i > 0 {
				_, _ = bw.WriteString("\t\t")
			}
			_, _ = bw.WriteString(strconv.FormatFloat(row[c], 'g', -1, 64))
		}
		_ = bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Column returns the values of one metric across rows, skipping rows
// that lack it.
func (t *Table) Column(name string) []float64 {
	var out []float64
	for _, row := range t.Rows {
		if v, ok := row[name]; ok {
			out = append(out, v)
		}
	}
	return out
}
