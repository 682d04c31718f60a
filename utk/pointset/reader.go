package pointset

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	// DefaultSep separates coordinates in UTK text files.
	DefaultSep = "\t"
	// DefaultSentinel is the line separating point sets in a text file.
	DefaultSentinel = "#"
	// TextExt is the extension UTK uses for text point files.
	TextExt = ".dat"

	binaryHeaderSize = 4
	float64Size      = 8
)

// Reader decodes point files holding N points of dimension D.
// N <= 0 lets the reader infer the count from the data; D <= 0 is accepted
// for text files, where the dimension is taken from the first row.
type Reader struct {
	N        int
	D        int
	Sep      string // empty means any run of whitespace
	Sentinel string
}

// NewReader returns a Reader with the UTK default separators.
func NewReader(n, d int) *Reader {
	return &Reader{N: n, D: d, Sep: DefaultSep, Sentinel: DefaultSentinel}
}

// IsText reports whether path is read as a text point file.
func IsText(path string) bool {
	return filepath.Ext(path) == TextExt
}

// Read decodes path as text when it has the .dat extension and as binary otherwise.
func (r *Reader) Read(path string) (*PointSet, error) {
	if IsText(path) {
		return r.ReadText(path)
	}
	return r.ReadBinary(path)
}

// ReadBinary decodes a binary point file.
func (r *Reader) ReadBinary(path string) (*PointSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening point file: %w", err)
	}
	defer func() { _ = f.Close() }()

	ps, err := r.DecodeBinary(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ps, nil
}

// DecodeBinary skips the 4-byte point count prefix and decodes the remaining
// bytes as big-endian float64 values.
func (r *Reader) DecodeBinary(src io.Reader) (*PointSet, error) {
	raw, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	if len(raw) < binaryHeaderSize {
		return nil, fmt.Errorf("%w: binary file shorter than its %d-byte header", ErrShape, binaryHeaderSize)
	}
	body := raw[binaryHeaderSize:]
	if len(body)%float64Size != 0 {
		return nil, fmt.Errorf("%w: %d payload bytes is not a whole number of doubles", ErrShape, len(body))
	}

	values := make([]float64, len(body)/float64Size)
	for i := range values {
		values[i] = math.Float64frombits(binary.BigEndian.Uint64(body[i*float64Size:]))
	}

	n, err := r.rowsFor(len(values))
	if err != nil {
		return nil, err
	}
	return FromData(n, r.D, values)
}

func (r *Reader) rowsFor(count int) (int, error) {
	if r.D <= 0 {
		return 0, fmt.Errorf("%w: dimension is required to decode binary points", ErrShape)
	}
	if r.N > 0 {
		if count != r.N*r.D {
			return 0, fmt.Errorf("%w: got %d values, want %d points of dimension %d", ErrShape, count, r.N, r.D)
		}
		return r.N, nil
	}
	if count%r.D != 0 {
		return 0, fmt.Errorf("%w: %d values do not split into points of dimension %d", ErrShape, count, r.D)
	}
	return count / r.D, nil
}

// ReadText decodes a text point file holding a single point set.
func (r *Reader) ReadText(path string) (*PointSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening point file: %w", err)
	}
	defer func() { _ = f.Close() }()

	ps, err := r.DecodeText(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ps, nil
}

// DecodeText decodes one point per line. A sentinel line is an error here;
// use DecodeTextSets for multi-set files.
func (r *Reader) DecodeText(src io.Reader) (*PointSet, error) {
	sets, err := r.DecodeTextSets(src)
	if err != nil {
		return nil, err
	}
	switch len(sets) {
	case 0:
		return r.checkCount(New(0, max(r.D, 0)))
	case 1:
		return sets[0], nil
	default:
		return nil, fmt.Errorf("%w: found %d point sets, want 1", ErrShape, len(sets))
	}
}

// ReadSets decodes a text file holding point sets separated by sentinel lines.
func (r *Reader) ReadSets(path string) ([]*PointSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening point file: %w", err)
	}
	defer func() { _ = f.Close() }()

	sets, err := r.DecodeTextSets(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return sets, nil
}

// DecodeTextSets splits the input on sentinel lines. A trailing sentinel does
// not open an empty set. Every set must match N (when positive) and D.
func (r *Reader) DecodeTextSets(src io.Reader) ([]*PointSet, error) {
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	d := r.D
	var sets []*PointSet
	var rows []float64
	lineNo := 0

	flush := func() error {
		if len(rows) == 0 {
			return nil
		}
		ps, err := FromData(len(rows)/d, d, rows)
		if err != nil {
			return err
		}
		if _, err := r.checkCount(ps); err != nil {
			return fmt.Errorf("point set %d: %w", len(sets), err)
		}
		sets = append(sets, ps)
		rows = nil
		return nil
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if r.Sentinel != "" && line == r.Sentinel {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}

		fields := splitFields(line, r.Sep)
		if d <= 0 {
			d = len(fields)
		}
		if len(fields) != d {
			return nil, fmt.Errorf("%w: line %d has %d coordinates, want %d", ErrShape, lineNo, len(fields), d)
		}
		for _, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			rows = append(rows, v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return sets, nil
}

func (r *Reader) checkCount(ps *PointSet) (*PointSet, error) {
	if r.N > 0 && ps.N() != r.N {
		return nil, fmt.Errorf("%w: got %d points, want %d", ErrShape, ps.N(), r.N)
	}
	return ps, nil
}

// splitFields splits on sep and drops empty tokens; an empty sep splits on whitespace.
func splitFields(line, sep string) []string {
	if sep == "" {
		return strings.Fields(line)
	}
	parts := strings.Split(line, sep)
	fields := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			fields = append(fields, p)
		}
	}
	return fields
}
