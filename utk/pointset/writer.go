package pointset

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
)

// Writer writes point sets as UTK text files.
//
// Each call to Write or WriteSets on a non-empty file starts a new block: the
// writer makes sure the file ends with a newline and emits a sentinel line
// before the points unless the file already ends with one, so consecutive sets
// stay separated whether they were written by one Writer or by several
// appending to the same path.
type Writer struct {
	Sep      string
	Sentinel string
	Append   bool

	file *os.File
}

// NewWriter returns a Writer with the UTK default separators.
func NewWriter(appendMode bool) *Writer {
	return &Writer{Sep: DefaultSep, Sentinel: DefaultSentinel, Append: appendMode}
}

// Create opens path with a new default Writer.
func Create(path string, appendMode bool) (*Writer, error) {
	w := NewWriter(appendMode)
	if err := w.Open(path); err != nil {
		return nil, err
	}
	return w, nil
}

// Open closes any file already held and opens path, truncating it unless
// the writer appends.
func (w *Writer) Open(path string) error {
	if w.file != nil {
		if err := w.Close(); err != nil {
			return err
		}
	}
	flags := os.O_RDWR | os.O_CREATE
	if w.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return fmt.Errorf("opening point file: %w", err)
	}
	w.file = f
	return nil
}

// Write writes one point set, preceded by a sentinel line when the file
// already holds data.
func (w *Writer) Write(ps *PointSet) error {
	if w.file == nil {
		return errors.New("point writer is not open")
	}
	var buf bytes.Buffer
	if err := w.header(&buf); err != nil {
		return err
	}
	w.encode(&buf, ps)
	return w.flush(&buf)
}

// WriteSets writes each set followed by a sentinel line. Like Write, it first
// separates the new sets from data already in the file.
func (w *Writer) WriteSets(sets []*PointSet) error {
	if w.file == nil {
		return errors.New("point writer is not open")
	}
	var buf bytes.Buffer
	if err := w.header(&buf); err != nil {
		return err
	}
	for _, ps := range sets {
		w.encode(&buf, ps)
		buf.WriteString(w.Sentinel)
		buf.WriteByte('\n')
	}
	return w.flush(&buf)
}

// Close releases the underlying file.
func (w *Writer) Close() error {
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

// header separates new points from existing data: it terminates the last
// line and adds a sentinel unless the file already ends with one.
func (w *Writer) header(buf *bytes.Buffer) error {
	size, err := w.size()
	if err != nil || size == 0 {
		return err
	}
	tail := make([]byte, min(size, int64(len(w.Sentinel)+2)))
	if _, err := w.file.ReadAt(tail, size-int64(len(tail))); err != nil {
		return fmt.Errorf("reading file tail: %w", err)
	}
	if tail[len(tail)-1] != '\n' {
		buf.WriteByte('\n')
	} else if w.endsWithSentinel(tail, size) {
		return nil
	}
	buf.WriteString(w.Sentinel)
	buf.WriteByte('\n')
	return nil
}

// endsWithSentinel reports whether the last line of a file of the given size,
// whose trailing bytes are tail, is a sentinel line.
func (w *Writer) endsWithSentinel(tail []byte, size int64) bool {
	line := []byte(w.Sentinel + "\n")
	if !bytes.HasSuffix(tail, line) {
		return false
	}
	if size == int64(len(line)) {
		return true
	}
	return len(tail) > len(line) && tail[len(tail)-len(line)-1] == '\n'
}

func (w *Writer) size() (int64, error) {
	info, err := w.file.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat point file: %w", err)
	}
	return info.Size(), nil
}

func (w *Writer) encode(buf *bytes.Buffer, ps *PointSet) {
	encodeText(buf, ps, w.Sep)
}

func encodeText(buf *bytes.Buffer, ps *PointSet, sep string) {
	for i := 0; i < ps.N(); i++ {
		for j, v := range ps.Row(i) {
			if j > 0 {
				buf.WriteString(sep)
			}
			buf.WriteString(FormatCoord(v))
		}
		buf.WriteByte('\n')
	}
}

// EncodeText writes ps to dst in the text layout, one point per line.
func EncodeText(dst io.Writer, ps *PointSet, sep string) error {
	var buf bytes.Buffer
	encodeText(&buf, ps, sep)
	_, err := dst.Write(buf.Bytes())
	return err
}

func (w *Writer) flush(buf *bytes.Buffer) error {
	if _, err := w.file.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing points: %w", err)
	}
	return nil
}

// FormatCoord formats a coordinate with the shortest representation that
// parses back to the same float64.
func FormatCoord(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteText writes ps as a fresh text file at path.
func WriteText(path string, ps *PointSet) error {
	w, err := Create(path, false)
	if err != nil {
		return err
	}
	if err := w.Write(ps); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// WriteBinary writes ps as a binary point file: a big-endian uint32 point
// count followed by big-endian float64 coordinates.
func WriteBinary(path string, ps *PointSet) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating point file: %w", err)
	}
	if err := EncodeBinary(f, ps); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// EncodeBinary writes the binary point format to dst.
func EncodeBinary(dst io.Writer, ps *PointSet) error {
	if uint64(ps.N()) > math.MaxUint32 {
		return fmt.Errorf("%w: %d points exceed the 4-byte header", ErrShape, ps.N())
	}
	out := make([]byte, binaryHeaderSize+len(ps.Data())*float64Size)
	binary.BigEndian.PutUint32(out, uint32(ps.N()))
	for i, v := range ps.Data() {
		binary.BigEndian.PutUint64(out[binaryHeaderSize+i*float64Size:], math.Float64bits(v))
	}
	_, err := dst.Write(out)
	return err
}

// Write stores ps at path, choosing the format from the extension the same
// way Reader.Read does.
func Write(path string, ps *PointSet) error {
	if IsText(path) {
		return WriteText(path, ps)
	}
	return WriteBinary(path, ps)
}
