package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/ivan-cunha/db721/internal/encoding"
	"github.com/ivan-cunha/db721/internal/schema"
	"github.com/ivan-cunha/db721/pkg/types"
	"github.com/sirupsen/logrus"
)

// DefaultMaxValuesPerBlock is the block capacity used unless overridden.
const DefaultMaxValuesPerBlock = 50000

var (
	ErrDuplicateColumn  = errors.New("duplicate column")
	ErrTypeMismatch     = errors.New("values do not match column type")
	ErrWriterClosed     = errors.New("writer already closed")
	ErrInvalidBlockSize = errors.New("max values per block must be at least 1")
)

// WriterOption configures a Writer in NewWriter.
type WriterOption func(*Writer)

// WithMaxValuesPerBlock sets the block capacity for every column of the file.
func WithMaxValuesPerBlock(n int) WriterOption {
	return func(w *Writer) {
		w.maxValuesPerBlock = n
	}
}

// WithLogger replaces the standard logger entry the Writer logs to.
func WithLogger(log *logrus.Entry) WriterOption {
	return func(w *Writer) {
		w.log = log
	}
}

// Writer serializes one db721 file. Columns are written one at a time, each
// as a contiguous region, and Close appends the footer. A Writer must not be
// used from more than one goroutine.
type Writer struct {
	w                 *bufio.Writer
	schema            *schema.Schema
	maxValuesPerBlock int
	log               *logrus.Entry

	offset    int64
	footerLen int
	scratch   []byte
	err       error
	closed    bool
}

// NewWriter returns a Writer for the given table that buffers its output to w.
func NewWriter(w io.Writer, table string, opts ...WriterOption) (*Writer, error) {
	writer := &Writer{
		w:                 bufio.NewWriter(w),
		maxValuesPerBlock: DefaultMaxValuesPerBlock,
		log:               logrus.NewEntry(logrus.StandardLogger()),
		scratch:           make([]byte, 0, types.FixedStringWidth),
	}
	for _, opt := range opts {
		opt(writer)
	}

	if writer.maxValuesPerBlock < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBlockSize, writer.maxValuesPerBlock)
	}
	writer.schema = schema.New(table, writer.maxValuesPerBlock)
	writer.log = writer.log.WithField("table", table)
	return writer, nil
}

// WriteColumn writes values as a column of the given type and returns the
// number of blocks it occupies. values must be []int32, []float32 or
// []string to match dataType.
func (w *Writer) WriteColumn(name string, dataType types.DataType, values any) (int, error) {
	if !dataType.Valid() {
		return 0, fmt.Errorf("column %s: %w: %d", name, types.ErrUnsupportedType, int(dataType))
	}

	switch dataType {
	case types.Int32Type:
		v, ok := values.([]int32)
		if !ok {
			return 0, mismatch(name, dataType, values)
		}
		return w.WriteInt32Column(name, v)
	case types.Float32Type:
		v, ok := values.([]float32)
		if !ok {
			return 0, mismatch(name, dataType, values)
		}
		return w.WriteFloat32Column(name, v)
	default:
		v, ok := values.([]string)
		if !ok {
			return 0, mismatch(name, dataType, values)
		}
		return w.WriteStringColumn(name, v)
	}
}

func mismatch(name string, dataType types.DataType, values any) error {
	return fmt.Errorf("column %s: %w: %s column got %T", name, ErrTypeMismatch, dataType, values)
}

// WriteInt32Column writes values as 4-byte little-endian integers.
func (w *Writer) WriteInt32Column(name string, values []int32) (int, error) {
	if err := w.prepare(name); err != nil {
		return 0, err
	}

	col := schema.NewIntColumn(w.offset)
	numBlocks, err := writeColumn[int32, schema.NumericStats[int32]](
		w, values, encodeInt32, NewNumericStatistics[int32](), col.Commit)
	if err != nil {
		return 0, w.fail(name, err)
	}
	return numBlocks, w.finishColumn(name, col, len(values))
}

// WriteFloat32Column writes values as 4-byte little-endian IEEE 754 floats.
// NaN and infinities are stored as is.
func (w *Writer) WriteFloat32Column(name string, values []float32) (int, error) {
	if err := w.prepare(name); err != nil {
		return 0, err
	}

	col := schema.NewFloatColumn(w.offset)
	numBlocks, err := writeColumn[float32, schema.NumericStats[float32]](
		w, values, encodeFloat32, NewNumericStatistics[float32](), col.Commit)
	if err != nil {
		return 0, w.fail(name, err)
	}
	return numBlocks, w.finishColumn(name, col, len(values))
}

// WriteStringColumn writes values as 32-byte NUL padded records. Every
// value is validated before the first byte of the column is written.
func (w *Writer) WriteStringColumn(name string, values []string) (int, error) {
	if err := w.prepare(name); err != nil {
		return 0, err
	}
	for i, v := range values {
		if err := encoding.ValidateString(v); err != nil {
			return 0, fmt.Errorf("column %s value %d: %w", name, i, err)
		}
	}

	col := schema.NewStringColumn(w.offset)
	numBlocks, err := writeColumn[string, schema.StringStats](
		w, values, encoding.AppendFixedString, NewStringStatistics(), col.Commit)
	if err != nil {
		return 0, w.fail(name, err)
	}
	return numBlocks, w.finishColumn(name, col, len(values))
}

func (w *Writer) prepare(name string) error {
	if w.closed {
		return ErrWriterClosed
	}
	if w.err != nil {
		return w.err
	}
	if w.schema.HasColumn(name) {
		return fmt.Errorf("%w: %s", ErrDuplicateColumn, name)
	}
	return nil
}

func (w *Writer) finishColumn(name string, col schema.Column, n int) error {
	if err := w.schema.AddColumn(name, col); err != nil {
		return w.fail(name, err)
	}

	size, _ := columnSize(col.DataType(), n)
	w.log.WithFields(logrus.Fields{
		"column": name,
		"type":   col.DataType(),
		"values": n,
		"blocks": col.Blocks(),
		"offset": col.Offset(),
		"bytes":  size,
	}).Debug("Wrote column")
	return nil
}

// fail makes err sticky: a column that stopped half way leaves the stream
// in a state no later write can repair.
func (w *Writer) fail(name string, err error) error {
	w.err = fmt.Errorf("failed to write column %s: %w", name, err)
	return w.err
}

func (w *Writer) write(p []byte) error {
	n, err := w.w.Write(p)
	w.offset += int64(n)
	return err
}

// Close appends the footer and its length, then flushes the stream. It does
// not close the underlying writer.
func (w *Writer) Close() error {
	if w.closed {
		return ErrWriterClosed
	}
	w.closed = true
	if w.err != nil {
		return w.err
	}

	footer, err := w.schema.Encode()
	if err != nil {
		return err
	}
	trailer, err := encoding.AppendTrailer(nil, len(footer))
	if err != nil {
		return err
	}

	if err := w.write(footer); err != nil {
		return fmt.Errorf("failed to write footer: %w", err)
	}
	if err := w.write(trailer); err != nil {
		return fmt.Errorf("failed to write footer length: %w", err)
	}
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("failed to flush: %w", err)
	}
	w.footerLen = len(footer)

	w.log.WithFields(logrus.Fields{
		"columns": w.schema.Columns.Len(),
		"footer":  len(footer),
		"bytes":   w.offset,
	}).Debug("Wrote footer")
	return nil
}

// Schema returns the footer as accumulated so far.
func (w *Writer) Schema() *schema.Schema {
	return w.schema
}

// Size is the number of bytes handed to the underlying writer, including
// buffered ones.
func (w *Writer) Size() int64 {
	return w.offset
}

// FooterSize is the length of the footer blob, without its trailer. It is
// zero until Close succeeds.
func (w *Writer) FooterSize() int {
	return w.footerLen
}
