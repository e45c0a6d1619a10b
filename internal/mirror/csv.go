// Package mirror writes plain CSV copies of generated tables for manual
// inspection and cross-checking of db721 files.
package mirror

import (
	"encoding/csv"
	"fmt"
	"io"
	"iter"

	"github.com/ivan-cunha/db721/internal/compression"
)

// countingWriter tracks how many bytes reached the destination.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// WriteTable writes header followed by one line per record to w, passing the
// stream through comp. It returns the number of bytes written to w.
func WriteTable(w io.Writer, comp compression.Compressor, header []string, records iter.Seq[[]string]) (int64, error) {
	counter := &countingWriter{w: w}
	stream := comp.Wrap(counter)

	cw := csv.NewWriter(stream)
	cw.UseCRLF = true
	if err := cw.Write(header); err != nil {
		return counter.n, fmt.Errorf("failed to write header: %w", err)
	}
	rows := 0
	for record := range records {
		if err := cw.Write(record); err != nil {
			return counter.n, fmt.Errorf("failed to write row %d: %w", rows, err)
		}
		rows++
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return counter.n, fmt.Errorf("failed to flush rows: %w", err)
	}
	if err := stream.Close(); err != nil {
		return counter.n, fmt.Errorf("failed to finish %s stream: %w", comp.Name(), err)
	}
	return counter.n, nil
}

// Records adapts a slice to the sequence WriteTable consumes.
func Records[T any](items []T, format func(T) []string) iter.Seq[[]string] {
	return func(yield func([]string) bool) {
		for _, item := range items {
			if !yield(format(item)) {
				return
			}
		}
	}
}
