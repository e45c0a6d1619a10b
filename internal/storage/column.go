package storage

import (
	"github.com/ivan-cunha/db721/internal/encoding"
	"github.com/ivan-cunha/db721/pkg/types"
)

// blockBuilder holds the counters of a single column write: how many values
// sit in the open block and which block that is.
type blockBuilder struct {
	capacity  int
	numValues int
	index     int
}

func newBlockBuilder(capacity int) *blockBuilder {
	return &blockBuilder{capacity: capacity}
}

func (b *blockBuilder) full() bool {
	return b.numValues >= b.capacity
}

func (b *blockBuilder) add() {
	b.numValues++
}

func (b *blockBuilder) next() {
	b.index++
	b.numValues = 0
}

// numBlocks counts the open block too, even when it holds no values.
func (b *blockBuilder) numBlocks() int {
	return b.index + 1
}

// writeColumn streams the fixed-width records of values into w, cutting a new block whenever the open
// one reaches capacity. commit receives each closed block's statistics and,
// last, the statistics of the block left open at the end.
func writeColumn[V any, S any](
	w *Writer,
	values []V,
	encode func(dst []byte, v V) ([]byte, error),
	stats BlockStatistics[V, S],
	commit func(block int, s S) error,
) (int, error) {
	block := newBlockBuilder(w.maxValuesPerBlock)
	stats.Reset()

	for _, v := range values {
		if block.full() {
			if err := commit(block.index, stats.Stats()); err != nil {
				return 0, err
			}
			stats.Reset()
			block.next()
		}

		var err error
		w.scratch, err = encode(w.scratch[:0], v)
		if err != nil {
			return 0, err
		}
		if err := w.write(w.scratch); err != nil {
			return 0, err
		}
		stats.Process(v)
		block.add()
	}

	if err := commit(block.index, stats.Stats()); err != nil {
		return 0, err
	}
	return block.numBlocks(), nil
}

func encodeInt32(dst []byte, v int32) ([]byte, error) {
	return encoding.AppendInt32(dst, v), nil
}

func encodeFloat32(dst []byte, v float32) ([]byte, error) {
	return encoding.AppendFloat32(dst, v), nil
}

// columnSize is the number of bytes a column of n values occupies.
func columnSize(dt types.DataType, n int) (int64, error) {
	width, err := dt.Width()
	if err != nil {
		return 0, err
	}
	return int64(width) * int64(n), nil
}
