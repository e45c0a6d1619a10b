package schema

import (
	"encoding/json"
	"fmt"

	"github.com/ivan-cunha/db721/pkg/types"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// NumericStats summarizes one block of an int or float column.
// Min and Max are nil while the block is empty.
type NumericStats[T int32 | float32] struct {
	Num int `json:"num"`
	Min *T  `json:"min"`
	Max *T  `json:"max"`
}

// StringStats summarizes one block of a string column. Lengths are taken on
// the unpadded value.
type StringStats struct {
	Num    int     `json:"num"`
	Min    *string `json:"min"`
	Max    *string `json:"max"`
	MinLen *int    `json:"min_len"`
	MaxLen *int    `json:"max_len"`
}

// Column is the footer entry of one column.
type Column interface {
	DataType() types.DataType
	Blocks() int
	Offset() int64

	encode(e *encoder)
}

type NumericColumn[T int32 | float32] struct {
	Type        types.DataType                               `json:"type"`
	BlockStats  *orderedmap.OrderedMap[int, NumericStats[T]] `json:"block_stats"`
	NumBlocks   int                                          `json:"num_blocks"`
	StartOffset int64                                        `json:"start_offset"`
}

type (
	IntColumn   = NumericColumn[int32]
	FloatColumn = NumericColumn[float32]
)

type StringColumn struct {
	Type        types.DataType                           `json:"type"`
	BlockStats  *orderedmap.OrderedMap[int, StringStats] `json:"block_stats"`
	NumBlocks   int                                      `json:"num_blocks"`
	StartOffset int64                                    `json:"start_offset"`
}

func NewIntColumn(offset int64) *IntColumn {
	return &IntColumn{
		Type:        types.Int32Type,
		BlockStats:  orderedmap.New[int, NumericStats[int32]](),
		StartOffset: offset,
	}
}

func NewFloatColumn(offset int64) *FloatColumn {
	return &FloatColumn{
		Type:        types.Float32Type,
		BlockStats:  orderedmap.New[int, NumericStats[float32]](),
		StartOffset: offset,
	}
}

func NewStringColumn(offset int64) *StringColumn {
	return &StringColumn{
		Type:        types.FixedString32Type,
		BlockStats:  orderedmap.New[int, StringStats](),
		StartOffset: offset,
	}
}

func (c *NumericColumn[T]) DataType() types.DataType { return c.Type }
func (c *NumericColumn[T]) Blocks() int              { return c.NumBlocks }
func (c *NumericColumn[T]) Offset() int64            { return c.StartOffset }

// Commit records the statistics of a closed block. Committed blocks are
// never overwritten.
func (c *NumericColumn[T]) Commit(block int, stats NumericStats[T]) error {
	if _, present := c.BlockStats.Get(block); present {
		return fmt.Errorf("block %d already committed", block)
	}
	c.BlockStats.Set(block, stats)
	c.NumBlocks = c.BlockStats.Len()
	return nil
}

func (c *NumericColumn[T]) Block(block int) (NumericStats[T], bool) {
	return c.BlockStats.Get(block)
}

func (c *StringColumn) DataType() types.DataType { return c.Type }
func (c *StringColumn) Blocks() int              { return c.NumBlocks }
func (c *StringColumn) Offset() int64            { return c.StartOffset }

func (c *StringColumn) Commit(block int, stats StringStats) error {
	if _, present := c.BlockStats.Get(block); present {
		return fmt.Errorf("block %d already committed", block)
	}
	c.BlockStats.Set(block, stats)
	c.NumBlocks = c.BlockStats.Len()
	return nil
}

func (c *StringColumn) Block(block int) (StringStats, bool) {
	return c.BlockStats.Get(block)
}

// Schema is the footer of a db721 file. Columns keep the order in which
// they were written.
type Schema struct {
	Table             string                                 `json:"Table"`
	Columns           *orderedmap.OrderedMap[string, Column] `json:"Columns"`
	MaxValuesPerBlock int                                    `json:"Max Values Per Block"`
}

func New(table string, maxValuesPerBlock int) *Schema {
	return &Schema{
		Table:             table,
		Columns:           orderedmap.New[string, Column](),
		MaxValuesPerBlock: maxValuesPerBlock,
	}
}

func (s *Schema) HasColumn(name string) bool {
	_, ok := s.Columns.Get(name)
	return ok
}

func (s *Schema) AddColumn(name string, col Column) error {
	if s.HasColumn(name) {
		return fmt.Errorf("column name %s already exists", name)
	}
	s.Columns.Set(name, col)
	return nil
}

func (s *Schema) GetColumn(name string) (Column, error) {
	col, ok := s.Columns.Get(name)
	if !ok {
		return nil, fmt.Errorf("column %s not found", name)
	}
	return col, nil
}

// Names lists the columns in file order.
func (s *Schema) Names() []string {
	names := make([]string, 0, s.Columns.Len())
	for pair := s.Columns.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Encode renders the footer blob. The output is byte-for-byte stable for a
// given schema.
// Non-finite float statistics are written as the bare tokens NaN, Infinity
// and -Infinity.
func (s *Schema) Encode() ([]byte, error) {
	e := &encoder{}
	e.raw(`{"Table":`)
	e.value(s.Table)
	e.raw(`,"Columns":{`)
	for pair := s.Columns.Oldest(); pair != nil; pair = pair.Next() {
		e.key(pair.Key, pair == s.Columns.Oldest())
		pair.Value.encode(e)
	}
	e.raw(`},"Max Values Per Block":`)
	e.value(s.MaxValuesPerBlock)
	e.raw(`}`)
	if e.err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", e.err)
	}
	return e.buf, nil
}

// Decode parses a footer blob, restoring the concrete column types from
// each column's type tag. It accepts the non-finite tokens Encode emits.
func Decode(data []byte) (*Schema, error) {
	data = quoteNonFinite(data)

	var raw struct {
		Table             string                                          `json:"Table"`
		Columns           *orderedmap.OrderedMap[string, json.RawMessage] `json:"Columns"`
		MaxValuesPerBlock int                                             `json:"Max Values Per Block"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema: %w", err)
	}

	s := New(raw.Table, raw.MaxValuesPerBlock)
	if raw.Columns == nil {
		return s, nil
	}
	for pair := raw.Columns.Oldest(); pair != nil; pair = pair.Next() {
		var head struct {
			Type types.DataType `json:"type"`
		}
		if err := json.Unmarshal(pair.Value, &head); err != nil {
			return nil, fmt.Errorf("column %s: %w", pair.Key, err)
		}

		var col Column
		switch head.Type {
		case types.Int32Type:
			col = NewIntColumn(0)
		case types.Float32Type:
			col = NewFloatColumn(0)
		case types.FixedString32Type:
			col = NewStringColumn(0)
		default:
			return nil, fmt.Errorf("column %s: %w", pair.Key, types.ErrUnsupportedType)
		}
		if err := json.Unmarshal(pair.Value, col); err != nil {
			return nil, fmt.Errorf("column %s: %w", pair.Key, err)
		}
		s.Columns.Set(pair.Key, col)
	}
	return s, nil
}
