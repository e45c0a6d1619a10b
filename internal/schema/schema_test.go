package schema

import (
	"math"
	"testing"

	"github.com/ivan-cunha/db721/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestSchema_EncodeOrder(t *testing.T) {
	s := New("Farm", 50000)

	names := NewStringColumn(0)
	require.NoError(t, names.Commit(0, StringStats{
		Num: 2, Min: ptr("Cheep Birds"), Max: ptr("Incubator"), MinLen: ptr(9), MaxLen: ptr(11),
	}))
	ages := NewFloatColumn(64)
	require.NoError(t, ages.Commit(0, NumericStats[float32]{Num: 2, Min: ptr(float32(0)), Max: ptr(float32(2.5))}))

	require.NoError(t, s.AddColumn("farm_name", names))
	require.NoError(t, s.AddColumn("min_age_weeks", ages))

	data, err := s.Encode()
	require.NoError(t, err)
	assert.Equal(t,
		`{"Table":"Farm","Columns":{`+
			`"farm_name":{"type":"str","block_stats":{"0":{"num":2,"min":"Cheep Birds","max":"Incubator","min_len":9,"max_len":11}},"num_blocks":1,"start_offset":0},`+
			`"min_age_weeks":{"type":"float","block_stats":{"0":{"num":2,"min":0,"max":2.5}},"num_blocks":1,"start_offset":64}},`+
			`"Max Values Per Block":50000}`,
		string(data))
}

func TestSchema_DuplicateColumn(t *testing.T) {
	s := New("T", 1)
	require.NoError(t, s.AddColumn("a", NewIntColumn(0)))
	require.Error(t, s.AddColumn("a", NewIntColumn(0)))

	_, err := s.GetColumn("missing")
	require.Error(t, err)
}

func TestColumn_CommitOnce(t *testing.T) {
	c := NewIntColumn(0)
	require.NoError(t, c.Commit(0, NumericStats[int32]{Num: 1, Min: ptr(int32(1)), Max: ptr(int32(1))}))
	require.Error(t, c.Commit(0, NumericStats[int32]{}))

	st, ok := c.Block(0)
	require.True(t, ok)
	assert.Equal(t, 1, st.Num)
	assert.Equal(t, 1, c.Blocks())
}

func TestSchema_DecodeRoundTrip(t *testing.T) {
	s := New("Chicken", 3)
	ids := NewIntColumn(0)
	for b := 0; b < 12; b++ {
		lo, hi := int32(b*3+1), int32(b*3+3)
		require.NoError(t, ids.Commit(b, NumericStats[int32]{Num: 3, Min: &lo, Max: &hi}))
	}
	notes := NewStringColumn(144)
	require.NoError(t, notes.Commit(0, StringStats{Num: 0}))
	require.NoError(t, s.AddColumn("identifier", ids))
	require.NoError(t, s.AddColumn("notes", notes))

	data, err := s.Encode()
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "Chicken", decoded.Table)
	assert.Equal(t, 3, decoded.MaxValuesPerBlock)
	assert.Equal(t, []string{"identifier", "notes"}, decoded.Names())

	col, err := decoded.GetColumn("identifier")
	require.NoError(t, err)
	ic, ok := col.(*IntColumn)
	require.True(t, ok)
	assert.Equal(t, 12, ic.NumBlocks)
	assert.Equal(t, types.Int32Type, ic.DataType())
	last, ok := ic.Block(11)
	require.True(t, ok)
	assert.Equal(t, int32(34), *last.Min)

	// blocks keep index order, so "10" follows "9"
	var order []int
	for pair := ic.BlockStats.Oldest(); pair != nil; pair = pair.Next() {
		order = append(order, pair.Key)
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, order)

	col, err = decoded.GetColumn("notes")
	require.NoError(t, err)
	sc := col.(*StringColumn)
	assert.Equal(t, int64(144), sc.Offset())
	empty, _ := sc.Block(0)
	assert.Nil(t, empty.Min)
	assert.Nil(t, empty.MaxLen)

	again, err := decoded.Encode()
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))
}

func TestSchema_NonFiniteFloats(t *testing.T) {
	s := New("T", 2)
	f := NewFloatColumn(0)
	nan, inf, ninf := float32(math.NaN()), float32(math.Inf(1)), float32(math.Inf(-1))
	require.NoError(t, f.Commit(0, NumericStats[float32]{Num: 2, Min: &nan, Max: &inf}))
	require.NoError(t, f.Commit(1, NumericStats[float32]{Num: 1, Min: &ninf, Max: ptr(float32(1.5))}))
	// string values that look like the tokens stay strings
	names := NewStringColumn(12)
	require.NoError(t, names.Commit(0, StringStats{Num: 1, Min: ptr("NaN"), Max: ptr("-Infinity"), MinLen: ptr(3), MaxLen: ptr(9)}))
	require.NoError(t, s.AddColumn("f", f))
	require.NoError(t, s.AddColumn("Infinity", names))

	data, err := s.Encode()
	require.NoError(t, err)
	assert.Equal(t,
		`{"Table":"T","Columns":{`+
			`"f":{"type":"float","block_stats":{"0":{"num":2,"min":NaN,"max":Infinity},"1":{"num":1,"min":-Infinity,"max":1.5}},"num_blocks":2,"start_offset":0},`+
			`"Infinity":{"type":"str","block_stats":{"0":{"num":1,"min":"NaN","max":"-Infinity","min_len":3,"max_len":9}},"num_blocks":1,"start_offset":12}},`+
			`"Max Values Per Block":2}`,
		string(data))

	decoded, err := Decode(data)
	require.NoError(t, err)
	col, err := decoded.GetColumn("f")
	require.NoError(t, err)
	fc := col.(*FloatColumn)
	b0, _ := fc.Block(0)
	assert.True(t, math.IsNaN(float64(*b0.Min)))
	assert.True(t, math.IsInf(float64(*b0.Max), 1))
	b1, _ := fc.Block(1)
	assert.True(t, math.IsInf(float64(*b1.Min), -1))
	assert.Equal(t, float32(1.5), *b1.Max)

	col, err = decoded.GetColumn("Infinity")
	require.NoError(t, err)
	st, _ := col.(*StringColumn).Block(0)
	assert.Equal(t, "NaN", *st.Min)
	assert.Equal(t, "-Infinity", *st.Max)

	again, err := decoded.Encode()
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))
}

func TestDecode_NonFiniteInt(t *testing.T) {
	_, err := Decode([]byte(`{"Table":"T","Columns":{"i":{"type":"int","block_stats":{"0":{"num":1,"min":NaN,"max":1}},"num_blocks":1,"start_offset":0}},"Max Values Per Block":1}`))
	require.Error(t, err)
}

func TestDecode_UnknownType(t *testing.T) {
	_, err := Decode([]byte(`{"Table":"T","Columns":{"x":{"type":"list[str]"}},"Max Values Per Block":1}`))
	require.Error(t, err)

	_, err = Decode([]byte(`not json`))
	require.Error(t, err)
}
