package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataTypeWidth(t *testing.T) {
	for dt, want := range map[DataType]int{Int32Type: 4, Float32Type: 4, FixedString32Type: 32} {
		got, err := dt.Width()
		require.NoError(t, err)
		assert.Equal(t, want, got, dt.String())
	}

	_, err := DataType(9).Width()
	require.ErrorIs(t, err, ErrUnsupportedType)
}

func TestDataTypeText(t *testing.T) {
	data, err := json.Marshal(map[string]DataType{"a": Int32Type, "b": Float32Type, "c": FixedString32Type})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"int","b":"float","c":"str"}`, string(data))

	var dt DataType
	require.NoError(t, json.Unmarshal([]byte(`"str"`), &dt))
	assert.Equal(t, FixedString32Type, dt)

	require.ErrorIs(t, json.Unmarshal([]byte(`"list[str]"`), &dt), ErrUnsupportedType)
	_, err = json.Marshal(DataType(-1))
	require.Error(t, err)
}

func TestParseDataType(t *testing.T) {
	dt, err := ParseDataType("Float32")
	require.NoError(t, err)
	assert.Equal(t, Float32Type, dt)

	dt, err = ParseDataType("int")
	require.NoError(t, err)
	assert.Equal(t, Int32Type, dt)

	_, err = ParseDataType("bool")
	require.ErrorIs(t, err, ErrUnsupportedType)
	assert.Equal(t, "DataType(7)", DataType(7).String())
	assert.False(t, DataType(7).Valid())
}
