package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/ivan-cunha/db721/pkg/types"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// encoding/json refuses NaN and ±Inf, so the footer is assembled here and
// only scalars go through json.Marshal.
type encoder struct {
	buf []byte
	err error
}

func (e *encoder) raw(s string) {
	e.buf = append(e.buf, s...)
}

func (e *encoder) value(v any) {
	if e.err != nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		e.err = err
		return
	}
	e.buf = append(e.buf, data...)
}

func (e *encoder) key(k string, first bool) {
	if !first {
		e.raw(",")
	}
	e.value(k)
	e.raw(":")
}

func encodeColumn[S any](e *encoder, typ types.DataType, stats *orderedmap.OrderedMap[int, S],
	numBlocks int, offset int64, block func(*encoder, S)) {
	e.raw(`{"type":`)
	e.value(typ)
	e.raw(`,"block_stats":{`)
	for pair := stats.Oldest(); pair != nil; pair = pair.Next() {
		e.key(strconv.Itoa(pair.Key), pair == stats.Oldest())
		block(e, pair.Value)
	}
	e.raw(`},"num_blocks":`)
	e.value(numBlocks)
	e.raw(`,"start_offset":`)
	e.value(offset)
	e.raw(`}`)
}

func (c *NumericColumn[T]) encode(e *encoder) {
	encodeColumn(e, c.Type, c.BlockStats, c.NumBlocks, c.StartOffset, func(e *encoder, st NumericStats[T]) {
		e.raw(`{"num":`)
		e.value(st.Num)
		e.raw(`,"min":`)
		encodeNumber(e, st.Min)
		e.raw(`,"max":`)
		encodeNumber(e, st.Max)
		e.raw(`}`)
	})
}

func (c *StringColumn) encode(e *encoder) {
	encodeColumn(e, c.Type, c.BlockStats, c.NumBlocks, c.StartOffset, func(e *encoder, st StringStats) {
		e.value(st)
	})
}

const (
	tokenNaN    = "NaN"
	tokenPosInf = "Infinity"
	tokenNegInf = "-Infinity"
)

func encodeNumber[T int32 | float32](e *encoder, v *T) {
	if v == nil {
		e.raw("null")
		return
	}
	switch f := float64(*v); {
	case math.IsNaN(f):
		e.raw(tokenNaN)
	case math.IsInf(f, 1):
		e.raw(tokenPosInf)
	case math.IsInf(f, -1):
		e.raw(tokenNegInf)
	default:
		e.value(*v)
	}
}

// quoteNonFinite turns the bare non-finite tokens outside of strings into
// JSON strings, which NumericStats.UnmarshalJSON maps back to floats.
func quoteNonFinite(data []byte) []byte {
	if !bytes.Contains(data, []byte(tokenNaN)) && !bytes.Contains(data, []byte(tokenPosInf)) {
		return data
	}

	out := make([]byte, 0, len(data)+16)
	inString, escaped := false, false
	for i := 0; i < len(data); i++ {
		c := data[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			out = append(out, c)
			continue
		}
		if c == '"' {
			inString = true
			out = append(out, c)
			continue
		}

		token := ""
		for _, t := range []string{tokenNegInf, tokenPosInf, tokenNaN} {
			if bytes.HasPrefix(data[i:], []byte(t)) {
				token = t
				break
			}
		}
		if token == "" {
			out = append(out, c)
			continue
		}
		out = append(out, '"')
		out = append(out, token...)
		out = append(out, '"')
		i += len(token) - 1
	}
	return out
}

func (s *NumericStats[T]) UnmarshalJSON(data []byte) error {
	var raw struct {
		Num int             `json:"num"`
		Min json.RawMessage `json:"min"`
		Max json.RawMessage `json:"max"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	lo, err := decodeNumber[T](raw.Min)
	if err != nil {
		return fmt.Errorf("min: %w", err)
	}
	hi, err := decodeNumber[T](raw.Max)
	if err != nil {
		return fmt.Errorf("max: %w", err)
	}
	*s = NumericStats[T]{Num: raw.Num, Min: lo, Max: hi}
	return nil
}

func decodeNumber[T int32 | float32](raw json.RawMessage) (*T, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var v T
	if raw[0] != '"' {
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return &v, nil
	}

	if _, isFloat := any(v).(float32); !isFloat {
		return nil, fmt.Errorf("unexpected string %s in int statistics", raw)
	}
	var token string
	if err := json.Unmarshal(raw, &token); err != nil {
		return nil, err
	}
	switch token {
	case tokenNaN:
		v = T(math.NaN())
	case tokenPosInf:
		v = T(math.Inf(1))
	case tokenNegInf:
		v = T(math.Inf(-1))
	default:
		return nil, fmt.Errorf("invalid number %q", token)
	}
	return &v, nil
}
