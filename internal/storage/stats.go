package storage

import (
	"github.com/ivan-cunha/db721/internal/schema"
	"golang.org/x/exp/constraints"
)

// BlockStatistics accumulates the summary of the block currently being
// written. Process must see every value of the block, in order.
type BlockStatistics[V any, S any] interface {
	Reset()
	Process(v V)
	Stats() S
}

type numeric interface {
	constraints.Integer | constraints.Float
}

// NumericStatistics tracks count, min and max under numeric ordering.
type NumericStatistics[T int32 | float32] struct {
	num      int
	min, max T
	set      bool
}

func NewNumericStatistics[T int32 | float32]() *NumericStatistics[T] {
	return &NumericStatistics[T]{}
}

func (s *NumericStatistics[T]) Reset() {
	*s = NumericStatistics[T]{}
}

func (s *NumericStatistics[T]) Process(v T) {
	s.num++
	if !s.set {
		s.min, s.max, s.set = v, v, true
		return
	}
	s.min = keepLess(s.min, v)
	s.max = keepGreater(s.max, v)
}

func (s *NumericStatistics[T]) Stats() schema.NumericStats[T] {
	out := schema.NumericStats[T]{Num: s.num}
	if s.set {
		lo, hi := s.min, s.max
		out.Min, out.Max = &lo, &hi
	}
	return out
}

// StringStatistics orders values byte-lexicographically and additionally
// tracks the shortest and longest value.
type StringStatistics struct {
	num            int
	min, max       string
	minLen, maxLen int
	set            bool
}

func NewStringStatistics() *StringStatistics {
	return &StringStatistics{}
}

func (s *StringStatistics) Reset() {
	*s = StringStatistics{}
}

func (s *StringStatistics) Process(v string) {
	s.num++
	if !s.set {
		s.min, s.max = v, v
		s.minLen, s.maxLen = len(v), len(v)
		s.set = true
		return
	}
	s.min = keepLess(s.min, v)
	s.max = keepGreater(s.max, v)
	s.minLen = keepLess(s.minLen, len(v))
	s.maxLen = keepGreater(s.maxLen, len(v))
}

func (s *StringStatistics) Stats() schema.StringStats {
	out := schema.StringStats{Num: s.num}
	if s.set {
		lo, hi := s.min, s.max
		loLen, hiLen := s.minLen, s.maxLen
		out.Min, out.Max = &lo, &hi
		out.MinLen, out.MaxLen = &loLen, &hiLen
	}
	return out
}

// keepLess keeps cur only if it is strictly smaller than v. A NaN value
// therefore takes over the running minimum until the next value arrives.
func keepLess[T numeric | ~string](cur, v T) T {
	if cur < v {
		return cur
	}
	return v
}

func keepGreater[T numeric | ~string](cur, v T) T {
	if cur > v {
		return cur
	}
	return v
}
