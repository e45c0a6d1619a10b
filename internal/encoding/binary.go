package encoding

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/ivan-cunha/db721/pkg/types"
)

const (
	// TrailerSize is the size of the footer length field at the end of a file.
	TrailerSize = 4

	// MaxStringLen is the longest string that still leaves room for a NUL.
	MaxStringLen = types.FixedStringWidth - 1
)

var (
	ErrStringTooLong = errors.New("string does not fit a fixed 32-byte record")
	ErrInvalidString = errors.New("string must be ASCII without NUL bytes")
)

func AppendInt32(dst []byte, v int32) []byte {
	return binary.LittleEndian.AppendUint32(dst, uint32(v))
}

func AppendFloat32(dst []byte, v float32) []byte {
	return binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
}

// AppendFixedString appends s followed by NUL padding up to 32 bytes.
func AppendFixedString(dst []byte, s string) ([]byte, error) {
	if err := ValidateString(s); err != nil {
		return dst, err
	}
	dst = append(dst, s...)
	var pad [types.FixedStringWidth]byte
	return append(dst, pad[:types.FixedStringWidth-len(s)]...), nil
}

// ValidateString reports whether s can be stored as a FixedString32 value.
func ValidateString(s string) error {
	if len(s) > MaxStringLen {
		return fmt.Errorf("%w: %q is %d bytes", ErrStringTooLong, s, len(s))
	}
	for i := 0; i < len(s); i++ {
		if s[i] == 0 || s[i] > 0x7f {
			return fmt.Errorf("%w: %q has byte 0x%02x at %d", ErrInvalidString, s, s[i], i)
		}
	}
	return nil
}

func DecodeInt32(b []byte) int32 {
	return int32(binary.LittleEndian.Uint32(b))
}

func DecodeFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

// DecodeFixedString strips the NUL padding of a 32-byte record.
func DecodeFixedString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// AppendTrailer appends the little-endian length of the footer blob.
func AppendTrailer(dst []byte, footerLen int) ([]byte, error) {
	if footerLen < 0 || int64(footerLen) > math.MaxInt32 {
		return dst, fmt.Errorf("footer length %d does not fit the trailer", footerLen)
	}
	return binary.LittleEndian.AppendUint32(dst, uint32(footerLen)), nil
}

func DecodeTrailer(b []byte) int {
	return int(binary.LittleEndian.Uint32(b))
}
