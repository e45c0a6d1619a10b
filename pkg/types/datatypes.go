package types

import (
	"errors"
	"fmt"
)

var ErrUnsupportedType = errors.New("unsupported column type")

type DataType int

const (
	Int32Type DataType = iota
	Float32Type
	FixedString32Type
)

// FixedStringWidth is the encoded size of every FixedString32 value.
const FixedStringWidth = 32

// String is the name used in logs.
func (d DataType) String() string {
	switch d {
	case Int32Type:
		return "Int32"
	case Float32Type:
		return "Float32"
	case FixedString32Type:
		return "FixedString32"
	default:
		return fmt.Sprintf("DataType(%d)", int(d))
	}
}

// Tag is the type name stored in the db721 footer.
func (d DataType) Tag() (string, error) {
	switch d {
	case Int32Type:
		return "int", nil
	case Float32Type:
		return "float", nil
	case FixedString32Type:
		return "str", nil
	default:
		return "", fmt.Errorf("%w: %d", ErrUnsupportedType, int(d))
	}
}

// Width returns the number of bytes one encoded value occupies.
func (d DataType) Width() (int, error) {
	switch d {
	case Int32Type, Float32Type:
		return 4, nil
	case FixedString32Type:
		return FixedStringWidth, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedType, int(d))
	}
}

func (d DataType) Valid() bool {
	return d >= Int32Type && d <= FixedString32Type
}

// ParseDataType accepts both footer tags and the names returned by String.
func ParseDataType(s string) (DataType, error) {
	switch s {
	case "int", "Int32":
		return Int32Type, nil
	case "float", "Float32":
		return Float32Type, nil
	case "str", "FixedString32":
		return FixedString32Type, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedType, s)
	}
}

func (d DataType) MarshalText() ([]byte, error) {
	tag, err := d.Tag()
	if err != nil {
		return nil, err
	}
	return []byte(tag), nil
}

func (d *DataType) UnmarshalText(text []byte) error {
	parsed, err := ParseDataType(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Column is a named, typed sequence of values handed over by a data source.
// Values must be []int32, []float32 or []string matching Type.
type Column struct {
	Name   string
	Type   DataType
	Values any
}
