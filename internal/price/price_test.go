package price

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected *float64
	}{
		{name: "nil", input: nil, expected: nil},
		{name: "zero", input: 0, expected: ptr(0)},
		{name: "float", input: 0.02, expected: ptr(0.02)},
		{name: "negative passes through", input: -1.5, expected: ptr(-1.5)},
		{name: "int64", input: int64(3), expected: ptr(3)},
		{name: "int8", input: int8(-2), expected: ptr(-2)},
		{name: "int16", input: int16(300), expected: ptr(300)},
		{name: "uint8", input: uint8(7), expected: ptr(7)},
		{name: "uint16", input: uint16(65535), expected: ptr(65535)},
		{name: "uintptr", input: uintptr(4), expected: ptr(4)},
		{name: "float32", input: float32(0.5), expected: ptr(0.5)},
		{name: "currency string", input: "$0.02", expected: ptr(0.02)},
		{name: "padded with separators", input: "  $1,234.5 ", expected: ptr(1234.5)},
		{name: "garbage", input: "abc", expected: nil},
		{name: "empty string", input: "", expected: nil},
		{name: "only currency", input: "$", expected: nil},
		{name: "trailing unit", input: "$0.04/image", expected: ptr(0.04)},
		{name: "nan string", input: "NaN", expected: nil},
		{name: "infinity string", input: "Inf", expected: nil},
		{name: "nan float", input: math.NaN(), expected: nil},
		{name: "json number", input: json.Number("0.5"), expected: ptr(0.5)},
		{name: "bool", input: true, expected: nil},
		{name: "object", input: map[string]any{"price": 1}, expected: nil},
		{name: "nil pointer", input: (*float64)(nil), expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.expected, *got)
		})
	}
}

func TestParseReturnsFreshPointer(t *testing.T) {
	v := 0.25
	got := Parse(&v)
	require.NotNil(t, got)
	*got = 9
	assert.Equal(t, 0.25, v)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "—", Format(nil))
	assert.Equal(t, "$0.02", Format(ptr(0.02)))
	assert.Equal(t, "$0", Format(ptr(0)))
}

func ptr(v float64) *float64 {
	return &v
}
