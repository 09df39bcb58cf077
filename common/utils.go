package common

import (
	"encoding/binary"
	"math"
)

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// AppendFloat32 appends the little-endian IEEE 754 encoding of v to data.
// Encoded frames are a wire format, so the layout is explicit rather than a
// reinterpretation of in-memory slices.
//
// Parameters:
//   - data: the buffer to append to
//   - v: the value to encode
//
// Returns:
//   - []byte: the extended buffer
func AppendFloat32(data []byte, v float32) []byte {
	return binary.LittleEndian.AppendUint32(data, math.Float32bits(v))
}

// ReadFloat32 decodes a little-endian IEEE 754 float32 from the start of data.
//
// Parameters:
//   - data: the buffer to read from (must hold at least 4 bytes)
//
// Returns:
//   - float32: the decoded value
//   - []byte: the remaining buffer after the consumed bytes
func ReadFloat32(data []byte) (float32, []byte) {
	v := math.Float32frombits(binary.LittleEndian.Uint32(data))
	return v, data[4:]
}
