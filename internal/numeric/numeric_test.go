package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegerDecoding(t *testing.T) {
	b := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}

	v16le, ok := Uint16LE(b)
	require.True(t, ok)
	assert.Equal(t, uint16(0x0201), v16le)

	v16be, ok := Uint16BE(b)
	require.True(t, ok)
	assert.Equal(t, uint16(0x0102), v16be)

	v32le, ok := Uint32LE(b)
	require.True(t, ok)
	assert.Equal(t, uint32(0x04030201), v32le)

	v64be, ok := Uint64BE(b)
	require.True(t, ok)
	assert.Equal(t, uint64(0x0102030405060708), v64be)
}

func TestSignedDecoding(t *testing.T) {
	v, ok := Int8([]byte{0xFF})
	require.True(t, ok)
	assert.Equal(t, int8(-1), v)

	v16, ok := Int16BE([]byte{0xFF, 0xFE})
	require.True(t, ok)
	assert.Equal(t, int16(-2), v16)
}

func TestFloatDecoding(t *testing.T) {
	// 1.0 as IEEE-754 single, big endian.
	v, ok := Float32BE([]byte{0x3F, 0x80, 0x00, 0x00})
	require.True(t, ok)
	assert.Equal(t, float32(1.0), v)

	// 1.0 as double, little endian.
	d, ok := Float64LE([]byte{0, 0, 0, 0, 0, 0, 0xF0, 0x3F})
	require.True(t, ok)
	assert.Equal(t, 1.0, d)
}

func TestShortSlices(t *testing.T) {
	_, ok := Uint16LE([]byte{0x01})
	assert.False(t, ok)
	_, ok = Uint64BE([]byte{1, 2, 3})
	assert.False(t, ok)
	_, ok = Uint8(nil)
	assert.False(t, ok)
}
