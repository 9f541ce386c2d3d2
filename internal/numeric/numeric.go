// Package numeric decodes fixed-width integers and floats from a byte
// range in either endianness. Pure functions; the bool result is false
// when the slice is too short.
package numeric

import (
	"encoding/binary"
	"math"
)

func Uint8(b []byte) (uint8, bool) {
	if len(b) < 1 {
		return 0, false
	}
	return b[0], true
}

func Int8(b []byte) (int8, bool) {
	v, ok := Uint8(b)
	return int8(v), ok
}

func Uint16LE(b []byte) (uint16, bool) {
	if len(b) < 2 {
		return 0, false
	}
	return binary.LittleEndian.Uint16(b), true
}

func Uint16BE(b []byte) (uint16, bool) {
	if len(b) < 2 {
		return 0, false
	}
	return binary.BigEndian.Uint16(b), true
}

func Int16LE(b []byte) (int16, bool) {
	v, ok := Uint16LE(b)
	return int16(v), ok
}

func Int16BE(b []byte) (int16, bool) {
	v, ok := Uint16BE(b)
	return int16(v), ok
}

func Uint32LE(b []byte) (uint32, bool) {
	if len(b) < 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b), true
}

func Uint32BE(b []byte) (uint32, bool) {
	if len(b) < 4 {
		return 0, false
	}
	return binary.BigEndian.Uint32(b), true
}

func Int32LE(b []byte) (int32, bool) {
	v, ok := Uint32LE(b)
	return int32(v), ok
}

func Int32BE(b []byte) (int32, bool) {
	v, ok := Uint32BE(b)
	return int32(v), ok
}

func Uint64LE(b []byte) (uint64, bool) {
	if len(b) < 8 {
		return 0, false
	}
	return binary.LittleEndian.Uint64(b), true
}

func Uint64BE(b []byte) (uint64, bool) {
	if len(b) < 8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(b), true
}

func Int64LE(b []byte) (int64, bool) {
	v, ok := Uint64LE(b)
	return int64(v), ok
}

func Int64BE(b []byte) (int64, bool) {
	v, ok := Uint64BE(b)
	return int64(v), ok
}

func Float32LE(b []byte) (float32, bool) {
	v, ok := Uint32LE(b)
	return math.Float32frombits(v), ok
}

func Float32BE(b []byte) (float32, bool) {
	v, ok := Uint32BE(b)
	return math.Float32frombits(v), ok
}

func Float64LE(b []byte) (float64, bool) {
	v, ok := Uint64LE(b)
	return math.Float64frombits(v), ok
}

func Float64BE(b []byte) (float64, bool) {
	v, ok := Uint64BE(b)
	return math.Float64frombits(v), ok
}
