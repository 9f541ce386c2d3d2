package hexutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "", Format(nil))
	assert.Equal(t, "00", Format([]byte{0}))
	assert.Equal(t, "DE AD BE EF", Format([]byte{0xDE, 0xAD, 0xBE, 0xEF}))
}

func TestPrintable(t *testing.T) {
	assert.Equal(t, 'A', Printable('A'))
	assert.Equal(t, '.', Printable(0x00))
	assert.Equal(t, '.', Printable(0x7F))
}

func TestDigit(t *testing.T) {
	v, ok := Digit('a')
	assert.True(t, ok)
	assert.Equal(t, byte(10), v)

	v, ok = Digit('F')
	assert.True(t, ok)
	assert.Equal(t, byte(15), v)

	_, ok = Digit('g')
	assert.False(t, ok)
}
