package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchReachesSubscribers(t *testing.T) {
	m := NewManager()
	var got []string
	m.Subscribe(TypeFileSaved, func(e Event) bool {
		got = append(got, e.Data.(FileSavedData).Path)
		return false
	})

	m.Dispatch(TypeFileSaved, FileSavedData{Path: "/tmp/a.bin"})
	m.Dispatch(TypeFileOpened, FileOpenedData{Path: "/tmp/b.bin"})

	assert.Equal(t, []string{"/tmp/a.bin"}, got)
}

func TestEditHandlerRewritesBytes(t *testing.T) {
	m := NewManager()
	m.Subscribe(TypeEdit, func(e Event) bool {
		data := e.Data.(*EditData)
		for i := range data.Bytes {
			data.Bytes[i] ^= 0xFF
		}
		return false
	})

	payload := &EditData{Position: 3, Bytes: []byte{0x00, 0x0F}}
	m.Dispatch(TypeEdit, payload)
	assert.Equal(t, []byte{0xFF, 0xF0}, payload.Bytes)
}

func TestConsumedEventStopsPropagation(t *testing.T) {
	m := NewManager()
	first := 0
	second := 0
	m.Subscribe(TypeEdit, func(e Event) bool { first++; return true })
	m.Subscribe(TypeEdit, func(e Event) bool { second++; return false })

	m.Dispatch(TypeEdit, &EditData{})
	require.Equal(t, 1, first)
	assert.Equal(t, 0, second)
}
