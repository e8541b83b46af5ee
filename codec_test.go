package elfdoc

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadUint(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	tests := []struct {
		name  string
		width int
		order binary.ByteOrder
		want  uint64
	}{
		{"byte", 1, binary.LittleEndian, 0x01},
		{"u16 little", 2, binary.LittleEndian, 0x0201},
		{"u32 little", 4, binary.LittleEndian, 0x04030201},
		{"u64 little", 8, binary.LittleEndian, 0x0807060504030201},
		{"u16 big", 2, binary.BigEndian, 0x0102},
		{"u32 big", 4, binary.BigEndian, 0x01020304},
		{"u64 big", 8, binary.BigEndian, 0x0102030405060708},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, readUint(data[:tt.width], tt.order))
		})
	}
}

func TestReadUintBadWidth(t *testing.T) {
	for _, width := range []int{0, 3, 5, 7} {
		assert.Panics(t, func() {
			readUint(make([]byte, width), binary.LittleEndian)
		}, "width %d", width)
	}
}
