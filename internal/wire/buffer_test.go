package wire

import (
	"errors"
	"testing"

	"firestige.xyz/strix/internal/core"
)

func TestBufferReads(t *testing.T) {
	b := NewBuffer([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08})

	u8, err := b.U8(0)
	if err != nil || u8 != 0x01 {
		t.Errorf("U8(0) = %#x, %v; want 0x01", u8, err)
	}

	u16, err := b.U16(1)
	if err != nil || u16 != 0x0203 {
		t.Errorf("U16(1) = %#x, %v; want 0x0203", u16, err)
	}

	u24, err := b.U24(1)
	if err != nil || u24 != 0x020304 {
		t.Errorf("U24(1) = %#x, %v; want 0x020304", u24, err)
	}

	u32, err := b.U32(2)
	if err != nil || u32 != 0x03040506 {
		t.Errorf("U32(2) = %#x, %v; want 0x03040506", u32, err)
	}

	u48, err := b.U48(2)
	if err != nil || u48 != 0x030405060708 {
		t.Errorf("U48(2) = %#x, %v; want 0x030405060708", u48, err)
	}
}

func TestBufferTruncation(t *testing.T) {
	b := NewBuffer([]byte{0x01, 0x02, 0x03})

	if _, err := b.U32(0); !errors.Is(err, core.ErrTruncated) {
		t.Errorf("U32 past capture: err = %v, want ErrTruncated", err)
	}
	if _, err := b.U8(3); !errors.Is(err, core.ErrTruncated) {
		t.Errorf("U8 at end: err = %v, want ErrTruncated", err)
	}
	if _, err := b.U48(0); !errors.Is(err, core.ErrTruncated) {
		t.Errorf("U48 past capture: err = %v, want ErrTruncated", err)
	}
	if _, err := b.Bytes(2, 2); !errors.Is(err, core.ErrTruncated) {
		t.Errorf("Bytes past capture: err = %v, want ErrTruncated", err)
	}
}

func TestBufferNegativeOffset(t *testing.T) {
	b := NewBuffer([]byte{0x01, 0x02})

	if b.Has(-1, 1) {
		t.Error("Has(-1, 1) = true, want false")
	}
	if _, err := b.U8(-1); !errors.Is(err, core.ErrTruncated) {
		t.Errorf("U8(-1): err = %v, want ErrTruncated", err)
	}
}
