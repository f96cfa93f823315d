package midifile

import (
	"bytes"
	"testing"
)

func TestReadVLQKnownEncodings(t *testing.T) {
	tests := []struct {
		in   []byte
		want uint32
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x40}, 0x40},
		{[]byte{0x7F}, 0x7F},
		{[]byte{0x81, 0x00}, 0x80},
		{[]byte{0xC0, 0x00}, 0x2000},
		{[]byte{0xFF, 0x7F}, 0x3FFF},
		{[]byte{0x81, 0x80, 0x00}, 0x4000},
		{[]byte{0xFF, 0xFF, 0x7F}, 0x1FFFFF},
		{[]byte{0x81, 0x80, 0x80, 0x00}, 0x200000},
		{[]byte{0xFF, 0xFF, 0xFF, 0x7F}, 0x0FFFFFFF},
	}
	for _, tt := range tests {
		got, n, err := ReadVLQ(tt.in)
		if err != nil {
			t.Errorf("% x: %v", tt.in, err)
			continue
		}
		if got != tt.want || n != len(tt.in) {
			t.Errorf("% x: got %#x (%d bytes), want %#x (%d bytes)", tt.in, got, n, tt.want, len(tt.in))
		}
		if enc := appendVLQ(nil, tt.want); !bytes.Equal(enc, tt.in) {
			t.Errorf("encode %#x: got % x, want % x", tt.want, enc, tt.in)
		}
	}
}

func TestReadVLQStopsAtLastByte(t *testing.T) {
	got, n, err := ReadVLQ([]byte{0x83, 0x60, 0x90, 0x3C})
	if err != nil {
		t.Fatal(err)
	}
	if got != 0x1E0 || n != 2 {
		t.Errorf("got %#x after %d bytes, want 0x1e0 after 2", got, n)
	}
}

func TestVLQRoundTrip(t *testing.T) {
	check := func(v uint32) {
		enc := appendVLQ(nil, v)
		got, n, err := ReadVLQ(enc)
		if err != nil || got != v || n != len(enc) {
			t.Fatalf("%#x: got %#x n=%d err=%v (encoded % x)", v, got, n, err, enc)
		}
	}
	for _, v := range []uint32{0, 1, 0x7F, 0x80, 0x3FFF, 0x4000, 0x1FFFFF, 0x200000, 0x0FFFFFFE, 0x0FFFFFFF} {
		check(v)
	}
	for v := uint32(0); v <= 0x0FFFFFFF; v += 1021 {
		check(v)
	}
}
