package midifile

import (
	"bytes"
	"encoding/binary"
	"testing"

	"gitlab.com/gomidi/midi/v2/smf"
)

// appendVLQ encodes v as a MIDI variable-length quantity.
func appendVLQ(dst []byte, v uint32) []byte {
	var tmp [4]byte
	i := len(tmp) - 1
	tmp[i] = byte(v & 0x7F)
	for v >>= 7; v > 0; v >>= 7 {
		i--
		tmp[i] = byte(v&0x7F) | 0x80
	}
	return append(dst, tmp[i:]...)
}

func headerChunk(format, tracks, division uint16) []byte {
	b := []byte("MThd")
	b = binary.BigEndian.AppendUint32(b, 6)
	b = binary.BigEndian.AppendUint16(b, format)
	b = binary.BigEndian.AppendUint16(b, tracks)
	b = binary.BigEndian.AppendUint16(b, division)
	return b
}

func trackChunk(body []byte) []byte {
	b := []byte("MTrk")
	b = binary.BigEndian.AppendUint32(b, uint32(len(body)))
	return append(b, body...)
}

func fileBytes(header []byte, tracks ...[]byte) []byte {
	out := append([]byte{}, header...)
	for _, tr := range tracks {
		out = append(out, trackChunk(tr)...)
	}
	return out
}

// ev builds one (delta, event bytes) pair.
func ev(delta uint32, b ...byte) []byte {
	return append(appendVLQ(nil, delta), b...)
}

func cat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

var endOfTrack = ev(0, 0xFF, 0x2F, 0x00)

func tempoEvent(delta, micros uint32) []byte {
	return ev(delta, 0xFF, 0x51, 0x03, byte(micros>>16), byte(micros>>8), byte(micros))
}

func writeSMF(t *testing.T, s *smf.SMF) []byte {
	t.Helper()
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatalf("write smf: %v", err)
	}
	return buf.Bytes()
}

func decodeBytes(t *testing.T, b []byte) (Header, []Event) {
	t.Helper()
	h, events, err := Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return h, events
}

func bytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}
