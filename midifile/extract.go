package midifile

import "fmt"

// maxVLQBytes is the longest variable-length quantity MIDI allows (0x0FFFFFFF).
const maxVLQBytes = 4

// ReadVLQ decodes a variable-length quantity from the start of b and returns
// the value and the number of bytes consumed. It stops at the first byte with
// the top bit clear.
func ReadVLQ(b []byte) (uint32, int, error) {
	var value uint32
	for i := 0; i < maxVLQBytes; i++ {
		if i >= len(b) {
			return 0, i, fmt.Errorf("%w: variable-length quantity", ErrTruncatedStream)
		}
		c := b[i]
		value = value<<7 | uint32(c&0x7F)
		if c&0x80 == 0 {
			return value, i + 1, nil
		}
	}
	return 0, maxVLQBytes, fmt.Errorf("%w: variable-length quantity longer than %d bytes", ErrMalformedTrack, maxVLQBytes)
}

// dataLength returns the number of data bytes following a channel status.
func dataLength(status uint8) int {
	switch status & 0xF0 {
	case ProgramChange, ChannelPressure:
		return 1
	default:
		return 2
	}
}

// trackReader walks one track chunk body. It never reads outside data.
type trackReader struct {
	data   []byte
	pos    int
	status uint8 // running status, channel messages only
	tick   uint64
	track  uint16
}

func (t *trackReader) byte() (uint8, error) {
	if t.pos >= len(t.data) {
		return 0, fmt.Errorf("%w: track %d ends mid-event", ErrTruncatedStream, t.track)
	}
	c := t.data[t.pos]
	t.pos++
	return c, nil
}

func (t *trackReader) vlq() (uint32, error) {
	v, n, err := ReadVLQ(t.data[t.pos:])
	t.pos += n
	if err != nil {
		return 0, fmt.Errorf("track %d offset %d: %w", t.track, t.pos, err)
	}
	return v, nil
}

// skip consumes n payload bytes.
func (t *trackReader) skip(n uint32) ([]byte, error) {
	if uint64(n) > uint64(len(t.data)-t.pos) {
		return nil, fmt.Errorf("%w: track %d payload of %d bytes", ErrTruncatedStream, t.track, n)
	}
	b := t.data[t.pos : t.pos+int(n)]
	t.pos += int(n)
	return b, nil
}

// extractTrack decodes one track body, appending the retained events to out
// with absolute ticks.
func extractTrack(data []byte, track uint16, out []Event) ([]Event, error) {
	t := &trackReader{data: data, track: track}
	for t.pos < len(t.data) {
		delta, err := t.vlq()
		if err != nil {
			return out, err
		}
		t.tick += uint64(delta)

		ev, keep, end, err := t.event()
		if err != nil {
			return out, err
		}
		if end {
			break
		}
		if keep {
			out = append(out, ev)
		}
	}
	return out, nil
}

// event reads one event after its delta time. keep is false for events that
// are consumed only to keep the cursor aligned; end is set on end-of-track.
func (t *trackReader) event() (ev Event, keep, end bool, err error) {
	c, err := t.byte()
	if err != nil {
		return ev, false, false, err
	}
	ev = Event{Tick: t.tick, Track: t.track}

	switch {
	case c == Meta:
		metaType, err := t.byte()
		if err != nil {
			return ev, false, false, err
		}
		length, err := t.vlq()
		if err != nil {
			return ev, false, false, err
		}
		payload, err := t.skip(length)
		if err != nil {
			return ev, false, false, err
		}
		switch metaType {
		case MetaEndOfTrack:
			return ev, false, true, nil
		case MetaTempo:
			if len(payload) < 3 {
				return ev, false, false, nil
			}
			ev.Type = Meta
			ev.MetaType = MetaTempo
			ev.Data = uint32(payload[0])<<16 | uint32(payload[1])<<8 | uint32(payload[2])
			return ev, true, false, nil
		}
		return ev, false, false, nil

	case c == SysEx || c == SysExEscape:
		length, err := t.vlq()
		if err != nil {
			return ev, false, false, err
		}
		_, err = t.skip(length)
		return ev, false, false, err

	case c > SysEx:
		return ev, false, false, fmt.Errorf("%w: track %d: status %#02x not allowed in a file", ErrMalformedTrack, t.track, c)
	}

	// Channel message. A data byte in status position reuses the running
	// status and is itself the first data byte.
	var data [2]uint8
	n := 0
	if c&0x80 != 0 {
		t.status = c
	} else {
		if t.status == 0 {
			return ev, false, false, fmt.Errorf("%w: track %d: data byte %#02x without running status", ErrMalformedTrack, t.track, c)
		}
		data[0] = c
		n = 1
	}
	for ; n < dataLength(t.status); n++ {
		if data[n], err = t.byte(); err != nil {
			return ev, false, false, err
		}
	}

	ev.Type = t.status
	switch t.status & 0xF0 {
	case NoteOn:
		if data[1] == 0 {
			ev.Type = NoteOff | t.status&0x0F
		}
	case NoteOff:
	default:
		return ev, false, false, nil
	}
	ev.Data = uint32(data[0])
	return ev, true, false, nil
}
