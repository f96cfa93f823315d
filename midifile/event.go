package midifile

import "time"

// Status classes (upper nibble of a channel status byte)
const (
	NoteOff         uint8 = 0x80
	NoteOn          uint8 = 0x90
	PolyPressure    uint8 = 0xA0
	ControlChange   uint8 = 0xB0
	ProgramChange   uint8 = 0xC0
	ChannelPressure uint8 = 0xD0
	PitchBend       uint8 = 0xE0
)

// System and meta status bytes
const (
	SysEx       uint8 = 0xF0
	SysExEscape uint8 = 0xF7
	Meta        uint8 = 0xFF

	MetaEndOfTrack uint8 = 0x2F
	MetaTempo      uint8 = 0x51
)

// DefaultTempo is the MIDI default of 120 BPM in microseconds per quarter note.
const DefaultTempo = 500000

// Event is a normalized track event. Only note-on, note-off and tempo events
// survive extraction. Tick is absolute once the track has been read.
type Event struct {
	Tick     uint64
	Type     uint8 // status class | channel, or Meta
	MetaType uint8 // only meaningful when Type == Meta
	Data     uint32
	Track    uint16
}

// Class returns the status class with the channel nibble cleared.
func (e Event) Class() uint8 {
	if e.Type >= SysEx {
		return e.Type
	}
	return e.Type & 0xF0
}

// Channel returns the MIDI channel (0-15) of a channel event.
func (e Event) Channel() uint8 {
	return e.Type & 0x0F
}

func (e Event) IsNoteOn() bool  { return e.Class() == NoteOn }
func (e Event) IsNoteOff() bool { return e.Class() == NoteOff }
func (e Event) IsTempo() bool   { return e.Type == Meta && e.MetaType == MetaTempo }

// Note returns the note number of a note event.
func (e Event) Note() uint8 {
	return uint8(e.Data)
}

// ScheduledNote is one entry of the playback queue.
type ScheduledNote struct {
	DurationMicros   uint64 // real time since the previous entry
	FrequencyMilliHz uint32
	Type             uint8
	Track            uint16
	Note             uint8
}

// Wait returns the entry's delay as a time.Duration.
func (n ScheduledNote) Wait() time.Duration {
	return time.Duration(n.DurationMicros) * time.Microsecond
}

func (n ScheduledNote) Channel() uint8 {
	return n.Type & 0x0F
}

func (n ScheduledNote) IsNoteOn() bool  { return n.Type < SysEx && n.Type&0xF0 == NoteOn }
func (n ScheduledNote) IsNoteOff() bool { return n.Type < SysEx && n.Type&0xF0 == NoteOff }
func (n ScheduledNote) IsTempo() bool   { return n.Type == Meta }
