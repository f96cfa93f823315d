package midifile

// DefaultMaxOctave caps playable pitch; higher notes fold down by octaves.
const DefaultMaxOctave = 5

// noteFreq holds octave -1 (MIDI notes 0-11) in milli-Hz.
var noteFreq = [12]uint32{8175, 8660, 9175, 9725, 10300, 10915, 11560, 12250, 12980, 13750, 14570, 15435}

// Frequency returns the drive frequency of a MIDI note in milli-Hz. Notes
// above maxOctave are transposed down by whole octaves.
func Frequency(note uint8, maxOctave int) uint32 {
	if maxOctave < -1 {
		maxOctave = -1
	}
	note &= 0x7F
	octave := int(note)/12 - 1
	if octave > maxOctave {
		octave = maxOctave
	}
	return noteFreq[note%12] << uint(octave+1)
}
