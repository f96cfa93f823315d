package midi

// Default controller mapping. Most USB encoder boxes send the knob as a
// relative CC and the push switch as a second CC or a note.
const (
	DefaultKnobCC   uint8 = 0x10
	DefaultButtonCC uint8 = 0x11
)

// Mapping says which incoming messages rotate the selection and which press
// the button. Any note-on with velocity > 0 also presses.
type Mapping struct {
	KnobCC   uint8
	ButtonCC uint8
}

// DefaultMapping returns the mapping used when the config does not set one
func DefaultMapping() Mapping {
	return Mapping{KnobCC: DefaultKnobCC, ButtonCC: DefaultButtonCC}
}

// RelativeDelta decodes a two's complement relative CC value: 1..63 turn
// clockwise, 65..127 turn counter-clockwise, 0 and 64 are no movement.
func RelativeDelta(value uint8) int {
	value &= 0x7F
	switch {
	case value == 0 || value == 64:
		return 0
	case value < 64:
		return int(value)
	default:
		return int(value) - 128
	}
}
