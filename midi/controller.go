package midi

// ControllerType identifies the kind of controller
type ControllerType int

const (
	ControllerUnknown ControllerType = iota
	ControllerEncoder
)

func (t ControllerType) String() string {
	switch t {
	case ControllerEncoder:
		return "encoder"
	default:
		return "unknown"
	}
}

// Controller is the interface for MIDI input devices that drive the menu
type Controller interface {
	ID() string
	Type() ControllerType

	// Lifecycle
	Close() error
}
