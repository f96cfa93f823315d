package midi

import (
	"fmt"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"go-stepper/debug"
	"go-stepper/input"
)

// EncoderController turns a rotary encoder (or any controller with a knob)
// into selection and button updates on the shared input state. Messages are
// handled on gomidi's listener goroutine.
type EncoderController struct {
	id       string
	inPort   drivers.In
	stopFunc func()
	mapping  Mapping
	state    *input.State
	now      func() time.Time
}

// NewEncoderController listens on inPort. A nil port gives a controller that
// only reacts to messages passed to Handle.
func NewEncoderController(id string, inPort drivers.In, mapping Mapping, state *input.State) (*EncoderController, error) {
	ec := &EncoderController{
		id:      id,
		inPort:  inPort,
		mapping: mapping,
		state:   state,
		now:     time.Now,
	}

	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
			ec.Handle(msg)
		})
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		ec.stopFunc = stop
	}

	return ec, nil
}

// Handle applies one incoming message to the input state
func (ec *EncoderController) Handle(msg gomidi.Message) {
	var channel, controller, value, note, velocity uint8
	switch {
	case msg.GetControlChange(&channel, &controller, &value):
		switch controller {
		case ec.mapping.KnobCC:
			if delta := RelativeDelta(value); delta != 0 {
				ec.state.Rotate(delta, ec.now())
			}
		case ec.mapping.ButtonCC:
			if value >= 64 {
				ec.press()
			}
		}
	case msg.GetNoteOn(&channel, &note, &velocity) && velocity > 0:
		ec.press()
	}
}

func (ec *EncoderController) press() {
	if !ec.state.Press(ec.now()) {
		debug.Log("input", "%s: press ignored (debounce)", ec.id)
	}
}

func (ec *EncoderController) ID() string {
	return ec.id
}

func (ec *EncoderController) Type() ControllerType {
	return ControllerEncoder
}

func (ec *EncoderController) Close() error {
	if ec.stopFunc != nil {
		ec.stopFunc()
		ec.stopFunc = nil
	}
	return nil
}
