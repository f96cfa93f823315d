package motor

import "go-stepper/debug"

// Logged writes every command to the debug log before forwarding it.
type Logged struct {
	next Motor
}

// NewLogged wraps next. A nil next only logs.
func NewLogged(next Motor) *Logged {
	return &Logged{next: next}
}

func (l *Logged) Drive(channel int, freq uint32) error {
	debug.Log("motor", "drive ch=%d freq=%d.%03dHz", channel, freq/1000, freq%1000)
	if l.next == nil {
		return nil
	}
	return l.next.Drive(channel, freq)
}

func (l *Logged) Run(channel int) error {
	debug.Log("motor", "run ch=%d", channel)
	if l.next == nil {
		return nil
	}
	return l.next.Run(channel)
}

func (l *Logged) Stop(channel int) error {
	debug.Log("motor", "stop ch=%d", channel)
	if l.next == nil {
		return nil
	}
	return l.next.Stop(channel)
}
