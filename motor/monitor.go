package motor

import "sync/atomic"

// ChannelStatus is a point-in-time view of one motor channel
type ChannelStatus struct {
	Frequency uint32 // milli-Hz of the last drive
	Running   bool
}

// Monitor mirrors motor state into atomics so the UI can read it while
// the scheduler writes.
type Monitor struct {
	next    Motor
	freq    []atomic.Uint32
	running []atomic.Bool
}

// NewMonitor wraps next and tracks channels channels.
func NewMonitor(next Motor, channels int) *Monitor {
	return &Monitor{
		next:    next,
		freq:    make([]atomic.Uint32, channels),
		running: make([]atomic.Bool, channels),
	}
}

func (m *Monitor) Drive(channel int, freq uint32) error {
	if err := checkChannel(channel, len(m.freq)); err != nil {
		return err
	}
	if err := m.next.Drive(channel, freq); err != nil {
		return err
	}
	m.freq[channel].Store(freq)
	return nil
}

func (m *Monitor) Run(channel int) error {
	if err := checkChannel(channel, len(m.running)); err != nil {
		return err
	}
	if err := m.next.Run(channel); err != nil {
		return err
	}
	m.running[channel].Store(true)
	return nil
}

func (m *Monitor) Stop(channel int) error {
	if err := checkChannel(channel, len(m.running)); err != nil {
		return err
	}
	m.running[channel].Store(false)
	return m.next.Stop(channel)
}

// Snapshot returns the state of every channel
func (m *Monitor) Snapshot() []ChannelStatus {
	out := make([]ChannelStatus, len(m.freq))
	for i := range out {
		out[i] = ChannelStatus{
			Frequency: m.freq[i].Load(),
			Running:   m.running[i].Load(),
		}
	}
	return out
}
