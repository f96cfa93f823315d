package midifile

// Relative rewrites absolute ticks of sorted events into deltas from the
// previous event. The first event is relative to tick 0.
func Relative(events []Event) {
	var prev uint64
	for i := range events {
		abs := events[i].Tick
		events[i].Tick = abs - prev
		prev = abs
	}
}

// Durations converts delta-tick events into the playback queue. Metrical
// timing follows tempo events in order, starting at DefaultTempo; SMPTE
// timing ignores tempo. Fractions of a microsecond carry into the next gap
// so long pieces do not drift.
func Durations(events []Event, h Header, maxOctave int) []ScheduledNote {
	out := make([]ScheduledNote, 0, len(events))

	tempo := uint64(DefaultTempo)
	var (
		num, den uint64
		rem      uint64
	)
	if h.IsSMPTE() {
		fps := uint64(h.FramesPerSecond())
		num, den = 1000000, fps*uint64(h.SubFrames())
		if fps == 29 {
			// 29 means drop-frame 29.97
			num, den = 100000000, 2997*uint64(h.SubFrames())
		}
	} else {
		den = uint64(h.TicksPerQuarter())
	}

	for _, ev := range events {
		var total uint64
		if h.IsSMPTE() {
			total = ev.Tick*num + rem
		} else {
			total = tempo*ev.Tick + rem
		}
		n := ScheduledNote{
			DurationMicros: total / den,
			Type:           ev.Type,
			Track:          ev.Track,
		}
		rem = total % den

		switch {
		case ev.IsTempo():
			if ev.Data > 0 {
				tempo = uint64(ev.Data)
			}
		default:
			n.Note = ev.Note()
			n.FrequencyMilliHz = Frequency(n.Note, maxOctave)
		}
		out = append(out, n)
	}
	return out
}
