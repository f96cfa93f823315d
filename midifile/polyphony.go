package midifile

// DefaultPolyphonyThreshold is the average overlap, in ticks, above which a
// track counts as polyphonic.
const DefaultPolyphonyThreshold = 250000

// ClassifyPolyphony marks each track polyphonic when its notes overlap for
// longer than threshold ticks on average. events must be sorted with
// absolute ticks.
//
// For every note-on the matching note-off is found, and every other note-on
// of the same track starting before that note-off intersects it. The overlap
// of an intersection is (note-off tick - intersecting note-on tick).
func ClassifyPolyphony(events []Event, tracks int, threshold uint64) []bool {
	poly := make([]bool, tracks)

	byTrack := make([][]Event, tracks)
	for _, ev := range events {
		if int(ev.Track) < tracks && (ev.IsNoteOn() || ev.IsNoteOff()) {
			byTrack[ev.Track] = append(byTrack[ev.Track], ev)
		}
	}

	for track, notes := range byTrack {
		var sum, count uint64
		for i, on := range notes {
			if !on.IsNoteOn() {
				continue
			}
			off := matchingNoteOff(notes, i)
			if off < 0 {
				continue
			}
			offTick := notes[off].Tick
			for _, other := range notes[i+1 : off] {
				if other.IsNoteOn() && other.Tick < offTick {
					sum += offTick - other.Tick
					count++
				}
			}
		}
		if count > 0 && sum/count > threshold {
			poly[track] = true
		}
	}
	return poly
}

// matchingNoteOff returns the index of the first note-off after i with the
// same note and channel, or -1.
func matchingNoteOff(notes []Event, i int) int {
	on := notes[i]
	for j := i + 1; j < len(notes); j++ {
		n := notes[j]
		if n.IsNoteOff() && n.Note() == on.Note() && n.Channel() == on.Channel() {
			return j
		}
	}
	return -1
}
