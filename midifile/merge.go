package midifile

import "sort"

// SortEvents orders merged events by absolute tick. At equal ticks a tempo
// event goes first so the time-base conversion sees it before the gap that
// follows. Other ties keep their track order.
func SortEvents(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.Tick != b.Tick {
			return a.Tick < b.Tick
		}
		return a.IsTempo() && !b.IsTempo()
	})
}
