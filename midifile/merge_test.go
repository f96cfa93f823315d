package midifile

import "testing"

func TestSortEventsTempoFirst(t *testing.T) {
	events := []Event{
		{Tick: 480, Type: 0x90, Data: 60, Track: 1},
		{Tick: 0, Type: 0x90, Data: 62, Track: 1},
		{Tick: 480, Type: Meta, MetaType: MetaTempo, Data: 250000, Track: 0},
		{Tick: 480, Type: 0x80, Data: 62, Track: 1},
	}
	SortEvents(events)

	want := []Event{
		{Tick: 0, Type: 0x90, Data: 62, Track: 1},
		{Tick: 480, Type: Meta, MetaType: MetaTempo, Data: 250000, Track: 0},
		{Tick: 480, Type: 0x90, Data: 60, Track: 1},
		{Tick: 480, Type: 0x80, Data: 62, Track: 1},
	}
	assertEvents(t, events, want)
}

func TestSortEventsKeepsTrackOrder(t *testing.T) {
	events := []Event{
		{Tick: 10, Type: 0x90, Data: 1, Track: 0},
		{Tick: 10, Type: 0x80, Data: 2, Track: 0},
		{Tick: 5, Type: 0x90, Data: 3, Track: 1},
		{Tick: 10, Type: 0x90, Data: 4, Track: 1},
	}
	SortEvents(events)

	var got []uint32
	for _, e := range events {
		got = append(got, e.Data)
	}
	want := []uint32{3, 1, 2, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got order %v, want %v", got, want)
		}
	}
}

func TestDecodeTempoTrackSortsFirst(t *testing.T) {
	// Format 1: the tempo lives in track 0, notes in track 1, both at tick 96.
	tempoTrack := cat(tempoEvent(96, 250000), endOfTrack)
	notes := cat(ev(0, 0x90, 60, 1), ev(96, 0x80, 60, 0), endOfTrack)
	_, events := decodeBytes(t, fileBytes(headerChunk(1, 2, 96), notes, tempoTrack))

	if len(events) != 3 {
		t.Fatalf("got %d events", len(events))
	}
	if !events[1].IsTempo() || events[1].Tick != 96 {
		t.Errorf("event 1: got %+v, want tempo at tick 96", events[1])
	}
}
