package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"go-stepper/debug"
	"go-stepper/input"
	gsmidi "go-stepper/midi"
	"go-stepper/midifile"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	var err error
	switch os.Args[1] {
	case "dump":
		err = withFile(dumpFile)
	case "header":
		err = withFile(printHeader)
	case "compare":
		err = withFile(compareFile)
	case "list":
		listPorts()
	case "poll":
		pollEncoder(os.Args[2:])
	default:
		usage()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("SMF tools")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  dump <file>       - Print the playback schedule")
	fmt.Println("  header <file>     - Print the header chunk")
	fmt.Println("  compare <file>    - Cross-check event counts against gomidi/smf")
	fmt.Println("  list              - List all MIDI ports")
	fmt.Println("  poll [names...]   - Show encoder input from matching ports")
}

func withFile(fn func(path string) error) error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: smfdump %s <file>", os.Args[1])
	}
	return fn(os.Args[2])
}

func dumpFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	song, err := midifile.Parse(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return song.Dump(os.Stdout)
}

func printHeader(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	h, events, err := midifile.Decode(f)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	fmt.Printf("format:   %d\n", h.Format)
	fmt.Printf("tracks:   %d\n", h.Tracks)
	if h.IsSMPTE() {
		fmt.Printf("division: SMPTE %d fps, %d sub-frames\n", h.FramesPerSecond(), h.SubFrames())
	} else {
		fmt.Printf("division: %d ticks per quarter\n", h.TicksPerQuarter())
	}
	fmt.Printf("events:   %d\n", len(events))
	return nil
}

func compareFile(path string) error {
	ours, err := countOurs(path)
	if err != nil {
		return err
	}
	ref, err := countReference(path)
	if err != nil {
		return err
	}

	fmt.Printf("%-10s %8s %8s\n", "", "go-stepper", "gomidi")
	fmt.Printf("%-10s %8d %8d\n", "note-on", ours.NoteOns, ref.NoteOns)
	fmt.Printf("%-10s %8d %8d\n", "note-off", ours.NoteOffs, ref.NoteOffs)
	fmt.Printf("%-10s %8d %8d\n", "tempo", ours.Tempos, ref.Tempos)
	if ours != ref {
		return fmt.Errorf("%s: counts differ", path)
	}
	fmt.Println("ok")
	return nil
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	type result struct {
		ins  []drivers.In
		outs []drivers.Out
	}
	ch := make(chan result, 1)
	go func() {
		ins := midi.GetInPorts()
		outs := midi.GetOutPorts()
		ch <- result{ins: ins, outs: outs}
	}()

	select {
	case r := <-ch:
		for i, p := range r.ins {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
		fmt.Println("\n=== MIDI Output Ports ===")
		for i, p := range r.outs {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
	}
}

// pollEncoder binds matching inputs to a 16 entry list and prints every
// selection change and button press until interrupted.
func pollEncoder(patterns []string) {
	debug.EnableWriter(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	state := input.NewState(8, input.DefaultDebounce)
	state.SetLimit(16)
	dm := gsmidi.NewDeviceManager(patterns, gsmidi.DefaultMapping(), state)
	go dm.Run(ctx)

	fmt.Println("Turn the encoder or press its button. Ctrl+C to exit.")
	ticker := time.NewTicker(time.Second / 30)
	defer ticker.Stop()

	last := -1
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-dm.Events():
			if !ok {
				return
			}
			if ev.Type == gsmidi.DeviceConnected {
				fmt.Printf("[%s] connected %s\n", time.Now().Format("15:04:05"), ev.ID)
			} else {
				fmt.Printf("[%s] disconnected %s\n", time.Now().Format("15:04:05"), ev.ID)
			}
		case <-ticker.C:
			if sel := state.Selection(); sel != last {
				fmt.Printf("selection %2d page %d\n", sel, state.Page())
				last = sel
			}
			if state.TakePress() {
				fmt.Println("press")
			}
		}
	}
}
